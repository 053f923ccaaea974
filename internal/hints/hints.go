// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2html/internal/fileutil"
)

// LookPath finds executables; replaced in tests.
var LookPath = exec.LookPath

// ForTemplateNotFound suggests how to point --template at an existing file.
// When the directory exists, it lists sibling templates as candidates.
func ForTemplateNotFound(path string) string {
	dir := filepath.Dir(path)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.html"))
	if len(matches) == 0 {
		return format("pass an existing file with -t/--template path/to/template.html")
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if fileutil.FileExists(m) {
			names = append(names, filepath.Base(m))
		}
	}
	if len(names) == 0 {
		return format("pass an existing file with -t/--template path/to/template.html")
	}
	return format("templates in " + dir + ": " + strings.Join(names, ", "))
}

// ForTemplateSyntax reminds which syntax each engine expects.
func ForTemplateSyntax(engine string) string {
	switch engine {
	case "django":
		return format("django templates use {{ title }} and {% include %}; use --engine go for {{.Title}} syntax")
	default:
		return format("go templates use {{.Title}} and {{template \"name\" .}}; use --engine django for {{ title }} syntax")
	}
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2html/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), ".config/go-md2html") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMissingRevision explains an empty revision when git is unavailable.
// Returns "" when git is on PATH: an empty revision then just means the
// file is untracked or outside a repository.
func ForMissingRevision() string {
	if _, err := LookPath("git"); err == nil {
		return ""
	}
	return format("git not found on PATH; revision left empty")
}

// ForEngine lists the accepted engine names.
func ForEngine(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available engines: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
