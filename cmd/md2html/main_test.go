package main

// Notes:
// - runMain is exercised end to end with real templates in temp dirs and a
//   static revision lookup; git itself is covered in internal/revision.
// - setupMaxProcs only adjusts GOMAXPROCS; its output is not asserted.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2html/internal/revision"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
{{.TOC}}
{{.Content}}
<footer>{{.Modified}} {{.Revision}}</footer>
</body>
</html>
`

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv() *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Now:       func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
			Stdout:    stdout,
			Stderr:    stderr,
			Revisions: revision.Static("1a2b3c4"),
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return dir
}

// ---------------------------------------------------------------------------
// TestRunMain - Successful Conversion
// ---------------------------------------------------------------------------

func TestRunMain_Converts(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html":        pageTemplate,
		"release_notes.md": "# Release\n\n## Fixes\n\nAll good.\n",
	})
	env := newTestEnv()

	code := runMain([]string{"md2html", filepath.Join(dir, "release_notes.md"), "-t", filepath.Join(dir, "page.html")}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, env.stderr)
	}

	out := env.stdout.String()
	for _, want := range []string{
		"<!DOCTYPE html>\n",
		"<title>release notes</title>",
		`<div class="toc">`,
		`<a href="#fixes">Fixes</a>`,
		`<a class="headerlink" href="#release" title="Permanent link">`,
		"<footer>2024-05-01 1a2b3c4</footer>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if env.stderr.Len() != 0 {
		t.Errorf("stderr should be empty, got:\n%s", env.stderr)
	}
}

func TestRunMain_WarningsToStderr(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html": "<html><body>{{.Content}}</body></html>",
		"doc.md":    "text\n",
	})

	env := newTestEnv()
	code := runMain([]string{"md2html", filepath.Join(dir, "doc.md"), "--template", filepath.Join(dir, "page.html")}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, env.stderr)
	}
	stderr := env.stderr.String()
	if !strings.Contains(stderr, "line 1 column 1 - Warning: missing <!DOCTYPE> declaration") {
		t.Errorf("doctype warning missing:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Warning: inserting missing 'title' element") {
		t.Errorf("title warning missing:\n%s", stderr)
	}
	if strings.Contains(env.stdout.String(), "Warning") {
		t.Error("warnings must not be written to stdout")
	}

	quiet := newTestEnv()
	code = runMain([]string{"md2html", "-q", filepath.Join(dir, "doc.md"), "-t", filepath.Join(dir, "page.html")}, quiet.Environment)
	if code != ExitSuccess || quiet.stderr.Len() != 0 {
		t.Errorf("--quiet: code = %d, stderr = %q", code, quiet.stderr)
	}
}

func TestRunMain_Flags(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.django": "<title>{{ title }}</title>{{ toc }}{{ content }}<p>{{ modified }}</p>",
		"doc.md":      "# One\n\n## Two\n\n<b>raw</b>\n",
	})

	env := newTestEnv()
	code := runMain([]string{"md2html", filepath.Join(dir, "doc.md"),
		"-t", filepath.Join(dir, "page.django"),
		"--no-tidy", "--no-permalink", "--no-anchorlink",
		"--title", "Custom", "--date", "auto:long",
		"--toc-min-depth", "2", "--toc-title", "Contents",
	}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, env.stderr)
	}

	out := env.stdout.String()
	want := `<title>Custom</title><div class="toc">` + "\n" +
		`<span class="toctitle">Contents</span>` + "\n<ul>\n" +
		`<li><a href="#two">Two</a></li>` + "\n</ul>\n</div>\n" +
		`<h1 id="one">One</h1>` + "\n" + `<h2 id="two">Two</h2>` + "\n" +
		"<p><b>raw</b></p>\n<p>May 1, 2024</p>"
	if out != want {
		t.Errorf("stdout =\n%s\nwant\n%s", out, want)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Exit Codes
// ---------------------------------------------------------------------------

func TestRunMain_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html":   "{{.Content}}",
		"broken.html": "{{if}}",
		"exec.html":   `{{template "missing" .}}`,
		"doc.md":      "# Doc\n",
	})
	md := filepath.Join(dir, "doc.md")
	tpl := filepath.Join(dir, "page.html")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"help", []string{"--help"}, ExitSuccess, ""},
		{"version", []string{"--version"}, ExitSuccess, ""},
		{"unknown flag", []string{md, "-t", tpl, "--bogus"}, ExitUsage, "invalid flag"},
		{"no input", []string{"-t", tpl}, ExitUsage, "no markdown file"},
		{"two inputs", []string{md, md, "-t", tpl}, ExitUsage, "only one markdown file"},
		{"no template", []string{md}, ExitUsage, "no template specified"},
		{"missing markdown", []string{filepath.Join(dir, "nope.md"), "-t", tpl}, ExitIO, "reading markdown failed"},
		{"missing template", []string{md, "-t", filepath.Join(dir, "nope.html")}, ExitIO, "template not found"},
		{"template syntax", []string{md, "-t", filepath.Join(dir, "broken.html")}, ExitRender, "template parse failed"},
		{"template execution", []string{md, "-t", filepath.Join(dir, "exec.html")}, ExitRender, "template rendering failed"},
		{"bad engine", []string{md, "-t", tpl, "--engine", "erb"}, ExitUsage, "invalid config"},
		{"bad toc depth", []string{md, "-t", tpl, "--toc-min-depth", "5", "--toc-max-depth", "2"}, ExitUsage, "invalid config"},
		{"bad date", []string{md, "-t", tpl, "--date", "auto:"}, ExitUsage, "invalid date format"},
		{"missing config", []string{md, "-t", tpl, "-c", filepath.Join(dir, "none.yaml")}, ExitUsage, "config file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv()
			code := runMain(append([]string{"md2html"}, tt.args...), env.Environment)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if tt.wantErr != "" && !strings.Contains(env.stderr.String(), tt.wantErr) {
				t.Errorf("stderr should contain %q, got:\n%s", tt.wantErr, env.stderr)
			}
		})
	}
}

func TestRunMain_MissingTemplateHint(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"doc.md":        "x",
		"themes/a.html": "{{.Content}}",
	})

	env := newTestEnv()
	code := runMain([]string{"md2html", filepath.Join(dir, "doc.md"), "-t", filepath.Join(dir, "themes", "b.html")}, env.Environment)
	if code != ExitIO {
		t.Fatalf("exit code = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(env.stderr.String(), "hint: templates in") || !strings.Contains(env.stderr.String(), "a.html") {
		t.Errorf("stderr should list sibling templates:\n%s", env.stderr)
	}
}

func TestRunMain_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html": "<p>{{.Modified}}</p>{{.Content}}",
		"doc.md":    "# Doc\n",
	})
	cfgPath := filepath.Join(dir, "md2html.yaml")
	cfg := "template: " + filepath.Join(dir, "page.html") + "\n" +
		"date: \"auto:DD/MM/YYYY\"\n" +
		"toc:\n  permalink: false\n  anchorlink: false\n" +
		"tidy:\n  enabled: false\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv()
	code := runMain([]string{"md2html", filepath.Join(dir, "doc.md"), "--config", cfgPath}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, env.stderr)
	}
	if got := env.stdout.String(); got != "<p>01/05/2024</p><h1 id=\"doc\">Doc</h1>\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunMain_NonMarkdownExtension(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html": "{{.Content}}",
		"notes.txt": "plain *text*\n",
	})
	env := newTestEnv()

	code := runMain([]string{"md2html", filepath.Join(dir, "notes.txt"), "-t", filepath.Join(dir, "page.html"), "--no-tidy"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, env.stderr)
	}
	if got := env.stdout.String(); got != "<p>plain <em>text</em></p>\n" {
		t.Errorf("stdout = %q", got)
	}
	if !strings.Contains(env.stderr.String(), "has no markdown extension") {
		t.Errorf("missing extension warning:\n%s", env.stderr)
	}
}

func TestRunMain_TitlePrecedence(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html":    "{{.Title}}",
		"fm_doc.md":    "---\ntitle: From Front Matter\n---\ntext\n",
		"plain_doc.md": "text\n",
		"site.yaml":    "title: From Config\n",
	})
	tpl := filepath.Join(dir, "page.html")
	cfg := filepath.Join(dir, "site.yaml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"file name", []string{filepath.Join(dir, "plain_doc.md")}, "plain doc"},
		{"front matter", []string{filepath.Join(dir, "fm_doc.md")}, "From Front Matter"},
		{"config over front matter", []string{filepath.Join(dir, "fm_doc.md"), "-c", cfg}, "From Config"},
		{"flag over config", []string{filepath.Join(dir, "fm_doc.md"), "-c", cfg, "--title", "From Flag"}, "From Flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv()
			args := append([]string{"md2html", "-t", tpl, "--no-tidy"}, tt.args...)
			if code := runMain(args, env.Environment); code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr:\n%s", code, env.stderr)
			}
			if got := env.stdout.String(); got != tt.want {
				t.Errorf("title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunMain_SanitizeNoWarnings(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"page.html": pageTemplate,
		"doc.md":    "# Setup\n\ntext\n\n## Usage\n\n<script>x()</script>\n",
	})
	env := newTestEnv()

	code := runMain([]string{"md2html", filepath.Join(dir, "doc.md"), "-t", filepath.Join(dir, "page.html"), "--sanitize"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, env.stderr)
	}
	if env.stderr.Len() != 0 {
		t.Errorf("stderr should be empty, got:\n%s", env.stderr)
	}
	out := env.stdout.String()
	if strings.Count(out, `id="setup"`) != 1 || strings.Contains(out, "<script>") {
		t.Errorf("unexpected sanitized output:\n%s", out)
	}
}
