// Package revision finds the source-control revision of a file.
//
// Lookups never fail: a missing git binary, a file outside a repository, an
// untracked file or a timeout all yield an empty revision.
package revision

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2html/internal/process"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 5 * time.Second

// Lookup returns the revision of the file at path, or "" when unknown.
type Lookup interface {
	Revision(ctx context.Context, path string) string
}

// Func adapts a function to Lookup.
type Func func(ctx context.Context, path string) string

// Revision calls f.
func (f Func) Revision(ctx context.Context, path string) string { return f(ctx, path) }

// Static always returns the same revision.
type Static string

// Revision returns s.
func (s Static) Revision(context.Context, string) string { return string(s) }

// Git resolves revisions with `git log`.
type Git struct {
	Binary  string
	Timeout time.Duration
}

var _ Lookup = (*Git)(nil)

// NewGit returns a Git lookup. A non-positive timeout uses DefaultTimeout.
func NewGit(timeout time.Duration) *Git {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Git{Binary: "git", Timeout: timeout}
}

// Revision returns the abbreviated hash of the last commit touching path.
// git runs in the file's directory so nested repositories resolve correctly.
func (g *Git) Revision(ctx context.Context, path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	cmd := process.Command(ctx, filepath.Dir(abs), g.binary(),
		"log", "-n", "1", "--pretty=format:%h", "--", filepath.Base(abs))
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (g *Git) binary() string {
	if g.Binary == "" {
		return "git"
	}
	return g.Binary
}

func (g *Git) timeout() time.Duration {
	if g.Timeout <= 0 {
		return DefaultTimeout
	}
	return g.Timeout
}
