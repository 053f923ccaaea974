package pipeline

import (
	"context"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes unsafe markup from converted Markdown.
type Sanitizer interface {
	Sanitize(ctx context.Context, fragment string) string
}

// UGCSanitizer applies bluemonday's user-generated-content policy, widened
// for chroma and footnote classes, task-list checkboxes and <mark>. Heading
// ids already pass as UGC standard attributes.
type UGCSanitizer struct {
	policy *bluemonday.Policy
}

// NewUGCSanitizer builds the policy once; bluemonday policies are safe for
// concurrent use after construction.
func NewUGCSanitizer() *UGCSanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).Globally()
	p.AllowElements("mark")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowAttrs("role").OnElements("a", "li", "div")
	return &UGCSanitizer{policy: p}
}

// Sanitize returns the fragment with disallowed elements and attributes removed.
// A cancelled context yields an empty string, never unsanitized input.
func (s *UGCSanitizer) Sanitize(ctx context.Context, fragment string) string {
	if ctx.Err() != nil {
		return ""
	}
	return s.policy.Sanitize(fragment)
}
