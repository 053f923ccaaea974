package md2html

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-md2html/internal/tidy"
)

// Input is a single Markdown document to convert.
type Input struct {
	Markdown   string // Markdown source, optionally with front matter
	SourcePath string // File the Markdown came from; used for the title fallback and revision lookup
	Title      string // Overrides front matter and file name
}

// TemplateVars are the values handed to the page template.
type TemplateVars struct {
	Title    string
	Content  string // Converted document body (HTML)
	TOC      string // Table of contents (HTML), "" when there are no headings
	Modified string // Formatted conversion date
	Revision string // Short commit hash of the source file, "" when unknown
	Meta     map[string]any
}

// Warning is a validation message produced by the tidy stage.
type Warning struct {
	Line    int
	Column  int
	Message string
}

func (w Warning) String() string {
	return tidy.Message{Line: w.Line, Column: w.Column, Text: w.Message}.String()
}

// Result holds the finished page and what went into it.
type Result struct {
	HTML     string
	Warnings []Warning
	Vars     TemplateVars
}

// TOC configures table of contents generation.
type TOC struct {
	Title    string // Optional heading rendered inside the TOC
	MinDepth int    // Shallowest heading level listed (1-6)
	MaxDepth int    // Deepest heading level listed (1-6)
}

// Validate checks depth bounds. A nil TOC is valid.
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MinDepth < 1 || t.MinDepth > 6 {
		return fmt.Errorf("%w: minDepth must be between 1 and 6, got %d", ErrInvalidTOCDepth, t.MinDepth)
	}
	if t.MaxDepth < 1 || t.MaxDepth > 6 {
		return fmt.Errorf("%w: maxDepth must be between 1 and 6, got %d", ErrInvalidTOCDepth, t.MaxDepth)
	}
	if t.MinDepth > t.MaxDepth {
		return fmt.Errorf("%w: minDepth (%d) cannot exceed maxDepth (%d)", ErrInvalidTOCDepth, t.MinDepth, t.MaxDepth)
	}
	return nil
}

// TidyOptions controls the final HTML cleanup.
type TidyOptions struct {
	Wrap   int  // Wrap column, 0 disables wrapping
	Indent int  // Spaces per nesting level
	XHTML  bool // Self-close void elements
}

// DefaultTidyOptions returns wrap 100 and indent 2.
func DefaultTidyOptions() TidyOptions {
	d := tidy.DefaultOptions()
	return TidyOptions{Wrap: d.Wrap, Indent: d.Indent, XHTML: d.XHTML}
}

func (o TidyOptions) toInternal() tidy.Options {
	return tidy.Options{Wrap: o.Wrap, Indent: o.Indent, XHTML: o.XHTML}
}

// RevisionLookup resolves the source-control revision of a file.
// Implementations return "" when the revision is unknown.
type RevisionLookup interface {
	Revision(ctx context.Context, path string) string
}

// Option configures a Converter.
type Option func(*Converter)

type converterConfig struct {
	templatePath    string
	templateName    string
	templateContent string
	engine          string
	title           string
	typographer     bool
	hardWraps       bool
	sanitize        bool
	toc             TOC
	anchorlink      bool
	permalink       bool
	tidy            *TidyOptions // nil skips the tidy stage
	date            string
}

// WithTemplate loads the page template from path.
func WithTemplate(path string) Option {
	return func(c *Converter) {
		c.cfg.templatePath = path
	}
}

// WithTemplateContent uses an in-memory page template. name picks the
// engine when the engine is "auto", as a file extension would.
func WithTemplateContent(name, content string) Option {
	return func(c *Converter) {
		c.cfg.templateName = name
		c.cfg.templateContent = content
	}
}

// WithEngine selects the template engine: "auto", "go" or "django".
func WithEngine(engine string) Option {
	return func(c *Converter) {
		c.cfg.engine = engine
	}
}

// WithTidy sets tidy layout options.
func WithTidy(opts TidyOptions) Option {
	return func(c *Converter) {
		c.cfg.tidy = &opts
	}
}

// WithoutTidy returns the rendered template unmodified.
func WithoutTidy() Option {
	return func(c *Converter) {
		c.cfg.tidy = nil
	}
}

// WithTOC sets TOC title and depth range. A nil TOC keeps the defaults.
func WithTOC(toc *TOC) Option {
	return func(c *Converter) {
		if toc != nil {
			c.cfg.toc = *toc
		}
	}
}

// WithHeadingLinks toggles the anchor link around heading text and the
// trailing permalink.
func WithHeadingLinks(anchorlink, permalink bool) Option {
	return func(c *Converter) {
		c.cfg.anchorlink = anchorlink
		c.cfg.permalink = permalink
	}
}

// WithTitle sets the page title for inputs that carry none, taking
// precedence over front matter and the file name.
func WithTitle(title string) Option {
	return func(c *Converter) {
		c.cfg.title = title
	}
}

// WithSanitize strips unsafe raw HTML from the converted Markdown.
func WithSanitize() Option {
	return func(c *Converter) {
		c.cfg.sanitize = true
	}
}

// WithTypographer enables smart quotes, dashes and ellipses.
func WithTypographer() Option {
	return func(c *Converter) {
		c.cfg.typographer = true
	}
}

// WithHardWraps renders newlines inside paragraphs as <br>.
func WithHardWraps() Option {
	return func(c *Converter) {
		c.cfg.hardWraps = true
	}
}

// WithRevisionLookup replaces the git lookup. nil disables revisions.
func WithRevisionLookup(l RevisionLookup) Option {
	return func(c *Converter) {
		c.revisions = l
	}
}

// WithClock sets the time source for the modified date.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDateFormat sets the modified date: "auto", "auto:FORMAT",
// "auto:preset" or a literal value.
func WithDateFormat(value string) Option {
	return func(c *Converter) {
		c.cfg.date = value
	}
}
