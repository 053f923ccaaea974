package md2html

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-md2html/internal/dateutil"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/pipeline"
	"github.com/alnah/go-md2html/internal/render"
	"github.com/alnah/go-md2html/internal/revision"
	"github.com/alnah/go-md2html/internal/tidy"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.Sanitizer            = (*pipeline.UGCSanitizer)(nil)
	_ pipeline.HeadingProcessor     = (*pipeline.TOCBuilder)(nil)
	_ render.Renderer               = (*render.GoEngine)(nil)
	_ render.Renderer               = (*render.DjangoEngine)(nil)
	_ RevisionLookup                = (*revision.Git)(nil)
)

// Converter turns one Markdown document into a complete HTML page.
// A Converter is safe for concurrent use once built.
type Converter struct {
	cfg           converterConfig
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	sanitizer     pipeline.Sanitizer
	headings      pipeline.HeadingProcessor
	renderer      render.Renderer
	revisions     RevisionLookup
	now           func() time.Time
}

// NewConverter builds a Converter. A template is required, through
// WithTemplate or WithTemplateContent; it is loaded and parsed here so
// template errors surface before any document is read.
func NewConverter(opts ...Option) (*Converter, error) {
	defaultTidy := DefaultTidyOptions()
	c := &Converter{
		cfg: converterConfig{
			engine:     render.EngineAuto,
			toc:        TOC{MinDepth: 1, MaxDepth: 6},
			anchorlink: true,
			permalink:  true,
			tidy:       &defaultTidy,
			date:       "auto",
		},
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		headings:     pipeline.NewTOCBuilder(),
		revisions:    revision.NewGit(revision.DefaultTimeout),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	c.htmlConverter = pipeline.NewGoldmarkConverter(pipeline.MarkdownOptions{
		Typographer: c.cfg.typographer,
		HardWraps:   c.cfg.hardWraps,
	})
	if c.cfg.sanitize {
		c.sanitizer = pipeline.NewUGCSanitizer()
	}

	r, err := c.loadRenderer()
	if err != nil {
		return nil, err
	}
	c.renderer = r

	return c, nil
}

func (c *Converter) validate() error {
	if c.cfg.templatePath == "" && c.cfg.templateContent == "" {
		return fmt.Errorf("%w: no template configured", ErrTemplateNotFound)
	}
	if _, err := render.ResolveEngine(c.cfg.templatePath, c.cfg.engine); err != nil {
		return err
	}
	if err := c.cfg.toc.Validate(); err != nil {
		return err
	}
	if c.cfg.tidy != nil {
		if err := c.cfg.tidy.toInternal().Validate(); err != nil {
			return err
		}
	}
	if _, err := dateutil.ResolveDate(c.cfg.date, c.now()); err != nil {
		return err
	}
	return nil
}

func (c *Converter) loadRenderer() (render.Renderer, error) {
	if c.cfg.templatePath != "" {
		r, err := render.New(c.cfg.templatePath, c.cfg.engine)
		if err != nil {
			return nil, fmt.Errorf("loading template %q: %w", c.cfg.templatePath, err)
		}
		return r, nil
	}
	r, err := render.NewFromString(c.cfg.templateName, c.cfg.templateContent, c.cfg.engine)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	return r, nil
}

// Engine reports the template engine in use ("go" or "django").
func (c *Converter) Engine() string {
	return c.renderer.Name()
}

// Convert runs the pipeline: front matter, Markdown, headings and TOC,
// template, tidy. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, body, _ := pipeline.SplitFrontMatter(pipeline.NormalizeLineEndings(input.Markdown))

	// Preprocess markdown
	mdContent := c.preprocessor.PreprocessMarkdown(ctx, body)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Convert to HTML
	fragment, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}
	fragment = pipeline.ConvertMarkPlaceholders(fragment)

	if c.sanitizer != nil {
		fragment = c.sanitizer.Sanitize(ctx, fragment)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	// Decorate headings and build the TOC
	headings, err := c.headings.Process(ctx, fragment, pipeline.HeadingOptions{
		MinDepth:   c.cfg.toc.MinDepth,
		MaxDepth:   c.cfg.toc.MaxDepth,
		Title:      c.cfg.toc.Title,
		Anchorlink: c.cfg.anchorlink,
		Permalink:  c.cfg.permalink,
	})
	if err != nil {
		return nil, fmt.Errorf("processing headings: %w", err)
	}

	modified, err := dateutil.ResolveDate(c.cfg.date, c.now())
	if err != nil {
		return nil, err
	}

	vars := TemplateVars{
		Title:    resolveTitle(input, c.cfg.title, meta),
		Content:  headings.HTML,
		TOC:      headings.TOC,
		Modified: modified,
		Revision: c.lookupRevision(ctx, input.SourcePath),
		Meta:     buildMeta(meta),
	}

	page, err := c.renderer.Render(ctx, render.Data{
		Title:    vars.Title,
		Content:  vars.Content,
		TOC:      vars.TOC,
		Modified: vars.Modified,
		Revision: vars.Revision,
		Meta:     vars.Meta,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	res := &Result{HTML: page, Vars: vars}
	if c.cfg.tidy == nil {
		return res, nil
	}

	tidied, err := tidy.Tidy(ctx, page, c.cfg.tidy.toInternal())
	if err != nil {
		return nil, fmt.Errorf("tidying HTML: %w", err)
	}
	res.HTML = tidied.HTML
	res.Warnings = toWarnings(tidied.Messages)
	return res, nil
}

// ConvertFile reads the Markdown file at path and converts it.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Result, error) {
	content, err := fileutil.ReadLimited(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}
	return c.Convert(ctx, Input{Markdown: string(content), SourcePath: path})
}

func (c *Converter) lookupRevision(ctx context.Context, path string) string {
	if c.revisions == nil || path == "" {
		return ""
	}
	return c.revisions.Revision(ctx, path)
}

// resolveTitle picks the input title, then the configured title, then the
// front matter title, then the file name.
func resolveTitle(input Input, configured string, meta pipeline.FrontMatter) string {
	switch {
	case input.Title != "":
		return input.Title
	case configured != "":
		return configured
	case meta.Title != "":
		return meta.Title
	case input.SourcePath != "":
		return fileutil.TitleFromPath(input.SourcePath)
	}
	return ""
}

// buildMeta flattens front matter into the map templates see as meta.
func buildMeta(fm pipeline.FrontMatter) map[string]any {
	meta := make(map[string]any, len(fm.Extra)+4)
	for k, v := range fm.Extra {
		meta[k] = v
	}
	for k, v := range map[string]string{
		"title":       fm.Title,
		"description": fm.Description,
		"author":      fm.Author,
		"date":        fm.Date,
	} {
		if v != "" {
			meta[k] = v
		}
	}
	return meta
}

func toWarnings(messages []tidy.Message) []Warning {
	if len(messages) == 0 {
		return nil
	}
	out := make([]Warning, len(messages))
	for i, m := range messages {
		out[i] = Warning{Line: m.Line, Column: m.Column, Message: m.Text}
	}
	return out
}
