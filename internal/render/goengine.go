package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// partialPatterns are the files parsed alongside the main template, so that
// {{template "_header.html" .}} resolves relative to the template directory.
var partialPatterns = []string{"_*.html", "_*.tmpl", "partials/*.html", "partials/*.tmpl"}

// GoEngine renders html/template page templates.
type GoEngine struct {
	name string
	tmpl *template.Template
}

// goPageData is what html/template sees. Content and TOC are marked trusted
// so they are emitted unescaped.
type goPageData struct {
	Title    string
	Content  template.HTML
	TOC      template.HTML
	Modified string
	Revision string
	Meta     map[string]any
}

// Funcs returns the helpers available to Go page templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"typogrify": func(s string) template.HTML { return template.HTML(Typogrify(s)) }, // #nosec G203 -- output is escaped by goldmark
		"css":       func(s string) template.CSS { return template.CSS(MinifyCSS(s)) },   // #nosec G203 -- stylesheet comes from the template author
		"safe":      func(s string) template.HTML { return template.HTML(s) },            // #nosec G203 -- explicit opt-in by the template author
	}
}

// NewGoEngine parses the template at path plus any partials beside it.
func NewGoEngine(path string) (*GoEngine, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided template path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("reading template: %w", err)
	}

	name := filepath.Base(path)
	tmpl, err := template.New(name).Funcs(Funcs()).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	partials, err := findPartials(filepath.Dir(path), filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	for _, p := range partials {
		body, err := os.ReadFile(p) // #nosec G304 -- sibling of the user template
		if err != nil {
			return nil, fmt.Errorf("reading partial: %w", err)
		}
		rel, _ := filepath.Rel(filepath.Dir(path), p)
		if _, err := tmpl.New(filepath.ToSlash(rel)).Parse(string(body)); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, rel, err)
		}
	}

	return &GoEngine{name: name, tmpl: tmpl}, nil
}

// NewGoEngineFromString parses a template held in memory. No partials.
func NewGoEngineFromString(name, content string) (*GoEngine, error) {
	tmpl, err := template.New(name).Funcs(Funcs()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &GoEngine{name: name, tmpl: tmpl}, nil
}

func findPartials(dir, main string) ([]string, error) {
	var out []string
	for _, pattern := range partialPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("listing partials: %w", err)
		}
		for _, m := range matches {
			if filepath.Clean(m) != main {
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Name reports the engine name.
func (e *GoEngine) Name() string { return EngineGo }

// Render executes the main template.
func (e *GoEngine) Render(ctx context.Context, data Data) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page := goPageData{
		Title:    data.Title,
		Content:  template.HTML(data.Content), // #nosec G203 -- produced by the pipeline
		TOC:      template.HTML(data.TOC),     // #nosec G203 -- produced by the pipeline
		Modified: data.Modified,
		Revision: data.Revision,
		Meta:     data.Meta,
	}

	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, e.name, page); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}
