package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var registerFiltersOnce sync.Once

// registerFilters adds typogrify and cssmin to pongo2's global filter table.
// pongo2 filters are process-wide, so this runs once.
func registerFilters() {
	registerFiltersOnce.Do(func() {
		filters := map[string]pongo2.FilterFunction{
			"typogrify": func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsSafeValue(Typogrify(in.String())), nil
			},
			"cssmin": func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsSafeValue(MinifyCSS(in.String())), nil
			},
		}
		for name, fn := range filters {
			if pongo2.FilterExists(name) {
				continue
			}
			_ = pongo2.RegisterFilter(name, fn)
		}
	})
}

// DjangoEngine renders Django-syntax templates with pongo2. Includes and
// extends resolve against the template's directory.
type DjangoEngine struct {
	tpl *pongo2.Template
}

// NewDjangoEngine loads the template at path.
func NewDjangoEngine(path string) (*DjangoEngine, error) {
	registerFilters()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("reading template: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving template path: %w", err)
	}

	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}
	set := pongo2.NewSet("md2html", loader)

	tpl, err := set.FromFile(filepath.Base(abs))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &DjangoEngine{tpl: tpl}, nil
}

// NewDjangoEngineFromString parses an in-memory template.
func NewDjangoEngineFromString(content string) (*DjangoEngine, error) {
	registerFilters()

	tpl, err := pongo2.FromString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	return &DjangoEngine{tpl: tpl}, nil
}

// Name reports the engine name.
func (e *DjangoEngine) Name() string { return EngineDjango }

// Render executes the template. content and toc are marked safe so
// autoescaping leaves them alone.
func (e *DjangoEngine) Render(ctx context.Context, data Data) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	meta := data.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	pctx := pongo2.Context{
		"title":    data.Title,
		"content":  pongo2.AsSafeValue(data.Content),
		"toc":      pongo2.AsSafeValue(data.TOC),
		"modified": data.Modified,
		"revision": data.Revision,
		"meta":     meta,
	}

	var buf bytes.Buffer
	if err := e.tpl.ExecuteWriter(pctx, &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}
