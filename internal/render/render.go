// Package render fills a page template with the converted document.
//
// Two engines are available: GoEngine (html/template) and DjangoEngine
// (pongo2). Both see the same variables: title, content, toc, modified,
// revision and meta.
package render

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel errors for template loading and rendering.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateParse    = errors.New("template parse failed")
	ErrTemplateRender   = errors.New("template rendering failed")
	ErrUnknownEngine    = errors.New("unknown template engine")
)

// Engine names.
const (
	EngineAuto   = "auto"
	EngineGo     = "go"
	EngineDjango = "django"
)

// djangoExtensions select DjangoEngine when the engine is "auto".
var djangoExtensions = map[string]bool{
	".django": true,
	".pongo2": true,
	".j2":     true,
	".jinja":  true,
	".jinja2": true,
}

// Data holds the values a page template can reference.
type Data struct {
	Title    string         // Plain text, escaped by the engine
	Content  string         // Trusted HTML of the converted document
	TOC      string         // Trusted HTML table of contents, may be empty
	Modified string         // Formatted date
	Revision string         // Short commit hash, empty when unknown
	Meta     map[string]any // Front matter keys not mapped to a field
}

// Renderer renders a page template.
type Renderer interface {
	Render(ctx context.Context, data Data) (string, error)
	Name() string
}

// ResolveEngine maps "auto" (or "") to a concrete engine by file extension.
func ResolveEngine(templatePath, engine string) (string, error) {
	switch strings.ToLower(engine) {
	case "", EngineAuto:
		if djangoExtensions[strings.ToLower(filepath.Ext(templatePath))] {
			return EngineDjango, nil
		}
		return EngineGo, nil
	case EngineGo:
		return EngineGo, nil
	case EngineDjango:
		return EngineDjango, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// New loads the template at path with the requested engine.
func New(path, engine string) (Renderer, error) {
	resolved, err := ResolveEngine(path, engine)
	if err != nil {
		return nil, err
	}
	if resolved == EngineDjango {
		return NewDjangoEngine(path)
	}
	return NewGoEngine(path)
}

// NewFromString builds a renderer from in-memory template content.
// With "auto", name's extension picks the engine as for files.
func NewFromString(name, content, engine string) (Renderer, error) {
	resolved, err := ResolveEngine(name, engine)
	if err != nil {
		return nil, err
	}
	if resolved == EngineDjango {
		return NewDjangoEngineFromString(content)
	}
	return NewGoEngineFromString(name, content)
}
