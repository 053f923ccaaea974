package md2html

import (
	"errors"

	"github.com/alnah/go-md2html/internal/dateutil"
	"github.com/alnah/go-md2html/internal/pipeline"
	"github.com/alnah/go-md2html/internal/render"
	"github.com/alnah/go-md2html/internal/tidy"
)

// Sentinel errors for library operations.
var (
	ErrReadMarkdown   = errors.New("reading markdown failed")
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// Template errors.
	ErrTemplateNotFound = render.ErrTemplateNotFound
	ErrTemplateParse    = render.ErrTemplateParse
	ErrTemplateRender   = render.ErrTemplateRender
	ErrInvalidEngine    = render.ErrUnknownEngine

	// Option validation errors.
	ErrInvalidTOCDepth    = errors.New("invalid TOC depth")
	ErrInvalidTidyOptions = tidy.ErrInvalidOptions
	ErrInvalidDateFormat  = dateutil.ErrInvalidDateFormat
)
