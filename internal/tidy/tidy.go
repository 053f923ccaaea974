// Package tidy validates an HTML document and re-emits it as indented,
// wrapped HTML5.
//
// Validation reports problems as Tidy-style messages with line and column.
// Formatting never changes document semantics: whitespace inside pre,
// textarea, script and style is kept verbatim, and inline content is only
// re-flowed at ASCII whitespace.
package tidy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Sentinel errors.
var (
	ErrInvalidOptions = errors.New("invalid tidy options")
	ErrParse          = errors.New("HTML parse failed")
)

// Option limits.
const (
	DefaultWrap   = 100
	DefaultIndent = 2
	MaxIndent     = 8
)

// Options controls output layout.
type Options struct {
	Wrap   int  // Wrap column, 0 disables wrapping
	Indent int  // Spaces per nesting level
	XHTML  bool // Self-close void elements and add the XHTML namespace
}

// DefaultOptions returns wrap 100, indent 2, HTML output.
func DefaultOptions() Options {
	return Options{Wrap: DefaultWrap, Indent: DefaultIndent}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Wrap < 0 {
		return fmt.Errorf("%w: wrap must be >= 0, got %d", ErrInvalidOptions, o.Wrap)
	}
	if o.Indent < 0 || o.Indent > MaxIndent {
		return fmt.Errorf("%w: indent must be between 0 and %d, got %d", ErrInvalidOptions, MaxIndent, o.Indent)
	}
	return nil
}

// Message is a validation warning at a 1-based source position.
type Message struct {
	Line   int
	Column int
	Text   string
}

func (m Message) String() string {
	return fmt.Sprintf("line %d column %d - Warning: %s", m.Line, m.Column, m.Text)
}

// Result holds the formatted document and the warnings found in the input.
type Result struct {
	HTML     string
	Messages []Message
}

// Tidy validates input and returns it pretty-printed.
func Tidy(ctx context.Context, input string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err := validate(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if ensureTitle(doc) {
		v.warn(v.headPos, "inserting missing 'title' element")
	}
	if opts.XHTML {
		ensureXMLNS(doc)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := newPrinter(opts)
	p.document(doc)

	messages := v.messages
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Line != messages[j].Line {
			return messages[i].Line < messages[j].Line
		}
		return messages[i].Column < messages[j].Column
	})

	return &Result{HTML: p.String(), Messages: messages}, nil
}
