package tidy

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type position struct {
	line, col int
}

type openElement struct {
	name string
	pos  position
}

type validator struct {
	pos            position
	prevCR         bool
	stack          []openElement
	ids            map[string]bool
	headPos        position
	sawHead        bool
	doctypeChecked bool
	messages       []Message
}

func (v *validator) warn(p position, format string, args ...any) {
	v.messages = append(v.messages, Message{Line: p.line, Column: p.col, Text: fmt.Sprintf(format, args...)})
}

// advance moves the cursor past raw. CRLF and lone CR count as one newline.
func (v *validator) advance(raw []byte) {
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		raw = raw[size:]
		switch {
		case r == '\n' && v.prevCR:
			v.prevCR = false
		case r == '\n' || r == '\r':
			v.pos.line++
			v.pos.col = 1
			v.prevCR = r == '\r'
		default:
			v.pos.col++
			v.prevCR = false
		}
	}
}

// validate scans the token stream and records structural warnings.
func validate(input string) (*validator, error) {
	v := &validator{
		pos:     position{1, 1},
		headPos: position{1, 1},
		ids:     make(map[string]bool),
	}

	z := html.NewTokenizer(strings.NewReader(input))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, z.Err()
		}

		start := v.pos
		v.advance(z.Raw())
		tok := z.Token()

		v.checkDoctype(tt, tok, start)

		switch tt {
		case html.StartTagToken:
			v.startTag(tok, start)
			if !voidElements[tok.Data] {
				v.stack = append(v.stack, openElement{name: tok.Data, pos: start})
			}
		case html.SelfClosingTagToken:
			v.startTag(tok, start)
		case html.EndTagToken:
			v.endTag(tok.Data, start)
		}
	}

	if !v.doctypeChecked {
		v.warn(position{1, 1}, "missing <!DOCTYPE> declaration")
	}
	for i := len(v.stack) - 1; i >= 0; i-- {
		if e := v.stack[i]; !optionalEnd[e.name] {
			v.warn(e.pos, "missing </%s>", e.name)
		}
	}
	return v, nil
}

func (v *validator) checkDoctype(tt html.TokenType, tok html.Token, at position) {
	if v.doctypeChecked {
		return
	}
	switch tt {
	case html.CommentToken:
		return
	case html.TextToken:
		if strings.TrimSpace(tok.Data) == "" {
			return
		}
	}
	v.doctypeChecked = true
	if tt != html.DoctypeToken {
		v.warn(at, "missing <!DOCTYPE> declaration")
	}
}

func (v *validator) startTag(tok html.Token, at position) {
	name := tok.Data
	if (name == "head" || name == "body") && !v.sawHead {
		v.sawHead = true
		v.headPos = at
	}
	if obsolete[name] {
		v.warn(at, "<%s> element is obsolete", name)
	}

	hasAlt := false
	for _, a := range tok.Attr {
		switch a.Key {
		case "alt":
			hasAlt = true
		case "id":
			if a.Val == "" {
				continue
			}
			if v.ids[a.Val] {
				v.warn(at, "<%s> anchor %q already defined", name, a.Val)
			}
			v.ids[a.Val] = true
		}
	}
	if name == "img" && !hasAlt {
		v.warn(at, `<img> lacks "alt" attribute`)
	}
}

func (v *validator) endTag(name string, at position) {
	for i := len(v.stack) - 1; i >= 0; i-- {
		if v.stack[i].name != name {
			continue
		}
		for j := len(v.stack) - 1; j > i; j-- {
			if e := v.stack[j]; !optionalEnd[e.name] {
				v.warn(e.pos, "missing </%s>", e.name)
			}
		}
		v.stack = v.stack[:i]
		return
	}
	v.warn(at, "discarding unexpected </%s>", name)
}
