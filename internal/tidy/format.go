package tidy

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type printer struct {
	opts Options
	buf  strings.Builder
}

func newPrinter(opts Options) *printer {
	return &printer{opts: opts}
}

func (p *printer) String() string { return p.buf.String() }

func (p *printer) indent(depth int) string {
	return strings.Repeat(" ", depth*p.opts.Indent)
}

func (p *printer) line(depth int, s string) {
	p.buf.WriteString(p.indent(depth))
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *printer) fits(depth int, s string) bool {
	if strings.ContainsAny(s, "\n\r") {
		return false
	}
	return p.opts.Wrap == 0 || depth*p.opts.Indent+utf8.RuneCountInString(s) <= p.opts.Wrap
}

// document always emits an HTML5 doctype, whatever the input declared.
func (p *printer) document(doc *html.Node) {
	p.buf.WriteString("<!DOCTYPE html>\n")
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			p.block(c, 0)
		case html.CommentNode:
			p.line(0, "<!--"+c.Data+"-->")
		}
	}
}

func (p *printer) block(n *html.Node, depth int) {
	switch {
	case voidElements[n.Data]:
		p.line(depth, p.startTag(n))
		return
	case verbatim[n.Data] || n.Namespace != "":
		var b strings.Builder
		p.raw(&b, n)
		p.line(depth, b.String())
		return
	}

	open, end := p.startTag(n), "</"+n.Data+">"

	switch n.Data {
	case "html":
		p.line(depth, open)
		p.children(n, depth)
		p.line(depth, end)
		return
	case "head", "body":
		p.line(depth, open)
		p.children(n, depth+1)
		p.line(depth, end)
		return
	}

	if !allInline(n) {
		p.line(depth, open)
		p.children(n, depth+1)
		p.line(depth, end)
		return
	}

	words := p.words(n.FirstChild, nil)
	if len(words) == 0 {
		p.line(depth, open+end)
		return
	}
	if one := open + joinWords(words) + end; !hasBreak(words) && p.fits(depth, one) {
		p.line(depth, one)
		return
	}
	p.line(depth, open)
	p.wrap(depth+1, words)
	p.line(depth, end)
}

func allInline(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !isInline(c) {
			return false
		}
	}
	return true
}

// children prints block children on their own lines and groups runs of
// inline siblings into wrapped paragraphs.
func (p *printer) children(n *html.Node, depth int) {
	var first, last *html.Node
	flush := func() {
		if first != nil {
			p.wrap(depth, p.words(first, last.NextSibling))
			first, last = nil, nil
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isInline(c) {
			if first == nil {
				first = c
			}
			last = c
			continue
		}
		flush()
		if c.Type == html.ElementNode {
			p.block(c, depth)
		}
	}
	flush()
}

type word struct {
	text  string
	brk   bool // line break after this word
	width int
}

type wordBuilder struct {
	words []word
	cur   strings.Builder
}

func (b *wordBuilder) flush() {
	if b.cur.Len() == 0 {
		return
	}
	s := b.cur.String()
	b.words = append(b.words, word{text: s, width: utf8.RuneCountInString(s)})
	b.cur.Reset()
}

func (b *wordBuilder) text(s string) {
	for _, r := range s {
		if isSpace(r) {
			b.flush()
			continue
		}
		b.cur.WriteString(escapeRune(r))
	}
}

func (b *wordBuilder) atom(s string) { b.cur.WriteString(s) }

func (b *wordBuilder) lineBreak() {
	b.flush()
	if n := len(b.words); n > 0 {
		b.words[n-1].brk = true
	}
}

// words splits the sibling range [from, to) into unbreakable words.
func (p *printer) words(from, to *html.Node) []word {
	b := &wordBuilder{}
	for c := from; c != to; c = c.NextSibling {
		p.inline(b, c)
	}
	b.flush()
	return b.words
}

func (p *printer) inline(b *wordBuilder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.text(n.Data)
	case html.CommentNode:
		b.atom("<!--" + n.Data + "-->")
	case html.ElementNode:
		if n.Namespace != "" || verbatim[n.Data] {
			var s strings.Builder
			p.raw(&s, n)
			b.atom(s.String())
			return
		}
		b.atom(p.startTag(n))
		if voidElements[n.Data] {
			if n.Data == "br" {
				b.lineBreak()
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.inline(b, c)
		}
		b.atom("</" + n.Data + ">")
	}
}

func (p *printer) wrap(depth int, words []word) {
	if len(words) == 0 {
		return
	}
	prefix := p.indent(depth)
	var line strings.Builder
	width := 0
	emit := func() {
		if line.Len() > 0 {
			p.buf.WriteString(prefix)
			p.buf.WriteString(line.String())
			p.buf.WriteByte('\n')
			line.Reset()
			width = 0
		}
	}
	for _, w := range words {
		switch {
		case line.Len() == 0:
		case p.opts.Wrap > 0 && len(prefix)+width+1+w.width > p.opts.Wrap:
			emit()
		default:
			line.WriteByte(' ')
			width++
		}
		line.WriteString(w.text)
		width += w.width
		if w.brk {
			emit()
		}
	}
	emit()
}

func joinWords(words []word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.text
	}
	return strings.Join(parts, " ")
}

func hasBreak(words []word) bool {
	for _, w := range words {
		if w.brk {
			return true
		}
	}
	return false
}

// raw writes n and its subtree without re-flowing whitespace.
func (p *printer) raw(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && n.Parent.Type == html.ElementNode && rawText[n.Parent.Data] {
			b.WriteString(n.Data)
		} else {
			b.WriteString(escapeText(n.Data))
		}
		return
	case html.CommentNode:
		b.WriteString("<!--" + n.Data + "-->")
		return
	case html.ElementNode:
	default:
		return
	}

	if n.Namespace != "" && n.FirstChild == nil {
		b.WriteString(strings.TrimSuffix(p.openTag(n), ">") + "/>")
		return
	}
	b.WriteString(p.startTag(n))
	if voidElements[n.Data] && n.Namespace == "" {
		return
	}
	if leadingNewline[n.Data] && n.FirstChild != nil && n.FirstChild.Type == html.TextNode &&
		strings.HasPrefix(n.FirstChild.Data, "\n") {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.raw(b, c)
	}
	b.WriteString("</" + n.Data + ">")
}

// startTag renders a start tag, self-closing void elements in XHTML mode.
func (p *printer) startTag(n *html.Node) string {
	s := p.openTag(n)
	if p.opts.XHTML && voidElements[n.Data] && n.Namespace == "" {
		return strings.TrimSuffix(s, ">") + " />"
	}
	return s
}

func (p *printer) openTag(n *html.Node) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(a.Key)
		if a.Val == "" && booleanAttrs[a.Key] {
			if p.opts.XHTML {
				b.WriteString(`="` + a.Key + `"`)
			}
			continue
		}
		b.WriteString(`="`)
		b.WriteString(escapeAttr(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func escapeRune(r rune) string {
	switch r {
	case '&':
		return "&amp;"
	case '<':
		return "&lt;"
	case '>':
		return "&gt;"
	case '\u00a0':
		return "&nbsp;"
	}
	return string(r)
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "\u00a0", "&nbsp;")
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
