package tidy

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var (
	voidElements = set("area", "base", "br", "col", "embed", "hr", "img", "input",
		"keygen", "link", "meta", "param", "source", "track", "wbr")

	// optionalEnd elements may legally omit their end tag.
	optionalEnd = set("html", "head", "body", "p", "li", "dt", "dd", "option",
		"optgroup", "rb", "rt", "rtc", "rp", "tr", "td", "th", "thead", "tbody",
		"tfoot", "colgroup", "caption")

	inlineElements = set("a", "abbr", "acronym", "audio", "b", "bdi", "bdo", "big",
		"br", "button", "canvas", "cite", "code", "data", "del", "dfn", "em", "embed",
		"font", "i", "iframe", "img", "input", "ins", "kbd", "label", "mark", "meter",
		"object", "output", "picture", "progress", "q", "rp", "rt", "ruby", "s", "samp",
		"select", "small", "source", "span", "strike", "strong", "sub", "sup",
		"textarea", "time", "tt", "u", "var", "video", "wbr")

	// verbatim elements are printed exactly as parsed.
	verbatim = set("pre", "listing", "textarea", "script", "style", "xmp",
		"plaintext", "iframe", "noembed", "noframes", "noscript", "select")

	// rawText children are unescaped character data.
	rawText = set("script", "style", "xmp", "plaintext", "iframe", "noembed",
		"noframes", "noscript")

	// leadingNewline elements drop a newline right after the start tag when
	// parsed, so one is re-added when their text starts with a newline.
	leadingNewline = set("pre", "listing", "textarea")

	obsolete = set("acronym", "applet", "basefont", "big", "blink", "center", "dir",
		"font", "frame", "frameset", "isindex", "marquee", "nobr", "noframes",
		"plaintext", "strike", "tt", "xmp")

	booleanAttrs = set("allowfullscreen", "async", "autofocus", "autoplay", "checked",
		"controls", "default", "defer", "disabled", "formnovalidate", "hidden",
		"inert", "ismap", "itemscope", "loop", "multiple", "muted", "nomodule",
		"novalidate", "open", "playsinline", "readonly", "required", "reversed",
		"selected")
)

// isInline reports whether n flows inside a line of text.
func isInline(n *html.Node) bool {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		return true
	case html.ElementNode:
		if n.Namespace != "" {
			return true
		}
		if !inlineElements[n.Data] {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !isInline(c) {
				return false
			}
		}
		return true
	}
	return false
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a && n.Namespace == "" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// ensureTitle appends an empty title to head when the document has none.
func ensureTitle(doc *html.Node) bool {
	if findElement(doc, atom.Title) != nil {
		return false
	}
	head := findElement(doc, atom.Head)
	if head == nil {
		return false
	}
	head.AppendChild(&html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title})
	return true
}

const xhtmlNamespace = "http://www.w3.org/1999/xhtml"

func ensureXMLNS(doc *html.Node) {
	root := findElement(doc, atom.Html)
	if root == nil {
		return
	}
	for _, a := range root.Attr {
		if a.Key == "xmlns" && a.Namespace == "" {
			return
		}
	}
	root.Attr = append([]html.Attribute{{Key: "xmlns", Val: xhtmlNamespace}}, root.Attr...)
}
