package pipeline

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is a heading found in the converted document.
type Heading struct {
	Level int    // 1-6
	ID    string // anchor id
	Text  string // text content, tags stripped
}

// HeadingOptions configures heading decoration and TOC generation.
type HeadingOptions struct {
	MinDepth   int    // Shallowest heading level considered (default 1)
	MaxDepth   int    // Deepest heading level considered (default 6)
	Title      string // Optional title rendered inside the TOC
	Anchorlink bool   // Wrap heading content in <a class="toclink">
	Permalink  bool   // Append <a class="headerlink">¶</a>
}

// HeadingResult is the output of HeadingProcessor.Process.
type HeadingResult struct {
	HTML     string    // Fragment with decorated headings
	TOC      string    // Nested <div class="toc"> list, "" when no headings
	Headings []Heading // Headings in document order
}

// HeadingProcessor defines the contract for heading extraction and decoration.
type HeadingProcessor interface {
	Process(ctx context.Context, fragment string, opts HeadingOptions) (*HeadingResult, error)
}

// TOCBuilder walks headings with goquery, decorates them and builds a TOC.
type TOCBuilder struct{}

// NewTOCBuilder creates a TOCBuilder.
func NewTOCBuilder() *TOCBuilder {
	return &TOCBuilder{}
}

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Process extracts headings within [MinDepth, MaxDepth] that carry an id,
// decorates them as requested and renders the TOC. Headings outside the
// range or without an id are left untouched.
func (b *TOCBuilder) Process(ctx context.Context, fragment string, opts HeadingOptions) (*HeadingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	minDepth, maxDepth := normalizeDepth(opts.MinDepth, opts.MaxDepth)

	root, err := parseBodyFragment(fragment)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML fragment: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	var headings []Heading
	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		level := headingLevel(goquery.NodeName(s))
		if level < minDepth || level > maxDepth {
			return
		}
		id, ok := s.Attr("id")
		if !ok || id == "" {
			return
		}

		headings = append(headings, Heading{
			Level: level,
			ID:    id,
			Text:  strings.Join(strings.Fields(s.Text()), " "),
		})

		href := "#" + html.EscapeString(id)
		if opts.Anchorlink {
			s.WrapInnerHtml(`<a class="toclink" href="` + href + `"></a>`)
		}
		if opts.Permalink {
			s.AppendHtml(`<a class="headerlink" href="` + href + `" title="Permanent link">&para;</a>`)
		}
	})

	res := &HeadingResult{
		HTML:     fragment,
		TOC:      RenderTOC(headings, opts.Title),
		Headings: headings,
	}

	if len(headings) == 0 || (!opts.Anchorlink && !opts.Permalink) {
		return res, nil
	}

	body, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("rendering decorated headings: %w", err)
	}
	res.HTML = body
	return res, nil
}

// parseBodyFragment parses fragment in a <body> context so leading raw
// <style> or <meta> elements stay in place instead of moving to <head>.
func parseBodyFragment(fragment string) (*xhtml.Node, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

func normalizeDepth(minDepth, maxDepth int) (int, int) {
	if minDepth < 1 {
		minDepth = 1
	}
	if maxDepth < 1 || maxDepth > 6 {
		maxDepth = 6
	}
	return minDepth, maxDepth
}

func headingLevel(name string) int {
	if len(name) != 2 || name[0] != 'h' || name[1] < '1' || name[1] > '6' {
		return 0
	}
	return int(name[1] - '0')
}

// tocNode is a heading with the headings nested under it.
type tocNode struct {
	Heading
	children []*tocNode
}

// nestHeadings builds the TOC tree. A heading becomes the child of the
// nearest preceding heading with a smaller level, so skipped levels
// (h1 -> h3) nest one step rather than leaving empty lists.
func nestHeadings(headings []Heading) []*tocNode {
	var roots, stack []*tocNode
	for _, h := range headings {
		n := &tocNode{Heading: h}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
		}
		stack = append(stack, n)
	}
	return roots
}

// RenderTOC renders headings as a nested list inside <div class="toc">.
// Returns "" when there are no headings, rather than an empty
// <div class="toc"><ul></ul></div>, so templates can guard with {{if .TOC}}.
func RenderTOC(headings []Heading, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("<div class=\"toc\">\n")
	if title != "" {
		buf.WriteString(`<span class="toctitle">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString("</span>\n")
	}
	writeTOCList(&buf, nestHeadings(headings))
	buf.WriteString("</div>\n")
	return buf.String()
}

func writeTOCList(buf *strings.Builder, nodes []*tocNode) {
	buf.WriteString("<ul>\n")
	for _, n := range nodes {
		buf.WriteString(`<li><a href="#`)
		buf.WriteString(html.EscapeString(n.ID))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(n.Text))
		buf.WriteString("</a>")
		if len(n.children) > 0 {
			buf.WriteString("\n")
			writeTOCList(buf, n.children)
		}
		buf.WriteString("</li>\n")
	}
	buf.WriteString("</ul>\n")
}
