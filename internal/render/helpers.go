package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// typographer renders plain text through goldmark's typographer extension.
var typographer = goldmark.New(goldmark.WithExtensions(extension.Typographer))

var cssMinifier = func() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	return m
}()

// Characters the typographer rewrites; every other ASCII punctuation mark is
// backslash-escaped so the text cannot turn into emphasis, links or HTML.
const typographicPunct = `'".-`

var (
	orderedListStart = regexp.MustCompile(`^(\d+)([.)])`)
	bulletStart      = regexp.MustCompile(`^-(\s|$)`)
)

// Typogrify applies smart quotes, dashes and ellipses to plain text and
// returns escaped HTML. Line breaks are folded into spaces.
func Typogrify(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := typographer.Convert([]byte(escapeMarkdown(text)), &buf); err != nil {
		return escapeText(text)
	}

	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	return strings.TrimSuffix(out, "</p>")
}

func escapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isASCIIPunct(c) && !strings.ContainsRune(typographicPunct, rune(c)) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	s := b.String()
	s = orderedListStart.ReplaceAllString(s, `$1\$2`)
	if isDashRule(s) {
		return `\` + s
	}
	return bulletStart.ReplaceAllString(s, `\-$1`)
}

// isDashRule reports whether s would parse as a "---" thematic break.
func isDashRule(s string) bool {
	return strings.Count(s, "-") >= 3 && strings.Trim(s, "- \t") == ""
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// MinifyCSS minifies a stylesheet, returning the input unchanged when it
// does not parse.
func MinifyCSS(stylesheet string) string {
	out, err := cssMinifier.String("text/css", stylesheet)
	if err != nil {
		return stylesheet
	}
	return out
}
