package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters so they
// survive goldmark and bluemonday untouched. ConvertMarkPlaceholders turns
// them into <mark> tags once the HTML fragment exists.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	highlightPattern = regexp.MustCompile(`==([^=\n]+?)==`)
	fencePattern     = regexp.MustCompile("^ {0,3}(```|~~~)")
	indentedCode     = regexp.MustCompile(`^( {4}|\t)`)
)

var markReplacer = strings.NewReplacer(
	MarkStartPlaceholder, "<mark>",
	MarkEndPlaceholder, "</mark>",
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before goldmark runs.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, marks ==highlights== and
// compresses runs of blank lines. Code blocks and code spans are left as
// written.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	return rewriteLines(NormalizeLineEndings(content))
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// rewriteLines walks the document line by line, tracking fenced and
// indented code. Outside code, a run of blank lines is kept as one and
// ==text== becomes placeholders.
func rewriteLines(content string) string {
	lines := strings.SplitAfter(content, "\n")
	out := make([]string, 0, len(lines))

	var fence string
	prevBlank, inIndented := false, false
	for _, line := range lines {
		if m := fencePattern.FindStringSubmatch(line); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case fence == m[1]:
				fence = ""
			}
			out = append(out, line)
			prevBlank, inIndented = false, false
			continue
		}
		if fence != "" {
			out = append(out, line)
			continue
		}

		blank := strings.TrimSpace(line) == "" && line != ""
		switch {
		case blank:
			if prevBlank && !inIndented {
				continue
			}
		case indentedCode.MatchString(line) && (prevBlank || inIndented || len(out) == 0):
			inIndented = true
		default:
			inIndented = false
			line = convertHighlights(line)
		}
		out = append(out, line)
		prevBlank = blank
	}
	return strings.Join(out, "")
}

// convertHighlights rewrites ==text== to placeholders on one line, skipping
// backtick code spans.
func convertHighlights(line string) string {
	if !strings.Contains(line, "==") {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))
	for {
		open := strings.IndexByte(line, '`')
		if open < 0 {
			b.WriteString(markText(line))
			return b.String()
		}
		n := backtickRun(line[open:])
		b.WriteString(markText(line[:open]))

		rest := line[open+n:]
		end := closingRun(rest, n)
		if end < 0 {
			b.WriteString(line[open : open+n])
			line = rest
			continue
		}
		b.WriteString(line[open : open+n+end+n])
		line = rest[end+n:]
	}
}

func markText(s string) string {
	return highlightPattern.ReplaceAllString(s, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

func backtickRun(s string) int {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	return n
}

// closingRun returns the offset of a backtick run of exactly n in s, or -1.
func closingRun(s string, n int) int {
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		run := backtickRun(s[i:])
		if run == n {
			return i
		}
		i += run
	}
	return -1
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return markReplacer.Replace(content)
}
