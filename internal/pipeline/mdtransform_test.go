package pipeline

import (
	"context"
	"testing"
)

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	mark := func(s string) string { return MarkStartPlaceholder + s + MarkEndPlaceholder }

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "crlf normalized", input: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "blank lines compressed", input: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "highlight", input: "some ==marked== text", want: "some " + mark("marked") + " text"},
		{name: "two highlights", input: "==a== and ==b==", want: mark("a") + " and " + mark("b")},
		{name: "empty markers ignored", input: "a ==== b", want: "a ==== b"},
		{
			name:  "fenced code untouched",
			input: "```go\nif a == b == c {}\n```\n==x==",
			want:  "```go\nif a == b == c {}\n```\n" + mark("x"),
		},
		{
			name:  "tilde fence untouched",
			input: "~~~\n==keep==\n~~~\n",
			want:  "~~~\n==keep==\n~~~\n",
		},
		{
			name:  "blank lines in fenced code kept",
			input: "```\na\n\n\n\nb\n```\n\n\n\nc",
			want:  "```\na\n\n\n\nb\n```\n\nc",
		},
		{
			name:  "code span untouched",
			input: "`x ==y== z` and ==w==",
			want:  "`x ==y== z` and " + mark("w"),
		},
		{
			name:  "double backtick span untouched",
			input: "``a ` ==b== `` ==c==",
			want:  "``a ` ==b== `` " + mark("c"),
		},
		{
			name:  "unclosed backtick is text",
			input: "a ` ==b==",
			want:  "a ` " + mark("b"),
		},
		{
			name:  "indented code untouched",
			input: "text\n\n    if a ==b== {}\n\n\n    ==c==\n\n==d==",
			want:  "text\n\n    if a ==b== {}\n\n\n    ==c==\n\n" + mark("d"),
		},
	}

	p := &CommonMarkPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.PreprocessMarkdown(context.Background(), tt.input)
			if got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "a\r\n==b=="
	if got := (&CommonMarkPreprocessor{}).PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("cancelled preprocessing should return input unchanged, got %q", got)
	}
}

func TestConvertMarkPlaceholders(t *testing.T) {
	t.Parallel()

	in := "<p>" + MarkStartPlaceholder + "hot" + MarkEndPlaceholder + "</p>"
	if got, want := ConvertMarkPlaceholders(in), "<p><mark>hot</mark></p>"; got != want {
		t.Errorf("ConvertMarkPlaceholders() = %q, want %q", got, want)
	}
}
