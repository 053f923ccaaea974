package pipeline

import (
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter holds the metadata block at the top of a Markdown document.
type FrontMatter struct {
	Title       string         `yaml:"title" toml:"title" json:"title"`
	Description string         `yaml:"description" toml:"description" json:"description"`
	Author      string         `yaml:"author" toml:"author" json:"author"`
	Date        string         `yaml:"date" toml:"date" json:"date"`
	Extra       map[string]any `yaml:",inline" toml:"-" json:"-"`
}

// SplitFrontMatter separates a leading YAML (---), TOML (+++) or JSON (;;;)
// block from the Markdown body. Documents without a block, or whose leading
// delimiter does not open a decodable block (a thematic break followed by a
// setext heading, say), are returned whole with found == false.
func SplitFrontMatter(content string) (meta FrontMatter, body string, found bool) {
	if !hasFrontMatterDelimiter(content) {
		return FrontMatter{}, content, false
	}

	rest, err := frontmatter.Parse(strings.NewReader(content), &meta)
	if err != nil {
		return FrontMatter{}, content, false
	}
	return meta, string(rest), true
}

func hasFrontMatterDelimiter(content string) bool {
	for _, delim := range []string{"---", "+++", ";;;"} {
		if strings.HasPrefix(content, delim+"\n") || strings.HasPrefix(content, delim+" \n") {
			return true
		}
	}
	return false
}
