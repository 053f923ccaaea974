// Package md2html converts a Markdown document into a complete HTML5 page
// built from a user-supplied template.
//
// # Quick Start
//
//	conv, err := md2html.NewConverter(md2html.WithTemplate("page.html"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.ConvertFile(ctx, "notes.md")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.HTML)
//	for _, w := range result.Warnings {
//	    fmt.Fprintln(os.Stderr, w)
//	}
//
// # Conversion Pipeline
//
//  1. Front matter extraction (YAML, TOML or JSON)
//  2. Markdown preprocessing (line normalization, ==highlight== syntax)
//  3. Markdown to HTML via goldmark (GFM, footnotes, definition lists,
//     attributes, syntax highlighting)
//  4. Optional sanitization of raw HTML
//  5. Heading links and table of contents
//  6. Template rendering (html/template or Django syntax via pongo2)
//  7. Tidy: validation warnings and HTML5 pretty-printing
//
// # Template Variables
//
// Go templates see .Title, .Content, .TOC, .Modified, .Revision and .Meta;
// Django templates see the same names in lower case. Content and TOC are
// inserted unescaped.
//
// The title comes from Input.Title, then the front matter title, then the
// file name with underscores replaced by spaces. Modified is the conversion
// date (ISO by default, see WithDateFormat). Revision is the short hash of
// the last git commit touching the source file, or empty when unavailable.
//
// # Errors
//
// Errors wrap the sentinels in errors.go; test with errors.Is:
//
//	if errors.Is(err, md2html.ErrTemplateNotFound) {
//	    // ...
//	}
package md2html
