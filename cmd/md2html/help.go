package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2html <markdown-file> -t <template-file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a markdown file to a tidy HTML5 page. The page is written to")
	fmt.Fprintln(w, "stdout; tidy warnings are written to stderr.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template:")
	fmt.Fprintln(w, "  -t, --template <path>     Page template file (required)")
	fmt.Fprintln(w, "      --engine <s>          Engine: auto, go, django (default: auto)")
	fmt.Fprintln(w, "                            auto picks django for .django .pongo2 .j2 .jinja .jinja2")
	fmt.Fprintln(w, "                            Variables: title, content, toc, modified, revision, meta")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Page title (default: front matter, then file name)")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, dddd, ddd")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, full")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Updated] YYYY")
	fmt.Fprintln(w, "      --sanitize            Strip unsafe raw HTML from the markdown")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc-title <s>       Title inside the TOC")
	fmt.Fprintln(w, "      --toc-min-depth <n>   Min heading depth (1-6)")
	fmt.Fprintln(w, "      --toc-max-depth <n>   Max heading depth (1-6)")
	fmt.Fprintln(w, "      --no-permalink        Do not append a ¶ link to headings")
	fmt.Fprintln(w, "      --no-anchorlink       Do not link heading text to itself")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tidy:")
	fmt.Fprintln(w, "      --wrap <n>            Wrap column (0 = never)")
	fmt.Fprintln(w, "      --indent <n>          Spaces per indent level (0-8)")
	fmt.Fprintln(w, "      --xhtml               Self-close void elements")
	fmt.Fprintln(w, "      --no-tidy             Print the rendered template as is")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Suppress tidy warnings")
	fmt.Fprintln(w, "  -v, --verbose             Show timing details")
	fmt.Fprintln(w, "      --print-config        Print the merged configuration as YAML")
	fmt.Fprintln(w, "      --version             Print version")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2HTML_CONFIG, MD2HTML_TEMPLATE, MD2HTML_ENGINE, MD2HTML_DATE, MD2HTML_WRAP")
	fmt.Fprintln(w, "  Values may also come from a .env file in the working directory.")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 1 error, 2 usage, 3 file not found, 4 template error")
}
