package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags that control the CLI itself.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	version bool

	printConfig bool
}

// templateFlags holds page template flags.
type templateFlags struct {
	path   string
	engine string
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title string
	date  string
}

// tocFlags holds table of contents and heading link flags.
type tocFlags struct {
	title        string
	minDepth     int
	maxDepth     int
	noPermalink  bool
	noAnchorlink bool
}

// tidyFlags holds HTML cleanup flags.
type tidyFlags struct {
	wrap     int
	indent   int
	xhtml    bool
	disabled bool
}

// cliFlags holds every flag of the md2html command.
type cliFlags struct {
	common   commonFlags
	template templateFlags
	document documentFlags
	toc      tocFlags
	tidy     tidyFlags
	sanitize bool
	changed  func(name string) bool // Reports flags set on the command line
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress tidy warnings")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing details")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the merged configuration and exit")
}

// addTemplateFlags adds template flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVarP(&f.path, "template", "t", "", "page template file")
	fs.StringVar(&f.engine, "engine", "", "template engine: auto, go, django")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "page title (default: front matter or file name)")
	fs.StringVar(&f.date, "date", "", "modified date (\"auto\" = today)")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.StringVar(&f.title, "toc-title", "", "title inside the table of contents")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 1)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 6)")
	fs.BoolVar(&f.noPermalink, "no-permalink", false, "do not append permalinks to headings")
	fs.BoolVar(&f.noAnchorlink, "no-anchorlink", false, "do not link heading text to itself")
}

// addTidyFlags adds tidy flags to a FlagSet.
func addTidyFlags(fs *flag.FlagSet, f *tidyFlags) {
	fs.IntVar(&f.wrap, "wrap", 0, "wrap column (0 = never, default: 100)")
	fs.IntVar(&f.indent, "indent", 0, "spaces per indent level (default: 2)")
	fs.BoolVar(&f.xhtml, "xhtml", false, "self-close void elements")
	fs.BoolVar(&f.disabled, "no-tidy", false, "print the rendered template as is")
}

// parseFlags parses command flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("md2html", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.template)
	addDocumentFlags(fs, &f.document)
	addTOCFlags(fs, &f.toc)
	addTidyFlags(fs, &f.tidy)
	fs.BoolVar(&f.sanitize, "sanitize", false, "strip unsafe raw HTML")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = fs.Changed
	return f, fs.Args(), nil
}
