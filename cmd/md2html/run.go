package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	md2html "github.com/alnah/go-md2html"
	"github.com/alnah/go-md2html/internal/config"
	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/hints"
	"github.com/alnah/go-md2html/internal/render"
	"github.com/alnah/go-md2html/internal/revision"
	"github.com/alnah/go-md2html/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidFlag   = errors.New("invalid flag")
	ErrNoInput       = errors.New("no markdown file specified")
	ErrTooManyInputs = errors.New("only one markdown file can be converted at a time")
	ErrNoTemplate    = errors.New("no template specified, use -t/--template")
)

// Converter is the interface for the conversion library.
type Converter interface {
	ConvertFile(ctx context.Context, path string) (*md2html.Result, error)
	Engine() string
}

// Compile-time interface implementation check.
var _ Converter = (*md2html.Converter)(nil)

// run parses arguments, builds the configuration and converts one file.
func run(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}
	if flags.common.version {
		fmt.Fprintf(env.Stdout, "md2html %s\n", Version)
		return nil
	}

	setupMaxProcs(flags.common.verbose, env.Stderr)

	envCfg, err := loadEnvConfig(env.DotEnv)
	if err != nil {
		fmt.Fprintf(env.Stderr, "warning: %v\n", err)
		envCfg, _ = loadEnvConfig("")
	}
	warnUnknownEnvVars(env.Stderr, envCfg)

	cfg, err := loadConfig(flags, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if flags.common.printConfig {
		return printConfig(cfg, env)
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	if cfg.Template == "" {
		return ErrNoTemplate
	}
	if !fileutil.IsMarkdown(inputPath) && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "warning: %s has no markdown extension, converting anyway\n", inputPath)
	}

	conv, err := md2html.NewConverter(buildOptions(cfg, env)...)
	if err != nil {
		return annotate(err, cfg)
	}

	return convertFile(ctx, conv, inputPath, flags, env)
}

// convertFile converts inputPath and writes the page to stdout and tidy
// warnings to stderr.
func convertFile(ctx context.Context, conv Converter, inputPath string, flags *cliFlags, env *Environment) error {
	start := env.Now()
	res, err := conv.ConvertFile(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("converting %s: %w", inputPath, err)
	}

	if _, err := fmt.Fprint(env.Stdout, res.HTML); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !flags.common.quiet {
		for _, w := range res.Warnings {
			fmt.Fprintln(env.Stderr, w)
		}
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "converted %s with %s engine in %v (%d warnings)\n",
			inputPath, conv.Engine(), env.Now().Sub(start).Round(time.Millisecond), len(res.Warnings))
		if res.Vars.Revision == "" {
			if hint := hints.ForMissingRevision(); hint != "" {
				fmt.Fprintf(env.Stderr, "revision unavailable%s\n", hint)
			}
		}
	}
	return nil
}

// printConfig writes the merged configuration as YAML.
func printConfig(cfg *config.Config, env *Environment) error {
	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}

// loadConfig loads the config named by --config, else MD2HTML_CONFIG, else
// returns defaults.
func loadConfig(flags *cliFlags, env *envConfig) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		var nf *config.NotFoundError
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nf.Searched))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags copies flags set on the command line into cfg.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	set := flags.changed
	if set == nil {
		set = func(string) bool { return false }
	}

	if set("template") {
		cfg.Template = flags.template.path
	}
	if set("engine") {
		cfg.Engine = flags.template.engine
	}
	if set("title") {
		cfg.Title = flags.document.title
	}
	if set("date") {
		cfg.Date = flags.document.date
	}
	if set("sanitize") {
		cfg.Markdown.Sanitize = flags.sanitize
	}
	if set("toc-title") {
		cfg.TOC.Title = flags.toc.title
	}
	if set("toc-min-depth") {
		cfg.TOC.MinDepth = flags.toc.minDepth
	}
	if set("toc-max-depth") {
		cfg.TOC.MaxDepth = flags.toc.maxDepth
	}
	if flags.toc.noPermalink {
		cfg.TOC.Permalink = false
	}
	if flags.toc.noAnchorlink {
		cfg.TOC.Anchorlink = false
	}
	if set("wrap") {
		cfg.Tidy.Wrap = flags.tidy.wrap
	}
	if set("indent") {
		cfg.Tidy.Indent = flags.tidy.indent
	}
	if set("xhtml") {
		cfg.Tidy.XHTML = flags.tidy.xhtml
	}
	if flags.tidy.disabled {
		cfg.Tidy.Enabled = false
	}
}

// resolveInputPath checks that exactly one markdown file was given.
func resolveInputPath(positional []string) (string, error) {
	switch len(positional) {
	case 0:
		return "", ErrNoInput
	case 1:
		return positional[0], nil
	default:
		return "", fmt.Errorf("%w: got %d", ErrTooManyInputs, len(positional))
	}
}

// buildOptions translates the merged config into converter options.
func buildOptions(cfg *config.Config, env *Environment) []md2html.Option {
	opts := []md2html.Option{
		md2html.WithTemplate(cfg.Template),
		md2html.WithEngine(cfg.Engine),
		md2html.WithDateFormat(cfg.Date),
		md2html.WithTOC(&md2html.TOC{
			Title:    cfg.TOC.Title,
			MinDepth: cfg.TOC.MinDepth,
			MaxDepth: cfg.TOC.MaxDepth,
		}),
		md2html.WithHeadingLinks(cfg.TOC.Anchorlink, cfg.TOC.Permalink),
	}
	if env.Now != nil {
		opts = append(opts, md2html.WithClock(env.Now))
	}
	if cfg.Title != "" {
		opts = append(opts, md2html.WithTitle(cfg.Title))
	}

	if cfg.Markdown.Typographer {
		opts = append(opts, md2html.WithTypographer())
	}
	if cfg.Markdown.HardWraps {
		opts = append(opts, md2html.WithHardWraps())
	}
	if cfg.Markdown.Sanitize {
		opts = append(opts, md2html.WithSanitize())
	}

	if cfg.Tidy.Enabled {
		opts = append(opts, md2html.WithTidy(md2html.TidyOptions{
			Wrap:   cfg.Tidy.Wrap,
			Indent: cfg.Tidy.Indent,
			XHTML:  cfg.Tidy.XHTML,
		}))
	} else {
		opts = append(opts, md2html.WithoutTidy())
	}

	switch {
	case !cfg.Revision.Enabled:
		opts = append(opts, md2html.WithRevisionLookup(nil))
	case env.Revisions != nil:
		opts = append(opts, md2html.WithRevisionLookup(env.Revisions))
	default:
		opts = append(opts, md2html.WithRevisionLookup(revision.NewGit(cfg.Revision.RevisionTimeout())))
	}

	return opts
}

// annotate appends a hint for template and engine errors.
func annotate(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, md2html.ErrTemplateNotFound):
		return fmt.Errorf("%w%s", err, hints.ForTemplateNotFound(cfg.Template))
	case errors.Is(err, md2html.ErrTemplateParse):
		engine, _ := render.ResolveEngine(cfg.Template, cfg.Engine)
		return fmt.Errorf("%w%s", err, hints.ForTemplateSyntax(engine))
	case errors.Is(err, md2html.ErrInvalidEngine):
		return fmt.Errorf("%w%s", err, hints.ForEngine(config.Engines))
	}
	return err
}
