package main

import (
	"errors"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2html/internal/config"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	f, positional, err := parseFlags([]string{
		"doc.md", "-t", "page.html", "--engine", "django", "--wrap", "0",
		"--indent", "4", "--xhtml", "--sanitize", "-q", "--toc-max-depth", "3",
	})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	if len(positional) != 1 || positional[0] != "doc.md" {
		t.Errorf("positional = %v, want [doc.md]", positional)
	}
	if f.template.path != "page.html" || f.template.engine != "django" {
		t.Errorf("template flags = %+v", f.template)
	}
	if !f.common.quiet || !f.sanitize || !f.tidy.xhtml {
		t.Errorf("bool flags not set: %+v", f)
	}
	if !f.changed("wrap") || f.changed("title") {
		t.Error("changed() should report only flags given on the command line")
	}
}

func TestParseFlags_Help(t *testing.T) {
	t.Parallel()

	_, _, err := parseFlags([]string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "unset flags keep config",
			args: []string{"doc.md"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Tidy.Wrap != 100 || cfg.TOC.MaxDepth != 6 || !cfg.Tidy.Enabled {
					t.Errorf("defaults changed: %+v", cfg)
				}
			},
		},
		{
			name: "zero wrap is explicit",
			args: []string{"--wrap", "0"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Tidy.Wrap != 0 {
					t.Errorf("Wrap = %d, want 0", cfg.Tidy.Wrap)
				}
			},
		},
		{
			name: "disable switches",
			args: []string{"--no-tidy", "--no-permalink", "--no-anchorlink"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Tidy.Enabled || cfg.TOC.Permalink || cfg.TOC.Anchorlink {
					t.Errorf("switches not applied: %+v", cfg)
				}
			},
		},
		{
			name: "document flags",
			args: []string{"--title", "T", "--date", "2024", "--toc-title", "On this page", "--toc-min-depth", "2"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Title != "T" || cfg.Date != "2024" || cfg.TOC.Title != "On this page" || cfg.TOC.MinDepth != 2 {
					t.Errorf("document flags not applied: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, _, err := parseFlags(tt.args)
			if err != nil {
				t.Fatal(err)
			}
			cfg := config.DefaultConfig()
			mergeFlags(f, cfg)
			tt.check(t, cfg)
		})
	}
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	if _, err := resolveInputPath(nil); !errors.Is(err, ErrNoInput) {
		t.Errorf("no args error = %v", err)
	}
	if _, err := resolveInputPath([]string{"a.md", "b.md"}); !errors.Is(err, ErrTooManyInputs) {
		t.Errorf("two args error = %v", err)
	}
	if got, err := resolveInputPath([]string{"a.md"}); err != nil || got != "a.md" {
		t.Errorf("resolveInputPath() = %q, %v", got, err)
	}
}
