package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-md2html/internal/fileutil"
	"github.com/alnah/go-md2html/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Field limits.
const (
	MaxPathLength     = 4096
	MaxTitleLength    = 200
	MaxDateLength     = 50
	MaxTOCTitleLength = 100
	MaxWrapColumn     = 1000
	MaxIndentSpaces   = 8
	MinHeadingLevel   = 1
	MaxHeadingLevel   = 6
)

// Engine names accepted by the template stage.
const (
	EngineAuto   = "auto"
	EngineGo     = "go"
	EngineDjango = "django"
)

// Engines lists the accepted engine names in display order.
var Engines = []string{EngineAuto, EngineGo, EngineDjango}

// Config holds all configuration for a conversion.
type Config struct {
	Template string         `yaml:"template"` // Template file path
	Engine   string         `yaml:"engine"`   // auto, go, django
	Title    string         `yaml:"title"`    // Overrides front matter and file name
	Date     string         `yaml:"date"`     // "auto", "auto:FORMAT" or literal
	Markdown MarkdownConfig `yaml:"markdown"`
	TOC      TOCConfig      `yaml:"toc"`
	Tidy     TidyConfig     `yaml:"tidy"`
	Revision RevisionConfig `yaml:"revision"`
}

// MarkdownConfig controls the Markdown parser.
type MarkdownConfig struct {
	Typographer bool `yaml:"typographer"` // Smart quotes and dashes
	Sanitize    bool `yaml:"sanitize"`    // Strip unsafe raw HTML
	HardWraps   bool `yaml:"hardWraps"`   // Newlines become <br>
}

// TOCConfig controls the table of contents and heading links.
type TOCConfig struct {
	Title      string `yaml:"title"`      // Empty = no title inside the TOC
	MinDepth   int    `yaml:"minDepth"`   // 1-6, default 1
	MaxDepth   int    `yaml:"maxDepth"`   // 1-6, default 6
	Permalink  bool   `yaml:"permalink"`  // Append a pilcrow link to headings
	Anchorlink bool   `yaml:"anchorlink"` // Wrap heading text in a self link
}

// TidyConfig controls HTML cleanup and pretty-printing.
type TidyConfig struct {
	Enabled bool `yaml:"enabled"`
	Wrap    int  `yaml:"wrap"`   // Column to wrap text at, 0 = never
	Indent  int  `yaml:"indent"` // Spaces per nesting level
	XHTML   bool `yaml:"xhtml"`  // Self-close void elements
}

// RevisionConfig controls the source-control lookup.
type RevisionConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // Go duration, default 5s
}

// Validate checks every section. Called by LoadConfig, and by the CLI again
// after flags and environment are merged in.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Template, validation.Length(0, MaxPathLength)),
		validation.Field(&c.Engine, validation.In(toAny(Engines)...).Error("must be one of "+strings.Join(Engines, ", "))),
		validation.Field(&c.Title, validation.Length(0, MaxTitleLength)),
		validation.Field(&c.Date, validation.Length(0, MaxDateLength)),
		validation.Field(&c.TOC),
		validation.Field(&c.Tidy),
		validation.Field(&c.Revision),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks heading depth bounds and their order.
func (t TOCConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Title, validation.Length(0, MaxTOCTitleLength)),
		validation.Field(&t.MinDepth, validation.Min(MinHeadingLevel), validation.Max(MaxHeadingLevel)),
		validation.Field(&t.MaxDepth,
			validation.Min(MinHeadingLevel),
			validation.Max(MaxHeadingLevel),
			validation.By(func(any) error {
				if t.MinDepth != 0 && t.MaxDepth != 0 && t.MinDepth > t.MaxDepth {
					return fmt.Errorf("must be greater than or equal to minDepth (%d)", t.MinDepth)
				}
				return nil
			}),
		),
	)
}

// Validate checks wrap and indent ranges.
func (t TidyConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Wrap, validation.Min(0), validation.Max(MaxWrapColumn)),
		validation.Field(&t.Indent, validation.Min(0), validation.Max(MaxIndentSpaces)),
	)
}

// Validate checks that the timeout parses as a positive duration.
func (r RevisionConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Timeout, validation.By(func(any) error {
			if r.Timeout == "" {
				return nil
			}
			d, err := time.ParseDuration(r.Timeout)
			if err != nil {
				return fmt.Errorf("must be a duration such as 5s")
			}
			if d <= 0 {
				return fmt.Errorf("must be positive")
			}
			return nil
		})),
	)
}

// RevisionTimeout returns the parsed timeout, falling back to 5s.
func (r RevisionConfig) RevisionTimeout() time.Duration {
	if d, err := time.ParseDuration(r.Timeout); err == nil && d > 0 {
		return d
	}
	return DefaultRevisionTimeout
}

// DefaultRevisionTimeout bounds the git subprocess.
const DefaultRevisionTimeout = 5 * time.Second

// DefaultConfig returns the configuration used when no file is given:
// permalinks and anchor links on, tidy at wrap 100 and indent 2.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineAuto,
		Date:   "auto",
		TOC: TOCConfig{
			MinDepth:   MinHeadingLevel,
			MaxDepth:   MaxHeadingLevel,
			Permalink:  true,
			Anchorlink: true,
		},
		Tidy: TidyConfig{
			Enabled: true,
			Wrap:    100,
			Indent:  2,
		},
		Revision: RevisionConfig{
			Enabled: true,
			Timeout: DefaultRevisionTimeout.String(),
		},
	}
}

// NotFoundError reports every location searched for a config name.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: nameOrPath, Searched: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name.
// Tries .yaml then .yml, in the current directory then ~/.config/go-md2html/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	dirs := []string{""}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userConfigDir, "go-md2html"))
	}

	tried := make([]string, 0, len(extensions)*len(dirs))
	for _, dir := range dirs {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+ext)
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
			tried = append(tried, candidate)
		}
	}

	return "", &NotFoundError{Name: name, Searched: tried}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
