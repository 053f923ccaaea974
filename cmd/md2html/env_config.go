package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-md2html/internal/config"
)

const envPrefix = "MD2HTML_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MD2HTML_CONFIG: config file name or path
	Template   string // MD2HTML_TEMPLATE: page template path
	Engine     string // MD2HTML_ENGINE: auto, go, django
	Date       string // MD2HTML_DATE: modified date
	Wrap       int    // MD2HTML_WRAP: tidy wrap column, -1 when unset

	unknown []string // Unrecognized MD2HTML_* names, sorted
}

// knownEnvVars lists valid MD2HTML_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2HTML_CONFIG":   true,
	"MD2HTML_TEMPLATE": true,
	"MD2HTML_ENGINE":   true,
	"MD2HTML_DATE":     true,
	"MD2HTML_WRAP":     true,
}

// loadEnvConfig reads MD2HTML_* variables. Values from dotEnvPath fill in
// variables the real environment does not set. A missing file is not an
// error.
func loadEnvConfig(dotEnvPath string) (*envConfig, error) {
	dotenv := map[string]string{}
	if dotEnvPath != "" {
		values, err := godotenv.Read(dotEnvPath)
		switch {
		case err == nil:
			dotenv = values
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading %s: %w", dotEnvPath, err)
		}
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	cfg := &envConfig{
		ConfigPath: get("MD2HTML_CONFIG"),
		Template:   get("MD2HTML_TEMPLATE"),
		Engine:     get("MD2HTML_ENGINE"),
		Date:       get("MD2HTML_DATE"),
		Wrap:       -1,
	}

	// Parse int for wrap; invalid values are ignored
	if wrap := get("MD2HTML_WRAP"); wrap != "" {
		if w, err := strconv.Atoi(wrap); err == nil && w >= 0 {
			cfg.Wrap = w
		}
	}

	seen := map[string]bool{}
	names := make([]string, 0, len(dotenv))
	for _, kv := range os.Environ() {
		names = append(names, strings.SplitN(kv, "=", 2)[0])
	}
	for k := range dotenv {
		names = append(names, k)
	}
	for _, name := range names {
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] && !seen[name] {
			seen[name] = true
			cfg.unknown = append(cfg.unknown, name)
		}
	}
	sort.Strings(cfg.unknown)

	return cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized MD2HTML_* variables.
// Helps catch typos like MD2HTML_TEMPLTE.
func warnUnknownEnvVars(w io.Writer, env *envConfig) {
	for _, name := range env.unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config file values with environment values.
// Flags are merged afterwards, giving: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Template != "" {
		cfg.Template = env.Template
	}
	if env.Engine != "" {
		cfg.Engine = env.Engine
	}
	if env.Date != "" {
		cfg.Date = env.Date
	}
	if env.Wrap >= 0 {
		cfg.Tidy.Wrap = env.Wrap
	}
}
