package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-md2html/internal/yamlutil"
)

type tidySection struct {
	Wrap   int  `yaml:"wrap"`
	Indent int  `yaml:"indent"`
	XHTML  bool `yaml:"xhtml"`
}

type sampleConfig struct {
	Template string      `yaml:"template"`
	Tidy     tidySection `yaml:"tidy"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		want    *sampleConfig
		wantErr error
		wantMsg string
	}{
		{
			name: "nested sections",
			data: []byte("template: page.html\ntidy:\n  wrap: 80\n  indent: 4\n  xhtml: true\n"),
			dest: &sampleConfig{},
			want: &sampleConfig{Template: "page.html", Tidy: tidySection{Wrap: 80, Indent: 4, XHTML: true}},
		},
		{
			name: "unknown keys ignored",
			data: []byte("template: page.html\nextra: 1\n"),
			dest: &sampleConfig{},
			want: &sampleConfig{Template: "page.html"},
		},
		{
			name: "unicode value",
			data: []byte("template: modèle_été.html"),
			dest: &sampleConfig{},
			want: &sampleConfig{Template: "modèle_été.html"},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &sampleConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &sampleConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("template: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "syntax error is prefixed",
			data:    []byte("template: [unclosed"),
			dest:    &sampleConfig{},
			wantMsg: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.wantMsg != "":
				if err == nil || !strings.HasPrefix(err.Error(), tt.wantMsg) {
					t.Fatalf("error = %v, want prefix %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, tt.dest); diff != "" {
				t.Errorf("decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Unknown keys are errors
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	t.Run("known keys decode", func(t *testing.T) {
		t.Parallel()

		var cfg sampleConfig
		if err := yamlutil.UnmarshalStrict([]byte("tidy:\n  wrap: 120\n"), &cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Tidy.Wrap != 120 {
			t.Errorf("Tidy.Wrap = %d, want 120", cfg.Tidy.Wrap)
		}
	})

	t.Run("unknown nested key rejected", func(t *testing.T) {
		t.Parallel()

		var cfg sampleConfig
		err := yamlutil.UnmarshalStrict([]byte("tidy:\n  wrapp: 120\n"), &cfg)
		if err == nil {
			t.Fatal("expected error for unknown field, got nil")
		}
		if !strings.HasPrefix(err.Error(), "yamlutil:") {
			t.Errorf("error = %q, want yamlutil prefix", err)
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()

		if err := yamlutil.UnmarshalStrict([]byte("a: b"), nil); !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("error = %v, want ErrNilDestination", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMarshal - Encoding
// ---------------------------------------------------------------------------

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := yamlutil.Marshal(sampleConfig{Template: "page.html", Tidy: tidySection{Wrap: 100, Indent: 2}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	out := string(data)
	for _, want := range []string{"template: page.html", "tidy:", "  wrap: 100", "  indent: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - MaxInputSize enforcement
// ---------------------------------------------------------------------------

// Mutates the package-level limit, so not parallel.
func TestInputSizeLimit(t *testing.T) {
	original := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = original })

	yamlutil.MaxInputSize = 16
	data := []byte("template: " + strings.Repeat("x", 32))

	for name, fn := range map[string]func([]byte, any) error{
		"Unmarshal":       yamlutil.Unmarshal,
		"UnmarshalStrict": yamlutil.UnmarshalStrict,
	} {
		var cfg sampleConfig
		err := fn(data, &cfg)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("%s: error = %v, want ErrInputTooLarge", name, err)
			continue
		}
		if !strings.Contains(err.Error(), "max 16") {
			t.Errorf("%s: error %q should mention the limit", name, err)
		}
	}
}
