// Package dateutil resolves the page's "modified" date from user-facing
// format strings such as "auto", "auto:DD/MM/YYYY" or "auto:long".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat matches an ISO calendar date.
const DefaultDateFormat = "YYYY-MM-DD"

const autoKeyword = "auto"

// dateTokens maps user tokens to Go layout fragments, longest first so
// that "MMMM" wins over "MM".
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"full":     "dddd, MMMM D, YYYY",
}

// ParseDateFormat converts a user-friendly format string to a Go layout.
// Text inside brackets is copied literally: "[Rev.] YYYY" keeps "Rev.".
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for rest := format; rest != ""; {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		goFmt, n := matchToken(rest)
		if n == 0 {
			b.WriteByte(rest[0])
			rest = rest[1:]
			continue
		}
		b.WriteString(goFmt)
		rest = rest[n:]
	}

	return b.String(), nil
}

func matchToken(s string) (string, int) {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			return t.goFmt, len(t.token)
		}
	}
	return "", 0
}

// ResolveDate expands "auto" values against t and passes anything else
// through unchanged:
//   - "" or "auto"   -> t in YYYY-MM-DD
//   - "auto:FORMAT"  -> t in FORMAT
//   - "auto:preset"  -> t in a named preset (iso, european, us, long, full)
func ResolveDate(value string, t time.Time) (string, error) {
	if value == "" {
		value = autoKeyword
	}
	lower := strings.ToLower(value)
	format := DefaultDateFormat
	switch {
	case lower == autoKeyword:
	case strings.HasPrefix(lower, autoKeyword+":"):
		format = value[len(autoKeyword)+1:]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	default:
		return value, nil
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
