// Package fileutil provides file and path helpers shared by the CLI and the
// conversion pipeline.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrNotRegularFile = errors.New("not a regular file")
	ErrFileTooLarge   = errors.New("file exceeds maximum size")
)

// MaxReadSize caps how much of a source file ReadLimited will load (16MB).
var MaxReadSize int64 = 16 << 20

// markdownExtensions are the extensions recognized as Markdown sources.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".mkd":      true,
	".txt":      true,
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "site"          -> false (name)
//   - "./site.yaml"   -> true
//   - "C:\cfg\x.yaml" -> true
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsMarkdown reports whether path carries a Markdown extension.
func IsMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// TitleFromPath derives a page title from a file name: the stem with
// underscores turned into spaces ("release_notes.md" -> "release notes").
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(stem, "_", " ")
}

// ReadLimited reads a regular file, refusing directories and anything larger
// than MaxReadSize. Errors wrap the underlying *fs.PathError so callers can
// still match os.ErrNotExist and os.ErrPermission.
func ReadLimited(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	if info.Size() > MaxReadSize {
		return nil, fmt.Errorf("%w: %s (%d bytes, max %d)", ErrFileTooLarge, path, info.Size(), MaxReadSize)
	}

	return io.ReadAll(io.LimitReader(f, MaxReadSize+1))
}
