// Package output handles file naming and writing for pagemd outputs.
// Single pages are named after their title (or domain and path when
// untitled). In --all mode, filenames mirror the URL path structure.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/pagemd/internal/logger"
)

const (
	maxNameRunes = 200
	defaultName  = "page"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteTitled writes a single page named after its title,
// e.g. "My Page: Intro" → My_Page__Intro.md.
func (w *Writer) WriteTitled(title string, data []byte, ext string) (string, error) {
	return w.write(filepath.Join(w.OutputDir, SanitizeFilename(title)+ext), data)
}

// WriteOnly writes a single page named after its URL.
// Filename: domain_path.ext (e.g., example_com.md).
func (w *Writer) WriteOnly(rawURL string, data []byte, ext string) (string, error) {
	return w.write(filepath.Join(w.OutputDir, filenameFromURL(rawURL)+ext), data)
}

// WriteAll writes output for --all mode, mirroring the URL path structure.
// Example: https://site.com/docs/intro → ./docs/intro.md
func (w *Writer) WriteAll(rawURL string, data []byte, ext string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	urlPath := strings.TrimSuffix(parsed.Path, "/")
	if urlPath == "" {
		urlPath = "/index"
	}
	var segments []string
	for _, seg := range strings.Split(strings.TrimPrefix(urlPath, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		segments = append(segments, SanitizeFilename(seg))
	}
	if len(segments) == 0 {
		segments = []string{"index"}
	}

	fullPath := filepath.Join(append([]string{w.OutputDir}, segments...)...) + ext

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return w.write(fullPath, data)
}

func (w *Writer) write(path string, data []byte) (string, error) {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	logger.Debug("wrote output", "path", path, "bytes", len(data))
	return path, nil
}

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes a title usable as a file name: reserved and
// control characters and whitespace runs become underscores, and the
// result is cut to 200 characters. An empty title yields "page".
func SanitizeFilename(title string) string {
	if strings.TrimSpace(title) == "" {
		return defaultName
	}
	name := unsafeChars.ReplaceAllString(title, "_")
	name = spaceRuns.ReplaceAllString(name, "_")
	if r := []rune(name); len(r) > maxNameRunes {
		name = string(r[:maxNameRunes])
	}
	return name
}

// filenameFromURL converts a URL into a flat filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
