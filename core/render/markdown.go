// Package render provides output renderers for pagemd.
// This file implements the Markdown renderer, which prepends the page
// header to the converted content.
package render

import (
	"strings"
	"time"

	"github.com/gaurav-prasanna/pagemd/core"
)

// Clock returns the current time. Renderers stamp output with it.
type Clock func() time.Time

const stampLayout = "2006-01-02 15:04:05"

// MarkdownRenderer writes the page header followed by the content.
type MarkdownRenderer struct {
	Now Clock
}

// NewMarkdownRenderer creates a MarkdownRenderer using the wall clock.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{Now: time.Now}
}

// Render returns the header and Markdown as bytes.
func (r *MarkdownRenderer) Render(result *core.ConversionResult, _ core.PageMetadata) ([]byte, error) {
	return []byte(Document(result, now(r.Now))), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// Document builds the final Markdown file. The title line is written only
// when there is a title; source, download time and rule only with a URL.
func Document(result *core.ConversionResult, downloaded time.Time) string {
	var b strings.Builder
	if result.Title != "" {
		b.WriteString("# " + result.Title + "\n\n")
	}
	if result.URL != "" {
		b.WriteString("**Source:** " + result.URL + "\n\n")
		b.WriteString("**Downloaded:** " + downloaded.Format(stampLayout) + "\n\n")
		b.WriteString("---\n\n")
	}
	b.WriteString(result.Content)
	return b.String()
}

func now(c Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
