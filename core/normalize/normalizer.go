// Package normalize holds the post-processing shared by both conversion
// engines, and the library engine itself. The library engine renders a
// content root with html-to-markdown and is kept for side-by-side
// comparison with the native walker.
package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"github.com/microcosm-cc/bluemonday"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Whitespace collapses three or more consecutive line breaks into exactly
// two and trims the result.
func Whitespace(markdown string) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	return strings.TrimSpace(blankRuns.ReplaceAllString(markdown, "\n\n"))
}

// Library converts HTML to Markdown using html-to-markdown. Markup is run
// through a UGC sanitizing policy first so scripts and event handlers
// never reach the converter.
type Library struct {
	conv   *converter.Converter
	policy *bluemonday.Policy
}

// NewLibrary creates a Library engine with table support.
func NewLibrary() *Library {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Library{conv: conv, policy: policy}
}

// Convert renders root as Markdown, resolving links against base. The
// subtree is serialized first because the library rewrites the tree it is
// given.
func (l *Library) Convert(ctx context.Context, root dom.Node, base string) (string, error) {
	markdown, err := l.conv.ConvertString(l.policy.Sanitize(root.OuterHTML()),
		converter.WithContext(ctx),
		converter.WithDomain(base),
	)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
