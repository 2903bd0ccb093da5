// Package extract locates the primary content region of a page.
// It picks the first landmark, role or conventional content container
// that exists, in priority order, and falls back to <body>.
package extract

import (
	"errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/pagemd/core/dom"
)

// ErrNoContent means the document has neither a content container nor a
// body.
var ErrNoContent = errors.New("no content container found in HTML")

// RootSelectors are tried in order; the first with a match wins.
var RootSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	"#content",
	".main",
	"#main",
}

// chromeSelectors are page furniture removed when stripping is enabled.
var chromeSelectors = []string{
	"nav", "footer", "aside",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// Root is the chosen content region.
type Root struct {
	Node dom.Node
	// Selector is the selector that matched, or "body" for the fallback.
	Selector string
}

// Options control extraction.
type Options struct {
	// StripChrome removes navigation, footers, forms and ad containers
	// before a root is chosen.
	StripChrome bool
}

// ContentExtractor finds content roots.
type ContentExtractor struct {
	opts      Options
	selectors []cascadia.Selector
}

// New creates a ContentExtractor.
func New(opts Options) *ContentExtractor {
	compiled := make([]cascadia.Selector, len(RootSelectors))
	for i, sel := range RootSelectors {
		compiled[i] = cascadia.MustCompile(sel)
	}
	return &ContentExtractor{opts: opts, selectors: compiled}
}

// ContentRoot returns the content region of doc. With StripChrome set the
// document is modified in place.
func (e *ContentExtractor) ContentRoot(doc *goquery.Document) (Root, error) {
	if e.opts.StripChrome {
		for _, sel := range chromeSelectors {
			doc.Find(sel).Remove()
		}
	}

	for i, sel := range e.selectors {
		if found := doc.FindMatcher(sel); found.Length() > 0 {
			return Root{Node: dom.Wrap(found.Nodes[0]), Selector: RootSelectors[i]}, nil
		}
	}

	if body := doc.Find("body"); body.Length() > 0 {
		return Root{Node: dom.Wrap(body.Nodes[0]), Selector: "body"}, nil
	}
	return Root{}, ErrNoContent
}
