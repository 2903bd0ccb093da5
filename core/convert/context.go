// Package convert renders a content subtree as Markdown. Every handler is a
// pure function from a node and a Context to a fragment; fragments compose
// by concatenation.
package convert

import "github.com/gaurav-prasanna/pagemd/core/resolve"

// DefaultMaxDepth bounds recursion on deeply nested documents.
const DefaultMaxDepth = 256

// truncatedNotice replaces any subtree below the depth budget.
const truncatedNotice = "> *(content truncated: nesting too deep)*\n\n"

// Options tune the rendering.
type Options struct {
	// InlineFormatting renders links, emphasis, code and images inside
	// headings, paragraphs, list items and quotes instead of flattening
	// them to plain text.
	InlineFormatting bool
	// MaxDepth is the nesting budget. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Context is threaded by value through the recursion.
type Context struct {
	// Base is the location relative references are resolved against.
	Base  string
	Depth int

	opts Options
}

// NewContext returns a root context for a document located at base.
func NewContext(base string, opts Options) Context {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return Context{Base: base, opts: opts}
}

// Options returns the rendering options.
func (c Context) Options() Options { return c.opts }

func (c Context) child() Context {
	c.Depth++
	return c
}

func (c Context) exhausted() bool {
	return c.Depth >= c.maxDepth()
}

func (c Context) maxDepth() int {
	if c.opts.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.opts.MaxDepth
}

func (c Context) resolve(ref string) string {
	return resolve.Reference(ref, c.Base)
}
