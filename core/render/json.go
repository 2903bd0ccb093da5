// Builds the structured JSON output from Markdown and page metadata.
// The Markdown is parsed with goldmark and structural information
// (headings, links, code blocks, tables, lists, embeds) is read from
// the syntax tree.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct {
	Now Clock
	md  goldmark.Markdown
}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{
		Now: time.Now,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts Markdown and metadata into the JSON page structure.
func (r *JSONRenderer) Render(result *core.ConversionResult, meta core.PageMetadata) ([]byte, error) {
	if meta.FetchedAt == "" {
		meta.FetchedAt = now(r.Now).UTC().Format(time.RFC3339)
	}
	if meta.Title == "" {
		meta.Title = result.Title
	}
	if meta.URL == "" {
		meta.URL = result.URL
	}

	md := r.md
	if md == nil {
		md = goldmark.New(goldmark.WithExtensions(extension.GFM))
	}
	src := []byte(result.Content)
	doc := md.Parser().Parse(text.NewReader(src))

	page := core.PageJSON{
		Metadata: meta,
		Content: core.PageContent{
			Text:     plainText(doc, src),
			Markdown: result.Content,
			Sections: sections(doc, src),
		},
		Structure: structure(doc, src),
	}

	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func structure(doc ast.Node, src []byte) core.PageStructure {
	s := core.PageStructure{
		Headings: []core.Heading{},
		Links:    []core.Link{},
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			s.Headings = append(s.Headings, core.Heading{Level: v.Level, Text: plainText(v, src)})
		case *ast.Link:
			s.Links = append(s.Links, core.Link{Text: plainText(v, src), Href: string(v.Destination)})
		case *ast.AutoLink:
			s.Links = append(s.Links, core.Link{Text: string(v.Label(src)), Href: string(v.URL(src))})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			s.CodeBlocks++
		case *extast.Table:
			s.Tables++
		case *ast.List:
			s.Lists++
		case *ast.Emphasis:
			if isEmbedLabel(v, src) {
				s.Embeds++
			}
		}
		return ast.WalkContinue, nil
	})
	return s
}

// isEmbedLabel matches the bold bracketed labels written for embedded
// content, such as **[▶️ YouTube Video]**.
func isEmbedLabel(e *ast.Emphasis, src []byte) bool {
	if e.Level != 2 {
		return false
	}
	label := plainText(e, src)
	return len(label) > 2 && strings.HasPrefix(label, "[") && strings.HasSuffix(label, "]")
}

// sections splits the top-level blocks at each heading. Content before
// the first heading belongs to no section.
func sections(doc ast.Node, src []byte) []core.Section {
	var out []core.Section
	var current *core.Section
	var parts []string
	flush := func() {
		if current != nil {
			current.Text = strings.Join(parts, "\n\n")
			out = append(out, *current)
		}
		parts = nil
	}
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if h, ok := c.(*ast.Heading); ok {
			flush()
			current = &core.Section{Heading: plainText(h, src), Level: h.Level}
			continue
		}
		if current != nil {
			if t := plainText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
	}
	flush()
	return out
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// plainText returns the text under n without Markdown syntax.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if c != n && c.Type() == ast.TypeBlock {
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(blankLines.ReplaceAllString(b.String(), "\n\n"))
}
