package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var fixed = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func fixedClock() time.Time { return fixed }

const sample = `## Intro

Hello [docs](https://example.com/docs) and <https://example.com/auto>.

- one
- two

` + "```" + `
x := 1
` + "```" + `

| a | b |
| --- | --- |
| 1 | 2 |

## Media

**[▶️ YouTube Video]**: [Demo](https://www.youtube.com/embed/dQw4w9WgXcQ)

> **[Embedded Content]**: Map
`

func TestMarkdownHeader(t *testing.T) {
	tests := []struct {
		name   string
		result core.ConversionResult
		want   string
	}{
		{
			name:   "title and url",
			result: core.ConversionResult{Title: "Page", URL: "https://example.com/", Content: "body\n"},
			want:   "# Page\n\n**Source:** https://example.com/\n\n**Downloaded:** 2024-03-05 14:07:09\n\n---\n\nbody\n",
		},
		{
			name:   "no title",
			result: core.ConversionResult{URL: "https://example.com/", Content: "body"},
			want:   "**Source:** https://example.com/\n\n**Downloaded:** 2024-03-05 14:07:09\n\n---\n\nbody",
		},
		{
			name:   "no url",
			result: core.ConversionResult{Title: "Page", Content: "body"},
			want:   "# Page\n\nbody",
		},
		{
			name:   "content only",
			result: core.ConversionResult{Content: "body"},
			want:   "body",
		},
	}
	r := &MarkdownRenderer{Now: fixedClock}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(&tt.result, core.PageMetadata{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
	assert.Equal(t, ".md", r.Extension())
}

func TestFrontMatter(t *testing.T) {
	r := &FrontMatterRenderer{Now: fixedClock}
	out, err := r.Render(
		&core.ConversionResult{Title: "A: B", URL: "https://example.com/x", Content: "body\n"},
		core.PageMetadata{Domain: "example.com", Language: "en"},
	)
	require.NoError(t, err)

	s := string(out)
	require.True(t, strings.HasPrefix(s, "---\n"))
	end := strings.Index(s[4:], "---\n\n")
	require.Positive(t, end)
	assert.True(t, strings.HasSuffix(s, "---\n\nbody\n"))

	var fm map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(s[4:4+end]), &fm))
	assert.Equal(t, map[string]string{
		"title":      "A: B",
		"source":     "https://example.com/x",
		"domain":     "example.com",
		"lang":       "en",
		"downloaded": "2024-03-05T14:07:09Z",
	}, fm)
}

func TestJSONStructure(t *testing.T) {
	r := NewJSONRenderer()
	r.Now = fixedClock
	out, err := r.Render(
		&core.ConversionResult{Title: "Page", URL: "https://example.com/", Content: sample},
		core.PageMetadata{Domain: "example.com"},
	)
	require.NoError(t, err)

	var page core.PageJSON
	require.NoError(t, json.Unmarshal(out, &page))

	assert.Equal(t, "Page", page.Metadata.Title)
	assert.Equal(t, "https://example.com/", page.Metadata.URL)
	assert.Equal(t, "2024-03-05T14:07:09Z", page.Metadata.FetchedAt)
	assert.Equal(t, sample, page.Content.Markdown)

	assert.Equal(t, []core.Heading{{Level: 2, Text: "Intro"}, {Level: 2, Text: "Media"}}, page.Structure.Headings)
	assert.Equal(t, []core.Link{
		{Text: "docs", Href: "https://example.com/docs"},
		{Text: "https://example.com/auto", Href: "https://example.com/auto"},
		{Text: "Demo", Href: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
	}, page.Structure.Links)
	assert.Equal(t, 1, page.Structure.CodeBlocks)
	assert.Equal(t, 1, page.Structure.Tables)
	assert.Equal(t, 1, page.Structure.Lists)
	assert.Equal(t, 2, page.Structure.Embeds)

	require.Len(t, page.Content.Sections, 2)
	assert.Equal(t, "Intro", page.Content.Sections[0].Heading)
	assert.Contains(t, page.Content.Sections[0].Text, "Hello docs and https://example.com/auto.")
	assert.Contains(t, page.Content.Sections[0].Text, "x := 1")
	assert.Equal(t, "Media", page.Content.Sections[1].Heading)

	assert.NotContains(t, page.Content.Text, "**")
	assert.NotContains(t, page.Content.Text, "](")
}

func TestJSONEmptyContent(t *testing.T) {
	out, err := NewJSONRenderer().Render(&core.ConversionResult{}, core.PageMetadata{FetchedAt: "2020-01-01T00:00:00Z"})
	require.NoError(t, err)

	var page core.PageJSON
	require.NoError(t, json.Unmarshal(out, &page))
	assert.Equal(t, "2020-01-01T00:00:00Z", page.Metadata.FetchedAt)
	assert.Empty(t, page.Structure.Headings)
	assert.Empty(t, page.Content.Sections)
	assert.Contains(t, string(out), `"headings": []`)
}

func TestPDF(t *testing.T) {
	r := &PDFRenderer{Now: fixedClock}
	result := &core.ConversionResult{Title: "Café ▶️", URL: "https://example.com/", Content: sample}

	first, err := r.Render(result, core.PageMetadata{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(first, []byte("%PDF-")))

	second, err := r.Render(result, core.PageMetadata{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, ".pdf", r.Extension())
}

func TestCleanInlineMarkdown(t *testing.T) {
	tests := []struct{ in, want string }{
		{"**bold** and *it*", "bold and it"},
		{"see [docs](https://x.y)", "see docs (https://x.y)"},
		{"![cat](c.png)", "[Image: cat]"},
		{"use `go test`", "use go test"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanInlineMarkdown(tt.in), tt.in)
	}
	assert.Equal(t, "[ YouTube]", pdfSafe("[▶️ YouTube]"))
}
