package document

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/gaurav-prasanna/pagemd/core/convert"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"github.com/gaurav-prasanna/pagemd/core/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const articleHTML = `<!DOCTYPE html>
<html lang="de">
<head><title>  Quarterly
  Report </title><style>body{}</style></head>
<body>
  <nav><a href="/">Home</a></nav>
  <main>
    <h1>Results</h1>


    <p>Revenue grew. See <a href="report.pdf">Annual Report</a>.</p>
    <table><tr><th>Q</th><th>Rev</th></tr><tr><td>1</td><td>10</td></tr></table>
    <div class="chart" aria-label="Sales by region"></div>
    <ol><li>first</li><li>second</li></ol>
  </main>
</body>
</html>`

func page(t *testing.T, url, src string) core.Page {
	t.Helper()
	p, err := Parse(&core.FetchResult{URL: url, HTML: src})
	require.NoError(t, err)
	return p
}

func TestAssemble(t *testing.T) {
	p := page(t, "https://example.com/q/", articleHTML)
	assert.Equal(t, "Quarterly Report", p.Title)

	res, err := New(Options{}).Assemble(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Report", res.Title)
	assert.Equal(t, "https://example.com/q/", res.URL)
	assert.Equal(t, "# Results\n\n"+
		"Revenue grew. See Annual Report.\n\n"+
		"| Q | Rev |\n| --- | --- |\n| 1 | 10 |\n\n"+
		"**[📊 Chart/Graph]**\n> Sales by region\n\n"+
		"1. first\n2. second", res.Content)
	assert.NotContains(t, res.Content, "Home")
}

func TestAssembleFallsBackToBody(t *testing.T) {
	p := page(t, "https://example.com/", `<body><p>Only body</p><a href="files/a.zip">Get</a></body>`)
	res, err := New(Options{}).Assemble(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Only body\n\n**[🗜️ Download]**: [Get](https://example.com/files/a.zip) (a.zip)", res.Content)
}

func TestAssembleNeverLeavesTripleNewlines(t *testing.T) {
	src := `<main>
		<video></video><audio></audio><canvas></canvas>
		<ul><li>a</li></ul><ul></ul><hr><br><br><br><br>
		<svg><title>x</title></svg><iframe></iframe>
		<p></p><p> </p><div><div><br><br></div></div>
		<table><tr><td>x</td></tr></table>
	</main>`
	res, err := New(Options{}).Assemble(context.Background(), page(t, "https://example.com/", src))
	require.NoError(t, err)
	assert.NotContains(t, res.Content, "\n\n\n")
	assert.Equal(t, strings.TrimSpace(res.Content), res.Content)
}

func TestAssembleIsDeterministic(t *testing.T) {
	a := New(Options{})
	first, err := a.Assemble(context.Background(), page(t, "https://example.com/q/", articleHTML))
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), page(t, "https://example.com/q/", articleHTML))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssembleNoContent(t *testing.T) {
	p := core.Page{URL: "https://example.com/", Doc: goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})}
	_, err := New(Options{}).Assemble(context.Background(), p)
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.ErrorIs(t, err, extract.ErrNoContent)
	assert.True(t, strings.HasPrefix(err.Error(), "content extraction failed: "))

	_, err = New(Options{}).Assemble(context.Background(), core.Page{})
	assert.ErrorIs(t, err, extract.ErrNoContent)
}

func TestAssembleRecoversPanics(t *testing.T) {
	a := New(Options{})
	a.walk = func(dom.Node, convert.Context) string { panic("boom") }

	res, err := a.Assemble(context.Background(), page(t, "https://example.com/", articleHTML))
	assert.Nil(t, res)
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), "boom")
}

func TestAssembleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).Assemble(ctx, page(t, "https://example.com/", articleHTML))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembleDepthBudget(t *testing.T) {
	src := "<main>" + strings.Repeat("<div>", 40) + "<p>deep</p>" + strings.Repeat("</div>", 40) + "</main>"
	res, err := New(Options{Convert: convert.Options{MaxDepth: 10}}).Assemble(context.Background(), page(t, "https://example.com/", src))
	require.NoError(t, err)
	assert.Equal(t, "> *(content truncated: nesting too deep)*", res.Content)
}

func TestAssembleLibraryEngine(t *testing.T) {
	res, err := New(Options{Engine: EngineLibrary}).Assemble(context.Background(), page(t, "https://example.com/q/", articleHTML))
	require.NoError(t, err)
	assert.Contains(t, res.Content, "# Results")
	assert.Contains(t, res.Content, "[Annual Report](https://example.com/q/report.pdf)")
	assert.NotContains(t, res.Content, "\n\n\n")
}

func TestAssembleUnknownEngine(t *testing.T) {
	_, err := New(Options{Engine: "fancy"}).Assemble(context.Background(), page(t, "https://example.com/", articleHTML))
	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Contains(t, err.Error(), `unknown engine "fancy"`)
}

func TestParse(t *testing.T) {
	p, err := Parse(&core.FetchResult{URL: "u", HTML: articleHTML, Title: "Live title"})
	require.NoError(t, err)
	assert.Equal(t, "Live title", p.Title)

	p, err = Parse(&core.FetchResult{URL: "u", HTML: `<body><svg><title>icon</title></svg></body>`})
	require.NoError(t, err)
	assert.Empty(t, p.Title)

	_, err = Parse(&core.FetchResult{URL: "u", HTML: "  "})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestMetadata(t *testing.T) {
	p := page(t, "https://example.com/docs/intro", articleHTML)
	meta := Metadata(p, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, core.PageMetadata{
		URL:       "https://example.com/docs/intro",
		Domain:    "example.com",
		Path:      "/docs/intro",
		Title:     "Quarterly Report",
		Language:  "de",
		FetchedAt: "2024-05-01T12:00:00Z",
	}, meta)

	meta = Metadata(page(t, "https://example.com/", "<p>x</p>"), time.Unix(0, 0))
	assert.Equal(t, "en", meta.Language)
}
