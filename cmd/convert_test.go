package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/pagemd/core/config"
	"github.com/gaurav-prasanna/pagemd/core/document"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"github.com/gaurav-prasanna/pagemd/core/fetch"
	"github.com/gaurav-prasanna/pagemd/core/output"
	"github.com/gaurav-prasanna/pagemd/core/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<html lang="en"><head><title>Launch Notes</title></head><body>
<nav><a href="/">Home</a></nav>
<main>
  <h1>Launch</h1>
  <p>Read the <a href="guide">guide</a>.</p>
  <iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ" title="Demo"></iframe>
</main>
</body></html>`

func articleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news/launch" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(articlePage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPipelineProcess(t *testing.T) {
	srv := articleServer(t)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	p := &pipeline{
		fetcher:   fetch.New(fetch.Options{}),
		assembler: document.New(assemblerOptions(config.Default())),
		renderer:  &render.MarkdownRenderer{Now: func() time.Time { return fixed }},
		now:       func() time.Time { return fixed },
	}

	data, result, err := p.process(context.Background(), srv.URL+"/news/launch")
	require.NoError(t, err)
	assert.Equal(t, "Launch Notes", result.Title)

	want := "# Launch Notes\n\n" +
		"**Source:** " + srv.URL + "/news/launch\n\n" +
		"**Downloaded:** 2024-01-02 03:04:05\n\n" +
		"---\n\n" +
		"# Launch\n\n" +
		"Read the guide.\n\n" +
		"**[📹 Video]**: [Demo](https://www.youtube.com/embed/dQw4w9WgXcQ)\n" +
		"- YouTube ID: dQw4w9WgXcQ"
	assert.Equal(t, want, string(data))

	_, _, err = p.process(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "fetch: "), err.Error())
}

func TestSelectFetcher(t *testing.T) {
	cfg := config.Default()

	_, _, err := selectFetcher("chrome://settings", cfg)
	assert.ErrorIs(t, err, fetch.ErrUnsupportedURL)

	_, _, err = selectFetcher("example.com/no-scheme", cfg)
	assert.ErrorContains(t, err, "invalid URL")

	f, done, err := selectFetcher("https://example.com", cfg)
	require.NoError(t, err)
	done()
	assert.IsType(t, &fetch.HTTPFetcher{}, f)

	path := filepath.Join(t.TempDir(), "saved.html")
	require.NoError(t, os.WriteFile(path, []byte(articlePage), 0o644))
	f, done, err = selectFetcher(path, cfg)
	require.NoError(t, err)
	done()
	assert.IsType(t, &fetch.FileFetcher{}, f)
}

func TestValidateFlags(t *testing.T) {
	t.Cleanup(func() { flagOnly, flagAll, flagJSON, flagPDF = false, false, false, false })

	assert.NoError(t, validateFlags())

	flagJSON, flagPDF = true, true
	assert.ErrorContains(t, validateFlags(), "only one output format")

	flagJSON, flagPDF = false, false
	flagOnly, flagAll = true, true
	assert.ErrorContains(t, validateFlags(), "mutually exclusive")
}

func TestSelectRenderer(t *testing.T) {
	t.Cleanup(func() { flagJSON, flagFrontMatter = false, false })

	assert.Equal(t, "", flagFormat())
	flagJSON = true
	assert.Equal(t, "json", flagFormat())
	flagJSON, flagFrontMatter = false, true
	assert.Equal(t, "frontmatter", flagFormat())

	assert.IsType(t, &render.MarkdownRenderer{}, selectRenderer("markdown"))
	assert.IsType(t, &render.JSONRenderer{}, selectRenderer("json"))
	assert.IsType(t, &render.FrontMatterRenderer{}, selectRenderer("frontmatter"))
	assert.IsType(t, &render.PDFRenderer{}, selectRenderer("pdf"))
}

func TestConvertCommandWritesTitledFile(t *testing.T) {
	srv := articleServer(t)
	dir := t.TempDir()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"convert", srv.URL + "/news/launch", "--output_dir", dir, "--strip"})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "Launch_Notes.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Launch Notes\n\n**Source:** ")
	assert.NotContains(t, string(data), "Home")
	assert.Contains(t, out.String(), "✓ Written: ")
}

func TestKindCounts(t *testing.T) {
	fr := &fetch.FileFetcher{}
	path := filepath.Join(t.TempDir(), "k.html")
	require.NoError(t, os.WriteFile(path, []byte(`<main><p>a</p><p>b</p><svg></svg></main>`), 0o644))
	fetched, err := fr.Fetch(context.Background(), path)
	require.NoError(t, err)
	page, err := document.Parse(fetched)
	require.NoError(t, err)

	counts := kindCounts(dom.Wrap(page.Doc.Find("main").Nodes[0]))
	require.Len(t, counts, 2)
	assert.Equal(t, kindCount{kind: dom.KindParagraph, count: 2}, counts[0])
	assert.Equal(t, kindCount{kind: dom.KindVector, count: 1}, counts[1])
}

func TestRunOnlyURLNames(t *testing.T) {
	srv := articleServer(t)
	writer, err := output.New(t.TempDir())
	require.NoError(t, err)

	p := &pipeline{
		fetcher:   fetch.New(fetch.Options{}),
		assembler: document.New(assemblerOptions(config.Default())),
		renderer:  render.NewJSONRenderer(),
		now:       time.Now,
	}
	require.NoError(t, runOnly(context.Background(), srv.URL+"/news/launch", p, writer, true))

	entries, err := os.ReadDir(writer.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_news_launch.json"), entries[0].Name())
}
