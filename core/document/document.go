// Package document assembles a ConversionResult from a parsed page:
// pick the content root, walk it, normalize whitespace.
package document

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/gaurav-prasanna/pagemd/core/convert"
	"github.com/gaurav-prasanna/pagemd/core/dom"
	"github.com/gaurav-prasanna/pagemd/core/extract"
	"github.com/gaurav-prasanna/pagemd/core/normalize"
	"github.com/gaurav-prasanna/pagemd/internal/logger"
)

// Engine selects how a content root becomes Markdown.
type Engine string

const (
	// EngineNative is the built-in walker with media placeholders.
	EngineNative Engine = "native"
	// EngineLibrary delegates to html-to-markdown.
	EngineLibrary Engine = "library"
)

// ExtractionError is the single failure an Assembler reports.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "content extraction failed: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Options configure an Assembler.
type Options struct {
	Engine  Engine
	Convert convert.Options
	Extract extract.Options
}

// Assembler implements core.Assembler.
type Assembler struct {
	opts      Options
	extractor *extract.ContentExtractor
	library   *normalize.Library
	walk      func(dom.Node, convert.Context) string
}

// New creates an Assembler. An empty engine means EngineNative.
func New(opts Options) *Assembler {
	if opts.Engine == "" {
		opts.Engine = EngineNative
	}
	a := &Assembler{
		opts:      opts,
		extractor: extract.New(opts.Extract),
		walk:      convert.Walk,
	}
	if opts.Engine == EngineLibrary {
		a.library = normalize.NewLibrary()
	}
	return a
}

// Assemble converts page. Either the whole result is returned or an
// *ExtractionError; there is no partial output.
func (a *Assembler) Assemble(ctx context.Context, page core.Page) (result *core.ConversionResult, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExtractionError{Err: fmt.Errorf("panic during conversion: %v", r)}
		}
	}()

	if page.Doc == nil {
		return nil, &ExtractionError{Err: extract.ErrNoContent}
	}

	root, err := a.extractor.ContentRoot(page.Doc)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	raw, err := a.render(ctx, root.Node, page.URL)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}
	content := normalize.Whitespace(raw)

	logger.Debug("assembled page",
		"url", page.URL,
		"root", root.Selector,
		"engine", string(a.opts.Engine),
		"bytes", len(content),
	)

	return &core.ConversionResult{
		Title:   strings.TrimSpace(page.Title),
		URL:     page.URL,
		Content: content,
	}, nil
}

func (a *Assembler) render(ctx context.Context, root dom.Node, base string) (string, error) {
	switch a.opts.Engine {
	case EngineNative:
		return a.walk(root, convert.NewContext(base, a.opts.Convert)), nil
	case EngineLibrary:
		return a.library.Convert(ctx, root, base)
	default:
		return "", fmt.Errorf("unknown engine %q", a.opts.Engine)
	}
}

// ErrEmptyDocument is returned by Parse for input without any markup.
var ErrEmptyDocument = errors.New("empty document")

// Parse builds a Page from fetched HTML. A title reported by the fetcher
// wins over the document's own <title>.
func Parse(fr *core.FetchResult) (core.Page, error) {
	if strings.TrimSpace(fr.HTML) == "" {
		return core.Page{}, ErrEmptyDocument
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fr.HTML))
	if err != nil {
		return core.Page{}, fmt.Errorf("parsing HTML: %w", err)
	}

	title := strings.TrimSpace(fr.Title)
	if title == "" {
		title = strings.Join(strings.Fields(doc.Find("head title").First().Text()), " ")
	}
	return core.Page{URL: fr.URL, Title: title, Doc: doc}, nil
}

// Metadata describes page for renderers.
func Metadata(page core.Page, fetchedAt time.Time) core.PageMetadata {
	meta := core.PageMetadata{
		URL:       page.URL,
		Title:     page.Title,
		Language:  "en",
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339),
	}
	if parsed, err := url.Parse(page.URL); err == nil {
		meta.Domain = parsed.Host
		meta.Path = parsed.Path
	}
	if page.Doc != nil {
		if lang, ok := page.Doc.Find("html").First().Attr("lang"); ok && strings.TrimSpace(lang) != "" {
			meta.Language = strings.TrimSpace(lang)
		}
	}
	return meta
}
