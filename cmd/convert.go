package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/gaurav-prasanna/pagemd/core/config"
	"github.com/gaurav-prasanna/pagemd/core/convert"
	"github.com/gaurav-prasanna/pagemd/core/document"
	"github.com/gaurav-prasanna/pagemd/core/extract"
	"github.com/gaurav-prasanna/pagemd/core/fetch"
	"github.com/gaurav-prasanna/pagemd/core/output"
	"github.com/gaurav-prasanna/pagemd/core/render"
	"github.com/gaurav-prasanna/pagemd/crawl"
	"github.com/gaurav-prasanna/pagemd/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// Flag variables.
var (
	flagOnly        bool
	flagAll         bool
	flagPDF         bool
	flagMarkdown    bool
	flagJSON        bool
	flagFrontMatter bool
	flagBrowser     bool
	flagBase        string
	flagURLNames    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <url|file>",
	Short: "Convert a page to Markdown or another output format",
	Long: `Convert fetches a web page (or reads a saved .html file), finds its main
content, converts it to Markdown and writes it in the chosen output format.

Examples:
  pagemd convert https://example.com/article
  pagemd convert https://example.com --json --output_dir ./out
  pagemd convert https://example.com/docs/ --all --workers 8
  pagemd convert https://spa.example.com --browser --frontmatter
  pagemd convert saved.html --base https://example.com/saved/`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	f := convertCmd.Flags()

	// Mode flags.
	f.BoolVar(&flagOnly, "only", false, "Convert only the given page (default)")
	f.BoolVar(&flagAll, "all", false, "Convert all discovered sub-pages")

	// Output format flags (mutually exclusive, Markdown by default).
	f.BoolVar(&flagMarkdown, "markdown", false, "Output Markdown with a source header (the default format)")
	f.BoolVar(&flagFrontMatter, "frontmatter", false, "Output Markdown with YAML front matter")
	f.BoolVar(&flagJSON, "json", false, "Output structured JSON")
	f.BoolVar(&flagPDF, "pdf", false, "Output PDF")

	// Fetching.
	f.BoolVar(&flagBrowser, "browser", false, "Render the page in headless Chrome before converting")
	f.StringVar(&flagBase, "base", "", "Base URL for relative links in a local file")
	f.Duration("timeout", 0, "Fetch timeout (default 30s)")

	// Conversion.
	f.String("engine", "", "Conversion engine: native or library")
	f.Bool("inline", false, "Keep bold, italic, code and links inside paragraphs")
	f.Bool("strip", false, "Remove navigation, footers, forms and ads before converting")
	f.String("output_dir", "", "Output directory (default: current directory)")
	f.BoolVar(&flagURLNames, "url-names", false, "Name the output after the page URL instead of its title")

	// Crawling.
	f.Int("max-pages", 0, "Maximum pages to convert with --all")
	f.Int("max-depth", 0, "Maximum link distance from the start page with --all")
	f.Int("workers", 0, "Pages converted concurrently with --all")

	bind := map[string]string{
		"timeout":    "fetch.timeout",
		"engine":     "engine",
		"inline":     "inline",
		"strip":      "strip_chrome",
		"output_dir": "output_dir",
		"max-pages":  "crawl.max_pages",
		"max-depth":  "crawl.max_depth",
		"workers":    "crawl.workers",
	}
	for flag, key := range bind {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	target := args[0]

	if err := validateFlags(); err != nil {
		return err
	}
	if flagBrowser {
		viper.Set("fetch.mode", "browser")
	}
	if format := flagFormat(); format != "" {
		viper.Set("format", format)
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	renderer := selectRenderer(cfg.Format)

	fetcher, closeFetcher, err := selectFetcher(target, cfg)
	if err != nil {
		return err
	}
	defer closeFetcher()

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	p := &pipeline{
		fetcher:   fetcher,
		assembler: document.New(assemblerOptions(cfg)),
		renderer:  renderer,
		now:       time.Now,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagAll {
		if fetch.IsFile(target) {
			return errors.New("--all needs a web URL, not a local file")
		}
		return runAll(ctx, target, p, writer, cfg)
	}
	return runOnly(ctx, target, p, writer, flagURLNames)
}

func assemblerOptions(cfg config.Config) document.Options {
	return document.Options{
		Engine: document.Engine(cfg.Engine),
		Convert: convert.Options{
			InlineFormatting: cfg.InlineFormatting,
			MaxDepth:         cfg.MaxDepth,
		},
		Extract: extract.Options{StripChrome: cfg.StripChrome},
	}
}

// selectFetcher picks a file, browser or HTTP fetcher for target. The
// returned func releases the fetcher.
func selectFetcher(target string, cfg config.Config) (core.Fetcher, func(), error) {
	noop := func() {}
	if err := fetch.CheckURL(target); err != nil {
		return nil, noop, err
	}
	if fetch.IsFile(target) {
		return &fetch.FileFetcher{Base: flagBase}, noop, nil
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, noop, fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", target)
	}

	opts := fetch.Options{Timeout: cfg.Fetch.Timeout, UserAgent: cfg.Fetch.UserAgent}
	if cfg.Fetch.Mode == "browser" {
		b := fetch.NewBrowser(opts)
		return b, func() { _ = b.Close() }, nil
	}
	return fetch.New(opts), noop, nil
}

// pipeline carries one page from fetch to rendered bytes.
type pipeline struct {
	fetcher   core.Fetcher
	assembler core.Assembler
	renderer  core.Renderer
	now       func() time.Time
}

// process runs a single page through the full pipeline.
func (p *pipeline) process(ctx context.Context, target string) ([]byte, *core.ConversionResult, error) {
	// 1. Fetch
	fetched, err := p.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch: %w", err)
	}

	// 2. Parse
	page, err := document.Parse(fetched)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}

	// 3. Convert the content root to Markdown
	result, err := p.assembler.Assemble(ctx, page)
	if err != nil {
		return nil, nil, fmt.Errorf("convert: %w", err)
	}

	// 4. Render to output format
	data, err := p.renderer.Render(result, document.Metadata(page, p.now()))
	if err != nil {
		return nil, nil, fmt.Errorf("render: %w", err)
	}
	return data, result, nil
}

// runOnly converts a single page and names the file after its title, or
// after its URL when urlNames is set.
func runOnly(ctx context.Context, target string, p *pipeline, writer *output.Writer, urlNames bool) error {
	data, result, err := p.process(ctx, target)
	if err != nil {
		return err
	}

	write := writer.WriteTitled
	name := result.Title
	if urlNames {
		write, name = writer.WriteOnly, result.URL
	}
	path, err := write(name, data, p.renderer.Extension())
	if err != nil {
		return err
	}
	progressf("✓ Written: %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return nil
}

// runAll discovers internal pages and converts them with a bounded
// worker pool. Failed pages are reported and skipped.
func runAll(ctx context.Context, rawURL string, p *pipeline, writer *output.Writer, cfg config.Config) error {
	progressf("Discovering pages from %s...\n", rawURL)

	urls, err := crawl.DiscoverAll(ctx, rawURL, crawl.Options{
		MaxPages:  cfg.Crawl.MaxPages,
		MaxDepth:  cfg.Crawl.MaxDepth,
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
	})
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}

	progressf("Found %d pages to process\n", len(urls))

	var (
		mu       sync.Mutex
		errCount atomic.Int64
		total    atomic.Int64
		done     int
	)
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		done++
		progressf("[%d/%d] "+format, append([]any{done, len(urls)}, args...)...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Crawl.Workers)
	for _, pageURL := range urls {
		g.Go(func() error {
			data, _, err := p.process(gctx, pageURL)
			if err == nil {
				var path string
				path, err = writer.WriteAll(pageURL, data, p.renderer.Extension())
				if err == nil {
					total.Add(int64(len(data)))
					report("✓ Written: %s\n", path)
					return nil
				}
			}
			errCount.Add(1)
			logger.Debug("page failed", "url", pageURL, "error", err)
			report("✗ %s: %v\n", pageURL, err)
			// Cancellation stops the whole run; other failures are per page.
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	progressf("Done: %d pages, %s written\n", len(urls)-int(errCount.Load()), humanize.Bytes(uint64(total.Load())))
	if n := errCount.Load(); n > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d pages failed\n", n, len(urls))
	}
	return nil
}

// validateFlags checks that at most one output format is chosen and
// that --only and --all are not both specified.
func validateFlags() error {
	if flagOnly && flagAll {
		return fmt.Errorf("--only and --all are mutually exclusive")
	}

	formatCount := 0
	for _, set := range []bool{flagMarkdown, flagFrontMatter, flagJSON, flagPDF} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// flagFormat returns the format named by a format flag, or "".
func flagFormat() string {
	switch {
	case flagMarkdown:
		return "markdown"
	case flagFrontMatter:
		return "frontmatter"
	case flagJSON:
		return "json"
	case flagPDF:
		return "pdf"
	}
	return ""
}

// selectRenderer creates the Renderer for a configured format.
func selectRenderer(format string) core.Renderer {
	switch format {
	case "frontmatter":
		return render.NewFrontMatterRenderer()
	case "json":
		return render.NewJSONRenderer()
	case "pdf":
		return render.NewPDFRenderer()
	default:
		return render.NewMarkdownRenderer()
	}
}
