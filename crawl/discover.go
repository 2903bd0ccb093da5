// Package crawl provides URL discovery for --all mode.
// It discovers internal pages via sitemap.xml and link crawling,
// keeping crawling logic separate from the conversion pipeline.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gaurav-prasanna/pagemd/internal/logger"
	"github.com/gocolly/colly/v2"
)

const (
	defaultMaxPages = 500
	sitemapTimeout  = 15 * time.Second
)

// Options bound a discovery run.
type Options struct {
	// MaxPages caps the number of discovered pages, start page included.
	MaxPages int
	// MaxDepth is the largest link distance from the start page.
	MaxDepth  int
	UserAgent string
	Timeout   time.Duration
}

// sitemapURL holds a URL from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is the root element of a sitemap.xml.
type sitemapIndex struct {
	URLs []sitemapURL `xml:"url"`
}

// DiscoverAll finds the internal pages to convert starting from baseURL.
// It first tries sitemap.xml, then falls back to link crawling. The
// baseURL itself is always first.
func DiscoverAll(ctx context.Context, baseURL string, opts Options) ([]string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("crawling needs an http(s) URL, got %q", baseURL)
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}

	queue := NewQueue(opts.MaxPages)
	queue.Add(NormalizeURL(baseURL))

	sitemap := fmt.Sprintf("%s://%s/sitemap.xml", parsed.Scheme, parsed.Host)
	urls, err := discoverFromSitemap(ctx, sitemap, parsed.Host, opts)
	if err == nil && len(urls) > 0 {
		logger.Debug("using sitemap", "url", sitemap, "pages", len(urls))
		for _, u := range urls {
			queue.Add(u)
		}
		return queue.All(), nil
	}
	logger.Debug("sitemap unavailable, crawling links", "url", sitemap, "error", err)

	if err := discoverFromLinks(ctx, parsed, queue, opts); err != nil {
		return nil, err
	}
	return queue.All(), nil
}

// discoverFromSitemap fetches and parses sitemap.xml for internal URLs.
func discoverFromSitemap(ctx context.Context, sitemapURL string, domain string, opts Options) ([]string, error) {
	client := &http.Client{Timeout: sitemapTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var sitemap sitemapIndex
	if err := xml.Unmarshal(body, &sitemap); err != nil {
		return nil, err
	}

	var urls []string
	for _, u := range sitemap.URLs {
		if IsSameDomain(u.Loc, domain) && !IsStaticAsset(u.Loc) {
			urls = append(urls, NormalizeURL(u.Loc))
		}
	}
	return urls, nil
}

// discoverFromLinks crawls same-domain links breadth first with colly,
// one link distance per round.
func discoverFromLinks(ctx context.Context, start *url.URL, queue *Queue, opts Options) error {
	c := colly.NewCollector(
		colly.AllowedDomains(start.Hostname()),
		colly.StdlibContext(ctx),
	)
	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	}
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	var next []string
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := ResolveLink(e.Attr("href"), e.Request.URL)
		if link == "" || !IsSameDomain(link, start.Host) || IsStaticAsset(link) {
			return
		}
		link = NormalizeURL(link)
		if queue.Add(link) {
			next = append(next, link)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		// Skip failed pages, don't block the crawl.
		logger.Debug("crawl error", "url", r.Request.URL.String(), "status", r.StatusCode, "error", err)
	})

	frontier := []string{start.String()}
	for depth := 0; depth < opts.MaxDepth && len(frontier) > 0 && !queue.Full(); depth++ {
		next = nil
		for _, u := range frontier {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.Visit(u); err != nil {
				logger.Debug("crawl visit skipped", "url", u, "error", err)
			}
		}
		logger.Debug("crawl round", "depth", depth+1, "found", len(next))
		frontier = next
	}
	return ctx.Err()
}
