// Package fetch implements the Fetcher interface.
// HTTPFetcher performs plain GET requests, BrowserFetcher renders the live
// document in headless Chrome, and FileFetcher reads saved pages from disk.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/gaurav-prasanna/pagemd/internal/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pagemd/1.0 (https://github.com/gaurav-prasanna/pagemd)"
	maxBodyBytes     = 32 << 20
)

// ErrUnsupportedURL is returned for pages that cannot be converted, such
// as browser-internal pages.
var ErrUnsupportedURL = errors.New("unsupported URL")

var internalPrefixes = []string{"chrome://", "chrome-extension://", "edge://", "about:"}

// CheckURL rejects browser-internal pages.
func CheckURL(rawURL string) error {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	for _, prefix := range internalPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return fmt.Errorf("%w: cannot convert browser pages (%s)", ErrUnsupportedURL, rawURL)
		}
	}
	return nil
}

// Options tune the network fetchers.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// New creates an HTTPFetcher.
func New(opts Options) *HTTPFetcher {
	opts = opts.withDefaults()
	return &HTTPFetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
	}
}

// Fetch retrieves the HTML content of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	if err := CheckURL(url); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	logger.Debug("http fetch", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	// Redirects change the base that relative links resolve against.
	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &core.FetchResult{
		URL:        finalURL,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}
