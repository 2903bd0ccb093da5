package fetch

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/gaurav-prasanna/pagemd/core"
	"github.com/gaurav-prasanna/pagemd/internal/logger"
)

// BrowserFetcher loads pages in headless Chrome and captures the DOM after
// scripts have run.
type BrowserFetcher struct {
	opts        Options
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
}

// NewBrowser starts a browser allocator. Call Close when done.
func NewBrowser(opts Options) *BrowserFetcher {
	opts = opts.withDefaults()
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.UserAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &BrowserFetcher{opts: opts, allocCtx: allocCtx, cancelAlloc: cancel}
}

// Fetch navigates to url and returns the rendered document and its title.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	if err := CheckURL(url); err != nil {
		return nil, err
	}

	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, f.opts.Timeout)
	defer cancelTimeout()

	// Stop the browser when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var html, title string
	logger.Debug("browser fetch", "url", url, "timeout", f.opts.Timeout)
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
		chromedp.Title(&title),
	)
	if err != nil {
		return nil, fmt.Errorf("browser fetch %s: %w", url, err)
	}

	return &core.FetchResult{
		URL:        url,
		StatusCode: 200,
		HTML:       html,
		Title:      title,
	}, nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() error {
	f.cancelAlloc()
	return nil
}
