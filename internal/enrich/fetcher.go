// Package enrich gathers public context about a submitter: page text via
// a headless browser, and search-result snippets with URL extraction.
package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Sentinel strings returned by VisibleText instead of errors. The fetch
// degrades rather than failing the pipeline run.
const (
	SentinelScrapeError = "Error scraping page"
	SentinelNoContent   = "No text content found"
)

// PageFetcher retrieves the visible text of a web page.
type PageFetcher interface {
	// VisibleText never fails: navigation and timeout errors collapse
	// into SentinelScrapeError.
	VisibleText(ctx context.Context, pageURL string) string
}

// ChromeFetcher implements PageFetcher with a headless Chrome session.
// Each fetch launches and tears down its own browser; nothing is pooled.
type ChromeFetcher struct {
	timeout   time.Duration
	userAgent string
}

// NewChromeFetcher creates a fetcher with the given per-fetch timeout.
func NewChromeFetcher(timeout time.Duration, userAgent string) *ChromeFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeFetcher{timeout: timeout, userAgent: userAgent}
}

func (f *ChromeFetcher) VisibleText(ctx context.Context, pageURL string) string {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate("document.body.innerText", &text),
	)
	if err != nil {
		zap.L().Warn("page fetch failed",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		return SentinelScrapeError
	}

	if strings.TrimSpace(text) == "" {
		return SentinelNoContent
	}
	return text
}
