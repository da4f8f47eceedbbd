package report

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"trade-journal/internal/logger"
)

// Fetcher retrieves published report documents over HTTP.
type Fetcher struct {
	timeout   time.Duration
	userAgent string
}

// NewFetcher creates a fetcher with the given request timeout and user agent.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{timeout: timeout, userAgent: userAgent}
}

// Fetch downloads the HTML document at url and returns it as a string. The
// body is returned verbatim; validation happens in Parse.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	c := colly.NewCollector(colly.MaxDepth(1))
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", f.userAgent)
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Report fetch failed", err, "url", url)
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("fetch report %s: %w", url, err)
	}
	c.Wait()

	if fetchErr != nil {
		return "", fmt.Errorf("fetch report %s: %w", url, fetchErr)
	}
	logger.Info(ctx, "Report fetched", "url", url, "bytes", len(body))
	return string(body), nil
}
