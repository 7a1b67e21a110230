package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/fortuna/hoopsync/internal/logging"
)

// BrowserSource renders pages in headless Chrome before returning their HTML.
type BrowserSource struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewBrowserSource starts an exec allocator. Chrome itself launches lazily on
// the first fetch. Call Close when done.
func NewBrowserSource(opts ClientOptions, logger *slog.Logger) *BrowserSource {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.PolitenessDelay > 0 {
		limit = rate.Every(opts.PolitenessDelay)
	}

	return &BrowserSource{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  timeout,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logging.NewComponentLogger(logger, "browser"),
	}
}

// Close shuts down the browser allocator.
func (b *BrowserSource) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// FetchPage implements PageSource.
func (b *BrowserSource) FetchPage(ctx context.Context, url string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}

	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()
	browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	// The browser context is rooted in the allocator, so honour the caller's
	// cancellation explicitly.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	if html == "" {
		return "", errors.New("render " + url + ": empty document")
	}
	b.logger.Debug("page rendered", logging.String(logging.FieldURL, url), logging.Int("bytes", len(html)))
	return html, nil
}
