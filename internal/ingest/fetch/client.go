package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/fortuna/hoopsync/internal/logging"
)

// PageSource returns the HTML of a page.
type PageSource interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// ClientOptions configures Client.
type ClientOptions struct {
	Timeout time.Duration
	// PolitenessDelay is the minimum spacing between requests. Zero disables pacing.
	PolitenessDelay time.Duration
	UserAgent       string
	Headers         map[string]string
}

// Client is a paced HTTP client shared by every job in a run.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient builds a Client.
func NewClient(opts ClientOptions, logger *slog.Logger) *Client {
	logger = logging.NewComponentLogger(logger, "fetch")

	httpClient := resty.New()
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("User-Agent", opts.UserAgent)
	}
	httpClient.SetHeaders(opts.Headers)

	limit := rate.Inf
	if opts.PolitenessDelay > 0 {
		limit = rate.Every(opts.PolitenessDelay)
	}
	limiter := rate.NewLimiter(limit, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{http: httpClient, logger: logger}
}

// Get issues a GET and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, url string, query map[string]string, headers map[string]string) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	started := time.Now()
	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	c.logger.Debug("http response",
		logging.String(logging.FieldURL, url),
		logging.Int("status", resp.StatusCode()),
		logging.Int("bytes", len(resp.Body())),
		logging.Duration("elapsed", time.Since(started)),
	)
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode()}
	}
	return resp.Body(), nil
}

// FetchPage implements PageSource.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url, nil, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
