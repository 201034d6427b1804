package core

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// maxPageBytes caps how much of a page body is read; article pages past a
// couple of megabytes are never worth the extraction cost.
const maxPageBytes = 2 << 20

// HTTPClient is a small retrying HTTP client shared by the feed and page
// fetch paths. Every request carries the identifying agent header.
type HTTPClient struct {
	client    *http.Client
	userAgent string
	retries   int
	backoff   time.Duration
}

// NewHTTPClient builds a client with a bounded per-request timeout so a
// single unreachable source cannot stall a run indefinitely.
func NewHTTPClient(timeout time.Duration, userAgent string, retries int, backoff time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	if backoff == 0 {
		backoff = 300 * time.Millisecond
	}
	return &HTTPClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		retries:   retries,
		backoff:   backoff,
	}
}

// StdClient exposes the underlying *http.Client for libraries that take one.
func (c *HTTPClient) StdClient() *http.Client { return c.client }

// UserAgent returns the configured agent header value.
func (c *HTTPClient) UserAgent() string { return c.userAgent }

// Get fetches a URL and returns up to maxPageBytes of the body, retrying
// with exponential backoff on transport errors and non-2xx statuses.
func (c *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	tries := c.retries + 1
	for attempt := 0; attempt < tries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				if readErr != nil {
					lastErr = readErr
				} else {
					return body, nil
				}
			} else {
				lastErr = errors.New(resp.Status)
			}
		}

		if attempt < tries-1 {
			select {
			case <-time.After(c.backoff * time.Duration(1<<attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
