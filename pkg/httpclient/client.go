// Package httpclient fetches shared meeting pages over HTTP.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrTooLarge is returned when the body exceeds the configured limit.
	ErrTooLarge = errors.New("response body too large")
)

const maxRedirects = 10

// HTTPClient wraps an http.Client with browser-like headers and a body cap.
type HTTPClient struct {
	client   *http.Client
	maxBytes int64
}

// NewClient creates a client. maxBytes <= 0 disables the body cap.
func NewClient(timeout time.Duration, maxBytes int64) *HTTPClient {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &HTTPClient{
		client:   client,
		maxBytes: maxBytes,
	}
}

// Fetch downloads url and returns its body.
func (c *HTTPClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	body := io.Reader(resp.Body)
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, c.maxBytes)
	}
	return data, nil
}

// Meeting tools answer 406 to Go's default User-Agent.
func setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}
