package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrTimeout is returned when the context expires before a successful response.
	ErrTimeout = errors.New("REQUEST_TIMEOUT")
	// ErrRequestFailed is returned when every attempt failed.
	ErrRequestFailed = errors.New("REQUEST_FAILED")
)

// Client is a JSON client with exponential backoff between attempts.
type Client struct {
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
	headers    map[string]string
}

type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseDelay sets the first backoff delay; it doubles per attempt.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a client. Timeouts come from the request context only.
// NewClient returns a client that makes at most maxRetries+1 attempts.
// Negative values mean a single attempt.
func NewClient(maxRetries int, opts ...Option) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &Client{
		httpClient: &http.Client{},
		maxRetries: maxRetries,
		baseDelay:  100 * time.Millisecond,
		headers:    map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostJSON posts body to url and decodes a 200 response into out. Non-200
// responses and transport errors are retried up to maxRetries times.
func (c *Client) PostJSON(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrRequestFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ErrTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, lastErr = c.httpClient.Do(req)
		if ctx.Err() != nil {
			if resp != nil {
				resp.Body.Close()
			}
			return ErrTimeout
		}
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, lastErr)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode error: %v", ErrRequestFailed, err)
	}
	return nil
}
