// Package http provides HTTP-based implementations of the docdex
// discovery strategies: manifest probing, sitemap resolution, and the
// repository API walk.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/docdex/docdex/discover"
)

// DefaultTimeout bounds every outbound fetch so a single slow origin
// cannot stall an entire discovery run.
const DefaultTimeout = 15 * time.Second

// UserAgent identifies the indexer on every outbound request.
const UserAgent = "docdex-bot/1.0 (+https://docdex.dev/bot)"

// maxBodyBytes caps response bodies read into memory.
const maxBodyBytes = 10 * 1024 * 1024

// Limiter provides per-host rate limiting for outbound fetches.
// The discover package provides a token-bucket implementation.
type Limiter interface {
	Wait(ctx context.Context, host string) error
}

// Client is an explicitly constructed HTTP client shared by the
// discovery strategies. Its lifecycle is owned by the caller; there is
// no package-level singleton.
type Client struct {
	client      *http.Client
	limiter     Limiter
	headers     map[string]string
	retryDelays []time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithLimiter sets a per-host rate limiter applied before each request.
func WithLimiter(l Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithHTTPClient replaces the underlying http.Client. Used by tests to
// point at httptest servers with their own transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithHeader adds a header to every outbound request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithRetryDelays enables backoff retries of transient fetch failures:
// transport errors and 5xx statuses. One retry per delay. Without this
// option every fetch is a single attempt.
func WithRetryDelays(delays []time.Duration) Option {
	return func(c *Client) {
		c.retryDelays = delays
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: DefaultTimeout},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errServerStatus marks a 5xx response inside the retry loop so a
// persistent server error still surfaces as a status, not an error.
var errServerStatus = errors.New("server error status")

// Get fetches a URL and returns the response body and status code.
// The error is non-nil only for request construction and transport
// failures; non-2xx statuses are reported through the status code so
// callers can treat them as "strategy unavailable" rather than raising.
// With WithRetryDelays, transport errors and 5xx responses are retried
// before the last result is reported.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	if len(c.retryDelays) == 0 {
		return c.fetch(ctx, rawURL)
	}

	var (
		body   []byte
		status int
	)
	_, err := discover.FetchWithRetryDelays(ctx, rawURL, func(ctx context.Context, u string) ([]byte, error) {
		b, s, err := c.fetch(ctx, u)
		body, status = b, s
		if err != nil {
			return nil, err
		}
		if s >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: HTTP %d for %s", errServerStatus, s, u)
		}
		return b, nil
	}, c.retryDelays)
	if err != nil && !errors.Is(err, errServerStatus) {
		return nil, status, err
	}
	return body, status, nil
}

// fetch performs one attempt.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	return c.do(req)
}

// do executes a prepared request, applying the rate limiter and reading
// the body under the size cap.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context(), req.URL.Host); err != nil {
			return nil, 0, err
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

// resolvePath resolves a well-known path against a base URL string.
func resolvePath(baseURL, path string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return base.ResolveReference(&url.URL{Path: path}).String(), nil
}
