// Package network provides the thin HTTP collaborator of the worker-pool
// runtime: a client with a fixed user agent, request timeouts, retry with
// exponential backoff, and an optional submission rate limit.
package network

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/renholt/go-worker-pool/core"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client issues HTTP requests on behalf of the runtime. Safe for
// concurrent use.
type Client struct {
	hc        *http.Client
	userAgent string
	retry     RetryPolicy
	limiter   *rate.Limiter
	logger    core.Logger
}

type clientConfig struct {
	userAgent      string
	connectTimeout time.Duration
	requestTimeout time.Duration
	retry          RetryPolicy
	limiter        *rate.Limiter
	logger         core.Logger
	transport      http.RoundTripper
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) { c.userAgent = ua }
}

// WithConnectTimeout bounds connection establishment.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithRequestTimeout bounds whole requests, including body read.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *clientConfig) { c.retry = p }
}

// WithRateLimit caps Get and Post calls to rps with the given burst. The
// limiter is consulted once per call; retry attempts within a call do not
// wait on it.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *clientConfig) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger injects a logger for request diagnostics.
func WithLogger(l core.Logger) ClientOption {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransport replaces the underlying RoundTripper. Connection
// timeouts configured through WithConnectTimeout do not apply to a
// custom transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *clientConfig) { c.transport = rt }
}

// NewClient builds a Client.
func NewClient(opts ...ClientOption) *Client {
	cfg := clientConfig{
		userAgent:      "go-worker-pool",
		connectTimeout: 5 * time.Second,
		requestTimeout: 30 * time.Second,
		retry:          DefaultRetryPolicy(),
		logger:         core.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	transport := cfg.transport
	if transport == nil {
		transport = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: cfg.connectTimeout,
			}).DialContext,
			TLSHandshakeTimeout: cfg.connectTimeout,
		}
	}

	return &Client{
		hc: &http.Client{
			Transport: transport,
			Timeout:   cfg.requestTimeout,
		},
		userAgent: cfg.userAgent,
		retry:     cfg.retry,
		limiter:   cfg.limiter,
		logger:    cfg.logger,
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, "", nil)
}

// Post issues a POST request with the given body.
func (c *Client) Post(ctx context.Context, url, contentType string, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, contentType, body)
}

func (c *Client) do(ctx context.Context, method, url, contentType string, body []byte) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retry.delay(attempt - 1)
			c.logger.Debug("retrying request",
				core.F("method", method), core.F("url", url),
				core.F("attempt", attempt), core.F("delay", wait))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := c.once(ctx, method, url, contentType, body)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("network: server returned %d", resp.StatusCode)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("network: %s %s failed after %d attempts: %w",
		method, url, c.retry.MaxRetries+1, lastErr)
}

func (c *Client) once(ctx context.Context, method, url, contentType string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}
