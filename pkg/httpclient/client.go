package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Options describes a single outbound request. The URI is fully
// constructed by the caller; QueryParameters are appended to it.
type Options struct {
	// URI is the request target without query parameters.
	URI string

	// QueryParameters are appended to the URI's query string.
	QueryParameters map[string]string

	// Headers are set on the request verbatim.
	Headers map[string]string

	// Content is the request body, marshaled as JSON when non-nil.
	// Ignored for GET.
	Content any
}

// Doer is the HTTP capability consumed by dynamic resolution: three
// methods, each performing exactly one attempt and returning the decoded
// response envelope.
type Doer interface {
	Get(ctx context.Context, opts Options) (any, error)
	Post(ctx context.Context, opts Options) (any, error)
	Put(ctx context.Context, opts Options) (any, error)
}

// Client implements Doer on top of net/http with the layered transports
// configured by Config.
type Client struct {
	http    *http.Client
	guard   *hostGuard
	limiter *rate.Limiter
}

// New creates a Client from the given configuration.
// The underlying http.Client uses TLS 1.2 minimum, TLS 1.3 preferred,
// and pooled connections. Returns an error if the configuration is invalid.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseTransport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
		},

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	// Logging transport: request logging, User-Agent, correlation ID.
	var transport http.RoundTripper = newLoggingTransport(baseTransport, cfg.UserAgent)

	// Token transport: bearer token injection when a source is configured.
	if cfg.TokenSource != nil {
		transport = &oauth2.Transport{
			Source: cfg.TokenSource,
			Base:   transport,
		}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst == 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		guard:   newHostGuard(cfg.AllowedHosts, cfg.BlockedHosts),
		limiter: limiter,
	}, nil
}

// Get implements Doer.
func (c *Client) Get(ctx context.Context, opts Options) (any, error) {
	return c.do(ctx, http.MethodGet, opts)
}

// Post implements Doer.
func (c *Client) Post(ctx context.Context, opts Options) (any, error) {
	return c.do(ctx, http.MethodPost, opts)
}

// Put implements Doer.
func (c *Client) Put(ctx context.Context, opts Options) (any, error) {
	return c.do(ctx, http.MethodPut, opts)
}

// do performs a single request attempt and shapes the response into the
// envelope consumed by response normalization.
func (c *Client) do(ctx context.Context, method string, opts Options) (any, error) {
	target, err := buildTarget(opts.URI, opts.QueryParameters)
	if err != nil {
		return nil, fmt.Errorf("invalid request uri: %w", err)
	}

	if err := c.guard.check(target.Hostname()); err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if method != http.MethodGet && opts.Content != nil {
		encoded, err := json.Marshal(opts.Content)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for name, value := range opts.Headers {
		req.Header.Set(name, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return envelopeFromResponse(resp)
}

// buildTarget parses the URI and appends query parameters.
func buildTarget(uri string, queries map[string]string) (*url.URL, error) {
	target, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	if len(queries) > 0 {
		q := target.Query()
		for name, value := range queries {
			q.Set(name, value)
		}
		target.RawQuery = q.Encode()
	}

	return target, nil
}

// envelopeFromResponse converts an HTTP response into the decoded
// envelope shape: statusCode is the literal "OK" for any 2xx status and
// the numeric status code otherwise; headers carry the first value per
// name; body is the decoded JSON payload, or the raw text when the
// payload is not JSON.
func envelopeFromResponse(resp *http.Response) (any, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var decoded any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = string(raw)
		}
	}

	var statusCode any
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		statusCode = "OK"
	} else {
		statusCode = resp.StatusCode
	}

	headers := make(map[string]any, len(resp.Header))
	for name, values := range resp.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	return map[string]any{
		"statusCode": statusCode,
		"headers":    headers,
		"body":       decoded,
	}, nil
}
