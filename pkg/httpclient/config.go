package httpclient

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Config configures the HTTP client with timeout, auth, and observability settings.
type Config struct {
	// Timeout is the total request timeout.
	// Default: 30s. Must be > 0.
	Timeout time.Duration

	// UserAgent is the User-Agent header value.
	// Required. Must be non-empty.
	UserAgent string

	// TokenSource supplies bearer tokens for outbound requests.
	// Optional. When nil, requests carry no Authorization header unless
	// the caller sets one per request.
	TokenSource oauth2.TokenSource

	// AllowedHosts restricts outbound requests to matching hosts.
	// Patterns support exact names, wildcards ("*.example.com"), and
	// CIDR notation. Empty means all hosts are allowed except blocked ones.
	AllowedHosts []string

	// BlockedHosts denies requests to matching hosts. Checked before
	// AllowedHosts; a match here always wins.
	BlockedHosts []string

	// RateLimit is the maximum sustained request rate in requests per
	// second. Zero disables client-side rate limiting.
	RateLimit float64

	// RateBurst is the burst size for the rate limiter.
	// Default: 1 when RateLimit > 0. Must be >= 0.
	RateBurst int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "podium-http-client/1.0",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required and must be non-empty")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be >= 0, got %v", c.RateLimit)
	}

	if c.RateBurst < 0 {
		return fmt.Errorf("rate_burst must be >= 0, got %d", c.RateBurst)
	}

	return nil
}
