// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	podiumerrors "github.com/tombee/podium/pkg/errors"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config represents the complete Podium configuration.
type Config struct {
	// Designer configures the backing designer API used for generic and
	// managed-identity invocations.
	Designer DesignerConfig `yaml:"designer"`

	// APIHub configures the API-Hub runtime used for ARM-resource
	// connections. When unset it defaults to the designer endpoint.
	APIHub APIHubConfig `yaml:"apihub,omitempty"`

	// Identity configures how outbound calls authenticate to the
	// backing API.
	Identity IdentityConfig `yaml:"identity,omitempty"`

	// HTTP configures the outbound transport.
	HTTP HTTPConfig `yaml:"http,omitempty"`

	// Operations is the connector/operation allow-list eligible for
	// dynamic resolution.
	Operations []OperationRef `yaml:"operations"`

	// Daemon configures podiumd.
	Daemon DaemonConfig `yaml:"daemon,omitempty"`

	// Log configures logging for both CLI and daemon.
	Log LogConfig `yaml:"log,omitempty"`
}

// DesignerConfig configures the backing designer API endpoint.
type DesignerConfig struct {
	// BaseURL is the designer API base URL. Required.
	BaseURL string `yaml:"base_url"`

	// APIVersion is the api-version query value. Required.
	APIVersion string `yaml:"api_version"`

	// ManagedIdentityAPIVersion is the api-version used for
	// managed-identity dynamicInvoke calls. Defaults to APIVersion.
	ManagedIdentityAPIVersion string `yaml:"managed_identity_api_version,omitempty"`
}

// APIHubConfig configures the API-Hub runtime endpoint.
type APIHubConfig struct {
	// BaseURL is the API-Hub base URL. Defaults to the designer base URL.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIVersion is the api-version for API-Hub proxy calls.
	// Defaults to the designer API version.
	APIVersion string `yaml:"api_version,omitempty"`
}

// IdentityConfig configures outbound authentication.
type IdentityConfig struct {
	// Token is a secret reference (env://NAME, keyring://KEY, or a
	// literal) resolved to a static bearer token. Mutually exclusive
	// with ClientCredentials.
	Token string `yaml:"token,omitempty"`

	// ClientCredentials configures an OAuth2 client-credentials token
	// source. Takes precedence over Token when TokenURL is set.
	ClientCredentials ClientCredentialsConfig `yaml:"client_credentials,omitempty"`
}

// ClientCredentialsConfig holds OAuth2 client-credentials settings.
type ClientCredentialsConfig struct {
	// TokenURL is the token endpoint. Empty disables this source.
	TokenURL string `yaml:"token_url,omitempty"`

	// ClientID is the OAuth2 client ID.
	ClientID string `yaml:"client_id,omitempty"`

	// ClientSecret is a secret reference for the OAuth2 client secret.
	ClientSecret string `yaml:"client_secret,omitempty"`

	// Scopes are the requested scopes.
	Scopes []string `yaml:"scopes,omitempty"`
}

// HTTPConfig configures the outbound transport.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent is the User-Agent header for outbound requests.
	UserAgent string `yaml:"user_agent,omitempty"`

	// AllowedHosts restricts outbound hosts; empty allows all.
	// Patterns support * wildcards and CIDR notation.
	AllowedHosts []string `yaml:"allowed_hosts,omitempty"`

	// BlockedHosts denies outbound hosts; checked before AllowedHosts.
	BlockedHosts []string `yaml:"blocked_hosts,omitempty"`

	// RateLimit is the maximum outbound requests per second.
	// Zero disables rate limiting.
	RateLimit float64 `yaml:"rate_limit,omitempty"`

	// RateBurst is the rate limiter burst size.
	RateBurst int `yaml:"rate_burst,omitempty"`
}

// OperationRef identifies one allow-listed connector operation.
type OperationRef struct {
	Connector string `yaml:"connector"`
	Operation string `yaml:"operation"`
}

// DaemonConfig configures podiumd.
type DaemonConfig struct {
	// Listen is the TCP address the daemon binds (e.g. "127.0.0.1:8170").
	// Default: 127.0.0.1:8170
	Listen string `yaml:"listen,omitempty"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`

	// Auth configures bearer-token authentication for daemon endpoints.
	Auth AuthConfig `yaml:"auth,omitempty"`

	// Tracing configures span export.
	Tracing TracingConfig `yaml:"tracing,omitempty"`

	// Metrics enables the /metrics endpoint.
	// Default: true
	Metrics *bool `yaml:"metrics,omitempty"`

	// WatchConfig reloads the service when the config file changes.
	// Default: true
	WatchConfig *bool `yaml:"watch_config,omitempty"`
}

// AuthConfig configures daemon authentication.
type AuthConfig struct {
	// Enabled controls whether bearer tokens are required.
	Enabled bool `yaml:"enabled"`

	// JWTSecret is a secret reference for the HS256 signing secret.
	JWTSecret string `yaml:"jwt_secret,omitempty"`

	// Issuer, when set, is required to match the token's iss claim.
	Issuer string `yaml:"issuer,omitempty"`

	// Audience, when set, is required to match the token's aud claim.
	Audience string `yaml:"audience,omitempty"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	// Exporter selects the span exporter: none, stdout, otlp-grpc, otlp-http.
	// Default: none
	Exporter string `yaml:"exporter,omitempty"`

	// Endpoint is the OTLP collector endpoint for the otlp exporters.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Format is the log format (text, json).
	Format string `yaml:"format,omitempty"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in default values for any unset fields.
func (c *Config) applyDefaults() {
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.RateBurst == 0 && c.HTTP.RateLimit > 0 {
		c.HTTP.RateBurst = 1
	}
	if c.Daemon.Listen == "" {
		c.Daemon.Listen = "127.0.0.1:8170"
	}
	if c.Daemon.ShutdownTimeout == 0 {
		c.Daemon.ShutdownTimeout = 10 * time.Second
	}
	if c.Daemon.Metrics == nil {
		enabled := true
		c.Daemon.Metrics = &enabled
	}
	if c.Daemon.WatchConfig == nil {
		enabled := true
		c.Daemon.WatchConfig = &enabled
	}
	if c.Daemon.Tracing.Exporter == "" {
		c.Daemon.Tracing.Exporter = "none"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.APIHub.BaseURL == "" {
		c.APIHub.BaseURL = c.Designer.BaseURL
	}
	if c.APIHub.APIVersion == "" {
		c.APIHub.APIVersion = c.Designer.APIVersion
	}
	if c.Designer.ManagedIdentityAPIVersion == "" {
		c.Designer.ManagedIdentityAPIVersion = c.Designer.APIVersion
	}
}

// Validate checks the configuration for errors. The first problem found
// is returned as a *errors.ValidationError naming the offending field.
func (c *Config) Validate() error {
	if c.Designer.BaseURL == "" {
		return &podiumerrors.ValidationError{
			Field:      "designer.base_url",
			Message:    "designer base URL is required",
			Suggestion: "set designer.base_url in config.yaml or PODIUM_DESIGNER_BASE_URL",
		}
	}
	if _, err := url.Parse(c.Designer.BaseURL); err != nil {
		return &podiumerrors.ValidationError{
			Field:   "designer.base_url",
			Message: "designer base URL is not a valid URL",
		}
	}
	if c.Designer.APIVersion == "" {
		return &podiumerrors.ValidationError{
			Field:      "designer.api_version",
			Message:    "designer API version is required",
			Suggestion: "set designer.api_version in config.yaml or PODIUM_DESIGNER_API_VERSION",
		}
	}
	if c.HTTP.RateLimit < 0 {
		return &podiumerrors.ValidationError{
			Field:   "http.rate_limit",
			Message: "rate limit must not be negative",
		}
	}
	if c.Daemon.Auth.Enabled && c.Daemon.Auth.JWTSecret == "" {
		return &podiumerrors.ValidationError{
			Field:      "daemon.auth.jwt_secret",
			Message:    "auth is enabled but no JWT secret is configured",
			Suggestion: "set daemon.auth.jwt_secret (env://NAME or keyring://KEY references are supported)",
		}
	}
	switch c.Daemon.Tracing.Exporter {
	case "", "none", "stdout", "otlp-grpc", "otlp-http":
	default:
		return &podiumerrors.ValidationError{
			Field:      "daemon.tracing.exporter",
			Message:    "unknown tracing exporter",
			Suggestion: "use one of: none, stdout, otlp-grpc, otlp-http",
		}
	}
	for i, op := range c.Operations {
		if op.Connector == "" || op.Operation == "" {
			return &podiumerrors.ValidationError{
				Field:      "operations",
				Message:    "allow-list entries need both connector and operation",
				Suggestion: "check entry " + strconv.Itoa(i) + " in the operations list",
			}
		}
	}
	return nil
}
