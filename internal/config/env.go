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
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envOverrides holds environment-variable overrides for file-backed
// settings. Only variables that are actually set override the file.
type envOverrides struct {
	DesignerBaseURL    string        `envconfig:"DESIGNER_BASE_URL"`
	DesignerAPIVersion string        `envconfig:"DESIGNER_API_VERSION"`
	APIHubBaseURL      string        `envconfig:"APIHUB_BASE_URL"`
	APIHubAPIVersion   string        `envconfig:"APIHUB_API_VERSION"`
	Token              string        `envconfig:"TOKEN"`
	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT"`
	RateLimit          float64       `envconfig:"RATE_LIMIT"`
	Listen             string        `envconfig:"LISTEN"`
	AuthEnabled        *bool         `envconfig:"AUTH_ENABLED"`
	JWTSecret          string        `envconfig:"JWT_SECRET"`
	TracingExporter    string        `envconfig:"TRACING_EXPORTER"`
	TracingEndpoint    string        `envconfig:"TRACING_ENDPOINT"`
	MetricsEnabled     *bool         `envconfig:"METRICS_ENABLED"`
}

// ApplyEnv applies PODIUM_* environment variable overrides on top of the
// file-backed configuration.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process("podium", &env); err != nil {
		return fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if env.DesignerBaseURL != "" {
		c.Designer.BaseURL = env.DesignerBaseURL
	}
	if env.DesignerAPIVersion != "" {
		c.Designer.APIVersion = env.DesignerAPIVersion
	}
	if env.APIHubBaseURL != "" {
		c.APIHub.BaseURL = env.APIHubBaseURL
	}
	if env.APIHubAPIVersion != "" {
		c.APIHub.APIVersion = env.APIHubAPIVersion
	}
	if env.Token != "" {
		c.Identity.Token = env.Token
	}
	if env.HTTPTimeout != 0 {
		c.HTTP.Timeout = env.HTTPTimeout
	}
	if env.RateLimit != 0 {
		c.HTTP.RateLimit = env.RateLimit
	}
	if env.Listen != "" {
		c.Daemon.Listen = env.Listen
	}
	if env.AuthEnabled != nil {
		c.Daemon.Auth.Enabled = *env.AuthEnabled
	}
	if env.JWTSecret != "" {
		c.Daemon.Auth.JWTSecret = env.JWTSecret
	}
	if env.TracingExporter != "" {
		c.Daemon.Tracing.Exporter = env.TracingExporter
	}
	if env.TracingEndpoint != "" {
		c.Daemon.Tracing.Endpoint = env.TracingEndpoint
	}
	if env.MetricsEnabled != nil {
		c.Daemon.Metrics = env.MetricsEnabled
	}

	// Re-derive dependent defaults in case the overrides changed the
	// designer endpoint.
	c.applyDefaults()

	return nil
}
