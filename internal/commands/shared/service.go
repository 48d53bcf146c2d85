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

package shared

import (
	"context"
	"io"
	"log/slog"

	"github.com/tombee/podium/internal/config"
	"github.com/tombee/podium/internal/identity"
	internallog "github.com/tombee/podium/internal/log"
	"github.com/tombee/podium/internal/secrets"
	"github.com/tombee/podium/pkg/dynamic"
	"github.com/tombee/podium/pkg/httpclient"
)

// LoadConfig loads the configuration from the --config flag path, or the
// default config location when the flag is unset.
func LoadConfig() (*config.Config, error) {
	path := GetConfigPath()
	if path == "" {
		var err error
		path, err = config.ConfigPath()
		if err != nil {
			return nil, NewConfigError("failed to locate config", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, NewConfigError("failed to load config", err)
	}
	return cfg, nil
}

// NewService builds a resolution service from a loaded configuration,
// wiring secret resolution, the token source, and the outbound client.
func NewService(ctx context.Context, cfg *config.Config) (*dynamic.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewConfigError("invalid config", err)
	}

	resolver := secrets.NewResolver()
	tokenSource, err := identity.TokenSource(ctx, cfg.Identity, resolver)
	if err != nil {
		return nil, NewConfigError("failed to configure identity", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.HTTP.Timeout,
		UserAgent:    cfg.HTTP.UserAgent,
		TokenSource:  tokenSource,
		AllowedHosts: cfg.HTTP.AllowedHosts,
		BlockedHosts: cfg.HTTP.BlockedHosts,
		RateLimit:    cfg.HTTP.RateLimit,
		RateBurst:    cfg.HTTP.RateBurst,
	})
	if err != nil {
		return nil, NewConfigError("failed to create HTTP client", err)
	}

	supported := make([]dynamic.OperationInfo, len(cfg.Operations))
	for i, op := range cfg.Operations {
		supported[i] = dynamic.OperationInfo{
			ConnectorID: op.Connector,
			OperationID: op.Operation,
		}
	}

	service, err := dynamic.NewService(dynamic.Config{
		APIVersion:          cfg.Designer.APIVersion,
		BaseURL:             cfg.Designer.BaseURL,
		HTTPClient:          client,
		SupportedOperations: supported,
		ValueClients:        map[string]dynamic.ValueResolver{},
		SchemaClients:       map[string]dynamic.SchemaResolver{},
		APIHub: &dynamic.APIHubDetails{
			BaseURL:    cfg.APIHub.BaseURL,
			APIVersion: cfg.APIHub.APIVersion,
		},
		ManagedIdentityAPIVersion: cfg.Designer.ManagedIdentityAPIVersion,
		Logger:                    cliLogger(),
	})
	if err != nil {
		return nil, NewConfigError("failed to create resolution service", err)
	}
	return service, nil
}

// cliLogger builds a logger for CLI resolutions. Quiet commands discard
// resolution logs entirely; verbose enables debug level.
func cliLogger() *slog.Logger {
	cfg := internallog.FromEnv()
	if GetVerbose() {
		cfg.Level = "debug"
	}
	if GetQuiet() {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg.Format = internallog.FormatText
	return internallog.New(cfg)
}
