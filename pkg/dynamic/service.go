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

package dynamic

import (
	"log/slog"
	"strings"

	"github.com/tombee/podium/internal/messages"
	"github.com/tombee/podium/pkg/errors"
	"github.com/tombee/podium/pkg/httpclient"
)

// Config configures a resolution Service. APIVersion, BaseURL, HTTPClient,
// SupportedOperations, ValueClients, and SchemaClients are required;
// construction fails fast naming the first missing field.
type Config struct {
	// APIVersion is the designer/runtime service API version.
	APIVersion string

	// BaseURL is the designer/runtime base URL used for generic and
	// managed-identity addressing.
	BaseURL string

	// HTTPClient dispatches the outbound calls.
	HTTPClient httpclient.Doer

	// SupportedOperations is the read-only operation allow-list. Must be
	// non-nil; empty means nothing is supported.
	SupportedOperations []OperationInfo

	// ValueClients maps operation IDs to provider-specific value
	// resolvers. Operations not present fall back to the legacy
	// path-based resolver. Must be non-nil.
	ValueClients map[string]ValueResolver

	// SchemaClients is the schema counterpart of ValueClients.
	SchemaClients map[string]SchemaResolver

	// APIHub addresses the extension proxy for ARM-identified
	// connectors. Defaults to BaseURL and APIVersion.
	APIHub *APIHubDetails

	// ManagedIdentityAPIVersion is the dynamicInvoke endpoint's API
	// version. Defaults to APIVersion.
	ManagedIdentityAPIVersion string

	// Messages renders diagnostic strings. Defaults to the process-wide
	// printer.
	Messages *messages.Printer

	// Logger receives structured resolution logs. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Validate checks the required configuration, failing with a
// *errors.ValidationError naming the first missing field.
func (c *Config) Validate() error {
	if c.APIVersion == "" {
		return &errors.ValidationError{Field: "apiVersion", Message: "must not be empty"}
	}
	if c.BaseURL == "" {
		return &errors.ValidationError{Field: "baseUrl", Message: "must not be empty"}
	}
	if c.HTTPClient == nil {
		return &errors.ValidationError{Field: "httpClient", Message: "must not be nil"}
	}
	if c.SupportedOperations == nil {
		return &errors.ValidationError{Field: "supportedOperations", Message: "must not be nil"}
	}
	if c.ValueClients == nil {
		return &errors.ValidationError{Field: "valueClients", Message: "must not be nil"}
	}
	if c.SchemaClients == nil {
		return &errors.ValidationError{Field: "schemaClients", Message: "must not be nil"}
	}
	return nil
}

// Service is the legacy path-based dynamic resolver. It is immutable
// after construction; all per-call state is call-local, so concurrent
// resolutions are independent and safe.
type Service struct {
	client        *Client
	supported     []OperationInfo
	valueClients  map[string]ValueResolver
	schemaClients map[string]SchemaResolver
	msgs          *messages.Printer
	logger        *slog.Logger
}

// NewService creates a Service from the given configuration.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiHub := APIHubDetails{BaseURL: cfg.BaseURL, APIVersion: cfg.APIVersion}
	if cfg.APIHub != nil {
		apiHub = *cfg.APIHub
	}
	miVersion := cfg.ManagedIdentityAPIVersion
	if miVersion == "" {
		miVersion = cfg.APIVersion
	}
	msgs := cfg.Messages
	if msgs == nil {
		msgs = messages.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	supported := make([]OperationInfo, len(cfg.SupportedOperations))
	copy(supported, cfg.SupportedOperations)

	valueClients := make(map[string]ValueResolver, len(cfg.ValueClients))
	for id, resolver := range cfg.ValueClients {
		valueClients[id] = resolver
	}
	schemaClients := make(map[string]SchemaResolver, len(cfg.SchemaClients))
	for id, resolver := range cfg.SchemaClients {
		schemaClients[id] = resolver
	}

	return &Service{
		client: &Client{
			http:                      cfg.HTTPClient,
			baseURL:                   cfg.BaseURL,
			apiVersion:                cfg.APIVersion,
			apiHub:                    apiHub,
			managedIdentityAPIVersion: miVersion,
			msgs:                      msgs,
			logger:                    logger,
		},
		supported:     supported,
		valueClients:  valueClients,
		schemaClients: schemaClients,
		msgs:          msgs,
		logger:        logger,
	}, nil
}

// IsClientSupportedOperation reports whether the connector/operation pair
// is allow-listed, comparing both fields jointly and case-insensitively.
// Owning callers check this before resolving; the resolver itself does
// not.
func (s *Service) IsClientSupportedOperation(connectorID, operationID string) bool {
	for _, op := range s.supported {
		if strings.EqualFold(op.ConnectorID, connectorID) && strings.EqualFold(op.OperationID, operationID) {
			return true
		}
	}
	return false
}

// SupportedOperations returns a copy of the configured allow-list.
func (s *Service) SupportedOperations() []OperationInfo {
	out := make([]OperationInfo, len(s.supported))
	copy(out, s.supported)
	return out
}

// ValueResolverFor returns the provider-specific value resolver
// registered for the operation, or the Service's own legacy path-based
// resolution when none is.
func (s *Service) ValueResolverFor(operationID string) ValueResolver {
	if resolver, ok := s.valueClients[operationID]; ok {
		return resolver
	}
	return s
}

// SchemaResolverFor is the schema counterpart of ValueResolverFor.
func (s *Service) SchemaResolverFor(operationID string) SchemaResolver {
	if resolver, ok := s.schemaClients[operationID]; ok {
		return resolver
	}
	return s
}
