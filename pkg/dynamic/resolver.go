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

import "context"

// ValuesRequest carries one dynamic pick-list resolution.
type ValuesRequest struct {
	// ConnectionID addresses the connection the invocation runs against.
	ConnectionID string

	// ConnectorID identifies the connector; an ARM resource identifier
	// here selects the API-Hub proxy route.
	ConnectorID string

	// Parameters is the invocation-shaped parameter map (method, path,
	// body, queries, headers), already merged with any dynamic-state
	// parameters.
	Parameters map[string]any

	// Descriptor is the legacy extension descriptor driving extraction.
	Descriptor Descriptor

	// ArrayType is the parameter's array element kind. Any non-empty
	// value other than "object" short-circuits extraction: each element
	// is its own value and display name.
	ArrayType string

	// Identity selects managed-identity addressing when non-nil.
	Identity *ManagedIdentity
}

// SchemaRequest carries one dynamic schema resolution.
type SchemaRequest struct {
	ConnectionID string
	ConnectorID  string
	Parameters   map[string]any
	Descriptor   Descriptor
	Identity     *ManagedIdentity
}

// ValueResolver resolves dynamic pick-list values. The second return is
// the raw response body, populated only when the candidate collection was
// absent or empty; callers must tolerate either shape.
type ValueResolver interface {
	ResolveValues(ctx context.Context, req ValuesRequest) ([]Value, any, error)
}

// SchemaResolver resolves a dynamic JSON schema fragment, or nil when the
// response carried none.
type SchemaResolver interface {
	ResolveSchema(ctx context.Context, req SchemaRequest) (any, error)
}
