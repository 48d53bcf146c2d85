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

import "fmt"

// OperationInfo is the immutable identity pair used for allow-listing a
// connector operation. Membership checks compare both fields jointly,
// case-insensitively.
type OperationInfo struct {
	ConnectorID string `json:"connectorId" yaml:"connector"`
	OperationID string `json:"operationId" yaml:"operation"`
}

// Descriptor is the legacy extension descriptor: slash-delimited property
// paths locating values, titles, and descriptions inside an arbitrary
// JSON response. Path strings are never mutated except the one trailing
// "properties" segment trimmed during schema resolution.
type Descriptor struct {
	// ValueCollectionPath locates the candidate collection inside the
	// response body. Empty means the whole body is the collection.
	ValueCollectionPath string `json:"value-collection,omitempty"`

	// ValuePath locates each element's value.
	ValuePath string `json:"value-path"`

	// ValueTitlePath locates each element's display name. Empty means the
	// value doubles as its own display name.
	ValueTitlePath string `json:"value-title,omitempty"`

	// ValueDescriptionPath locates each element's description.
	ValueDescriptionPath string `json:"value-description,omitempty"`

	// ValueSelectablePath locates each element's selectability flag.
	ValueSelectablePath string `json:"value-selectable,omitempty"`
}

// Value is one resolved pick-list entry. Produced fresh per resolution
// call; nothing is persisted.
type Value struct {
	Value       any  `json:"value"`
	DisplayName any  `json:"displayName"`
	Description any  `json:"description,omitempty"`
	Disabled    bool `json:"disabled"`
}

// ArrayTypeObject is the parameterArrayType kind whose elements carry
// structure; any other non-empty kind is treated as primitive, where each
// element is its own value and display name.
const ArrayTypeObject = "object"

// ManagedIdentity selects managed-identity addressing for an invocation.
// Properties travel verbatim in the dynamicInvoke payload.
type ManagedIdentity struct {
	Properties any `json:"properties"`
}

// APIHubDetails addresses the API-Hub extension proxy used for
// ARM-resource-identified connectors.
type APIHubDetails struct {
	BaseURL    string
	APIVersion string
}

// Invocation describes the upstream request to dispatch. It carries no
// addressing tag; addressing is resolved at dispatch time from the
// connector identity and managed-identity flag.
type Invocation struct {
	Method  string
	Path    string
	Body    any
	Queries map[string]string
	Headers map[string]string
}

// InvocationFromParameters assembles an Invocation from a caller-supplied
// parameter map with method, path, body, queries, and headers keys.
func InvocationFromParameters(params map[string]any) Invocation {
	inv := Invocation{}
	if method, ok := params["method"].(string); ok {
		inv.Method = method
	}
	if path, ok := params["path"].(string); ok {
		inv.Path = path
	}
	if body, ok := params["body"]; ok {
		inv.Body = body
	}
	inv.Queries = stringMap(params["queries"])
	inv.Headers = stringMap(params["headers"])
	return inv
}

// stringMap coerces a decoded JSON mapping into map[string]string.
func stringMap(v any) map[string]string {
	switch m := v.(type) {
	case map[string]string:
		if len(m) == 0 {
			return nil
		}
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	case map[string]any:
		if len(m) == 0 {
			return nil
		}
		out := make(map[string]string, len(m))
		for k, val := range m {
			if s, ok := val.(string); ok {
				out[k] = s
			} else {
				out[k] = fmt.Sprintf("%v", val)
			}
		}
		return out
	default:
		return nil
	}
}
