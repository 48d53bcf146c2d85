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

// Package dynamic resolves dynamic connector metadata: pick-list values
// and JSON schemas looked up at edit time by invoking a connector's
// backing HTTP API.
//
// Each resolution is one outbound call, routed through one of three
// connection-addressing schemes:
//
//   - managed identity: a POST to the dynamicInvoke endpoint carrying the
//     wrapped request plus identity properties
//   - ARM resource: the API-Hub extension proxy, when the connector ID is
//     a full /subscriptions/.../providers/... resource identifier
//   - generic: the same proxy shape against the designer base URL
//
// Responses arrive as a status/headers/body envelope; UnwrapResponse
// extracts the success body or produces a *errors.DynamicAPIError
// carrying the full connector response. The legacy extension descriptor
// then drives slash-path extraction of values, titles, and descriptions
// from the body.
//
// A Service is immutable after construction: the operation allow-list and
// resolver registries are fixed configuration, every per-call decision is
// call-local, and concurrent resolutions are independent. The Service
// performs exactly one attempt per call; there is no caching and no retry.
package dynamic
