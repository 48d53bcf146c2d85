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
	"context"
	"strings"

	"github.com/tombee/podium/pkg/jsonpath"
)

// ResolveSchema resolves a dynamic JSON schema fragment through the
// legacy extension descriptor. A nil response body yields nil. An unset
// ValuePath wraps the whole body as an object schema. Otherwise the path
// is extracted after trimming one trailing "properties" segment: the
// schema convention makes that key implicit, so the extractor lands on
// the parent object. A missing extraction yields nil, not an error.
func (s *Service) ResolveSchema(ctx context.Context, req SchemaRequest) (any, error) {
	inv := InvocationFromParameters(req.Parameters)
	raw, uri, err := s.client.Invoke(ctx, req.ConnectionID, req.ConnectorID, inv, req.Identity)
	if err != nil {
		return nil, err
	}

	body, err := UnwrapResponse(raw, uri, s.msgs)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	if req.Descriptor.ValuePath == "" {
		return map[string]any{
			"type":       "object",
			"properties": body,
		}, nil
	}

	segments := jsonpath.Segments(req.Descriptor.ValuePath)
	if n := len(segments); n > 0 && strings.EqualFold(segments[n-1], "properties") {
		segments = segments[:n-1]
	}

	schema, ok := jsonpath.Extract(body, segments)
	if !ok {
		return nil, nil
	}
	return schema, nil
}
