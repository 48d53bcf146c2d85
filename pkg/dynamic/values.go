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

// ResolveValues resolves dynamic pick-list values through the legacy
// extension descriptor: invoke, unwrap, locate the candidate collection,
// and map each element to a Value.
//
// When the collection is absent or empty the raw unwrapped body is
// returned through the second result instead of an empty sequence. This
// lenient pass-through is kept for compatibility with callers that
// expect the raw body shape.
func (s *Service) ResolveValues(ctx context.Context, req ValuesRequest) ([]Value, any, error) {
	inv := InvocationFromParameters(req.Parameters)
	raw, uri, err := s.client.Invoke(ctx, req.ConnectionID, req.ConnectorID, inv, req.Identity)
	if err != nil {
		return nil, nil, err
	}

	body, err := UnwrapResponse(raw, uri, s.msgs)
	if err != nil {
		return nil, nil, err
	}

	collection := body
	if req.Descriptor.ValueCollectionPath != "" {
		collection, _ = jsonpath.ExtractPath(body, req.Descriptor.ValueCollectionPath)
	}

	elements, ok := collection.([]any)
	if !ok || len(elements) == 0 {
		return nil, body, nil
	}

	primitive := req.ArrayType != "" && !strings.EqualFold(req.ArrayType, ArrayTypeObject)

	values := make([]Value, 0, len(elements))
	for _, element := range elements {
		values = append(values, s.valueFromElement(element, req.Descriptor, primitive))
	}
	return values, nil, nil
}

// valueFromElement maps one collection element to a Value per the
// descriptor's paths.
func (s *Service) valueFromElement(element any, d Descriptor, primitive bool) Value {
	if primitive {
		// Primitive array kinds: the element is its own value and label.
		return Value{Value: element, DisplayName: element}
	}

	value, _ := jsonpath.ExtractPath(element, d.ValuePath)

	displayName := value
	if d.ValueTitlePath != "" {
		displayName, _ = jsonpath.ExtractPath(element, d.ValueTitlePath)
	}

	var description any
	if d.ValueDescriptionPath != "" {
		description, _ = jsonpath.ExtractPath(element, d.ValueDescriptionPath)
	}

	disabled := false
	if d.ValueSelectablePath != "" {
		if selectable, ok := jsonpath.ExtractPath(element, d.ValueSelectablePath); ok {
			disabled = !truthy(selectable)
		}
	}

	return Value{
		Value:       value,
		DisplayName: displayName,
		Description: description,
		Disabled:    disabled,
	}
}

// truthy mirrors the selectable flag's loose semantics: nil, false, zero,
// and empty string are falsy; everything else, including objects and
// arrays, is truthy.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case float64:
		return value != 0
	case int:
		return value != 0
	case int64:
		return value != 0
	default:
		return true
	}
}
