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

// Package jsonpath walks slash-delimited property paths over decoded JSON.
//
// Extraction reports absence through an explicit ok result instead of a
// sentinel value, so a present null, false, or zero stays distinguishable
// from a key that does not exist. This matters to callers mapping pick-list
// elements: value = 0 is a real value, not a missing one.
package jsonpath

import "strings"

// Extract descends through root following the given property segments.
// It returns the nested value and true when every segment resolved, or
// nil and false the moment a segment is missing or the current value is
// not an object. An empty segment list returns root unchanged.
//
// Extract never panics and never errors; absence is an expected outcome.
func Extract(root any, segments []string) (any, bool) {
	current := root
	for _, segment := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok := obj[segment]
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

// ExtractPath splits path on "/" and extracts the resulting segments.
func ExtractPath(root any, path string) (any, bool) {
	return Extract(root, Segments(path))
}

// Segments splits a slash-delimited path into property-access segments.
// Empty segments from leading, trailing, or doubled slashes are dropped,
// so "/results/items/" addresses the same value as "results/items".
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
