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
	"reflect"
	"testing"
)

func TestMergeParameters(t *testing.T) {
	tests := []struct {
		name  string
		base  map[string]any
		extra map[string]any
		want  map[string]any
	}{
		{
			"extra overwrites base",
			map[string]any{"path": "/a", "method": "get"},
			map[string]any{"path": "/b"},
			map[string]any{"path": "/b", "method": "get"},
		},
		{
			"present null overwrites",
			map[string]any{"body": map[string]any{"k": 1}},
			map[string]any{"body": nil},
			map[string]any{"body": nil},
		},
		{
			"absent key never overwrites",
			map[string]any{"path": "/a"},
			map[string]any{},
			map[string]any{"path": "/a"},
		},
		{
			"nil extra",
			map[string]any{"path": "/a"},
			nil,
			map[string]any{"path": "/a"},
		},
		{
			"new keys added",
			map[string]any{"path": "/a"},
			map[string]any{"method": "post"},
			map[string]any{"path": "/a", "method": "post"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeParameters(tt.base, tt.extra)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeParameters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeParametersDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"path": "/a"}
	extra := map[string]any{"path": "/b"}

	_ = MergeParameters(base, extra)

	if base["path"] != "/a" {
		t.Errorf("base mutated: %v", base)
	}
	if extra["path"] != "/b" {
		t.Errorf("extra mutated: %v", extra)
	}
}
