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

import "testing"

func TestIsARMResourceID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{
			"full resource id",
			"/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.Web/connections/sql",
			true,
		},
		{
			"mixed case",
			"/SUBSCRIPTIONS/abc/resourceGroups/rg/PROVIDERS/Microsoft.Web/apis/sql",
			true,
		},
		{
			"leading slash optional",
			"subscriptions/abc/providers/Microsoft.Web/apis/sql",
			true,
		},
		{"plain connector name", "sql", false},
		{"empty", "", false},
		{"missing providers", "/subscriptions/abc/resourceGroups/rg", false},
		{"empty subscription segment", "/subscriptions//providers/Microsoft.Web/apis/sql", false},
		{"providers without resource", "/subscriptions/abc/providers/Microsoft.Web", false},
		{"bare providers path", "/providers/Microsoft.Web/apis/sql", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsARMResourceID(tt.id); got != tt.want {
				t.Errorf("IsARMResourceID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
