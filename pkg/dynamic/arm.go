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

import "regexp"

// armResourceIDRegex matches the full hierarchical ARM resource form:
// /subscriptions/<id>/.../providers/<namespace>/... with non-empty
// interposed segments. Case-insensitive, leading slash optional.
var armResourceIDRegex = regexp.MustCompile(`(?i)^/?subscriptions/[^/]+(/[^/]+)*/providers/[^/]+/.+$`)

// IsARMResourceID reports whether s is an ARM resource identifier, which
// selects the API-Hub proxy route for an invocation.
func IsARMResourceID(s string) bool {
	if s == "" {
		return false
	}
	return armResourceIDRegex.MatchString(s)
}
