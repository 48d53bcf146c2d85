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

package shared

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestEmitJSONEnvelope(t *testing.T) {
	var out bytes.Buffer
	restore := SetJSONOutputForTest(&out)
	defer restore()

	resp := struct {
		JSONResponse
		Values []string `json:"values"`
	}{
		JSONResponse: NewJSONResponse("values", true),
		Values:       []string{"a", "b"},
	}
	if err := EmitJSON(resp); err != nil {
		t.Fatalf("EmitJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["@version"] != "1.0" {
		t.Errorf("@version = %v", decoded["@version"])
	}
	if decoded["command"] != "values" {
		t.Errorf("command = %v", decoded["command"])
	}
	if decoded["success"] != true {
		t.Errorf("success = %v", decoded["success"])
	}
}

func TestEmitJSONError(t *testing.T) {
	var out bytes.Buffer
	restore := SetJSONOutputForTest(&out)
	defer restore()

	err := EmitJSONError("schema", []JSONError{
		{Code: "api_execution_failed", Message: "boom", Suggestion: "check the path"},
	})
	if err != nil {
		t.Fatalf("EmitJSONError: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["success"] != false {
		t.Errorf("success = %v", decoded["success"])
	}
	errs := decoded["errors"].([]any)
	first := errs[0].(map[string]any)
	if first["code"] != "api_execution_failed" || first["suggestion"] != "check the path" {
		t.Errorf("errors = %v", errs)
	}
}
