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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestResolutionMiddlewareSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
	middleware := NewResolutionMiddleware(logger)

	req := &ResolutionRequest{
		Kind:        "values",
		ConnectorID: "shared_sql",
		OperationID: "GetTables",
		RequestID:   "req-1",
	}

	called := false
	err := middleware.Handler(req, func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler not invoked")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected request and response entries, got %d lines", len(lines))
	}

	var response map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &response); err != nil {
		t.Fatalf("response entry is not valid JSON: %v", err)
	}
	if response["success"] != true {
		t.Errorf("success = %v, want true", response["success"])
	}
	if response["msg"] != "resolution completed" {
		t.Errorf("msg = %v", response["msg"])
	}
	if response[ConnectorKey] != "shared_sql" {
		t.Errorf("connector = %v", response[ConnectorKey])
	}
	if _, ok := response[DurationKey]; !ok {
		t.Error("duration field missing")
	}
}

func TestResolutionMiddlewareFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
	middleware := NewResolutionMiddleware(logger)

	req := &ResolutionRequest{Kind: "schema", ConnectorID: "shared_sql", OperationID: "GetItem"}

	wantErr := errors.New("upstream unavailable")
	err := middleware.Handler(req, func() error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("handler error not returned, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var response map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &response); err != nil {
		t.Fatalf("response entry is not valid JSON: %v", err)
	}
	if response["success"] != false {
		t.Errorf("success = %v, want false", response["success"])
	}
	if response["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", response["level"])
	}
	if response["error"] != "upstream unavailable" {
		t.Errorf("error = %v", response["error"])
	}
}
