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
	"strings"
	"testing"

	"github.com/tombee/podium/pkg/errors"
)

func TestUnwrapResponseOK(t *testing.T) {
	envelope := map[string]any{
		"statusCode": "OK",
		"body":       map[string]any{"x": float64(1)},
	}

	body, err := UnwrapResponse(envelope, "https://x/y", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(body, map[string]any{"x": float64(1)}) {
		t.Errorf("body = %v", body)
	}
}

func TestUnwrapResponseDoubleWrapped(t *testing.T) {
	raw := map[string]any{
		"response": map[string]any{
			"statusCode": "OK",
			"body":       "inner",
		},
	}

	body, err := UnwrapResponse(raw, "https://x/y", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "inner" {
		t.Errorf("body = %v, want inner", body)
	}
}

func TestUnwrapResponseStatusAndMessage(t *testing.T) {
	envelope := map[string]any{
		"statusCode": float64(403),
		"message":    "access denied",
	}

	_, err := UnwrapResponse(envelope, "https://x/y", nil)
	requireDynamicError(t, err, errors.CodeAPIExecutionFailedWithError,
		"Error code: '403', Message: 'access denied'.")
}

func TestUnwrapResponseNestedErrorMessage(t *testing.T) {
	envelope := map[string]any{
		"statusCode": float64(404),
		"body": map[string]any{
			"error": map[string]any{"message": "not found"},
		},
	}

	_, err := UnwrapResponse(envelope, "https://x/y", nil)
	requireDynamicError(t, err, errors.CodeAPIExecutionFailedWithError, "not found")
}

func TestUnwrapResponseGenericFallback(t *testing.T) {
	envelope := map[string]any{"statusCode": "ServiceUnavailable"}

	_, err := UnwrapResponse(envelope, "https://x/y", nil)
	requireDynamicError(t, err, errors.CodeAPIExecutionFailedWithError,
		"Error executing the api - https://x/y")
}

func TestUnwrapResponseClientRequestIDSuffix(t *testing.T) {
	envelope := map[string]any{
		"statusCode": float64(500),
		"message":    "boom",
		"headers": map[string]any{
			"X-MS-Client-Request-ID": "abc-123",
		},
	}

	_, err := UnwrapResponse(envelope, "https://x/y", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "More diagnostic information: x-ms-client-request-id is 'abc-123'."
	if !strings.Contains(err.Error(), want) {
		t.Errorf("message %q missing suffix %q", err.Error(), want)
	}
}

func TestUnwrapResponseCarriesEnvelope(t *testing.T) {
	envelope := map[string]any{"statusCode": float64(500)}

	_, err := UnwrapResponse(envelope, "https://x/y", nil)
	var dynErr *errors.DynamicAPIError
	if !errorsAs(err, &dynErr) {
		t.Fatalf("expected DynamicAPIError, got %T", err)
	}
	if !reflect.DeepEqual(dynErr.ConnectorResponse, envelope) {
		t.Errorf("ConnectorResponse = %v", dynErr.ConnectorResponse)
	}
}

func TestUnwrapResponseNonNumericStatusWithMessage(t *testing.T) {
	// A non-numeric statusCode must not use the code-and-message
	// template even when a message is present.
	envelope := map[string]any{
		"statusCode": "BadGateway",
		"message":    "upstream broke",
	}

	_, err := UnwrapResponse(envelope, "https://x/y", nil)
	requireDynamicError(t, err, errors.CodeAPIExecutionFailedWithError,
		"Error executing the api - https://x/y")
}

func TestClientRequestID(t *testing.T) {
	tests := []struct {
		name    string
		headers any
		want    string
		wantOK  bool
	}{
		{"map string any", map[string]any{"x-ms-client-request-id": "a"}, "a", true},
		{"case insensitive", map[string]any{"X-Ms-Client-Request-Id": "b"}, "b", true},
		{"map string string", map[string]string{"X-MS-CLIENT-REQUEST-ID": "c"}, "c", true},
		{"map string slice", map[string][]string{"X-Ms-Client-Request-Id": {"d", "e"}}, "d", true},
		{"value slice", map[string]any{"x-ms-client-request-id": []any{"f"}}, "f", true},
		{"missing", map[string]any{"content-type": "application/json"}, "", false},
		{"nil headers", nil, "", false},
		{"empty value", map[string]any{"x-ms-client-request-id": ""}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClientRequestID(tt.headers)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ClientRequestID() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func requireDynamicError(t *testing.T, err error, code errors.ErrorCode, wantMessage string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var dynErr *errors.DynamicAPIError
	if !errorsAs(err, &dynErr) {
		t.Fatalf("expected DynamicAPIError, got %T: %v", err, err)
	}
	if dynErr.Code != code {
		t.Errorf("code = %q, want %q", dynErr.Code, code)
	}
	if !strings.Contains(dynErr.Message, wantMessage) {
		t.Errorf("message = %q, want it to contain %q", dynErr.Message, wantMessage)
	}
}
