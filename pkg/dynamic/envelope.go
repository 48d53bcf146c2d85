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
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tombee/podium/internal/messages"
	"github.com/tombee/podium/pkg/errors"
	"github.com/tombee/podium/pkg/jsonpath"
)

// clientRequestIDHeader is the diagnostic header appended to failure
// messages when the upstream response carried it.
const clientRequestIDHeader = "x-ms-client-request-id"

// UnwrapResponse extracts the success body from a raw upstream response.
// Some transports wrap the envelope once more under a "response" key;
// whichever is present is treated as the envelope. A statusCode of "OK"
// yields the envelope body; anything else produces a
// *errors.DynamicAPIError carrying the full envelope and a formatted
// diagnostic built from the envelope's status, message, or error body,
// falling back to a generic message naming requestURL.
func UnwrapResponse(raw any, requestURL string, msgs *messages.Printer) (any, error) {
	if msgs == nil {
		msgs = messages.Default()
	}

	envelope := raw
	if outer, ok := raw.(map[string]any); ok {
		if wrapped, present := outer["response"]; present {
			envelope = wrapped
		}
	}

	fields, _ := envelope.(map[string]any)
	if status, ok := fields["statusCode"]; ok && status == "OK" {
		return fields["body"], nil
	}

	message := failureMessage(fields, requestURL, msgs)
	if id, ok := ClientRequestID(fields["headers"]); ok {
		message += " " + msgs.ClientRequestIDSuffix(id)
	}

	return nil, &errors.DynamicAPIError{
		Code:              errors.CodeAPIExecutionFailedWithError,
		Message:           message,
		ConnectorResponse: envelope,
	}
}

// failureMessage builds the diagnostic for a non-OK envelope, in
// preference order: status code plus message, the error message nested in
// the body, then a generic message naming the request URL.
func failureMessage(fields map[string]any, requestURL string, msgs *messages.Printer) string {
	status, numeric := numericStatusCode(fields["statusCode"])
	if msg, ok := fields["message"].(string); ok && msg != "" && numeric {
		return msgs.ErrorCodeWithMessage(status, msg)
	}

	if nested, ok := jsonpath.Extract(fields, []string{"body", "error", "message"}); ok {
		if msg, ok := nested.(string); ok && msg != "" {
			return msg
		}
	}

	return msgs.ErrorExecutingAPI(requestURL)
}

// numericStatusCode reports whether v is numeric-like and renders it.
// Decoded JSON numbers arrive as float64; integral values render without
// a fraction.
func numericStatusCode(v any) (string, bool) {
	switch code := v.(type) {
	case float64:
		if code == float64(int64(code)) {
			return strconv.FormatInt(int64(code), 10), true
		}
		return strconv.FormatFloat(code, 'f', -1, 64), true
	case int:
		return strconv.Itoa(code), true
	case int64:
		return strconv.FormatInt(code, 10), true
	case json.Number:
		return code.String(), true
	case string:
		if _, err := strconv.ParseFloat(code, 64); err == nil {
			return code, true
		}
	}
	return "", false
}

// ClientRequestID returns the client-request-id from a response header
// map, matching the header name case-insensitively. It tolerates the
// header shapes different transports produce.
func ClientRequestID(headers any) (string, bool) {
	switch h := headers.(type) {
	case map[string]any:
		for name, value := range h {
			if strings.EqualFold(name, clientRequestIDHeader) {
				return headerValue(value)
			}
		}
	case map[string]string:
		for name, value := range h {
			if strings.EqualFold(name, clientRequestIDHeader) && value != "" {
				return value, true
			}
		}
	case map[string][]string:
		for name, values := range h {
			if strings.EqualFold(name, clientRequestIDHeader) && len(values) > 0 && values[0] != "" {
				return values[0], true
			}
		}
	case http.Header:
		if value := h.Get(clientRequestIDHeader); value != "" {
			return value, true
		}
	}
	return "", false
}

func headerValue(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, value != ""
	case []any:
		if len(value) > 0 {
			if s, ok := value[0].(string); ok && s != "" {
				return s, true
			}
		}
	case []string:
		if len(value) > 0 && value[0] != "" {
			return value[0], true
		}
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", value), true
	}
	return "", false
}
