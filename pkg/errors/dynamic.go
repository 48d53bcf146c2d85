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

package errors

// ErrorCode classifies dynamic-resolution failures. The set is closed:
// callers switch on the code rather than parsing messages.
type ErrorCode string

const (
	// CodeAPIExecutionFailed indicates the outbound call itself failed:
	// a transport error or an unsupported HTTP method. The error carries
	// the request method, URI, and input path for diagnosis.
	CodeAPIExecutionFailed ErrorCode = "api_execution_failed"

	// CodeAPIExecutionFailedWithError indicates the call completed but
	// the response envelope reported a failure. The error carries the
	// full connector response for diagnosis.
	CodeAPIExecutionFailedWithError ErrorCode = "api_execution_failed_with_error"
)

// RequestDiagnostics identifies the outbound request behind an
// api_execution_failed error.
type RequestDiagnostics struct {
	// Method is the HTTP method the router dispatched or rejected.
	Method string `json:"requestMethod"`

	// URI is the fully constructed target URI.
	URI string `json:"uri"`

	// InputPath is the caller-supplied path before routing.
	InputPath string `json:"inputPath"`
}

// DynamicAPIError is the single failure type surfaced by dynamic value and
// schema resolution. It is created at the failure boundary and propagated
// unchanged to the caller; nothing downstream catches it.
//
// Exactly one diagnostic payload is populated, selected by Code:
// Request for api_execution_failed, ConnectorResponse for
// api_execution_failed_with_error.
type DynamicAPIError struct {
	// Code selects the failure kind.
	Code ErrorCode

	// Message is the human-readable diagnostic, already formatted.
	Message string

	// Request describes the outbound request (api_execution_failed).
	Request *RequestDiagnostics

	// ConnectorResponse is the full response envelope
	// (api_execution_failed_with_error).
	ConnectorResponse any

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *DynamicAPIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *DynamicAPIError) Unwrap() error {
	return e.Cause
}

// ErrorType implements ErrorClassifier.
func (e *DynamicAPIError) ErrorType() string {
	return string(e.Code)
}

// IsRetryable implements ErrorClassifier. Resolution failures are never
// retried: a single attempt per call, failure surfaces immediately.
func (e *DynamicAPIError) IsRetryable() bool {
	return false
}
