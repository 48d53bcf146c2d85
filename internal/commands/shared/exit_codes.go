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
	"errors"
	"fmt"
	"os"

	pkgerrors "github.com/tombee/podium/pkg/errors"
)

// Exit codes for podium commands
const (
	ExitSuccess              = 0
	ExitResolutionFailed     = 1
	ExitInvalidInput         = 2
	ExitUnsupportedOperation = 3
	ExitConfigError          = 4
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewResolutionError creates an error for failed dynamic resolutions
func NewResolutionError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitResolutionFailed,
		Message: msg,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an error for malformed command input
func NewInvalidInputError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitInvalidInput,
		Message: msg,
		Cause:   cause,
	}
}

// NewUnsupportedOperationError creates an error for operations outside the
// configured allow-list
func NewUnsupportedOperationError(connector, operation string) *ExitError {
	return &ExitError{
		Code:    ExitUnsupportedOperation,
		Message: fmt.Sprintf("operation %s:%s is not in the configured operations list", connector, operation),
	}
}

// NewConfigError creates an error for configuration problems
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitConfigError,
		Message: msg,
		Cause:   cause,
	}
}

// HandleExitError checks if an error is an ExitError and exits with the
// appropriate code. A validation error in the chain prints its suggestion.
func HandleExitError(err error) {
	if err == nil {
		return
	}

	code := ExitResolutionFailed
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	fmt.Fprintln(os.Stderr, "Error:", err.Error())

	var dynErr *pkgerrors.DynamicAPIError
	if errors.As(err, &dynErr) {
		if dynErr.Request != nil {
			fmt.Fprintf(os.Stderr, "Request: %s %s (input path %q)\n",
				dynErr.Request.Method, dynErr.Request.URI, dynErr.Request.InputPath)
		}
		if dynErr.ConnectorResponse != nil {
			fmt.Fprintf(os.Stderr, "Connector response: %v\n", dynErr.ConnectorResponse)
		}
	}

	var validationErr *pkgerrors.ValidationError
	if errors.As(err, &validationErr) && validationErr.Suggestion != "" {
		fmt.Fprintln(os.Stderr, "Suggestion:", validationErr.Suggestion)
	}

	os.Exit(code)
}
