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
	"log/slog"
	"time"
)

// ResolutionRequest represents a resolution request for logging purposes.
type ResolutionRequest struct {
	// Kind is the kind of resolution ("values" or "schema").
	Kind string

	// ConnectorID identifies the connector being resolved against.
	ConnectorID string

	// OperationID identifies the operation being resolved.
	OperationID string

	// CorrelationID is the correlation ID for tracing the request.
	CorrelationID string

	// RequestID is the unique ID for this specific request.
	RequestID string

	// RemoteAddr is the remote address of the client.
	RemoteAddr string
}

// ResolutionResponse represents a resolution outcome for logging purposes.
type ResolutionResponse struct {
	// Success indicates whether the request was successful.
	Success bool

	// Error is the error message if the request failed.
	Error string

	// DurationMs is the duration of the request in milliseconds.
	DurationMs int64
}

// LogResolutionRequest logs an incoming resolution request.
func LogResolutionRequest(logger *slog.Logger, req *ResolutionRequest) {
	attrs := []any{
		EventKey, "resolution_request",
		"kind", req.Kind,
		ConnectorKey, req.ConnectorID,
		OperationKey, req.OperationID,
	}

	if req.RemoteAddr != "" {
		attrs = append(attrs, "remote", req.RemoteAddr)
	}

	if req.CorrelationID != "" {
		attrs = append(attrs, "correlation_id", req.CorrelationID)
	}

	if req.RequestID != "" {
		attrs = append(attrs, "request_id", req.RequestID)
	}

	logger.Info("resolution request received", attrs...)
}

// LogResolutionResponse logs a resolution outcome.
func LogResolutionResponse(logger *slog.Logger, req *ResolutionRequest, resp *ResolutionResponse) {
	attrs := []any{
		EventKey, "resolution_response",
		"kind", req.Kind,
		ConnectorKey, req.ConnectorID,
		OperationKey, req.OperationID,
		"success", resp.Success,
		DurationKey, resp.DurationMs,
	}

	if req.CorrelationID != "" {
		attrs = append(attrs, "correlation_id", req.CorrelationID)
	}

	if req.RequestID != "" {
		attrs = append(attrs, "request_id", req.RequestID)
	}

	if resp.Error != "" {
		attrs = append(attrs, "error", resp.Error)
	}

	level := slog.LevelInfo
	message := "resolution completed"

	if !resp.Success {
		level = slog.LevelError
		message = "resolution failed"
	}

	logger.Log(nil, level, message, attrs...)
}

// ResolutionMiddleware wraps a resolution handler function with logging.
// It logs the request when it arrives and the outcome when it completes.
type ResolutionMiddleware struct {
	logger *slog.Logger
}

// NewResolutionMiddleware creates a new resolution logging middleware.
func NewResolutionMiddleware(logger *slog.Logger) *ResolutionMiddleware {
	return &ResolutionMiddleware{
		logger: logger,
	}
}

// Handler wraps a function that performs a resolution.
// It logs the request and outcome automatically.
func (m *ResolutionMiddleware) Handler(req *ResolutionRequest, handler func() error) error {
	start := time.Now()

	LogResolutionRequest(m.logger, req)

	err := handler()

	resp := &ResolutionResponse{
		Success:    err == nil,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if err != nil {
		resp.Error = err.Error()
	}

	LogResolutionResponse(m.logger, req, resp)

	return err
}
