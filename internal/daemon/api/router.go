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

// Package api provides the HTTP API for the daemon.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tombee/podium/internal/daemon/auth"
	"github.com/tombee/podium/internal/daemon/httputil"
	"github.com/tombee/podium/internal/log"
	"github.com/tombee/podium/internal/tracing"
	"github.com/tombee/podium/pkg/dynamic"
)

// ResolverProvider returns the current service. The daemon swaps the
// service on config reload, so handlers fetch it per request.
type ResolverProvider func() *dynamic.Service

// RouterConfig holds configuration for the API router.
type RouterConfig struct {
	Version   string
	Commit    string
	BuildDate string

	// Auth, when non-nil, requires a valid JWT bearer token on every
	// endpoint except /v1/health.
	Auth *auth.JWTConfig
}

// MetricsHandler provides a Prometheus metrics endpoint
type MetricsHandler interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// Router wraps an http.ServeMux with additional functionality.
type Router struct {
	mux            *http.ServeMux
	config         RouterConfig
	provider       ResolverProvider
	metrics        *tracing.MetricsCollector
	metricsHandler MetricsHandler
	logger         *slog.Logger
	started        time.Time
}

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(cfg RouterConfig, provider ResolverProvider, logger *slog.Logger) *Router {
	if logger == nil {
		logger = log.New(log.FromEnv())
	}

	r := &Router{
		mux:      http.NewServeMux(),
		config:   cfg,
		provider: provider,
		logger:   logger,
		started:  time.Now(),
	}

	// Register API v1 endpoints
	r.mux.HandleFunc("POST /v1/connectors/{connector}/operations/{operation}/dynamic-values", r.handleDynamicValues)
	r.mux.HandleFunc("POST /v1/connectors/{connector}/operations/{operation}/dynamic-schema", r.handleDynamicSchema)
	r.mux.HandleFunc("GET /v1/operations", r.handleOperations)
	r.mux.HandleFunc("GET /v1/health", r.handleHealth)
	r.mux.HandleFunc("GET /v1/version", r.handleVersion)

	// Root endpoint for basic connectivity check
	r.mux.HandleFunc("GET /", r.handleRoot)

	return r
}

// SetMetrics sets the resolution metrics collector.
func (r *Router) SetMetrics(collector *tracing.MetricsCollector) {
	r.metrics = collector
}

// SetMetricsHandler sets the Prometheus metrics handler.
func (r *Router) SetMetricsHandler(handler MetricsHandler) {
	r.metricsHandler = handler
	if handler != nil {
		r.mux.HandleFunc("GET /metrics", handler.ServeHTTP)
	}
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Build middleware chain from innermost to outermost:
	// 1. HTTP trace context extraction (innermost - must run first)
	// 2. Tracing middleware (creates spans)
	// 3. Correlation middleware
	// 4. Bearer auth
	// 5. Request logging (outermost)

	var handler http.Handler = r.mux

	if r.config.Auth != nil {
		handler = auth.Middleware(*r.config.Auth, handler)
	}

	// Apply request logging middleware
	innerHandler := handler
	handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		correlationID := tracing.FromContextOrEmpty(req.Context())
		logger := log.WithCorrelationID(r.logger, string(correlationID))

		defer func() {
			logger.Info("request completed",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		}()

		innerHandler.ServeHTTP(w, req)
	})

	// Apply correlation middleware
	handler = tracing.CorrelationMiddleware(handler)

	// Apply tracing middleware to create spans for requests
	handler = tracing.TracingMiddleware(handler)

	// Apply HTTP middleware to extract trace context from headers (must be first)
	handler = tracing.HTTPMiddleware(handler)

	handler.ServeHTTP(w, req)
}

// Mux returns the underlying ServeMux for registering additional routes.
func (r *Router) Mux() *http.ServeMux {
	return r.mux
}

// handleRoot handles GET / for basic connectivity.
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"name":    "podiumd",
		"version": r.config.Version,
	})
}

// handleHealth handles GET /v1/health.
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	operations := 0
	if service := r.provider(); service != nil {
		operations = len(service.SupportedOperations())
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(r.started).Seconds()),
		"operations":     operations,
	})
}

// handleVersion handles GET /v1/version.
func (r *Router) handleVersion(w http.ResponseWriter, req *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"version":    r.config.Version,
		"commit":     r.config.Commit,
		"build_date": r.config.BuildDate,
	})
}

// handleOperations handles GET /v1/operations: the configured allow-list.
func (r *Router) handleOperations(w http.ResponseWriter, req *http.Request) {
	service := r.provider()
	if service == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "service not ready")
		return
	}

	operations := service.SupportedOperations()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"operations": operations,
	})
}
