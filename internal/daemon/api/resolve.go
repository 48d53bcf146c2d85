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

package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/tombee/podium/internal/daemon/httputil"
	"github.com/tombee/podium/internal/log"
	"github.com/tombee/podium/internal/tracing"
	"github.com/tombee/podium/pkg/dynamic"
	"github.com/tombee/podium/pkg/errors"
)

// resolveRequest is the request body for both dynamic-values and
// dynamic-schema resolution.
type resolveRequest struct {
	ConnectionID       string                   `json:"connectionId"`
	Parameters         map[string]any           `json:"parameters"`
	DynamicState       *dynamicState            `json:"dynamicState,omitempty"`
	Extension          dynamic.Descriptor       `json:"extension"`
	ParameterArrayType string                   `json:"parameterArrayType,omitempty"`
	ManagedIdentity    *dynamic.ManagedIdentity `json:"managedIdentity,omitempty"`
}

// dynamicState carries parameters resolved by earlier dynamic calls;
// they overwrite the caller's parameters key-by-key.
type dynamicState struct {
	Parameters map[string]any `json:"parameters,omitempty"`
}

func (r *resolveRequest) mergedParameters() map[string]any {
	if r.DynamicState == nil {
		return r.Parameters
	}
	return dynamic.MergeParameters(r.Parameters, r.DynamicState.Parameters)
}

// handleDynamicValues handles POST
// /v1/connectors/{connector}/operations/{operation}/dynamic-values.
func (r *Router) handleDynamicValues(w http.ResponseWriter, req *http.Request) {
	connectorID := req.PathValue("connector")
	operationID := req.PathValue("operation")

	service, body, ok := r.admit(w, req, connectorID, operationID)
	if !ok {
		return
	}

	valuesReq := dynamic.ValuesRequest{
		ConnectionID: body.ConnectionID,
		ConnectorID:  connectorID,
		Parameters:   body.mergedParameters(),
		Descriptor:   body.Extension,
		ArrayType:    body.ParameterArrayType,
		Identity:     body.ManagedIdentity,
	}

	var (
		values      []dynamic.Value
		passthrough any
	)
	err := r.logResolution(req, "values", connectorID, operationID, func() error {
		var resolveErr error
		values, passthrough, resolveErr = service.ValueResolverFor(operationID).
			ResolveValues(req.Context(), valuesReq)
		return resolveErr
	})
	if err != nil {
		r.writeResolutionError(w, err)
		return
	}

	if passthrough != nil {
		httputil.WriteJSON(w, http.StatusOK, passthrough)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"values": values,
	})
}

// handleDynamicSchema handles POST
// /v1/connectors/{connector}/operations/{operation}/dynamic-schema.
func (r *Router) handleDynamicSchema(w http.ResponseWriter, req *http.Request) {
	connectorID := req.PathValue("connector")
	operationID := req.PathValue("operation")

	service, body, ok := r.admit(w, req, connectorID, operationID)
	if !ok {
		return
	}

	schemaReq := dynamic.SchemaRequest{
		ConnectionID: body.ConnectionID,
		ConnectorID:  connectorID,
		Parameters:   body.mergedParameters(),
		Descriptor:   body.Extension,
		Identity:     body.ManagedIdentity,
	}

	var schema any
	err := r.logResolution(req, "schema", connectorID, operationID, func() error {
		var resolveErr error
		schema, resolveErr = service.SchemaResolverFor(operationID).
			ResolveSchema(req.Context(), schemaReq)
		return resolveErr
	})
	if err != nil {
		r.writeResolutionError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"schema": schema,
	})
}

// admit decodes the request body and applies the allow-list gate. The
// gate runs before any outbound call: unsupported pairs are answered 403
// without touching the backing API.
func (r *Router) admit(w http.ResponseWriter, req *http.Request, connectorID, operationID string) (*dynamic.Service, *resolveRequest, bool) {
	service := r.provider()
	if service == nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "service not ready")
		return nil, nil, false
	}

	var body resolveRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, nil, false
	}

	if !service.IsClientSupportedOperation(connectorID, operationID) {
		httputil.WriteError(w, http.StatusForbidden,
			"operation is not supported for dynamic resolution")
		return nil, nil, false
	}

	return service, &body, true
}

// logResolution wraps a resolution with request/outcome logging and
// metrics recording.
func (r *Router) logResolution(req *http.Request, kind, connectorID, operationID string, fn func() error) error {
	middleware := log.NewResolutionMiddleware(r.logger)

	start := time.Now()
	err := middleware.Handler(&log.ResolutionRequest{
		Kind:          kind,
		ConnectorID:   connectorID,
		OperationID:   operationID,
		CorrelationID: string(tracing.FromContextOrEmpty(req.Context())),
		RemoteAddr:    req.RemoteAddr,
	}, fn)

	if r.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		r.metrics.RecordResolution(req.Context(), connectorID, operationID, kind, outcome, time.Since(start))
	}

	return err
}

// writeResolutionError maps a resolution failure to a response. Upstream
// failures surface as 502 with the structured diagnostics; anything else
// is a 500.
func (r *Router) writeResolutionError(w http.ResponseWriter, err error) {
	var dynErr *errors.DynamicAPIError
	if stderrors.As(err, &dynErr) {
		payload := map[string]any{
			"code":    string(dynErr.Code),
			"message": dynErr.Message,
		}
		if dynErr.Request != nil {
			payload["request"] = dynErr.Request
		}
		if dynErr.ConnectorResponse != nil {
			payload["connectorResponse"] = dynErr.ConnectorResponse
		}
		httputil.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error": payload,
		})
		return
	}

	httputil.WriteError(w, http.StatusInternalServerError, err.Error())
}
