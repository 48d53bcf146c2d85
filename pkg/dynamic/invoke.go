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
	"context"
	"log/slog"
	"strings"

	"github.com/tombee/podium/internal/messages"
	"github.com/tombee/podium/pkg/errors"
	"github.com/tombee/podium/pkg/httpclient"
)

// Client routes a single invocation to the backing API. Addressing is
// decided per call: managed identity first, then the API-Hub proxy for
// ARM-identified connectors, then the generic proxy on the designer base
// URL.
type Client struct {
	http                      httpclient.Doer
	baseURL                   string
	apiVersion                string
	apiHub                    APIHubDetails
	managedIdentityAPIVersion string
	msgs                      *messages.Printer
	logger                    *slog.Logger
}

// Invoke dispatches inv for the given connection and connector and
// returns the raw response envelope together with the constructed URI.
// Transport failures and unsupported methods are wrapped as
// *errors.DynamicAPIError with code api_execution_failed, carrying the
// request method, URI, and input path.
func (c *Client) Invoke(ctx context.Context, connectionID, connectorID string, inv Invocation, identity *ManagedIdentity) (any, string, error) {
	if identity != nil {
		return c.invokeManagedIdentity(ctx, inv, identity)
	}

	base, version := c.baseURL, c.apiVersion
	if IsARMResourceID(connectorID) {
		base, version = c.apiHub.BaseURL, c.apiHub.APIVersion
	}
	uri := proxyURI(base, connectionID, inv.Path)

	queries := make(map[string]string, len(inv.Queries)+1)
	for name, value := range inv.Queries {
		queries[name] = value
	}
	queries["api-version"] = version

	opts := httpclient.Options{
		URI:             uri,
		QueryParameters: queries,
		Headers:         inv.Headers,
	}

	c.logger.Debug("dispatching dynamic invocation",
		slog.String("method", inv.Method),
		slog.String("connector", connectorID),
		slog.String("path", inv.Path),
	)

	var raw any
	var err error
	switch strings.ToLower(inv.Method) {
	case "get":
		raw, err = c.http.Get(ctx, opts)
	case "post":
		if !emptyBody(inv.Body) {
			opts.Content = inv.Body
		}
		raw, err = c.http.Post(ctx, opts)
	case "put":
		if !emptyBody(inv.Body) {
			opts.Content = inv.Body
		}
		raw, err = c.http.Put(ctx, opts)
	default:
		err = &errors.UnsupportedMethodError{Method: inv.Method}
	}

	if err != nil {
		return nil, uri, c.executionError(inv, uri, err)
	}
	return raw, uri, nil
}

// invokeManagedIdentity POSTs the wrapped request to the dynamicInvoke
// endpoint with the identity properties alongside.
func (c *Client) invokeManagedIdentity(ctx context.Context, inv Invocation, identity *ManagedIdentity) (any, string, error) {
	uri := strings.TrimSuffix(c.baseURL, "/") + "/dynamicInvoke"

	request := map[string]any{
		"method": inv.Method,
		"path":   inv.Path,
	}
	if inv.Body != nil {
		request["body"] = inv.Body
	}
	if len(inv.Queries) > 0 {
		request["queries"] = inv.Queries
	}
	if len(inv.Headers) > 0 {
		request["headers"] = inv.Headers
	}

	c.logger.Debug("dispatching managed-identity invocation",
		slog.String("path", inv.Path),
	)

	raw, err := c.http.Post(ctx, httpclient.Options{
		URI:             uri,
		QueryParameters: map[string]string{"api-version": c.managedIdentityAPIVersion},
		Content: map[string]any{
			"request":    request,
			"properties": identity.Properties,
		},
	})
	if err != nil {
		return nil, uri, c.executionError(inv, uri, err)
	}
	return raw, uri, nil
}

// executionError wraps a dispatch failure with request diagnostics. The
// upstream message is kept when it has one; otherwise the generic
// execution message names the input path.
func (c *Client) executionError(inv Invocation, uri string, cause error) error {
	message := strings.TrimSpace(cause.Error())
	if message == "" {
		message = c.msgs.ErrorExecutingAPI(inv.Path)
	}
	return &errors.DynamicAPIError{
		Code:    errors.CodeAPIExecutionFailed,
		Message: message,
		Request: &errors.RequestDiagnostics{
			Method:    inv.Method,
			URI:       uri,
			InputPath: inv.Path,
		},
		Cause: cause,
	}
}

// proxyURI joins the extension proxy route:
// <base>/<connectionID>/extensions/proxy/<path>.
func proxyURI(base, connectionID, path string) string {
	return strings.TrimSuffix(base, "/") +
		"/" + strings.Trim(connectionID, "/") +
		"/extensions/proxy/" + strings.TrimPrefix(path, "/")
}

// emptyBody reports whether a request body carries nothing worth sending.
func emptyBody(body any) bool {
	switch b := body.(type) {
	case nil:
		return true
	case string:
		return b == ""
	case map[string]any:
		return len(b) == 0
	case []any:
		return len(b) == 0
	default:
		return false
	}
}
