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
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/podium/pkg/errors"
)

const armConnectorID = "/subscriptions/sub-1/resourceGroups/rg/providers/Microsoft.Web/apis/sql"

func TestInvokeManagedIdentityRoutesToDynamicInvoke(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope(nil)}
	service := newTestService(t, doer, func(cfg *Config) {
		cfg.ManagedIdentityAPIVersion = "2018-07-01-preview"
	})

	inv := Invocation{Method: "get", Path: "/foo"}
	identity := &ManagedIdentity{Properties: map[string]any{"audience": "https://management.core.windows.net/"}}

	_, uri, err := service.client.Invoke(context.Background(), "conn-1", "sql", inv, identity)
	require.NoError(t, err)

	// Managed identity always dispatches a POST, whatever the inner
	// method says.
	assert.Equal(t, "POST", doer.method)
	assert.Equal(t, "https://designer.example.com/api/dynamicInvoke", uri)
	assert.Equal(t, uri, doer.opts.URI)
	assert.Equal(t, "2018-07-01-preview", doer.opts.QueryParameters["api-version"])

	content := doer.opts.Content.(map[string]any)
	request := content["request"].(map[string]any)
	assert.Equal(t, "get", request["method"])
	assert.Equal(t, "/foo", request["path"])
	assert.Equal(t, identity.Properties, content["properties"])
}

func TestInvokeARMConnectorUsesAPIHubProxy(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope(nil)}
	service := newTestService(t, doer, func(cfg *Config) {
		cfg.APIHub = &APIHubDetails{
			BaseURL:    "https://apihub.example.com/apim",
			APIVersion: "2018-07-01",
		}
	})

	inv := Invocation{Method: "put", Path: "/bar", Body: map[string]any{"k": float64(1)}}
	_, uri, err := service.client.Invoke(context.Background(), "conn-1", armConnectorID, inv, nil)
	require.NoError(t, err)

	assert.Equal(t, "PUT", doer.method)
	assert.Equal(t, "https://apihub.example.com/apim/conn-1/extensions/proxy/bar", uri)
	assert.Equal(t, "2018-07-01", doer.opts.QueryParameters["api-version"])
	assert.Equal(t, map[string]any{"k": float64(1)}, doer.opts.Content)
}

func TestInvokeGenericConnectorUsesBaseURL(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope(nil)}
	service := newTestService(t, doer, nil)

	inv := Invocation{
		Method:  "get",
		Path:    "/datasets",
		Queries: map[string]string{"top": "10"},
	}
	_, uri, err := service.client.Invoke(context.Background(), "conn-2", "sql", inv, nil)
	require.NoError(t, err)

	assert.Equal(t, "GET", doer.method)
	assert.Equal(t, "https://designer.example.com/api/conn-2/extensions/proxy/datasets", uri)
	assert.Equal(t, "2024-06-01", doer.opts.QueryParameters["api-version"])
	assert.Equal(t, "10", doer.opts.QueryParameters["top"])
}

func TestInvokeGetNeverAttachesBody(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope(nil)}
	service := newTestService(t, doer, nil)

	inv := Invocation{Method: "GET", Path: "/x", Body: map[string]any{"ignored": true}}
	_, _, err := service.client.Invoke(context.Background(), "c", "sql", inv, nil)
	require.NoError(t, err)
	assert.Nil(t, doer.opts.Content)
}

func TestInvokePostSkipsEmptyBody(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope(nil)}
	service := newTestService(t, doer, nil)

	inv := Invocation{Method: "post", Path: "/x", Body: map[string]any{}}
	_, _, err := service.client.Invoke(context.Background(), "c", "sql", inv, nil)
	require.NoError(t, err)
	assert.Nil(t, doer.opts.Content)
}

func TestInvokeMethodCaseInsensitive(t *testing.T) {
	for _, method := range []string{"GET", "Get", "get", "POST", "PuT"} {
		doer := &fakeDoer{result: okEnvelope(nil)}
		service := newTestService(t, doer, nil)

		_, _, err := service.client.Invoke(context.Background(), "c", "sql",
			Invocation{Method: method, Path: "/x"}, nil)
		require.NoError(t, err, "method %q", method)
	}
}

func TestInvokeUnsupportedMethod(t *testing.T) {
	doer := &fakeDoer{}
	service := newTestService(t, doer, nil)

	_, _, err := service.client.Invoke(context.Background(), "c", "sql",
		Invocation{Method: "delete", Path: "/x"}, nil)

	var dynErr *errors.DynamicAPIError
	require.ErrorAs(t, err, &dynErr)
	assert.Equal(t, errors.CodeAPIExecutionFailed, dynErr.Code)
	require.NotNil(t, dynErr.Request)
	assert.Equal(t, "delete", dynErr.Request.Method)
	assert.Equal(t, "/x", dynErr.Request.InputPath)

	var unsupported *errors.UnsupportedMethodError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "delete", unsupported.Method)
	assert.Contains(t, dynErr.Message, "delete")

	assert.Zero(t, doer.calls, "nothing should be dispatched for an unsupported method")
}

func TestInvokeTransportErrorWrapped(t *testing.T) {
	doer := &fakeDoer{err: stderrors.New("connection refused")}
	service := newTestService(t, doer, nil)

	_, _, err := service.client.Invoke(context.Background(), "c", "sql",
		Invocation{Method: "get", Path: "/datasets"}, nil)

	var dynErr *errors.DynamicAPIError
	require.ErrorAs(t, err, &dynErr)
	assert.Equal(t, errors.CodeAPIExecutionFailed, dynErr.Code)
	assert.Equal(t, "connection refused", dynErr.Message)
	require.NotNil(t, dynErr.Request)
	assert.Equal(t, "get", dynErr.Request.Method)
	assert.Equal(t, "/datasets", dynErr.Request.InputPath)
	assert.Contains(t, dynErr.Request.URI, "/extensions/proxy/datasets")
	assert.ErrorContains(t, dynErr.Cause, "connection refused")
}
