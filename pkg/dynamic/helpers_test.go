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

	"github.com/tombee/podium/pkg/httpclient"
)

func errorsAs(err error, target any) bool {
	return stderrors.As(err, target)
}

// fakeDoer records the last dispatched request and returns a canned
// envelope or error.
type fakeDoer struct {
	method string
	opts   httpclient.Options
	result any
	err    error
	calls  int
}

func (f *fakeDoer) record(method string, opts httpclient.Options) (any, error) {
	f.method = method
	f.opts = opts
	f.calls++
	return f.result, f.err
}

func (f *fakeDoer) Get(ctx context.Context, opts httpclient.Options) (any, error) {
	return f.record("GET", opts)
}

func (f *fakeDoer) Post(ctx context.Context, opts httpclient.Options) (any, error) {
	return f.record("POST", opts)
}

func (f *fakeDoer) Put(ctx context.Context, opts httpclient.Options) (any, error) {
	return f.record("PUT", opts)
}

func okEnvelope(body any) map[string]any {
	return map[string]any{
		"statusCode": "OK",
		"body":       body,
	}
}

// newTestService builds a Service over the given fake transport.
func newTestService(t *testing.T, doer httpclient.Doer, mutate func(*Config)) *Service {
	t.Helper()
	cfg := Config{
		APIVersion:          "2024-06-01",
		BaseURL:             "https://designer.example.com/api",
		HTTPClient:          doer,
		SupportedOperations: []OperationInfo{},
		ValueClients:        map[string]ValueResolver{},
		SchemaClients:       map[string]SchemaResolver{},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	service, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return service
}
