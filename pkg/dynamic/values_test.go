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
	"reflect"
	"testing"

	"github.com/tombee/podium/pkg/errors"
)

func valuesRequest(d Descriptor) ValuesRequest {
	return ValuesRequest{
		ConnectionID: "conn-1",
		ConnectorID:  "shared_sql",
		Parameters:   map[string]any{"method": "get", "path": "/tables"},
		Descriptor:   d,
	}
}

func TestResolveValuesFromCollectionPath(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope(map[string]any{
		"value": []any{
			map[string]any{"Name": "t1", "DisplayName": "Table One"},
			map[string]any{"Name": "t2", "DisplayName": "Table Two"},
			map[string]any{"Name": "t3", "DisplayName": "Table Three"},
		},
	})}
	service := newTestService(t, doer, nil)

	values, passthrough, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{
		ValueCollectionPath: "value",
		ValuePath:           "Name",
		ValueTitlePath:      "DisplayName",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if passthrough != nil {
		t.Errorf("passthrough = %v, want nil", passthrough)
	}
	if len(values) != 3 {
		t.Fatalf("len = %d, want 3", len(values))
	}

	// Order preserving.
	want := []Value{
		{Value: "t1", DisplayName: "Table One"},
		{Value: "t2", DisplayName: "Table Two"},
		{Value: "t3", DisplayName: "Table Three"},
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("values = %v, want %v", values, want)
	}
}

func TestResolveValuesWholeBodyAsCollection(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope([]any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b"},
	})}
	service := newTestService(t, doer, nil)

	values, _, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{
		ValuePath: "id",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 2 || values[0].Value != "a" || values[1].Value != "b" {
		t.Errorf("values = %v", values)
	}
}

func TestResolveValuesTitleDefaultsToValue(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope([]any{
		map[string]any{"id": "a"},
	})}
	service := newTestService(t, doer, nil)

	values, _, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{
		ValuePath: "id",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0].DisplayName != "a" {
		t.Errorf("DisplayName = %v, want the value itself", values[0].DisplayName)
	}
}

func TestResolveValuesDescriptionAndSelectable(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope([]any{
		map[string]any{"id": "a", "desc": "first", "enabled": true},
		map[string]any{"id": "b", "desc": "second", "enabled": false},
		map[string]any{"id": "c"},
	})}
	service := newTestService(t, doer, nil)

	values, _, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{
		ValuePath:            "id",
		ValueDescriptionPath: "desc",
		ValueSelectablePath:  "enabled",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if values[0].Disabled || values[0].Description != "first" {
		t.Errorf("values[0] = %+v", values[0])
	}
	if !values[1].Disabled {
		t.Error("enabled=false should disable the entry")
	}
	// Missing selectable flag leaves the entry enabled.
	if values[2].Disabled {
		t.Error("absent selectable flag should default to enabled")
	}
	if values[2].Description != nil {
		t.Errorf("missing description should be nil, got %v", values[2].Description)
	}
}

func TestResolveValuesFalsyValuesAreNotMissing(t *testing.T) {
	// value = 0 and value = false are real values; extraction must not
	// treat them as absent.
	doer := &fakeDoer{result: okEnvelope([]any{
		map[string]any{"id": float64(0)},
		map[string]any{"id": false},
	})}
	service := newTestService(t, doer, nil)

	values, _, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{
		ValuePath: "id",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0].Value != float64(0) {
		t.Errorf("values[0].Value = %v, want 0", values[0].Value)
	}
	if values[1].Value != false {
		t.Errorf("values[1].Value = %v, want false", values[1].Value)
	}
}

func TestResolveValuesPrimitiveArrayType(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope([]any{"red", "green", "blue"})}
	service := newTestService(t, doer, nil)

	req := valuesRequest(Descriptor{ValuePath: "ignored"})
	req.ArrayType = "string"
	values, _, err := service.ResolveValues(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, want := range []string{"red", "green", "blue"} {
		if values[i].Value != want || values[i].DisplayName != want {
			t.Errorf("values[%d] = %+v, want element %q", i, values[i], want)
		}
	}
}

func TestResolveValuesObjectArrayTypeExtracts(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope([]any{
		map[string]any{"id": "a"},
	})}
	service := newTestService(t, doer, nil)

	req := valuesRequest(Descriptor{ValuePath: "id"})
	req.ArrayType = ArrayTypeObject
	values, _, err := service.ResolveValues(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0].Value != "a" {
		t.Errorf("object kind must extract, got %+v", values[0])
	}
}

func TestResolveValuesPassThroughOnAbsentCollection(t *testing.T) {
	body := map[string]any{"unexpected": "shape"}
	doer := &fakeDoer{result: okEnvelope(body)}
	service := newTestService(t, doer, nil)

	values, passthrough, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{
		ValueCollectionPath: "value",
		ValuePath:           "id",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values != nil {
		t.Errorf("values = %v, want nil", values)
	}
	if !reflect.DeepEqual(passthrough, body) {
		t.Errorf("passthrough = %v, want raw body", passthrough)
	}
}

func TestResolveValuesPassThroughOnEmptyCollection(t *testing.T) {
	doer := &fakeDoer{result: okEnvelope(map[string]any{"value": []any{}})}
	service := newTestService(t, doer, nil)

	values, passthrough, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{
		ValueCollectionPath: "value",
		ValuePath:           "id",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values != nil {
		t.Errorf("values = %v, want nil", values)
	}
	if passthrough == nil {
		t.Error("expected raw body pass-through")
	}
}

func TestResolveValuesPropagatesEnvelopeFailure(t *testing.T) {
	doer := &fakeDoer{result: map[string]any{
		"statusCode": float64(404),
		"body": map[string]any{
			"error": map[string]any{"message": "not found"},
		},
	}}
	service := newTestService(t, doer, nil)

	_, _, err := service.ResolveValues(context.Background(), valuesRequest(Descriptor{ValuePath: "id"}))
	requireDynamicError(t, err, errors.CodeAPIExecutionFailedWithError, "not found")
}
