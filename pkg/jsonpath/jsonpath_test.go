package jsonpath

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtract_EmptyPathReturnsRoot(t *testing.T) {
	roots := []any{
		map[string]any{"a": 1},
		[]any{1, 2, 3},
		"scalar",
		nil,
		false,
	}

	for _, root := range roots {
		got, ok := Extract(root, nil)
		if !ok {
			t.Errorf("Extract(%v, nil) reported missing, want present", root)
		}
		if !reflect.DeepEqual(got, root) {
			t.Errorf("Extract(%v, nil) = %v, want root unchanged", root, got)
		}
	}
}

func TestExtract_NestedValue(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": float64(5),
		},
	}

	got, ok := Extract(root, []string{"a", "b"})
	if !ok {
		t.Fatal("expected value to be present")
	}
	if got != float64(5) {
		t.Errorf("Extract = %v, want 5", got)
	}
}

func TestExtract_MissingKeyIsNotAnError(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": float64(5),
		},
	}

	got, ok := Extract(root, []string{"a", "c"})
	if ok {
		t.Errorf("expected missing, got value %v", got)
	}
}

func TestExtract_PresentFalsyValuesAreNotMissing(t *testing.T) {
	root := map[string]any{
		"zero":  float64(0),
		"false": false,
		"empty": "",
		"null":  nil,
	}

	tests := []struct {
		segment string
		want    any
	}{
		{"zero", float64(0)},
		{"false", false},
		{"empty", ""},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			got, ok := Extract(root, []string{tt.segment})
			if !ok {
				t.Fatalf("present %s reported as missing", tt.segment)
			}
			if got != tt.want {
				t.Errorf("Extract = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtract_StopsAtNonObject(t *testing.T) {
	root := map[string]any{
		"a": "leaf",
		"n": nil,
		"l": []any{map[string]any{"x": 1}},
	}

	for _, segments := range [][]string{
		{"a", "b"},
		{"n", "b"},
		{"l", "x"},
		{"missing", "b"},
	} {
		if got, ok := Extract(root, segments); ok {
			t.Errorf("Extract(%v) = %v, want missing", segments, got)
		}
	}
}

func TestExtract_DecodedJSON(t *testing.T) {
	var root any
	raw := `{"result":{"items":[{"id":1}],"count":0}}`
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		t.Fatal(err)
	}

	items, ok := Extract(root, []string{"result", "items"})
	if !ok {
		t.Fatal("expected items to be present")
	}
	if len(items.([]any)) != 1 {
		t.Errorf("items = %v, want one element", items)
	}

	count, ok := Extract(root, []string{"result", "count"})
	if !ok || count != float64(0) {
		t.Errorf("count = %v ok=%v, want 0 and present", count, ok)
	}
}

func TestExtractPath(t *testing.T) {
	root := map[string]any{
		"result": map[string]any{
			"items": "here",
		},
	}

	tests := []struct {
		path    string
		want    any
		present bool
	}{
		{"result/items", "here", true},
		{"/result/items", "here", true},
		{"result/items/", "here", true},
		{"result//items", "here", true},
		{"result/other", nil, false},
		{"", root, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ExtractPath(root, tt.path)
			if ok != tt.present {
				t.Fatalf("present = %v, want %v", ok, tt.present)
			}
			if tt.present && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a/b/c", []string{"a", "b", "c"}},
		{"/a/b", []string{"a", "b"}},
		{"a/b/", []string{"a", "b"}},
		{"//", []string{}},
	}

	for _, tt := range tests {
		got := Segments(tt.path)
		if len(got) != len(tt.want) {
			t.Errorf("Segments(%q) = %v, want %v", tt.path, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Segments(%q)[%d] = %q, want %q", tt.path, i, got[i], tt.want[i])
			}
		}
	}
}
