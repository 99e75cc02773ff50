package layering_test

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-proxy/layering"
)

func TestMergeLayersStrongestWins(t *testing.T) {
	strong := map[string]any{"greeting": "hi", "count": 2}
	weak := map[string]any{"greeting": "hello", "locale": "en"}

	merged := layering.MergeLayers(strong, weak)

	want := map[string]any{"greeting": "hi", "count": 2, "locale": "en"}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("expected %v, got %v", want, merged)
	}
}

func TestMergeLayersRecursesIntoMaps(t *testing.T) {
	strong := map[string]any{
		"limits": map[string]any{"max": 10},
	}
	weak := map[string]any{
		"limits": map[string]any{"max": 5, "min": 1},
		"name":   "base",
	}

	merged := layering.MergeLayers(strong, weak)

	limits, ok := merged["limits"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", merged["limits"])
	}
	if limits["max"] != 10 || limits["min"] != 1 {
		t.Fatalf("expected merged limits, got %v", limits)
	}
	if merged["name"] != "base" {
		t.Fatalf("expected weak-only key to survive, got %v", merged["name"])
	}
}

func TestMergeLayersReplacesMismatchedShapes(t *testing.T) {
	strong := map[string]any{"value": map[string]any{"nested": true}}
	weak := map[string]any{"value": "plain"}

	merged := layering.MergeLayers(strong, weak)

	if !reflect.DeepEqual(merged["value"], map[string]any{"nested": true}) {
		t.Fatalf("expected strong value to replace mismatched weak value, got %v", merged["value"])
	}
}

func TestMergeLayersDoesNotAliasInputs(t *testing.T) {
	strong := map[string]any{"nested": map[string]any{"a": 1}}
	weak := map[string]any{"nested": map[string]any{"b": 2}, "items": []any{1, 2}}

	merged := layering.MergeLayers(strong, weak)

	merged["nested"].(map[string]any)["a"] = 99
	merged["items"].([]any)[0] = 99

	if strong["nested"].(map[string]any)["a"] != 1 {
		t.Fatalf("strong layer mutated through merged result")
	}
	if weak["items"].([]any)[0] != 1 {
		t.Fatalf("weak layer mutated through merged result")
	}
}

func TestMergeLayersEmpty(t *testing.T) {
	if merged := layering.MergeLayers(); merged != nil {
		t.Fatalf("expected nil for no layers, got %v", merged)
	}
	if merged := layering.MergeLayers(nil, nil); merged != nil {
		t.Fatalf("expected nil when every layer is nil, got %v", merged)
	}
}

func TestCloneDeepCopies(t *testing.T) {
	original := map[string]any{
		"nested": map[string]any{"a": 1},
		"items":  []any{map[string]any{"b": 2}},
	}

	cloned := layering.Clone(original)
	cloned["nested"].(map[string]any)["a"] = 99
	cloned["items"].([]any)[0].(map[string]any)["b"] = 99

	if original["nested"].(map[string]any)["a"] != 1 {
		t.Fatalf("nested map mutated through clone")
	}
	if original["items"].([]any)[0].(map[string]any)["b"] != 2 {
		t.Fatalf("nested slice element mutated through clone")
	}
}
