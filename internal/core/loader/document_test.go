package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRules(t *testing.T) {
	a := map[string]any{
		"name": "a",
		"list": []any{float64(1)},
		"m":    map[string]any{"x": float64(1), "y": float64(2)},
	}
	b := map[string]any{
		"name": "b",
		"list": []any{float64(2)},
		"m":    map[string]any{"y": float64(3), "z": nil},
		"gone": nil,
	}

	got := merge(merge(map[string]any{}, a), b)
	assert.Equal(t, map[string]any{
		"name": "b",
		"list": []any{float64(1), float64(2)},
		"m":    map[string]any{"x": float64(1), "y": float64(3)},
	}, got)
}

func TestMergeDoesNotAliasSources(t *testing.T) {
	src := map[string]any{"m": map[string]any{"k": "v"}, "l": []any{"x"}}
	out := merge(map[string]any{}, src).(map[string]any)
	out["m"].(map[string]any)["k"] = "changed"
	out["l"].([]any)[0] = "changed"

	assert.Equal(t, "v", src["m"].(map[string]any)["k"])
	assert.Equal(t, "x", src["l"].([]any)[0])
}

func TestNormalizeYAMLTypes(t *testing.T) {
	doc, err := parseYAML([]byte("count: 3\nratio: 0.5\nnested:\n  1: one\nlist: [1, two, null]\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"count":  float64(3),
		"ratio":  0.5,
		"nested": map[string]any{"1": "one"},
		"list":   []any{float64(1), "two", nil},
	}, doc)
}

func TestParseEmptyYAML(t *testing.T) {
	doc, err := parseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestParseYAMLMergesEveryDocument(t *testing.T) {
	doc, err := parseYAML([]byte("version: 2\nobjects:\n  - id: 1\n    zone: {}\n---\n# nothing here\n---\nversion: 3\nobjects:\n  - id: 2\n    zone: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"version": float64(3),
		"objects": []any{
			map[string]any{"id": float64(1), "zone": map[string]any{}},
			map[string]any{"id": float64(2), "zone": map[string]any{}},
		},
	}, doc)

	_, err = parseYAML([]byte("objects: []\n---\nobjects: [\n"))
	assert.ErrorContains(t, err, "document 2")
}
