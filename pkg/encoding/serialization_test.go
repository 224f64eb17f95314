package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestEncodeDecode(t *testing.T) {
	bz, err := Encode(sample{Name: "ore", Count: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ore","count":3}`, string(bz))

	v, err := Decode[sample](bz)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "ore", Count: 3}, v)
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	_, err := DecodeStrict[sample]([]byte(`{"name":"ore","weight":2}`))
	assert.Error(t, err)

	_, err = Decode[sample]([]byte(`{"name":"ore","weight":2}`))
	assert.NoError(t, err)
}

func TestDecodeAnyUsesFloat64(t *testing.T) {
	v, err := DecodeAny([]byte(`{"a":1,"b":[true,null,"x"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": []any{true, nil, "x"}}, v)
}

func TestIndentIsSortedAndTerminated(t *testing.T) {
	bz, err := Indent(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": 2\n}\n", string(bz))
}
