package objid

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatorIsMonotonic(t *testing.T) {
	a := NewAllocator()

	prev := a.Next()
	assert.Equal(t, FirstDynamic, prev)
	for i := 0; i < 1000; i++ {
		id := a.Next()
		require.Greater(t, id, prev)
		require.True(t, IsDynamic(id))
		prev = id
	}
}

func TestAllocatorObserve(t *testing.T) {
	a := NewAllocator()

	a.Observe(FirstDynamic + 41)
	assert.Equal(t, FirstDynamic+42, a.Next())

	// lower and static ids never move the counter back
	a.Observe(FirstDynamic + 3)
	a.Observe(7)
	assert.Equal(t, FirstDynamic+43, a.Next())
}

func TestStaticClassification(t *testing.T) {
	tests := []struct {
		id      ObjId
		static  bool
		dynamic bool
	}{
		{Invalid, false, false},
		{1, true, false},
		{FirstDynamic - 1, true, false},
		{FirstDynamic, false, true},
		{FirstDynamic + 100, false, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.static, IsStatic(tt.id), "static %d", tt.id)
		assert.Equal(t, tt.dynamic, IsDynamic(tt.id), "dynamic %d", tt.id)
	}
	assert.False(t, Invalid.Valid())
}

func TestSetJSONIsSorted(t *testing.T) {
	s := NewSet(9, 3, 5)
	s.Add(1)
	s.Remove(5)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,3,9]`, string(data))

	var back Set
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Has(3))
	assert.False(t, back.Has(5))
	assert.Equal(t, 3, back.Len())
}

func TestSetClone(t *testing.T) {
	s := NewSet(4, 7)
	c := s.Clone()
	c.Add(9)

	assert.False(t, s.Has(9))
	assert.Equal(t, []ObjId{4, 7, 9}, c.Sorted())

	var empty Set
	assert.NotNil(t, empty.Clone())
	assert.Zero(t, empty.Clone().Len())
}
