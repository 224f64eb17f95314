package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mudstate/internal/core/objid"
)

func TestAddOverwrites(t *testing.T) {
	s := New()
	s.Add(5, "price", []byte(`{"buy":1}`))
	s.Add(5, "price", []byte(`{"buy":2}`))
	s.Add(5, "label", []byte(`{"label":"x"}`))

	v, ok := s.Get(5, "price")
	require.True(t, ok)
	assert.Equal(t, `{"buy":2}`, string(v))
	assert.Equal(t, []string{"label", "price"}, s.Kinds(5))
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get(6, "price")
	assert.False(t, ok)
}

func TestEntriesSortedByID(t *testing.T) {
	s := New()
	for _, id := range []objid.ObjId{70000, 3, 65536, 12} {
		s.Add(id, "zone", []byte(`{}`))
	}
	s.Add(4, "label", []byte(`{}`))

	var ids []objid.ObjId
	for _, e := range s.Entries("zone") {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []objid.ObjId{3, 12, 65536, 70000}, ids)
	assert.Equal(t, []objid.ObjId{3, 4, 12, 65536, 70000}, s.IDs())
	assert.Equal(t, []string{"label", "zone"}, s.AllKinds())
}

func TestDigestIgnoresInsertionOrder(t *testing.T) {
	a := New()
	a.Add(1, "price", []byte(`{"buy":1}`))
	a.Add(2, "zone", []byte(`{}`))

	b := New()
	b.Add(2, "zone", []byte(`{}`))
	b.Add(1, "price", []byte(`{"buy":1}`))
	assert.Equal(t, a.Digest(), b.Digest())

	b.Add(1, "price", []byte(`{"buy":3}`))
	assert.NotEqual(t, a.Digest(), b.Digest())

	b.Remove(1)
	assert.Equal(t, 1, b.Len())
}
