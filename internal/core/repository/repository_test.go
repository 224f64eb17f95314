package repository

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mudstate/internal/core/components"
	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/internal/core/snapshot"
)

type stock struct {
	ID    objid.ObjId `json:"-"`
	Units int         `json:"units"`
}

func (s stock) ObjID() objid.ObjId       { return s.ID }
func (s *stock) SetObjID(id objid.ObjId) { s.ID = id }

func newStockRepo() *Repository[stock] {
	repo, _ := NewWithCodec[stock]("stock", 1)
	return repo
}

func TestAddConflictKeepsOriginal(t *testing.T) {
	repo := newStockRepo()
	require.NoError(t, repo.Add(stock{ID: 1, Units: 10}))

	err := repo.Add(stock{ID: 1, Units: 99})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, objid.ObjId(1), conflict.ID)
	assert.Equal(t, "stock", conflict.Kind)

	v, err := repo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 10, v.Units)
}

func TestGetMissingIsNotFound(t *testing.T) {
	repo := newStockRepo()
	_, err := repo.Get(42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, "stock 42: not found")
	assert.False(t, repo.Exists(42))
}

func TestRemoveIsTotal(t *testing.T) {
	repo := newStockRepo()
	require.NoError(t, repo.Add(stock{ID: 3, Units: 1}))

	v, ok := repo.Remove(3)
	assert.True(t, ok)
	assert.Equal(t, 1, v.Units)

	_, ok = repo.Remove(3)
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	repo := newStockRepo()
	assert.True(t, errors.Is(repo.Update(stock{ID: 5}), ErrNotFound))

	require.NoError(t, repo.Add(stock{ID: 5, Units: 1}))
	require.NoError(t, repo.Update(stock{ID: 5, Units: 2}))
	v, _ := repo.Get(5)
	assert.Equal(t, 2, v.Units)
}

func TestListAndListAll(t *testing.T) {
	repo := newStockRepo()
	for i := 1; i <= 4; i++ {
		require.NoError(t, repo.Add(stock{ID: objid.ObjId(i), Units: i * 10}))
	}

	ids := repo.List()
	slices.Sort(ids)
	assert.Equal(t, []objid.ObjId{1, 2, 3, 4}, ids)
	assert.Equal(t, 4, repo.Len())

	big := repo.ListAll().Filter(func(s stock) bool { return s.Units > 20 }).Collect()
	assert.Len(t, big, 2)
}

func TestStoredValuesAreOwned(t *testing.T) {
	repo, _ := NewWithCodec[components.Memory](components.KindMemory, 1)

	known := objid.NewSet(1)
	require.NoError(t, repo.Add(components.Memory{ID: 5, KnownIDs: known}))
	known.Add(99)

	got, err := repo.Get(5)
	require.NoError(t, err)
	got.KnownIDs.Add(123)

	for _, m := range repo.ListAll().Collect() {
		m.KnownIDs.Add(7)
	}

	stored, err := repo.Get(5)
	require.NoError(t, err)
	assert.Equal(t, []objid.ObjId{1}, stored.KnownIDs.Sorted())

	got.KnownIDs.Remove(1)
	require.NoError(t, repo.Update(got))
	got.KnownIDs.Add(8)

	stored, err = repo.Get(5)
	require.NoError(t, err)
	assert.Equal(t, []objid.ObjId{123}, stored.KnownIDs.Sorted())
}

func TestSnapshotSkipsStatic(t *testing.T) {
	repo := newStockRepo()
	dyn := objid.FirstDynamic + 1
	require.NoError(t, repo.Add(stock{ID: 7, Units: 1}))
	require.NoError(t, repo.Add(stock{ID: dyn, Units: 2}))

	snap := snapshot.New()
	require.NoError(t, repo.SaveSnapshot(snap))
	assert.Equal(t, []objid.ObjId{dyn}, snap.IDs())

	raw, ok := snap.Get(dyn, "stock")
	require.True(t, ok)
	assert.JSONEq(t, `{"units":2}`, string(raw))
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := newStockRepo()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Add(stock{ID: objid.FirstDynamic + objid.ObjId(i), Units: i}))
	}
	snap := snapshot.New()
	require.NoError(t, repo.SaveSnapshot(snap))

	fresh := newStockRepo()
	require.NoError(t, fresh.LoadSnapshot(snap))
	assert.Equal(t, repo.items, fresh.items)

	again := snapshot.New()
	require.NoError(t, fresh.SaveSnapshot(again))
	assert.Equal(t, snap.Digest(), again.Digest())
}

func TestLoadSnapshotOverwritesAndIsAtomic(t *testing.T) {
	repo := newStockRepo()
	require.NoError(t, repo.Add(stock{ID: 1, Units: 1}))

	snap := snapshot.New()
	snap.Add(1, "stock", []byte(`{"units":5}`))
	snap.Add(2, "other", []byte(`{"units":9}`))
	require.NoError(t, repo.LoadSnapshot(snap))
	v, _ := repo.Get(1)
	assert.Equal(t, 5, v.Units)
	assert.False(t, repo.Exists(2))

	bad := snapshot.New()
	bad.Add(3, "stock", []byte(`{"units":3}`))
	bad.Add(4, "stock", []byte(`{"units":"four"}`))
	assert.Error(t, repo.LoadSnapshot(bad))
	assert.False(t, repo.Exists(3))
}
