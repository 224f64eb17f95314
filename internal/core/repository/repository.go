package repository

import (
	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/internal/core/schema/registry"
	"github.com/zeusync/mudstate/internal/core/snapshot"
	"github.com/zeusync/mudstate/pkg/sequence"
)

// Component is a value of one aspect, addressed by exactly one id.
type Component interface {
	ObjID() objid.ObjId
}

// Codec encodes and decodes the values of one kind.
type Codec[T any] interface {
	Name() string
	Encode(v T) ([]byte, error)
	Decode(id objid.ObjId, raw []byte) (T, error)
}

// Cloner is implemented by values that hold reference types. Repositories
// store and hand out clones of such values so callers never share memory
// with a stored entry.
type Cloner[T any] interface {
	Clone() T
}

func own[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

var _ snapshot.Support = (*Repository[Component])(nil)

// Repository stores the values of one component kind keyed by id. It is not
// safe for concurrent use; the owning world serializes access.
type Repository[T Component] struct {
	codec Codec[T]
	items map[objid.ObjId]T
}

func New[T Component](codec Codec[T]) *Repository[T] {
	return &Repository[T]{
		codec: codec,
		items: make(map[objid.ObjId]T),
	}
}

// NewWithCodec builds a repository together with its registry codec.
func NewWithCodec[T Component, PT registry.Identified[T]](name string, version int) (*Repository[T], *registry.Codec[T]) {
	codec := registry.NewCodec[T, PT](name, version)
	return New[T](codec), codec
}

func (r *Repository[T]) Kind() string {
	return r.codec.Name()
}

// Add inserts value. An existing entry with the same id is left untouched
// and a *ConflictError is returned.
func (r *Repository[T]) Add(value T) error {
	id := value.ObjID()
	if _, ok := r.items[id]; ok {
		return &ConflictError{Kind: r.Kind(), ID: id}
	}
	r.items[id] = own(value)
	return nil
}

// Update replaces the entry with value's id. It fails with *NotFoundError
// when there is none.
func (r *Repository[T]) Update(value T) error {
	id := value.ObjID()
	if _, ok := r.items[id]; !ok {
		return &NotFoundError{Kind: r.Kind(), ID: id}
	}
	r.items[id] = own(value)
	return nil
}

// Remove deletes and returns the entry for id, if any.
func (r *Repository[T]) Remove(id objid.ObjId) (T, bool) {
	v, ok := r.items[id]
	if ok {
		delete(r.items, id)
	}
	return v, ok
}

func (r *Repository[T]) Get(id objid.ObjId) (T, error) {
	v, ok := r.items[id]
	if !ok {
		return v, &NotFoundError{Kind: r.Kind(), ID: id}
	}
	return own(v), nil
}

func (r *Repository[T]) Exists(id objid.ObjId) bool {
	_, ok := r.items[id]
	return ok
}

func (r *Repository[T]) Len() int {
	return len(r.items)
}

// List returns every id in unspecified order.
func (r *Repository[T]) List() []objid.ObjId {
	ids := make([]objid.ObjId, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	return ids
}

// ListAll iterates every value in unspecified order.
func (r *Repository[T]) ListAll() *sequence.Iterator[T] {
	return sequence.Map(sequence.FromMap(r.items), own[T])
}

// SaveSnapshot writes every dynamic entry into out in ascending id order.
// Static entries are rebuilt from configuration and are never saved.
func (r *Repository[T]) SaveSnapshot(out *snapshot.Snapshot) error {
	dynamic := sequence.FromMap(r.items).Filter(func(v T) bool {
		return !objid.IsStatic(v.ObjID())
	})
	byID := func(v T) objid.ObjId { return v.ObjID() }
	for _, v := range sequence.SortedBy(dynamic, byID) {
		raw, err := r.codec.Encode(v)
		if err != nil {
			return err
		}
		out.Add(v.ObjID(), r.Kind(), raw)
	}
	return nil
}

// LoadSnapshot decodes every entry of this kind before inserting any of
// them, so a bad value leaves the repository unchanged.
func (r *Repository[T]) LoadSnapshot(in *snapshot.Snapshot) error {
	entries := in.Entries(r.Kind())
	decoded := make([]T, 0, len(entries))
	for _, e := range entries {
		v, err := r.codec.Decode(e.ID, e.Value)
		if err != nil {
			return err
		}
		decoded = append(decoded, v)
	}
	for _, v := range decoded {
		r.items[v.ObjID()] = v
	}
	return nil
}
