package snapshot

import (
	"cmp"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/mudstate/internal/core/objid"
)

// Snapshot maps an object id to the encoded value of each of its component
// kinds. Values are opaque to the snapshot; every kind is decoded only by the
// repository that owns it.
type Snapshot struct {
	entries map[objid.ObjId]map[string][]byte
}

// Entry is a single (id, value) pair of one kind.
type Entry struct {
	ID    objid.ObjId
	Value []byte
}

func New() *Snapshot {
	return &Snapshot{entries: make(map[objid.ObjId]map[string][]byte)}
}

// Add inserts or overwrites the value stored for (id, kind).
func (s *Snapshot) Add(id objid.ObjId, kind string, value []byte) {
	kinds, ok := s.entries[id]
	if !ok {
		kinds = make(map[string][]byte)
		s.entries[id] = kinds
	}
	kinds[kind] = value
}

func (s *Snapshot) Get(id objid.ObjId, kind string) ([]byte, bool) {
	v, ok := s.entries[id][kind]
	return v, ok
}

func (s *Snapshot) Has(id objid.ObjId, kind string) bool {
	_, ok := s.entries[id][kind]
	return ok
}

// Remove drops every kind stored for id.
func (s *Snapshot) Remove(id objid.ObjId) {
	delete(s.entries, id)
}

// Len returns the number of distinct ids.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// IDs returns all ids in ascending order.
func (s *Snapshot) IDs() []objid.ObjId {
	ids := make([]objid.ObjId, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Kinds returns the kinds stored for id in ascending order.
func (s *Snapshot) Kinds(id objid.ObjId) []string {
	kinds := make([]string, 0, len(s.entries[id]))
	for k := range s.entries[id] {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// AllKinds returns every kind present in the snapshot in ascending order.
func (s *Snapshot) AllKinds() []string {
	seen := make(map[string]struct{})
	for _, kinds := range s.entries {
		for k := range kinds {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Entries returns the values stored under kind, ordered by id.
func (s *Snapshot) Entries(kind string) []Entry {
	var out []Entry
	for id, kinds := range s.entries {
		if v, ok := kinds[kind]; ok {
			out = append(out, Entry{ID: id, Value: v})
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Digest hashes the canonical form of the snapshot: ids ascending, kinds
// ascending within an id. Equal snapshots have equal digests.
func (s *Snapshot) Digest() uint64 {
	h := xxhash.New()
	var buf [4]byte
	for _, id := range s.IDs() {
		buf[0], buf[1], buf[2], buf[3] = byte(id>>24), byte(id>>16), byte(id>>8), byte(id)
		_, _ = h.Write(buf[:])
		for _, kind := range s.Kinds(id) {
			_, _ = h.WriteString(kind)
			_, _ = h.Write([]byte{0})
			_, _ = h.Write(s.entries[id][kind])
			_, _ = h.Write([]byte{0})
		}
	}
	return h.Sum64()
}
