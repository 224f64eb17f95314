package objid

import (
	"slices"

	"github.com/goccy/go-json"
)

// Set is an unordered set of ids. It serializes as a sorted array so encoded
// output is deterministic.
type Set map[ObjId]struct{}

func NewSet(ids ...ObjId) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Add(id ObjId) {
	s[id] = struct{}{}
}

func (s Set) Remove(id ObjId) {
	delete(s, id)
}

func (s Set) Has(id ObjId) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Clone copies s. The copy of a nil set is an empty set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []ObjId {
	out := make([]ObjId, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []ObjId
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSet(ids...)
	return nil
}
