package registry

import (
	"reflect"
	"slices"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/zeusync/mudstate/internal/core/objid"
)

var (
	ErrDuplicateKind = eris.New("component kind already registered")
	ErrUnknownKind   = eris.New("component kind not registered")
)

// Schema describes how one component kind is persisted.
type Schema interface {
	Name() string
	Version() int
	// Validate reports whether raw is a decodable value of this kind.
	Validate(id objid.ObjId, raw []byte) error
	FieldKind(path ...string) (reflect.Kind, bool)
}

// Registry is the kind-name to codec table shared by the world and the
// loader.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

func New() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// Register adds s under s.Name(). Names are unique.
func (r *Registry) Register(s Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[s.Name()]; ok {
		return eris.Wrapf(ErrDuplicateKind, "kind %q", s.Name())
	}
	r.schemas[s.Name()] = s
	return nil
}

func (r *Registry) Get(name string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownKind, "kind %q", name)
	}
	return s, nil
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[name]
	return ok
}

// Names returns all registered kinds in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate decodes raw as the value of object id with the codec registered
// under name.
func (r *Registry) Validate(name string, id objid.ObjId, raw []byte) error {
	s, err := r.Get(name)
	if err != nil {
		return err
	}
	return s.Validate(id, raw)
}

// FieldKind looks up a field of kind name by its JSON path. Unknown kinds
// and paths report false.
func (r *Registry) FieldKind(name string, path ...string) (reflect.Kind, bool) {
	s, err := r.Get(name)
	if err != nil {
		return reflect.Invalid, false
	}
	return s.FieldKind(path...)
}
