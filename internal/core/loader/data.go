package loader

import (
	"errors"
	"math"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/zeusync/mudstate/internal/core/migrator"
	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/internal/core/repository"
	"github.com/zeusync/mudstate/internal/core/schema/registry"
	"github.com/zeusync/mudstate/internal/core/snapshot"
	"github.com/zeusync/mudstate/pkg/encoding"
)

const (
	keyVersion = "version"
	keyObjects = "objects"
	keyID      = "id"
)

// LoaderData is the durable document form of a world:
//
//	{"version": 3, "objects": [{"id": 1, "price": {"buy": 10, "sell": 5}}]}
//
// Every object carries its id and one entry per component kind.
type LoaderData map[string]any

// NewLoaderData returns an empty document at the current version.
func NewLoaderData() LoaderData {
	return LoaderData{
		keyVersion: float64(migrator.CurrentVersion),
		keyObjects: []any{},
	}
}

// Version returns the schema version, 0 when absent or not a number.
func (d LoaderData) Version() int {
	v, _ := migrator.Version(d)
	return v
}

// Objects returns the object maps in document order.
func (d LoaderData) Objects() ([]map[string]any, error) {
	raw, ok := d[keyObjects]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, eris.Wrapf(ErrInvalidShape, "objects is %T", raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, eris.Wrapf(ErrInvalidShape, "objects[%d] is %T", i, e)
		}
		out = append(out, obj)
	}
	return out, nil
}

// Encode returns the pretty-printed JSON form written to save files.
func (d LoaderData) Encode() ([]byte, error) {
	return encoding.Indent(map[string]any(d))
}

// DecodeLoaderData parses a JSON document.
func DecodeLoaderData(bz []byte) (LoaderData, error) {
	v, err := encoding.DecodeAny(bz)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, eris.Wrapf(ErrInvalidShape, "top level is %T, not an object", v)
	}
	return LoaderData(doc), nil
}

// parseID validates an id value from a document.
func parseID(raw any) (objid.ObjId, error) {
	f, ok := raw.(float64)
	if !ok {
		return objid.Invalid, eris.Wrapf(ErrInvalidID, "id %v is %T, not a number", raw, raw)
	}
	if f != math.Trunc(f) || f < 1 || f >= math.MaxUint32 {
		return objid.Invalid, eris.Wrapf(ErrInvalidID, "id %v out of range", f)
	}
	return objid.ObjId(f), nil
}

// ToSnapshot converts d into a snapshot. Every object must have a valid id
// and every kind must be one of kinds. A kind given twice for the same id is
// a *repository.ConflictError. All problems are reported together.
func (d LoaderData) ToSnapshot(kinds []string) (*snapshot.Snapshot, error) {
	objects, err := d.Objects()
	if err != nil {
		return nil, err
	}

	snap := snapshot.New()
	var errs []error
	for i, obj := range objects {
		rawID, ok := obj[keyID]
		if !ok {
			errs = append(errs, eris.Wrapf(ErrInvalidID, "objects[%d] has no id", i))
			continue
		}
		id, err := parseID(rawID)
		if err != nil {
			errs = append(errs, eris.Wrapf(err, "objects[%d]", i))
			continue
		}

		for _, kind := range sortedKeys(obj) {
			if kind == keyID {
				continue
			}
			value := obj[kind]
			if value == nil {
				continue
			}
			if !slices.Contains(kinds, kind) {
				errs = append(errs, eris.Wrapf(registry.ErrUnknownKind, "object %d kind %q", id, kind))
				continue
			}
			if snap.Has(id, kind) {
				errs = append(errs, &repository.ConflictError{Kind: kind, ID: id})
				continue
			}
			raw, err := encoding.Encode(value)
			if err != nil {
				errs = append(errs, eris.Wrapf(err, "object %d kind %q", id, kind))
				continue
			}
			snap.Add(id, kind, raw)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return snap, nil
}

// FromSnapshot converts snap into a document sorted by id with kinds in
// ascending order.
func FromSnapshot(snap *snapshot.Snapshot) (LoaderData, error) {
	data := NewLoaderData()
	objects := make([]any, 0, snap.Len())
	for _, id := range snap.IDs() {
		obj := map[string]any{keyID: float64(id)}
		for _, kind := range snap.Kinds(id) {
			raw, _ := snap.Get(id, kind)
			v, err := encoding.DecodeAny(raw)
			if err != nil {
				return nil, eris.Wrapf(err, "object %d kind %q", id, kind)
			}
			obj[kind] = v
		}
		objects = append(objects, obj)
	}
	data[keyObjects] = objects
	return data, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
