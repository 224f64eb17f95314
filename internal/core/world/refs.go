package world

import (
	"github.com/rotisserie/eris"

	"github.com/zeusync/mudstate/internal/core/components"
	"github.com/zeusync/mudstate/internal/core/objid"
)

var (
	ErrDanglingReference = eris.New("reference to missing object")
	ErrNoTarget          = eris.New("craft has no target")
)

// CraftTarget resolves the move target of craft id. It fails with
// ErrNoTarget when the craft is idle and ErrDanglingReference when the target
// no longer exists.
func (w *World) CraftTarget(id objid.ObjId) (objid.ObjId, error) {
	craft, err := w.Crafts.Get(id)
	if err != nil {
		return objid.Invalid, err
	}
	if craft.Command.Kind != components.CommandMoveTo {
		return objid.Invalid, eris.Wrapf(ErrNoTarget, "craft %d", id)
	}
	target := craft.Command.Target
	if !w.Exists(target) {
		return objid.Invalid, eris.Wrapf(ErrDanglingReference, "craft %d target %d", id, target)
	}
	return target, nil
}

// KnownObjects returns the remembered ids of id in ascending order. Every
// remembered id must still exist.
func (w *World) KnownObjects(id objid.ObjId) ([]objid.ObjId, error) {
	mem, err := w.Memories.Get(id)
	if err != nil {
		return nil, err
	}
	known := mem.KnownIDs.Sorted()
	for _, k := range known {
		if !w.Exists(k) {
			return nil, eris.Wrapf(ErrDanglingReference, "memory %d known %d", id, k)
		}
	}
	return known, nil
}

// Forget drops every remembered id that no longer exists and returns how
// many were dropped.
func (w *World) Forget(id objid.ObjId) (int, error) {
	mem, err := w.Memories.Get(id)
	if err != nil {
		return 0, err
	}
	dropped := 0
	for _, k := range mem.KnownIDs.Sorted() {
		if !w.Exists(k) {
			mem.KnownIDs.Remove(k)
			dropped++
		}
	}
	if dropped == 0 {
		return 0, nil
	}
	return dropped, w.Memories.Update(mem)
}
