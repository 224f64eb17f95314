package objid

import (
	"math"
	"strconv"
	"sync/atomic"
)

// ObjId is an opaque identifier of a world object.
//
// ID ranges:
//
//	0                       invalid
//	1 .. FirstDynamic-1     static objects, authored in configuration files
//	FirstDynamic .. max     dynamic objects, spawned at runtime
type ObjId uint32

const (
	Invalid      ObjId = 0
	FirstDynamic ObjId = 1 << 16
)

func (id ObjId) Valid() bool {
	return id != Invalid
}

func (id ObjId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsStatic reports whether id belongs to the authored range. Static objects
// are rebuilt from configuration on every load and never saved.
func IsStatic(id ObjId) bool {
	return id != Invalid && id < FirstDynamic
}

// IsDynamic reports whether id belongs to the runtime range.
func IsDynamic(id ObjId) bool {
	return id >= FirstDynamic
}

// Allocator issues dynamic identifiers. Identifiers are never reused.
type Allocator struct {
	next atomic.Uint32
}

// NewAllocator returns an allocator whose first id is FirstDynamic.
func NewAllocator() *Allocator {
	a := &Allocator{}
	a.next.Store(uint32(FirstDynamic))
	return a
}

// Next returns a fresh dynamic id. It panics when the id space is exhausted.
func (a *Allocator) Next() ObjId {
	id := a.next.Add(1) - 1
	if id == math.MaxUint32 {
		panic("objid: identifier space exhausted")
	}
	return ObjId(id)
}

// Observe moves the counter past id, so ids loaded from a save are never
// handed out again. Static ids are ignored.
func (a *Allocator) Observe(id ObjId) {
	if !IsDynamic(id) || id == math.MaxUint32 {
		return
	}
	for {
		cur := a.next.Load()
		if uint32(id) < cur {
			return
		}
		if a.next.CompareAndSwap(cur, uint32(id)+1) {
			return
		}
	}
}
