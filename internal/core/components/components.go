// Package components holds the value types of every persisted aspect. Values
// are plain data; relations to other objects are stored as ids and resolved
// by lookup.
package components

import (
	"github.com/goccy/go-json"

	"github.com/zeusync/mudstate/internal/core/objid"
)

// Kind names as they appear in snapshots and configuration files.
const (
	KindPrice         = "price"
	KindZone          = "zone"
	KindMemory        = "memory"
	KindCraft         = "craft"
	KindPlanet        = "planet"
	KindSector        = "sector"
	KindSurface       = "surface"
	KindSurfaceObject = "surface_object"
	KindLabel         = "label"
)

// Price is what a vendor pays and asks for an object.
type Price struct {
	ID   objid.ObjId `json:"-"`
	Buy  float64     `json:"buy"`
	Sell float64     `json:"sell"`
}

func (v Price) ObjID() objid.ObjId       { return v.ID }
func (v *Price) SetObjID(id objid.ObjId) { v.ID = id }

// Zone marks an object as a zone.
type Zone struct {
	ID objid.ObjId `json:"-"`
}

func (v Zone) ObjID() objid.ObjId       { return v.ID }
func (v *Zone) SetObjID(id objid.ObjId) { v.ID = id }

// Memory is the set of objects an agent knows about.
type Memory struct {
	ID       objid.ObjId `json:"-"`
	KnownIDs objid.Set   `json:"known_ids"`
}

func (v Memory) ObjID() objid.ObjId       { return v.ID }
func (v *Memory) SetObjID(id objid.ObjId) { v.ID = id }

// Know records id as known, allocating the set on first use.
func (v *Memory) Know(id objid.ObjId) {
	if v.KnownIDs == nil {
		v.KnownIDs = objid.NewSet()
	}
	v.KnownIDs.Add(id)
}

// Clone returns a copy that shares no memory with v.
func (v Memory) Clone() Memory {
	v.KnownIDs = v.KnownIDs.Clone()
	return v
}

// MarshalJSON encodes a nil set as an empty array, the same as it decodes.
func (v Memory) MarshalJSON() ([]byte, error) {
	type memory Memory
	if v.KnownIDs == nil {
		v.KnownIDs = objid.NewSet()
	}
	return json.Marshal(memory(v))
}

type CommandKind string

const (
	CommandIdle   CommandKind = "idle"
	CommandMoveTo CommandKind = "move_to"
)

// CraftCommand is the current order of a craft. Target is set only for
// CommandMoveTo.
type CraftCommand struct {
	Kind   CommandKind `json:"kind"`
	Target objid.ObjId `json:"target,omitempty"`
}

type CraftAttributes struct {
	Speed float64 `json:"speed"`
}

// Craft is a ship or vehicle.
type Craft struct {
	ID         objid.ObjId     `json:"-"`
	Command    CraftCommand    `json:"command"`
	Attributes CraftAttributes `json:"attributes"`
}

func (v Craft) ObjID() objid.ObjId       { return v.ID }
func (v *Craft) SetObjID(id objid.ObjId) { v.ID = id }

// MoveTo orders the craft towards target.
func (v *Craft) MoveTo(target objid.ObjId) {
	v.Command = CraftCommand{Kind: CommandMoveTo, Target: target}
}

// Idle clears the current order.
func (v *Craft) Idle() {
	v.Command = CraftCommand{Kind: CommandIdle}
}

type Planet struct {
	ID     objid.ObjId `json:"-"`
	Sector objid.ObjId `json:"sector"`
	Orbit  float64     `json:"orbit"`
}

func (v Planet) ObjID() objid.ObjId       { return v.ID }
func (v *Planet) SetObjID(id objid.ObjId) { v.ID = id }

type Sector struct {
	ID   objid.ObjId `json:"-"`
	Name string      `json:"name"`
}

func (v Sector) ObjID() objid.ObjId       { return v.ID }
func (v *Sector) SetObjID(id objid.ObjId) { v.ID = id }

// Surface is a walkable grid, usually of a planet.
type Surface struct {
	ID     objid.ObjId `json:"-"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}

func (v Surface) ObjID() objid.ObjId       { return v.ID }
func (v *Surface) SetObjID(id objid.ObjId) { v.ID = id }

// Contains reports whether (x, y) is inside the surface.
func (v Surface) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Width && y < v.Height
}

// SurfaceObject places an object on a surface.
type SurfaceObject struct {
	ID      objid.ObjId `json:"-"`
	Surface objid.ObjId `json:"surface"`
	X       int         `json:"x"`
	Y       int         `json:"y"`
}

func (v SurfaceObject) ObjID() objid.ObjId       { return v.ID }
func (v *SurfaceObject) SetObjID(id objid.ObjId) { v.ID = id }

// Label is the display name and description of an object.
type Label struct {
	ID    objid.ObjId `json:"-"`
	Label string      `json:"label"`
	Desc  string      `json:"desc,omitempty"`
}

func (v Label) ObjID() objid.ObjId       { return v.ID }
func (v *Label) SetObjID(id objid.ObjId) { v.ID = id }
