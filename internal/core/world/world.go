// Package world owns the live game state: the id allocator, one repository
// per component kind and the tick loop that drives triggers.
package world

import (
	"github.com/zeusync/mudstate/internal/core/components"
	"github.com/zeusync/mudstate/internal/core/events/triggers"
	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/internal/core/observability/log"
	"github.com/zeusync/mudstate/internal/core/repository"
	"github.com/zeusync/mudstate/internal/core/schema/registry"
	"github.com/zeusync/mudstate/internal/core/snapshot"
)

// codecVersion is the encoding version of every built-in kind.
const codecVersion = 1

var _ snapshot.Provider = (*World)(nil)

// Option configures a World.
type Option func(*options)

type options struct {
	allocator  *objid.Allocator
	dispatcher *triggers.Dispatcher
	logger     log.Log
}

// WithAllocator shares an allocator between worlds, e.g. when a world is
// rebuilt from a save.
func WithAllocator(a *objid.Allocator) Option {
	return func(o *options) { o.allocator = a }
}

// WithDispatcher sets the dispatcher tick events are flushed to.
func WithDispatcher(d *triggers.Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// WithLogger sets the world logger.
func WithLogger(l log.Log) Option {
	return func(o *options) { o.logger = l }
}

// World is not safe for concurrent use. All gameplay code runs on the tick
// goroutine.
type World struct {
	Prices         *repository.Repository[components.Price]
	Zones          *repository.Repository[components.Zone]
	Memories       *repository.Repository[components.Memory]
	Crafts         *repository.Repository[components.Craft]
	Planets        *repository.Repository[components.Planet]
	Sectors        *repository.Repository[components.Sector]
	Surfaces       *repository.Repository[components.Surface]
	SurfaceObjects *repository.Repository[components.SurfaceObject]
	Labels         *repository.Repository[components.Label]

	allocator  *objid.Allocator
	registry   *registry.Registry
	dispatcher *triggers.Dispatcher
	logger     log.Log

	aspects []aspect
	ticks   uint64
	current *Tick
}

// aspect erases the value type of a repository for whole-world operations.
type aspect struct {
	support snapshot.Support
	exists  func(objid.ObjId) bool
	remove  func(objid.ObjId) bool
}

func New(opts ...Option) *World {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.allocator == nil {
		o.allocator = objid.NewAllocator()
	}
	if o.dispatcher == nil {
		o.dispatcher = triggers.NewDispatcher()
	}
	if o.logger == nil {
		o.logger = log.Provide()
	}

	w := &World{
		allocator:  o.allocator,
		registry:   registry.New(),
		dispatcher: o.dispatcher,
		logger:     o.logger,
	}
	w.Prices = attach[components.Price](w, components.KindPrice)
	w.Zones = attach[components.Zone](w, components.KindZone)
	w.Memories = attach[components.Memory](w, components.KindMemory)
	w.Crafts = attach[components.Craft](w, components.KindCraft)
	w.Planets = attach[components.Planet](w, components.KindPlanet)
	w.Sectors = attach[components.Sector](w, components.KindSector)
	w.Surfaces = attach[components.Surface](w, components.KindSurface)
	w.SurfaceObjects = attach[components.SurfaceObject](w, components.KindSurfaceObject)
	w.Labels = attach[components.Label](w, components.KindLabel)
	return w
}

// attach creates the repository of one kind and registers its codec. Kind
// names are compile-time constants, so a duplicate is a programming error.
func attach[T repository.Component, PT registry.Identified[T]](w *World, kind string) *repository.Repository[T] {
	repo, codec := repository.NewWithCodec[T, PT](kind, codecVersion)
	if err := w.registry.Register(codec); err != nil {
		panic(err)
	}
	w.aspects = append(w.aspects, aspect{
		support: repo,
		exists:  repo.Exists,
		remove: func(id objid.ObjId) bool {
			_, ok := repo.Remove(id)
			return ok
		},
	})
	return repo
}

// Supports returns every repository in registration order.
func (w *World) Supports() []snapshot.Support {
	out := make([]snapshot.Support, len(w.aspects))
	for i, a := range w.aspects {
		out[i] = a.support
	}
	return out
}

func (w *World) Registry() *registry.Registry {
	return w.registry
}

func (w *World) Allocator() *objid.Allocator {
	return w.allocator
}

func (w *World) Dispatcher() *triggers.Dispatcher {
	return w.dispatcher
}

// Observe tells the allocator that id is taken.
func (w *World) Observe(id objid.ObjId) {
	w.allocator.Observe(id)
}

// Spawn allocates a fresh dynamic id. Inside a tick a SpawnEvent is raised.
func (w *World) Spawn() objid.ObjId {
	id := w.allocator.Next()
	if w.current != nil {
		w.current.Push(triggers.SpawnEvent{ID: id})
	}
	return id
}

// Exists reports whether any repository has an entry for id.
func (w *World) Exists(id objid.ObjId) bool {
	for _, a := range w.aspects {
		if a.exists(id) {
			return true
		}
	}
	return false
}

// Despawn removes id from every repository and reports whether anything was
// removed. The id is not reused.
func (w *World) Despawn(id objid.ObjId) bool {
	removed := false
	for _, a := range w.aspects {
		if a.remove(id) {
			removed = true
		}
	}
	return removed
}

// Count is the number of distinct ids with at least one aspect.
func (w *World) Count() int {
	seen := objid.NewSet()
	for _, s := range w.Supports() {
		if repo, ok := s.(interface{ List() []objid.ObjId }); ok {
			for _, id := range repo.List() {
				seen.Add(id)
			}
		}
	}
	return seen.Len()
}
