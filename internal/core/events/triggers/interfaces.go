package triggers

import "github.com/zeusync/mudstate/internal/core/objid"

// Kind selects the bucket an event is buffered in and the subscribers it is
// delivered to.
type Kind uint8

const (
	Spawn Kind = iota
	Rest
	Combat
	Decay

	kindCount
)

func (k Kind) String() string {
	switch k {
	case Spawn:
		return "spawn"
	case Rest:
		return "rest"
	case Combat:
		return "combat"
	case Decay:
		return "decay"
	default:
		return "unknown"
	}
}

// Kinds returns every kind in delivery order.
func Kinds() []Kind {
	return []Kind{Spawn, Rest, Combat, Decay}
}

// Event is something that happened during a tick. Events are transient and
// never persisted.
type Event interface {
	Kind() Kind
}

type (
	// SpawnEvent reports a newly created object.
	SpawnEvent struct{ ID objid.ObjId }
	// RestEvent reports an object that stopped acting this tick.
	RestEvent struct{ ID objid.ObjId }
	// CombatEvent reports an attack.
	CombatEvent struct{ Attacker, Target objid.ObjId }
	// DecayEvent reports an object scheduled for removal.
	DecayEvent struct{ ID objid.ObjId }
)

func (SpawnEvent) Kind() Kind  { return Spawn }
func (RestEvent) Kind() Kind   { return Rest }
func (CombatEvent) Kind() Kind { return Combat }
func (DecayEvent) Kind() Kind  { return Decay }

// Handler is called once per delivered event. Errors are collected and
// joined by Flush.
type Handler func(event Event) error

// Subscription is a handler registered for one kind.
type Subscription interface {
	// ID is unique per subscription.
	ID() string
	Kind() Kind
	// IsActive reports whether the handler still receives events.
	IsActive() bool
	// Cancel stops delivery. Multiple calls are safe.
	Cancel()
}
