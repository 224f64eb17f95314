package triggers

import (
	"errors"
	"testing"

	"github.com/zeusync/mudstate/internal/core/objid"
)

func TestBufferBucketsByKind(t *testing.T) {
	b := NewBuffer()
	b.Push(SpawnEvent{ID: 70000})
	b.Push(CombatEvent{Attacker: 1, Target: 2})
	b.Push(SpawnEvent{ID: 70001})

	if got := b.Len(); got != 3 {
		t.Fatalf("len: want 3, got %d", got)
	}
	spawns := b.Events(Spawn)
	if len(spawns) != 2 {
		t.Fatalf("spawn bucket: want 2, got %d", len(spawns))
	}
	if spawns[0].(SpawnEvent).ID != objid.ObjId(70000) || spawns[1].(SpawnEvent).ID != objid.ObjId(70001) {
		t.Fatalf("push order not kept: %v", spawns)
	}
	if len(b.Events(Decay)) != 0 {
		t.Fatal("decay bucket should be empty")
	}
}

func TestFlushDeliversAndClears(t *testing.T) {
	d := NewDispatcher()
	b := NewBuffer()

	var seen []Event
	d.Subscribe(Rest, func(e Event) error {
		seen = append(seen, e)
		return nil
	})
	b.Push(RestEvent{ID: 5})
	b.Push(DecayEvent{ID: 6})
	b.Push(RestEvent{ID: 7})

	if err := d.Flush(b); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(seen) != 2 || seen[0] != (RestEvent{ID: 5}) || seen[1] != (RestEvent{ID: 7}) {
		t.Fatalf("unexpected delivery: %v", seen)
	}
	if b.Len() != 0 {
		t.Fatalf("buffer not cleared: %d", b.Len())
	}
}

func TestFlushJoinsHandlerErrors(t *testing.T) {
	d := NewDispatcher()
	b := NewBuffer()

	errA := errors.New("a")
	errB := errors.New("b")
	calls := 0
	d.Subscribe(Combat, func(Event) error { calls++; return errA })
	d.Subscribe(Combat, func(Event) error { calls++; return errB })

	b.Push(CombatEvent{Attacker: 1, Target: 2})
	err := d.Flush(b)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("want both errors joined, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("every handler should run, got %d calls", calls)
	}
	if b.Len() != 0 {
		t.Fatal("buffer must be cleared after failed flush")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	d := NewDispatcher()
	b := NewBuffer()

	calls := 0
	sub := d.Subscribe(Spawn, func(Event) error { calls++; return nil })
	if sub.ID() == "" || !sub.IsActive() {
		t.Fatal("subscription should be active with an id")
	}
	sub.Cancel()
	sub.Cancel()
	if sub.IsActive() {
		t.Fatal("subscription still active after cancel")
	}
	if d.Subscribers(Spawn) != 0 {
		t.Fatalf("subscribers: %d", d.Subscribers(Spawn))
	}

	b.Push(SpawnEvent{ID: 1})
	if err := d.Flush(b); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("cancelled handler called %d times", calls)
	}
}
