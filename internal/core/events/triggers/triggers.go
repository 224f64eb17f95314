// Package triggers buffers the events raised during one world tick and hands
// them to subscribers when the tick ends.
package triggers

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Buffer collects the events of a single tick, bucketed by kind in push
// order. Only the tick driver clears it.
type Buffer struct {
	buckets [kindCount][]Event
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Push appends e to the bucket of its kind. Events with an unknown kind are
// dropped.
func (b *Buffer) Push(e Event) {
	if e == nil || e.Kind() >= kindCount {
		return
	}
	b.buckets[e.Kind()] = append(b.buckets[e.Kind()], e)
}

// Events returns a copy of the events buffered under k.
func (b *Buffer) Events(k Kind) []Event {
	if k >= kindCount {
		return nil
	}
	return slices.Clone(b.buckets[k])
}

// Len is the total number of buffered events.
func (b *Buffer) Len() int {
	n := 0
	for _, bucket := range b.buckets {
		n += len(bucket)
	}
	return n
}

// Reset drops every buffered event.
func (b *Buffer) Reset() {
	for i := range b.buckets {
		b.buckets[i] = b.buckets[i][:0]
	}
}

type subscription struct {
	id     string
	kind   Kind
	fn     Handler
	active bool
	cancel func()
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Kind() Kind     { return s.kind }
func (s *subscription) IsActive() bool { return s.active }
func (s *subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Dispatcher delivers flushed events to subscribers. Subscribers of a kind
// are called in subscription order.
type Dispatcher struct {
	mu   sync.RWMutex
	subs [kindCount][]*subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers fn for events of kind k.
func (d *Dispatcher) Subscribe(k Kind, fn Handler) Subscription {
	s := &subscription{id: uuid.NewString(), kind: k, fn: fn, active: true}
	if k >= kindCount {
		s.active = false
		return s
	}
	s.cancel = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.subs[k] = slices.DeleteFunc(d.subs[k], func(o *subscription) bool { return o == s })
		s.active = false
	}

	d.mu.Lock()
	d.subs[k] = append(d.subs[k], s)
	d.mu.Unlock()
	return s
}

// Subscribers returns the number of active subscriptions for k.
func (d *Dispatcher) Subscribers(k Kind) int {
	if k >= kindCount {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs[k])
}

// Flush delivers every event in b, kind by kind in push order, then resets b.
// Handler errors do not stop delivery; they are joined into the result.
func (d *Dispatcher) Flush(b *Buffer) error {
	defer b.Reset()

	var all error
	for _, k := range Kinds() {
		events := b.buckets[k]
		if len(events) == 0 {
			continue
		}
		d.mu.RLock()
		subs := slices.Clone(d.subs[k])
		d.mu.RUnlock()

		for _, e := range events {
			for _, s := range subs {
				if err := s.fn(e); err != nil {
					all = errors.Join(all, err)
				}
			}
		}
	}
	return all
}
