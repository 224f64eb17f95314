package world

import (
	"errors"

	"github.com/rotisserie/eris"

	"github.com/zeusync/mudstate/internal/core/events/triggers"
	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/internal/core/observability/log"
)

var ErrNestedTick = eris.New("tick already running")

// Tick is the scope of one simulation step. Events pushed during the step are
// flushed to subscribers when it ends.
type Tick struct {
	world  *World
	number uint64
	buffer *triggers.Buffer
}

func (t *Tick) World() *World {
	return t.world
}

// Number is the 1-based index of this tick.
func (t *Tick) Number() uint64 {
	return t.number
}

// Push buffers e until the end of the tick.
func (t *Tick) Push(e triggers.Event) {
	t.buffer.Push(e)
}

// Spawn allocates a dynamic id and raises a SpawnEvent for it.
func (t *Tick) Spawn() objid.ObjId {
	return t.world.Spawn()
}

// Events returns what has been pushed so far under k.
func (t *Tick) Events(k triggers.Kind) []triggers.Event {
	return t.buffer.Events(k)
}

// Tick runs fn as one simulation step. Buffered events are delivered and
// cleared whether or not fn fails; errors from fn and from handlers are
// joined.
func (w *World) Tick(fn func(*Tick) error) error {
	if w.current != nil {
		return ErrNestedTick
	}
	w.ticks++
	t := &Tick{world: w, number: w.ticks, buffer: triggers.NewBuffer()}
	w.current = t
	defer func() { w.current = nil }()

	runErr := fn(t)
	flushErr := w.dispatcher.Flush(t.buffer)

	err := errors.Join(runErr, flushErr)
	if err != nil {
		w.logger.Warn("tick failed",
			log.Uint64("tick", t.number),
			log.Error(err),
		)
	}
	return err
}

// TickCount is the number of ticks started so far.
func (w *World) TickCount() uint64 {
	return w.ticks
}

// Subscribe registers fn for events of kind k raised in later ticks.
func (w *World) Subscribe(k triggers.Kind, fn triggers.Handler) triggers.Subscription {
	return w.dispatcher.Subscribe(k, fn)
}
