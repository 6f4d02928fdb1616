// Package debounce coalesces bursts of input into a single downstream event
// and tags in-flight requests so that stale responses can be dropped.
package debounce

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var nextID atomic.Int64

// TickFunc schedules fn after d. tea.Tick is the default.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// FiredMsg is delivered when a debounce timer elapses. It only counts if
// Accept returns true for it; otherwise a newer Trigger superseded it.
type FiredMsg[T any] struct {
	ID    int64
	Gen   uint64
	Value T
}

// Debouncer holds at most one live timer per input stream. Each Trigger
// invalidates the previous timer by bumping the generation.
type Debouncer[T any] struct {
	id    int64
	gen   uint64
	delay time.Duration
	tick  TickFunc
}

func New[T any](delay time.Duration) Debouncer[T] {
	return Debouncer[T]{
		id:    nextID.Add(1),
		delay: delay,
		tick:  tea.Tick,
	}
}

// WithTick replaces the timer source; tests use it to fire immediately
func (d Debouncer[T]) WithTick(tick TickFunc) Debouncer[T] {
	d.tick = tick
	return d
}

// Trigger restarts the timer with value as the pending payload
func (d *Debouncer[T]) Trigger(value T) tea.Cmd {
	d.gen++
	id, gen := d.id, d.gen
	return d.tick(d.delay, func(time.Time) tea.Msg {
		return FiredMsg[T]{ID: id, Gen: gen, Value: value}
	})
}

// Cancel drops any pending timer
func (d *Debouncer[T]) Cancel() {
	d.gen++
}

// Accept reports whether msg is the latest timer of this debouncer
func (d Debouncer[T]) Accept(msg FiredMsg[T]) bool {
	return msg.ID == d.id && msg.Gen == d.gen
}

// Generation tags outgoing requests. Only the response carrying the
// current tag may update state.
type Generation struct {
	n uint64
}

// Next starts a new request and returns its tag
func (g *Generation) Next() uint64 {
	g.n++
	return g.n
}

func (g Generation) Current() uint64 {
	return g.n
}

// IsCurrent reports whether tag belongs to the most recent request
func (g Generation) IsCurrent(tag uint64) bool {
	return tag == g.n
}
