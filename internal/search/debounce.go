// Package search turns raw keystroke input into rate-limited search triggers.
package search

import (
	"sync"
	"time"
)

// Timer is a scheduled call that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock schedules calls. It exists so tests can drive time by hand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// Debouncer runs a function once calls have stopped arriving for the
// configured duration. Each call replaces the pending function.
type Debouncer struct {
	mu       sync.Mutex
	clock    Clock
	duration time.Duration
	timer    Timer
	pending  func()

	// gen is bumped on every schedule and cancel; a timer whose generation
	// is no longer current does nothing when it fires
	gen uint64
}

// NewDebouncer creates a debouncer. A nil clock means the wall clock.
func NewDebouncer(duration time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer{
		clock:    clock,
		duration: duration,
	}
}

// Debounce cancels any pending call and schedules fn.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.clock.AfterFunc(d.duration, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	d.pending = nil
}

// Flush runs the pending call now and reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if fn == nil {
		d.mu.Unlock()
		return false
	}
	d.stopLocked()
	d.gen++
	d.pending = nil
	d.mu.Unlock()

	fn()
	return true
}

// Immediate cancels any pending call and runs fn synchronously.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
