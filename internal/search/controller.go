package search

import (
	"sync"
	"time"
)

// DefaultDelay is how long input has to stay quiet before a search fires.
const DefaultDelay = 300 * time.Millisecond

// Trigger receives the settled search term.
type Trigger func(term string)

// Option configures a Controller.
type Option func(*Controller)

// WithDelay overrides DefaultDelay. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// Controller holds the raw search input and fires the trigger once typing
// has settled.
type Controller struct {
	mu      sync.Mutex
	value   string
	trigger Trigger

	delay     time.Duration
	clock     Clock
	debouncer *Debouncer
}

// NewController creates a controller that calls trigger with the latest
// input after it has been quiet for the configured delay.
func NewController(trigger Trigger, opts ...Option) *Controller {
	c := &Controller{
		trigger: trigger,
		delay:   DefaultDelay,
		clock:   RealClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.debouncer = NewDebouncer(c.delay, c.clock)
	return c
}

// Input records a keystroke and restarts the timer.
func (c *Controller) Input(value string) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()

	c.debouncer.Debounce(c.fire)
}

// Submit records value and fires the trigger right away, dropping any
// pending one.
func (c *Controller) Submit(value string) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()

	c.debouncer.Immediate(c.fire)
}

// Value returns the latest raw input.
func (c *Controller) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Pending reports whether a trigger is scheduled.
func (c *Controller) Pending() bool {
	return c.debouncer.Pending()
}

// Delay returns the configured quiet period.
func (c *Controller) Delay() time.Duration {
	return c.delay
}

// Close cancels any pending trigger.
func (c *Controller) Close() {
	c.debouncer.Cancel()
}

func (c *Controller) fire() {
	if c.trigger != nil {
		c.trigger(c.Value())
	}
}
