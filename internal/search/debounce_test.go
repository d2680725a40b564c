package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_RapidCallsRunLastOnce(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(50*time.Millisecond, clock)

	var called, last int32
	for i := int32(1); i <= 10; i++ {
		value := i
		d.Debounce(func() {
			atomic.StoreInt32(&last, value)
			atomic.AddInt32(&called, 1)
		})
		clock.Advance(10 * time.Millisecond)
	}

	assert.True(t, d.Pending())
	clock.Advance(time.Second)

	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
	assert.Equal(t, int32(10), atomic.LoadInt32(&last))
	assert.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(50*time.Millisecond, clock)

	var called int32
	d.Debounce(func() { atomic.AddInt32(&called, 1) })
	clock.Advance(10 * time.Millisecond)
	d.Cancel()
	clock.Advance(time.Second)

	assert.Zero(t, atomic.LoadInt32(&called))
	assert.False(t, d.Pending())
}

func TestDebouncer_SupersededTimerDoesNotFire(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(50*time.Millisecond, clock)

	var first, second int32
	d.Debounce(func() { atomic.AddInt32(&first, 1) })
	d.Debounce(func() { atomic.AddInt32(&second, 1) })

	// simulate the first timer firing after it was replaced but before Stop took effect
	require.Len(t, clock.timers, 2)
	clock.timers[0].fn()

	assert.Zero(t, atomic.LoadInt32(&first))
	assert.Zero(t, atomic.LoadInt32(&second))
	assert.True(t, d.Pending())

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&second))
	assert.Zero(t, atomic.LoadInt32(&first))
}

func TestDebouncer_Flush(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(50*time.Millisecond, clock)

	assert.False(t, d.Flush())

	var called int32
	d.Debounce(func() { atomic.AddInt32(&called, 1) })
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))

	clock.Advance(time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
}

func TestDebouncer_Immediate(t *testing.T) {
	clock := &manualClock{}
	d := NewDebouncer(50*time.Millisecond, clock)

	var pending, immediate int32
	d.Debounce(func() { atomic.AddInt32(&pending, 1) })
	d.Immediate(func() { atomic.AddInt32(&immediate, 1) })
	clock.Advance(time.Second)

	assert.Zero(t, atomic.LoadInt32(&pending))
	assert.Equal(t, int32(1), atomic.LoadInt32(&immediate))
}

func TestDebouncer_RealClock(t *testing.T) {
	d := NewDebouncer(10*time.Millisecond, nil)

	done := make(chan struct{})
	d.Debounce(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced function did not run")
	}
}
