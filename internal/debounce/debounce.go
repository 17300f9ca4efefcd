// Package debounce coalesces bursts of values so that only the latest one
// is delivered after a quiet period. Scheduling is pluggable so tests can
// drive time by hand with ManualScheduler.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = 300 * time.Millisecond

// Handle is a scheduled call that has not run yet.
type Handle interface {
	// Cancel prevents the call from running. It returns false if the call
	// already ran or was already cancelled.
	Cancel() bool
}

// Scheduler runs fn once after delay.
type Scheduler interface {
	Schedule(fn func(), delay time.Duration) Handle
}

// TimerScheduler schedules calls on the runtime timer.
var TimerScheduler Scheduler = timerScheduler{}

type timerScheduler struct{}

func (timerScheduler) Schedule(fn func(), delay time.Duration) Handle {
	return timerHandle{t: time.AfterFunc(delay, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

type settings struct {
	scheduler Scheduler
	delay     time.Duration
}

// Option configures a Debouncer.
type Option func(*settings)

// WithScheduler replaces the runtime timer scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *settings) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithDelay sets the quiet period. Non-positive values keep the default.
func WithDelay(d time.Duration) Option {
	return func(o *settings) {
		if d > 0 {
			o.delay = d
		}
	}
}

// Debouncer delivers the most recent pushed value to its callback once no
// new value has arrived for the configured delay. At most one call is
// outstanding at any time.
type Debouncer[T any] struct {
	mu      sync.Mutex
	sched   Scheduler
	delay   time.Duration
	fire    func(T)
	pending Handle
	value   T
	seq     uint64
	stopped bool
}

// New creates a Debouncer that calls fire with the settled value.
func New[T any](fire func(T), opts ...Option) *Debouncer[T] {
	s := settings{scheduler: TimerScheduler, delay: DefaultDelay}
	for _, opt := range opts {
		opt(&s)
	}
	return &Debouncer[T]{
		sched: s.scheduler,
		delay: s.delay,
		fire:  fire,
	}
}

// Push records v as the latest value and restarts the quiet period. The
// previously pending value, if any, is dropped. Push after Stop is a no-op.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()
	d.value = v
	seq := d.seq
	d.pending = d.sched.Schedule(func() { d.run(seq) }, d.delay)
}

// Flush delivers the pending value immediately. It reports whether a value
// was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	v := d.value
	d.mu.Unlock()

	d.fire(v)
	return true
}

// Stop cancels the pending value without delivering it. Further pushes are
// ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancelLocked()
}

// Pending reports whether a value is waiting for the quiet period to end.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// cancelLocked clears the outstanding handle. The sequence number moves on
// so a timer that fired concurrently with Cancel finds itself stale.
func (d *Debouncer[T]) cancelLocked() {
	if d.pending != nil {
		d.pending.Cancel()
		d.pending = nil
	}
	d.seq++
}

func (d *Debouncer[T]) run(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = nil
	d.seq++
	d.mu.Unlock()

	d.fire(v)
}
