package scheduler

import "time"

// RealTime is the production Scheduler, backed by goroutines and
// time.AfterFunc. Like the teacher's replay writer/recorder, it takes an
// injected Clock capability rather than reading time.Now directly, so
// callers can substitute a fake clock without touching the virtual
// scheduler machinery at all.
type RealTime struct {
	clock func() time.Time
}

// NewRealTime constructs a RealTime scheduler using clock for Now(). A nil
// clock defaults to time.Now.
func NewRealTime(clock func() time.Time) *RealTime {
	if clock == nil {
		clock = time.Now
	}
	return &RealTime{clock: clock}
}

// Schedule runs cb on its own goroutine, which is always a yield point
// relative to the caller.
func (r *RealTime) Schedule(cb func()) {
	go cb()
}

// Now reports the scheduler's injected clock value.
func (r *RealTime) Now() time.Time {
	return r.clock()
}

// AfterFunc schedules cb to run after d using the standard library timer.
// Note that the callback fires relative to wall-clock time regardless of
// the injected clock — the Clock capability governs Now() readings (e.g.
// for logging/tracing), not the timer's own firing, which the stdlib timer
// always drives from real elapsed time.
func (r *RealTime) AfterFunc(d time.Duration, cb func()) func() {
	t := time.AfterFunc(d, cb)
	return func() { t.Stop() }
}

var _ DelayScheduler = (*RealTime)(nil)
