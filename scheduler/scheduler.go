// Package scheduler defines the abstract time/scheduling capability
// operators rely on (spec §4.5), plus the real-time production driver. The
// vtime package provides the deterministic counterpart used in tests.
package scheduler

import "time"

// Scheduler must invoke a callback in a way that yields to the host event
// loop (or the virtual driver) at least once between invocations. Operators
// name the capability they need in their parameter types (Scheduler or
// DelayScheduler), so a scheduler lacking it is rejected at compile time;
// no operator returns streamkit.InvalidSchedulerError at run time.
type Scheduler interface {
	// Schedule queues cb to run, yielding at least one scheduling point
	// before it executes.
	Schedule(cb func())
	// Now reports the scheduler's notion of current time.
	Now() time.Time
}

// DelayScheduler additionally supports delayed execution, required by
// operators such as delay, throttleTime, debounceTime and timeout.
type DelayScheduler interface {
	Scheduler
	// AfterFunc schedules cb to run after d elapses (scheduler time, which
	// may be virtual) and returns a function that cancels it if it has not
	// yet fired.
	AfterFunc(d time.Duration, cb func()) (cancel func())
}

// HasDelay reports whether sched additionally implements DelayScheduler,
// the capability check operators perform before using AfterFunc.
func HasDelay(sched Scheduler) (DelayScheduler, bool) {
	ds, ok := sched.(DelayScheduler)
	return ds, ok
}
