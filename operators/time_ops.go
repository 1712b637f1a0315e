package operators

import (
	"sync"
	"time"

	"streamkit"
	"streamkit/scheduler"
)

// Delay re-emits every upstream value after d elapses, preserving order;
// complete passes through once any in-flight delayed values have been
// enqueued. An upstream error is forwarded at once, and delayed values still
// in flight at that point are dropped.
func Delay[T any](sched scheduler.DelayScheduler, d time.Duration) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		var last chan struct{}
		return Kernel(src, Hooks[T, T]{
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				prev := last
				done := make(chan struct{})
				last = done
				sched.AfterFunc(d, func() {
					if prev != nil {
						<-prev
					}
					_ = c.Enqueue(v)
					close(done)
				})
				return nil
			},
			Flush: func(c *streamkit.Controller[T]) {
				if last != nil {
					<-last
				}
			},
		}, strategy...)
	}
}

// throttleState is Idle or Windowed(stored?), per spec §4.2.1.
type throttleState int

const (
	throttleIdle throttleState = iota
	throttleWindowed
)

// ThrottleConfig selects leading/trailing emission per spec §4.2.1.
type ThrottleConfig struct {
	Leading  bool
	Trailing bool
}

// ThrottleTime implements the leading/trailing throttling state machine of
// spec §4.2.1 verbatim.
func ThrottleTime[T any](sched scheduler.DelayScheduler, d time.Duration, cfg ThrottleConfig) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		var mu sync.Mutex
		state := throttleIdle
		var stored T
		hasStored := false
		var cancelWindow func()

		var openWindow func(c *streamkit.Controller[T])
		openWindow = func(c *streamkit.Controller[T]) {
			state = throttleWindowed
			cancelWindow = sched.AfterFunc(d, func() {
				mu.Lock()
				defer mu.Unlock()
				if cfg.Trailing && hasStored {
					v := stored
					hasStored = false
					state = throttleWindowed
					mu.Unlock()
					_ = c.Enqueue(v)
					mu.Lock()
					openWindow(c)
					return
				}
				state = throttleIdle
			})
		}

		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) {
				state = throttleIdle
				hasStored = false
			},
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				mu.Lock()
				defer mu.Unlock()
				switch state {
				case throttleIdle:
					if cfg.Leading {
						state = throttleWindowed
						hasStored = false
						mu.Unlock()
						err := c.Enqueue(v)
						mu.Lock()
						openWindow(c)
						return err
					}
					stored = v
					hasStored = true
					openWindow(c)
				case throttleWindowed:
					stored = v
					hasStored = true
				}
				return nil
			},
			Flush: func(c *streamkit.Controller[T]) {
				mu.Lock()
				defer mu.Unlock()
				if cancelWindow != nil {
					cancelWindow()
				}
				if cfg.Trailing && hasStored {
					_ = c.Enqueue(stored)
				}
			},
		}, strategy...)
	}
}

// DebounceTime emits only the latest value once d quiet ticks elapse with
// no further arrivals; any pending value is flushed on upstream complete.
func DebounceTime[T any](sched scheduler.DelayScheduler, d time.Duration) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		var mu sync.Mutex
		var pending T
		hasPending := false
		var cancelPending func()

		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) {
				hasPending = false
			},
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				mu.Lock()
				if cancelPending != nil {
					cancelPending()
				}
				pending = v
				hasPending = true
				cancelPending = sched.AfterFunc(d, func() {
					mu.Lock()
					v, ok := pending, hasPending
					hasPending = false
					mu.Unlock()
					if ok {
						_ = c.Enqueue(v)
					}
				})
				mu.Unlock()
				return nil
			},
			Flush: func(c *streamkit.Controller[T]) {
				mu.Lock()
				if cancelPending != nil {
					cancelPending()
				}
				v, ok := pending, hasPending
				hasPending = false
				mu.Unlock()
				if ok {
					_ = c.Enqueue(v)
				}
			},
		}, strategy...)
	}
}

// Timeout errors the stream with a TimeoutError if the gap between
// successive items (including the gap from subscription to the first item)
// exceeds d. d<=0 is a construction error.
func Timeout[T any](sched scheduler.DelayScheduler, d time.Duration) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		if d <= 0 {
			return erroredStream[T](streamkit.NewArgumentError("timeout", "d must be > 0"))
		}
		var mu sync.Mutex
		var cancelArm func()
		fired := false

		arm := func(c *streamkit.Controller[T]) {
			cancelArm = sched.AfterFunc(d, func() {
				mu.Lock()
				if fired {
					mu.Unlock()
					return
				}
				fired = true
				mu.Unlock()
				_ = c.Error(&streamkit.TimeoutError{Duration: d.String()})
			})
		}

		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) {
				fired = false
				mu.Lock()
				arm(c)
				mu.Unlock()
			},
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				mu.Lock()
				if fired {
					mu.Unlock()
					return nil
				}
				if cancelArm != nil {
					cancelArm()
				}
				mu.Unlock()
				if err := c.Enqueue(v); err != nil {
					return err
				}
				mu.Lock()
				arm(c)
				mu.Unlock()
				return nil
			},
		}, strategy...)
	}
}

// Schedule yields each item to sched before enqueueing it, preserving
// order; a scheduler lacking the required capability must be detected by
// the caller before use (InvalidSchedulerError, per spec §4.2).
func Schedule[T any](sched scheduler.Scheduler) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		return Kernel(src, Hooks[T, T]{
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				done := make(chan struct{})
				sched.Schedule(func() {
					_ = c.Enqueue(v)
					close(done)
				})
				<-done
				return nil
			},
		}, strategy...)
	}
}
