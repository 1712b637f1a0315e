package scheduler

import (
	"time"

	"streamkit"
)

// Timer emits 0 after due elapses; if period is supplied it then emits
// 1, 2, … every period thereafter, forever. due<0 or a supplied period<=0
// is a construction error (spec §4.5).
func Timer(sched DelayScheduler, due time.Duration, period ...time.Duration) (*streamkit.Stream[int], error) {
	if due < 0 {
		return nil, streamkit.NewArgumentError("timer", "due must be >= 0")
	}
	var everyPeriod time.Duration
	repeating := len(period) > 0
	if repeating {
		everyPeriod = period[0]
		if everyPeriod <= 0 {
			return nil, streamkit.NewArgumentError("timer", "period must be > 0")
		}
	}

	var cancelPending func()
	return streamkit.New[int](streamkit.StreamOptions[int]{
		Start: func(c *streamkit.Controller[int]) {
			count := 0
			var scheduleNext func(delay time.Duration)
			scheduleNext = func(delay time.Duration) {
				cancelPending = sched.AfterFunc(delay, func() {
					if err := c.Enqueue(count); err != nil {
						return
					}
					count++
					if !repeating {
						_ = c.Close()
						return
					}
					scheduleNext(everyPeriod)
				})
			}
			scheduleNext(due)
		},
		Cancel: func(reason error) {
			if cancelPending != nil {
				cancelPending()
			}
		},
	}), nil
}

// Interval is Timer(period, period): emits 0, 1, 2, … every period.
func Interval(sched DelayScheduler, period time.Duration) (*streamkit.Stream[int], error) {
	return Timer(sched, period, period)
}
