package vtime

import (
	"context"
	"sync"

	"streamkit"
)

func (s *Scheduler) scheduleEvents(baseline int, events []MarbleEvent, c *streamkit.Controller[any], pr *pendingReader) {
	for _, ev := range events {
		ev := ev
		s.ScheduleTask(baseline+ev.Time, StageEmit, func() {
			switch ev.Kind {
			case MarbleNext:
				_ = c.Enqueue(ev.Value)
			case MarbleComplete:
				_ = c.Close()
				s.deregisterPendingReader(pr)
			case MarbleError:
				_ = c.Error(ev.Err)
				s.deregisterPendingReader(pr)
			}
		}, "marble-emit")
	}
}

// Cold builds a stream per spec §4.6's cold() factory: on first pull it
// records subscriptionTick = currentTick and schedules every parsed event
// at event.time + subscriptionTick.
func (s *Scheduler) Cold(marbles string, values map[string]any, err error) *streamkit.Stream[any] {
	events := parseMarbles(marbles, values, err)
	var once sync.Once
	pr := s.registerPendingReader()

	return streamkit.New[any](streamkit.StreamOptions[any]{
		Pull: func(c *streamkit.Controller[any], ctx context.Context) {
			once.Do(func() {
				s.scheduleEvents(s.Tick(), events, c, pr)
			})
			s.setAwaiting(pr, true)
		},
		Cancel: func(reason error) {
			s.deregisterPendingReader(pr)
		},
	})
}

// Hot builds a stream per spec §4.6's hot() factory: every parsed event is
// scheduled immediately, relative to a currentTick=0 baseline, regardless
// of when (or whether) a reader ever pulls. `^` sets the effective
// subscription point: events before it are dropped at construction and
// never scheduled, and the remaining events keep their absolute ticks.
func (s *Scheduler) Hot(marbles string, values map[string]any, err error) *streamkit.Stream[any] {
	events := parseMarbles(marbles, values, err)
	sub := subscriptionTick(marbles)
	visible := make([]MarbleEvent, 0, len(events))
	for _, ev := range events {
		if ev.Time >= sub {
			visible = append(visible, ev)
		}
	}
	pr := s.registerPendingReader()
	scheduled := false
	var mu sync.Mutex

	return streamkit.New[any](streamkit.StreamOptions[any]{
		Start: func(c *streamkit.Controller[any]) {
			mu.Lock()
			defer mu.Unlock()
			if !scheduled {
				scheduled = true
				s.scheduleEvents(0, visible, c, pr)
			}
		},
		Pull: func(c *streamkit.Controller[any], ctx context.Context) {
			s.setAwaiting(pr, true)
		},
		Cancel: func(reason error) {
			s.deregisterPendingReader(pr)
		},
	})
}
