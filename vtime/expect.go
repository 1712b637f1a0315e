package vtime

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"streamkit"
)

// Helpers is the helper API passed to a vtime.Run test function, the
// Go-idiomatic analogue of spec §6.3's `{cold, hot, expectStream,
// expectResult, time, flush}`.
type Helpers struct {
	sched *Scheduler
	mu    sync.Mutex
	done  []func() bool
}

// Cold parses marbles and builds a cold stream (spec §4.6 cold()).
func (h *Helpers) Cold(marbles string, values map[string]any, err error) *streamkit.Stream[any] {
	return h.sched.Cold(marbles, values, err)
}

// Hot parses marbles and builds a hot stream (spec §4.6 hot()).
func (h *Helpers) Hot(marbles string, values map[string]any, err error) *streamkit.Stream[any] {
	return h.sched.Hot(marbles, values, err)
}

// Time returns parseTime(marbles), the tick duration of a marble string.
func (h *Helpers) Time(marbles string) int { return parseTime(marbles) }

// Flush drains all future tasks without the bounded runRunners semantics
// (spec §6.3 flush()).
func (h *Helpers) Flush() {
	for h.sched.hasFutureTasks() {
		_ = h.sched.flushCurrentTick()
		h.sched.mu.Lock()
		h.sched.currentTick++
		h.sched.mu.Unlock()
	}
}

type observed struct {
	tick  int
	kind  MarbleEventKind
	value any
	err   error
}

func (o observed) String() string {
	switch o.kind {
	case MarbleNext:
		return fmt.Sprintf("%d: next(%v)", o.tick, o.value)
	case MarbleComplete:
		return fmt.Sprintf("%d: complete", o.tick)
	default:
		return fmt.Sprintf("%d: error(%v)", o.tick, o.err)
	}
}

// ExpectStreamResult is the outcome handed back from the registered runner
// once it finishes; tests call AssertMatches/AssertThrows on it after Run
// returns.
type ExpectStreamResult struct {
	observed []observed
	strict   bool
	mu       sync.Mutex
	done     bool
}

// ExpectStream installs a runner that reads stream and records each
// observation at currentTick - readStartTick (spec §4.6 expectStream).
func (h *Helpers) ExpectStream(stream *streamkit.Stream[any], strict ...bool) *ExpectStreamResult {
	isStrict := true
	if len(strict) > 0 {
		isStrict = strict[0]
	}
	res := &ExpectStreamResult{strict: isStrict}
	startTick := h.sched.Tick()

	h.addRunner(func() bool {
		res.mu.Lock()
		done := res.done
		res.mu.Unlock()
		return done
	})

	go func() {
		r, err := stream.GetReader()
		if err != nil {
			res.mu.Lock()
			res.done = true
			res.mu.Unlock()
			return
		}
		for {
			v, done, rerr := r.Read(context.Background())
			tick := h.sched.Tick() - startTick
			res.mu.Lock()
			if done {
				if rerr != nil {
					res.observed = append(res.observed, observed{tick: tick, kind: MarbleError, err: rerr})
				} else {
					res.observed = append(res.observed, observed{tick: tick, kind: MarbleComplete})
				}
				res.done = true
				res.mu.Unlock()
				return
			}
			res.observed = append(res.observed, observed{tick: tick, kind: MarbleNext, value: v})
			res.mu.Unlock()
		}
	}()

	return res
}

// AssertMatches compares the observed event list against marbles/values/err,
// per spec §4.6's strict (exact tick equality) / non-strict (±1 tick on the
// final terminal event) comparison.
func (r *ExpectStreamResult) AssertMatches(t *testing.T, marbles string, values map[string]any, err error) {
	t.Helper()
	expected := parseMarbles(marbles, values, err)
	r.mu.Lock()
	actual := append([]observed(nil), r.observed...)
	r.mu.Unlock()

	if len(expected) != len(actual) {
		t.Fatalf("expectStream: event count mismatch\n expected: %v\n   actual: %v", expected, actual)
	}
	for i, exp := range expected {
		act := actual[i]
		tickOK := exp.Time == act.tick
		if !tickOK && !r.strict && i == len(expected)-1 {
			diff := exp.Time - act.tick
			tickOK = diff == 1 || diff == -1
		}
		if !tickOK {
			t.Fatalf("expectStream: tick mismatch at index %d\n expected: %v\n   actual: %v", i, expected, actual)
		}
		if exp.Kind != act.kind {
			t.Fatalf("expectStream: kind mismatch at index %d\n expected: %v\n   actual: %v", i, expected, actual)
		}
		switch exp.Kind {
		case MarbleNext:
			if !reflect.DeepEqual(exp.Value, act.value) {
				t.Fatalf("expectStream: value mismatch at index %d: expected %v, got %v", i, exp.Value, act.value)
			}
		case MarbleError:
			if exp.Err != nil && act.err != nil && exp.Err.Error() != act.err.Error() {
				t.Fatalf("expectStream: error mismatch at index %d: expected %v, got %v", i, exp.Err, act.err)
			}
		}
	}
}

// AssertThrows requires the last observed event to be an error; validator,
// if provided, inspects that error. It does not compare the observed events
// against any marble string.
func (r *ExpectStreamResult) AssertThrows(t *testing.T, validator func(error) bool) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.observed) == 0 || r.observed[len(r.observed)-1].kind != MarbleError {
		t.Fatalf("expectStream.throws: expected the stream to error, observed %v", r.observed)
	}
	if validator != nil && !validator(r.observed[len(r.observed)-1].err) {
		t.Fatalf("expectStream.throws: validator rejected error %v", r.observed[len(r.observed)-1].err)
	}
}

// ExpectResult is expectResult's callback payload: the relative-tick event
// list plus the slice of ScheduledTaskEvents realized during the stream's
// lifetime, ticks re-based to the read's start tick.
type ExpectResult struct {
	Events []MarbleEvent
	Tasks  []ScheduledTaskEvent
}

// ExpectResult installs a runner that reads stream, then invokes cb with
// the observed events and the realized task log (spec §4.6 expectResult).
func (h *Helpers) ExpectResult(stream *streamkit.Stream[any], cb func(ExpectResult)) {
	startTick := h.sched.Tick()
	startTaskCount := len(h.sched.ExecutedTasks())
	done := make(chan struct{})

	h.addRunner(func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	})

	go func() {
		defer close(done)
		var events []MarbleEvent
		r, err := stream.GetReader()
		if err != nil {
			cb(ExpectResult{})
			return
		}
		for {
			v, d, rerr := r.Read(context.Background())
			tick := h.sched.Tick() - startTick
			if d {
				if rerr != nil {
					events = append(events, MarbleEvent{Time: tick, Kind: MarbleError, Err: rerr})
				} else {
					events = append(events, MarbleEvent{Time: tick, Kind: MarbleComplete})
				}
				break
			}
			events = append(events, MarbleEvent{Time: tick, Kind: MarbleNext, Value: v})
		}

		all := h.sched.ExecutedTasks()
		var tasks []ScheduledTaskEvent
		if len(all) > startTaskCount {
			tasks = append(tasks, all[startTaskCount:]...)
			for i := range tasks {
				tasks[i].Tick -= startTick
			}
		}
		cb(ExpectResult{Events: events, Tasks: tasks})
	}()
}

func (h *Helpers) addRunner(isDone func() bool) {
	h.mu.Lock()
	h.done = append(h.done, isDone)
	h.mu.Unlock()
}

func (h *Helpers) allRunnersDone() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, d := range h.done {
		if !d() {
			return false
		}
	}
	return true
}

// Run executes testFn under a fresh virtual scheduler, then drives time
// forward until every runner installed via the Helpers API completes or no
// further progress is possible (spec §4.6's run(testFn) lifecycle). It
// reports SchedulerLoopError/TimeOverrunError as test failures.
func Run(t *testing.T, testFn func(h *Helpers)) {
	t.Helper()
	sched := New()
	h := &Helpers{sched: sched}

	testFn(h)

	if err := sched.runRunners(h.allRunnersDone); err != nil {
		t.Fatalf("vtime.Run: %v", err)
	}
}

// WithTracer runs Run with a Tracer attached to the scheduler, so every
// realized ScheduledTaskEvent is also persisted (SPEC_FULL.md §4.7's C9
// trace addition).
func WithTracer(t *testing.T, tracer Tracer, testFn func(h *Helpers)) {
	t.Helper()
	sched := New().WithTracer(tracer)
	h := &Helpers{sched: sched}

	testFn(h)

	if err := sched.runRunners(h.allRunnersDone); err != nil {
		t.Fatalf("vtime.WithTracer: %v", err)
	}
}
