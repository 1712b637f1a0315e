// Package vtime implements the virtual time scheduler (spec §4.6): a
// deterministic executor that makes every time-dependent behavior in
// streamkit observable and reproducible by substituting a tick-driven
// virtual clock for wall time. It is grounded on the tick/stage/priority
// queue style of the teacher's internal/replay.Recorder (buffer ticks,
// flush in order), repurposed from "buffer for disk flush" to "buffer for
// tick-ordered execution".
package vtime

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"streamkit/scheduler"
)

// Stage orders same-tick tasks: timer callbacks fire before stream
// emissions, which fire before consumer-side work.
type Stage int

const (
	StageTimer Stage = iota
	StageEmit
	StageConsume
)

// ScheduledTaskEvent is the realized-order record appended to executedTasks
// on every flushCurrentTick iteration and persisted by trace.Writer.
type ScheduledTaskEvent struct {
	Tick           int
	Stage          Stage
	Description    string
	ID             uint64
	ExecutionOrder uint64
}

type task struct {
	tick      int
	stage     Stage
	id        uint64
	seq       uint64 // insertion order, tie-breaker
	desc      string
	cb        func()
	cancelled bool
}

// Scheduler is the virtual time driver. It implements scheduler.Scheduler
// so operators never need a separate code path for virtual vs. real time.
type Scheduler struct {
	mu sync.Mutex

	currentTick int
	tasks       []*task
	nextTaskID  uint64
	nextSeq     uint64

	executedTasks  []ScheduledTaskEvent
	executionOrder uint64
	pendingReaders map[*pendingReader]struct{}
	tracer         Tracer
}

// Tracer receives every realized ScheduledTaskEvent; trace.Writer
// implements it (see vtime.WithTracer).
type Tracer interface {
	Append(ScheduledTaskEvent) error
}

// pendingReader is one virtual stream's "reader has pulled" flag, registered
// on construction and deregistered on close, error or cancel. Pull sets the
// flag; it is not cleared while the stream's buffer holds values.
type pendingReader struct {
	awaiting bool
}

// New constructs an idle virtual scheduler at tick 0.
func New() *Scheduler {
	return &Scheduler{pendingReaders: make(map[*pendingReader]struct{})}
}

var _ scheduler.Scheduler = (*Scheduler)(nil)
var _ scheduler.DelayScheduler = (*Scheduler)(nil)

// Now reports the virtual clock as a wall-clock time, the tick count since
// the Unix epoch in whole seconds — only meaningful for relative
// comparisons within one run.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Unix(int64(s.currentTick), 0).UTC()
}

// Schedule runs cb as a StageConsume task at the current tick, honoring the
// "yields between invocations" contract operators rely on.
func (s *Scheduler) Schedule(cb func()) {
	s.scheduleAt(s.Tick(), StageConsume, "schedule", cb)
}

// AfterFunc schedules cb as a StageTimer task d (truncated to whole ticks,
// minimum 1) from now, returning a cancel closure.
func (s *Scheduler) AfterFunc(d time.Duration, cb func()) func() {
	ticks := int(d)
	if ticks < 1 {
		ticks = 1
	}
	t := s.scheduleAt(s.Tick()+ticks, StageTimer, "afterFunc", cb)
	return func() { s.cancel(t) }
}

// Tick reports the current virtual tick.
func (s *Scheduler) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTick
}

// WithTracer attaches a Tracer; every task realized from this point on is
// also appended to it.
func (s *Scheduler) WithTracer(tr Tracer) *Scheduler {
	s.mu.Lock()
	s.tracer = tr
	s.mu.Unlock()
	return s
}

// ScheduleTask is the raw virtual-scheduler primitive (spec §6.3
// scheduleTask): schedule cb at the given tick/stage.
func (s *Scheduler) ScheduleTask(tick int, stage Stage, cb func(), desc string) {
	s.scheduleAt(tick, stage, desc, cb)
}

func (s *Scheduler) scheduleAt(tick int, stage Stage, desc string, cb func()) *task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTaskID++
	s.nextSeq++
	t := &task{tick: tick, stage: stage, id: s.nextTaskID, seq: s.nextSeq, desc: desc, cb: cb}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *Scheduler) cancel(t *task) {
	s.mu.Lock()
	t.cancelled = true
	s.mu.Unlock()
}

func (s *Scheduler) registerPendingReader() *pendingReader {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr := &pendingReader{}
	s.pendingReaders[pr] = struct{}{}
	return pr
}

func (s *Scheduler) deregisterPendingReader(pr *pendingReader) {
	s.mu.Lock()
	delete(s.pendingReaders, pr)
	s.mu.Unlock()
}

func (s *Scheduler) setAwaiting(pr *pendingReader, awaiting bool) {
	s.mu.Lock()
	pr.awaiting = awaiting
	s.mu.Unlock()
}

func (s *Scheduler) hasPendingReaders() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pr := range s.pendingReaders {
		if pr.awaiting {
			return true
		}
	}
	return false
}

// SchedulerLoopError is raised when flushCurrentTick fails to reach a fixed
// point within its iteration cap.
type SchedulerLoopError struct{ Tick int }

func (e *SchedulerLoopError) Error() string {
	return fmt.Sprintf("vtime: scheduler loop did not converge at tick %d", e.Tick)
}

// TimeOverrunError is raised when runRunners exceeds its tick-advancement
// cap without all runners completing.
type TimeOverrunError struct{ Tick int }

func (e *TimeOverrunError) Error() string {
	return "vtime: time advancement exceeded its cap before all runners completed"
}

const (
	flushIterationCap  = 100
	runnerIterationCap = 50
	runnerTickCapDelta = 50
)

// flushCurrentTick drains every task due at or before currentTick, in
// (tick asc, stage asc, insertion order) — spec §4.6's tick processing
// algorithm — restarting until no more due tasks remain or the iteration
// cap is hit.
func (s *Scheduler) flushCurrentTick() error {
	for iter := 0; ; iter++ {
		if iter >= flushIterationCap {
			return &SchedulerLoopError{Tick: s.Tick()}
		}
		due := s.dueTasks()
		if len(due) == 0 {
			return nil
		}
		t := due[0]
		s.removeTask(t)
		s.execute(t)
		// yield so goroutines blocked in Reader.Read observe the newly
		// enqueued value and streams register/deregister pending-reader
		// state before the next task is selected.
		s.yield()
	}
}

func (s *Scheduler) dueTasks() []*task {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.currentTick
	var due []*task
	for _, t := range s.tasks {
		if !t.cancelled && t.tick <= cur {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].tick != due[j].tick {
			return due[i].tick < due[j].tick
		}
		if due[i].stage != due[j].stage {
			return due[i].stage < due[j].stage
		}
		return due[i].seq < due[j].seq
	})
	if len(due) > 1 {
		due = due[:1]
	}
	return due
}

func (s *Scheduler) removeTask(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cand := range s.tasks {
		if cand == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
}

func (s *Scheduler) execute(t *task) {
	if t.cancelled {
		return
	}
	t.cb()

	s.mu.Lock()
	s.executionOrder++
	ev := ScheduledTaskEvent{
		Tick:           t.tick,
		Stage:          t.stage,
		Description:    t.desc,
		ID:             t.id,
		ExecutionOrder: s.executionOrder,
	}
	s.executedTasks = append(s.executedTasks, ev)
	tracer := s.tracer
	s.mu.Unlock()

	if tracer != nil {
		_ = tracer.Append(ev)
	}
}

// yield hands control back to any goroutine blocked in Reader.Read so its
// continuation settles before the scheduler selects the next task — the
// Go-native reading of spec §4.6 step 3 ("yield... so microtask/promise
// continuations settle"), since Go has no implicit microtask queue.
func (s *Scheduler) yield() {
	runtime.Gosched()
	time.Sleep(time.Millisecond)
}

// ExecutedTasks returns a copy of the realized-order log so far.
func (s *Scheduler) ExecutedTasks() []ScheduledTaskEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ScheduledTaskEvent, len(s.executedTasks))
	copy(out, s.executedTasks)
	return out
}

// hasFutureTasks reports whether any non-cancelled task remains scheduled.
func (s *Scheduler) hasFutureTasks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if !t.cancelled {
			return true
		}
	}
	return false
}

// runRunners drives time forward until every runner completes or no
// further progress is possible, per spec §4.6's bounded advancement loop.
func (s *Scheduler) runRunners(runnersDone func() bool) error {
	startTick := s.Tick()
	idle := 0
	for iter := 0; ; iter++ {
		if runnersDone() {
			return nil
		}
		if iter >= runnerIterationCap || s.Tick() > startTick+runnerTickCapDelta {
			return &TimeOverrunError{Tick: s.Tick()}
		}

		if len(s.dueTasks()) > 0 {
			if err := s.flushCurrentTick(); err != nil {
				return err
			}
			continue
		}

		if s.Tick() == 0 && s.hasPendingReaders() && !s.hasFutureTasks() {
			s.yield()
			continue
		}

		if s.hasFutureTasks() || s.hasPendingReaders() {
			idle = 0
			s.mu.Lock()
			s.currentTick++
			s.mu.Unlock()
			if err := s.flushCurrentTick(); err != nil {
				return err
			}
			continue
		}

		// a runner's reader goroutine may not have made its first pull yet;
		// yield before concluding that no further progress is possible.
		if idle < 3 {
			idle++
			s.yield()
			continue
		}
		return nil
	}
}
