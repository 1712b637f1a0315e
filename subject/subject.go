// Package subject implements the multicast substrate (spec §4.3): Subject,
// BehaviorSubject, and the plain Subscribable primitive that powers both,
// grounded on the teacher's internal/events.Stream per-subscriber channel
// fan-out, generalized from a game-event log to a typed generic multicast.
package subject

import (
	"fmt"
	"sync"

	"streamkit"
)

// subscriber is one live registration: a buffered delivery channel plus the
// closed flag observed by Subscribable.Subscribe's returned handle.
type subscriber[T any] struct {
	deliver chan subEvent[T]
	closed  bool
}

type subEventKind int

const (
	subNext subEventKind = iota
	subComplete
	subError
)

type subEvent[T any] struct {
	kind  subEventKind
	value T
	err   error
}

// Subscription is the handle Subscribable.Subscribe returns.
type Subscription struct {
	closedFn    func() bool
	unsubscribe func()
	unsubOnce   sync.Once
}

// Closed reports whether this subscription has been torn down, either by
// the subject completing/erroring or by an explicit Unsubscribe.
func (s *Subscription) Closed() bool { return s.closedFn() }

// Unsubscribe is idempotent.
func (s *Subscription) Unsubscribe() {
	s.unsubOnce.Do(s.unsubscribe)
}

// Subscribable is the plain multicast primitive without the stream façade:
// it powers Subject internally and lets external code consume without
// stream ceremony (spec §4.3).
type Subscribable[T any] struct {
	mu     sync.Mutex
	subs   map[*subscriber[T]]struct{}
	closed bool
	err    error
}

// NewSubscribable constructs an empty, open Subscribable.
func NewSubscribable[T any]() *Subscribable[T] {
	return &Subscribable[T]{subs: make(map[*subscriber[T]]struct{})}
}

// Subscribe registers onNext/onComplete/onError callbacks, invoked from a
// dedicated per-subscriber goroutine so one slow or panicking subscriber
// cannot block fan-out to others. A subscriber that panics in onNext is
// removed and its onError receives the panic as an error; siblings are
// unaffected.
func (s *Subscribable[T]) Subscribe(onNext func(T), onComplete func(), onError func(error)) *Subscription {
	sub := &subscriber[T]{deliver: make(chan subEvent[T], 64)}

	s.mu.Lock()
	if s.closed {
		closedErr := s.err
		s.mu.Unlock()
		if closedErr != nil && onError != nil {
			onError(closedErr)
		} else if onComplete != nil {
			onComplete()
		}
		sub.closed = true
		return &Subscription{closedFn: func() bool { return true }, unsubscribe: func() {}}
	}
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go s.pump(sub, onNext, onComplete, onError)

	unsubscribe := func() {
		s.mu.Lock()
		delete(s.subs, sub)
		sub.closed = true
		s.mu.Unlock()
		close(sub.deliver)
	}

	return &Subscription{
		closedFn:    func() bool { s.mu.Lock(); defer s.mu.Unlock(); return sub.closed },
		unsubscribe: unsubscribe,
	}
}

func (s *Subscribable[T]) pump(sub *subscriber[T], onNext func(T), onComplete func(), onError func(error)) {
	terminal := false
	defer func() {
		if r := recover(); r != nil {
			s.removeErrored(sub)
			if onError != nil && !terminal {
				onError(fmt.Errorf("subject: subscriber panicked: %v", r))
			}
		}
	}()
	for ev := range sub.deliver {
		switch ev.kind {
		case subNext:
			if onNext != nil {
				onNext(ev.value)
			}
		case subComplete:
			terminal = true
			if onComplete != nil {
				onComplete()
			}
			return
		case subError:
			terminal = true
			if onError != nil {
				onError(ev.err)
			}
			return
		}
	}
}

func (s *Subscribable[T]) removeErrored(sub *subscriber[T]) {
	s.mu.Lock()
	delete(s.subs, sub)
	sub.closed = true
	s.mu.Unlock()
}

// Next forwards v to every subscriber. Subscribers are held in a map, so
// the order in which they are handed v is not registration order and is not
// defined. If every subscriber has gone away the subject stays open and
// discards v.
func (s *Subscribable[T]) Next(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for sub := range s.subs {
		select {
		case sub.deliver <- subEvent[T]{kind: subNext, value: v}:
		default:
			// a full buffer means a stalled subscriber; drop rather than
			// block the whole fan-out (I4's "lossy where documented").
		}
	}
}

// Complete marks the subject closed and delivers completion once to every
// live subscriber. Idempotent after the first call.
func (s *Subscribable[T]) Complete() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = make(map[*subscriber[T]]struct{})
	s.mu.Unlock()
	for sub := range subs {
		sub.deliver <- subEvent[T]{kind: subComplete}
		close(sub.deliver)
	}
}

// Error marks the subject closed with err and delivers it once to every
// live subscriber. Idempotent after the first call or Complete.
func (s *Subscribable[T]) Error(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.err = err
	subs := s.subs
	s.subs = make(map[*subscriber[T]]struct{})
	s.mu.Unlock()
	for sub := range subs {
		sub.deliver <- subEvent[T]{kind: subError, err: err}
		close(sub.deliver)
	}
}

// Closed is a sticky boolean: true once Complete or Error has run.
func (s *Subscribable[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Writable is the imperative sink side of a Subject: write delegates to
// Next, Close to Complete, Abort to Error.
type Writable[T any] interface {
	Write(v T) error
	Close() error
	Abort(reason error) error
}

// Subject provides the imperative next/complete/error API plus a fresh
// Readable stream per subscription and a Writable sink (spec §4.3).
type Subject[T any] struct {
	sub *Subscribable[T]
}

// New constructs an open Subject.
func New[T any]() *Subject[T] {
	return &Subject[T]{sub: NewSubscribable[T]()}
}

// Next delivers v to every current subscriber; idempotent no-op once closed.
func (s *Subject[T]) Next(v T) { s.sub.Next(v) }

// Complete closes the subject; idempotent.
func (s *Subject[T]) Complete() { s.sub.Complete() }

// Error closes the subject with err; idempotent.
func (s *Subject[T]) Error(err error) { s.sub.Error(err) }

// Closed reports the subject's sticky closed state.
func (s *Subject[T]) Closed() bool { return s.sub.Closed() }

// Readable returns a fresh Stream that enqueues every value arriving after
// its construction, propagates complete/error once, and on cancel removes
// itself from the subject's subscriber list without affecting siblings.
func (s *Subject[T]) Readable() *streamkit.Stream[T] {
	var subscription *Subscription
	return streamkit.New[T](streamkit.StreamOptions[T]{
		Start: func(c *streamkit.Controller[T]) {
			subscription = s.sub.Subscribe(
				func(v T) { _ = c.Enqueue(v) },
				func() { _ = c.Close() },
				func(err error) { _ = c.Error(err) },
			)
		},
		Cancel: func(reason error) {
			if subscription != nil {
				subscription.Unsubscribe()
			}
		},
	})
}

// Writable returns this subject's imperative sink.
func (s *Subject[T]) Writable() Writable[T] {
	return subjectWritable[T]{s}
}

type subjectWritable[T any] struct{ s *Subject[T] }

func (w subjectWritable[T]) Write(v T) error {
	w.s.Next(v)
	return nil
}

func (w subjectWritable[T]) Close() error {
	w.s.Complete()
	return nil
}

func (w subjectWritable[T]) Abort(reason error) error {
	w.s.Error(reason)
	return nil
}
