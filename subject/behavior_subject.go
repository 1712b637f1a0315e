package subject

import (
	"sync"

	"streamkit"
)

// BehaviorSubject is a Subject with an initial value and "last emitted"
// memory: new subscribers synchronously receive the last value (or the
// seed) before any further Next (spec §4.3).
type BehaviorSubject[T any] struct {
	inner *Subject[T]

	mu   sync.Mutex
	last T
}

// NewBehaviorSubject constructs a BehaviorSubject seeded with v0.
func NewBehaviorSubject[T any](v0 T) *BehaviorSubject[T] {
	return &BehaviorSubject[T]{inner: New[T](), last: v0}
}

// Value reports the most recently emitted value (or the seed, if none has
// been emitted yet).
func (b *BehaviorSubject[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Next records v as the new last value, then forwards it to every current
// subscriber.
func (b *BehaviorSubject[T]) Next(v T) {
	b.mu.Lock()
	b.last = v
	b.mu.Unlock()
	b.inner.Next(v)
}

// Complete closes the subject; idempotent.
func (b *BehaviorSubject[T]) Complete() { b.inner.Complete() }

// Error closes the subject with err; idempotent.
func (b *BehaviorSubject[T]) Error(err error) { b.inner.Error(err) }

// Closed reports the subject's sticky closed state.
func (b *BehaviorSubject[T]) Closed() bool { return b.inner.Closed() }

// Readable returns a fresh Stream that synchronously enqueues the current
// last value before subscribing to future emissions.
func (b *BehaviorSubject[T]) Readable() *streamkit.Stream[T] {
	var subscription *Subscription
	return streamkit.New[T](streamkit.StreamOptions[T]{
		Start: func(c *streamkit.Controller[T]) {
			b.mu.Lock()
			seed := b.last
			b.mu.Unlock()
			_ = c.Enqueue(seed)
			subscription = b.inner.sub.Subscribe(
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
func (b *BehaviorSubject[T]) Writable() Writable[T] {
	return behaviorWritable[T]{b}
}

type behaviorWritable[T any] struct{ b *BehaviorSubject[T] }

func (w behaviorWritable[T]) Write(v T) error {
	w.b.Next(v)
	return nil
}

func (w behaviorWritable[T]) Close() error {
	w.b.Complete()
	return nil
}

func (w behaviorWritable[T]) Abort(reason error) error {
	w.b.Error(reason)
	return nil
}
