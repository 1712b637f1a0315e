package operators

import "streamkit"

// Map applies f to every upstream value.
func Map[T, R any](f func(T) R) streamkit.Operator[T, R] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[R] {
		return Kernel(src, Hooks[T, R]{
			OnValue: func(v T, c *streamkit.Controller[R]) error {
				return c.Enqueue(f(v))
			},
		}, strategy...)
	}
}

// MapMaybe applies f to every upstream value, forwarding only the values
// for which f returns Some; a None result skips that item without closing
// or erroring the stream, per spec §4.2's map contract ("if f returns a
// 'missing' sentinel, skip that item").
func MapMaybe[T, R any](f func(T) Maybe[R]) streamkit.Operator[T, R] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[R] {
		return Kernel(src, Hooks[T, R]{
			OnValue: func(v T, c *streamkit.Controller[R]) error {
				m := f(v)
				if !m.Present {
					return nil
				}
				return c.Enqueue(m.Value)
			},
		}, strategy...)
	}
}

// Filter drops every upstream value for which p returns false.
func Filter[T any](p func(T) bool) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		return Kernel(src, Hooks[T, T]{
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				if !p(v) {
					return nil
				}
				return c.Enqueue(v)
			},
		}, strategy...)
	}
}

// Tap invokes onNext for its side effect on every value, forwarding it
// unchanged.
func Tap[T any](onNext func(T)) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		return Kernel(src, Hooks[T, T]{
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				onNext(v)
				return c.Enqueue(v)
			},
		}, strategy...)
	}
}

// IgnoreElements discards every next value, preserving complete/error timing.
func IgnoreElements[T any]() streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		return Kernel(src, Hooks[T, T]{
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				return nil
			},
		}, strategy...)
	}
}

// DefaultIfEmpty emits d then closes if upstream completes having emitted no
// values; otherwise it is transparent.
func DefaultIfEmpty[T any](d T) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		sawAny := false
		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) { sawAny = false },
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				sawAny = true
				return c.Enqueue(v)
			},
			Flush: func(c *streamkit.Controller[T]) {
				if !sawAny {
					_ = c.Enqueue(d)
				}
			},
		}, strategy...)
	}
}
