package operators

import "streamkit"

// Buffer accumulates n items into an ordered group before emitting it; on
// upstream complete it emits any partial group. n<=0 is a construction
// error.
func Buffer[T any](n int) streamkit.Operator[T, []T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[[]T] {
		if n <= 0 {
			return erroredStream[[]T](streamkit.NewArgumentError("buffer", "n must be > 0"))
		}
		var group []T
		return Kernel(src, Hooks[T, []T]{
			OnStart: func(c *streamkit.Controller[[]T]) { group = make([]T, 0, n) },
			OnValue: func(v T, c *streamkit.Controller[[]T]) error {
				group = append(group, v)
				if len(group) < n {
					return nil
				}
				out := group
				group = make([]T, 0, n)
				return c.Enqueue(out)
			},
			Flush: func(c *streamkit.Controller[[]T]) {
				if len(group) > 0 {
					_ = c.Enqueue(group)
				}
			},
		}, strategy...)
	}
}

// DistinctUntilChanged drops v iff eq(prev, v); the first value is always
// emitted. A nil eq compares with Go's == via any, matching comparable T's
// common case.
func DistinctUntilChanged[T any](eq func(prev, v T) bool) streamkit.Operator[T, T] {
	if eq == nil {
		eq = func(prev, v T) bool { return any(prev) == any(v) }
	}
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		var prev T
		hasPrev := false
		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) { hasPrev = false },
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				if hasPrev && eq(prev, v) {
					return nil
				}
				prev = v
				hasPrev = true
				return c.Enqueue(v)
			},
		}, strategy...)
	}
}

// DistinctUntilKeyChanged is DistinctUntilChanged compared on key(v) rather
// than v itself.
func DistinctUntilKeyChanged[T any, K any](key func(T) K, eq func(prev, v K) bool) streamkit.Operator[T, T] {
	if eq == nil {
		eq = func(prev, v K) bool { return any(prev) == any(v) }
	}
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		var prevKey K
		hasPrev := false
		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) { hasPrev = false },
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				k := key(v)
				if hasPrev && eq(prevKey, k) {
					return nil
				}
				prevKey = k
				hasPrev = true
				return c.Enqueue(v)
			},
		}, strategy...)
	}
}
