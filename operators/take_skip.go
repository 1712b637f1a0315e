package operators

import "streamkit"

// Take emits at most n values, then closes and cancels upstream. n=0 closes
// immediately without acquiring a single value. n<0 is a construction error.
func Take[T any](n int) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		if n < 0 {
			return erroredStream[T](streamkit.NewArgumentError("take", "n must be >= 0"))
		}
		if n == 0 {
			return emptyStream[T]()
		}
		seen := 0
		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) { seen = 0 },
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				if seen >= n {
					return nil
				}
				seen++
				if err := c.Enqueue(v); err != nil {
					return err
				}
				if seen >= n {
					_ = c.Close()
				}
				return nil
			},
			StopUpstream: func() bool { return seen >= n },
		}, strategy...)
	}
}

// Skip drops the first n values, passing the rest through unchanged.
func Skip[T any](n int) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		if n < 0 {
			return erroredStream[T](streamkit.NewArgumentError("skip", "n must be >= 0"))
		}
		dropped := 0
		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) { dropped = 0 },
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				if dropped < n {
					dropped++
					return nil
				}
				return c.Enqueue(v)
			},
		}, strategy...)
	}
}

// TakeWhile emits while p holds, closing (without forwarding the failing
// value) and cancelling upstream on the first value for which p returns
// false.
func TakeWhile[T any](p func(T) bool) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		stopped := false
		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) { stopped = false },
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				if !p(v) {
					stopped = true
					return c.Close()
				}
				return c.Enqueue(v)
			},
			StopUpstream: func() bool { return stopped },
		}, strategy...)
	}
}

// erroredStream builds a stream that immediately errors with err, for
// operators that must reject invalid arguments at construction time.
func erroredStream[T any](err error) *streamkit.Stream[T] {
	return streamkit.New[T](streamkit.StreamOptions[T]{
		Start: func(c *streamkit.Controller[T]) {
			_ = c.Error(err)
		},
	})
}

// emptyStream builds a stream that completes immediately with no values.
func emptyStream[T any]() *streamkit.Stream[T] {
	return streamkit.New[T](streamkit.StreamOptions[T]{
		Start: func(c *streamkit.Controller[T]) {
			_ = c.Close()
		},
	})
}
