package operators

import "streamkit"

// Scan maintains an accumulator via f, seeded with seed, emitting the
// accumulator after every reduction.
func Scan[T, R any](f func(acc R, v T) R, seed R) streamkit.Operator[T, R] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[R] {
		acc := seed
		return Kernel(src, Hooks[T, R]{
			OnStart: func(c *streamkit.Controller[R]) { acc = seed },
			OnValue: func(v T, c *streamkit.Controller[R]) error {
				acc = f(acc, v)
				return c.Enqueue(acc)
			},
		}, strategy...)
	}
}

// ScanSelf is Scan's unseeded form (spec §4.2's "without seed"): the
// accumulator and item share a type, the first upstream value seeds the
// accumulator and is emitted verbatim, every later value folds through f.
func ScanSelf[T any](f func(acc, v T) T) streamkit.Operator[T, T] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
		var acc T
		seeded := false
		return Kernel(src, Hooks[T, T]{
			OnStart: func(c *streamkit.Controller[T]) { seeded = false },
			OnValue: func(v T, c *streamkit.Controller[T]) error {
				if !seeded {
					acc = v
					seeded = true
				} else {
					acc = f(acc, v)
				}
				return c.Enqueue(acc)
			},
		}, strategy...)
	}
}

// Reduce is Scan with only the final accumulated value emitted, on upstream
// complete.
func Reduce[T, R any](f func(acc R, v T) R, seed R) streamkit.Operator[T, R] {
	return func(src *streamkit.Stream[T], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[R] {
		acc := seed
		return Kernel(src, Hooks[T, R]{
			OnStart: func(c *streamkit.Controller[R]) { acc = seed },
			OnValue: func(v T, c *streamkit.Controller[R]) error {
				acc = f(acc, v)
				return nil
			},
			Flush: func(c *streamkit.Controller[R]) {
				_ = c.Enqueue(acc)
			},
		}, strategy...)
	}
}
