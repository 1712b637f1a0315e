package streamkit

import "context"

// From builds a stream that emits each element of xs in order then closes.
// It is a convenience constructor in the same family as the catalog of
// external collaborators (of/range/interval/timer) spec.md's Non-goals
// leave unspecified — provided here because every testable property and
// scenario in spec §8 is phrased in terms of it.
func From[T any](xs []T) *Stream[T] {
	i := 0
	return New[T](StreamOptions[T]{
		Pull: func(c *Controller[T], ctx context.Context) {
			for c.DesiredSize() > 0 {
				if i >= len(xs) {
					_ = c.Close()
					return
				}
				v := xs[i]
				i++
				if err := c.Enqueue(v); err != nil {
					return
				}
			}
		},
	})
}
