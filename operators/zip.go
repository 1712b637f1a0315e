package operators

import (
	"context"

	"streamkit"
)

// Pair is the tuple type Zip2 emits.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip2 emits a Pair for every pair of values advanced from a and b in
// lockstep, closing as soon as either source closes and erroring as soon as
// either source errors (spec §8
// property 9; SPEC_FULL.md §4.3 addition).
func Zip2[A, B any](a *streamkit.Stream[A], b *streamkit.Stream[B]) *streamkit.Stream[Pair[A, B]] {
	var ra *streamkit.Reader[A]
	var rb *streamkit.Reader[B]

	return streamkit.New[Pair[A, B]](streamkit.StreamOptions[Pair[A, B]]{
		Start: func(c *streamkit.Controller[Pair[A, B]]) {
			var err error
			ra, err = a.GetReader()
			if err != nil {
				_ = c.Error(err)
				return
			}
			rb, err = b.GetReader()
			if err != nil {
				_ = c.Error(err)
				return
			}
		},
		Pull: func(c *streamkit.Controller[Pair[A, B]], ctx context.Context) {
			for c.DesiredSize() > 0 {
				va, doneA, errA := ra.Read(ctx)
				if errA != nil {
					_ = c.Error(errA)
					return
				}
				if doneA {
					_ = c.Close()
					return
				}
				vb, doneB, errB := rb.Read(ctx)
				if errB != nil {
					_ = c.Error(errB)
					return
				}
				if doneB {
					_ = c.Close()
					return
				}
				if err := c.Enqueue(Pair[A, B]{First: va, Second: vb}); err != nil {
					return
				}
			}
		},
		Cancel: func(reason error) {
			if ra != nil {
				ra.Cancel(reason)
			}
			if rb != nil {
				rb.Cancel(reason)
			}
		},
	})
}

// Triple is the tuple type Zip3 emits.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Zip3 is Zip2 generalized to three sources.
func Zip3[A, B, C any](a *streamkit.Stream[A], b *streamkit.Stream[B], c2 *streamkit.Stream[C]) *streamkit.Stream[Triple[A, B, C]] {
	var ra *streamkit.Reader[A]
	var rb *streamkit.Reader[B]
	var rc *streamkit.Reader[C]

	return streamkit.New[Triple[A, B, C]](streamkit.StreamOptions[Triple[A, B, C]]{
		Start: func(c *streamkit.Controller[Triple[A, B, C]]) {
			var err error
			if ra, err = a.GetReader(); err != nil {
				_ = c.Error(err)
				return
			}
			if rb, err = b.GetReader(); err != nil {
				_ = c.Error(err)
				return
			}
			if rc, err = c2.GetReader(); err != nil {
				_ = c.Error(err)
				return
			}
		},
		Pull: func(c *streamkit.Controller[Triple[A, B, C]], ctx context.Context) {
			for c.DesiredSize() > 0 {
				va, doneA, errA := ra.Read(ctx)
				if errA != nil {
					_ = c.Error(errA)
					return
				}
				if doneA {
					_ = c.Close()
					return
				}
				vb, doneB, errB := rb.Read(ctx)
				if errB != nil {
					_ = c.Error(errB)
					return
				}
				if doneB {
					_ = c.Close()
					return
				}
				vc, doneC, errC := rc.Read(ctx)
				if errC != nil {
					_ = c.Error(errC)
					return
				}
				if doneC {
					_ = c.Close()
					return
				}
				if err := c.Enqueue(Triple[A, B, C]{First: va, Second: vb, Third: vc}); err != nil {
					return
				}
			}
		},
		Cancel: func(reason error) {
			if ra != nil {
				ra.Cancel(reason)
			}
			if rb != nil {
				rb.Cancel(reason)
			}
			if rc != nil {
				rc.Cancel(reason)
			}
		},
	})
}
