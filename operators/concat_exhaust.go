package operators

import (
	"context"
	"sync"

	"streamkit"
)

// ConcatAll fully drains each inner stream received from src, sequentially
// and in arrival order, before pulling the next; errors from either the
// outer or the current inner propagate, and complete fires only once both
// the outer and the last inner have completed.
func ConcatAll[T any](src *streamkit.Stream[*streamkit.Stream[T]], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
	var opts streamkit.StreamOptions[T]
	if len(strategy) > 0 {
		opts.Strategy = strategy[0]
	}

	var outer *streamkit.Reader[*streamkit.Stream[T]]
	var inner *streamkit.Reader[T]
	outerDone := false

	opts.Start = func(c *streamkit.Controller[T]) {
		r, err := src.GetReader()
		if err != nil {
			_ = c.Error(err)
			return
		}
		outer = r
	}

	opts.Pull = func(c *streamkit.Controller[T], ctx context.Context) {
		for c.DesiredSize() > 0 {
			if inner != nil {
				v, done, err := inner.Read(ctx)
				if err != nil {
					_ = c.Error(err)
					inner.ReleaseLock()
					return
				}
				if done {
					inner.ReleaseLock()
					inner = nil
					continue
				}
				if err := c.Enqueue(v); err != nil {
					return
				}
				continue
			}
			if outerDone {
				_ = c.Close()
				return
			}
			s, done, err := outer.Read(ctx)
			if err != nil {
				_ = c.Error(err)
				outer.ReleaseLock()
				return
			}
			if done {
				outerDone = true
				outer.ReleaseLock()
				continue
			}
			r, err := s.GetReader()
			if err != nil {
				_ = c.Error(err)
				return
			}
			inner = r
		}
	}

	opts.Cancel = func(reason error) {
		if inner != nil {
			inner.Cancel(reason)
		}
		if outer != nil {
			outer.Cancel(reason)
		}
	}

	return streamkit.New[T](opts)
}

// ExhaustAll drops inner streams arriving while an inner is already active,
// resuming acceptance once the active inner completes. Because the active
// inner's Read can block for an arbitrary time (it is draining at its own
// pace, not the outer's), dropping arrivals that land during that wait
// cannot be done from the Pull loop alone — Pull only runs between output
// reads, not while blocked inside an inner.Read call. So, same as the
// bridges package's external-I/O sources, a single background goroutine
// (started once in Start) continuously drains the outer stream: it hands a
// freshly arrived inner off to the Pull loop only while none is active, and
// discards it otherwise.
func ExhaustAll[T any](src *streamkit.Stream[*streamkit.Stream[T]], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[T] {
	var opts streamkit.StreamOptions[T]
	if len(strategy) > 0 {
		opts.Strategy = strategy[0]
	}

	var outer *streamkit.Reader[*streamkit.Stream[T]]
	var inner *streamkit.Reader[T]

	var mu sync.Mutex
	active := false

	pending := make(chan *streamkit.Stream[T], 1)
	outerErrCh := make(chan error, 1)
	outerDoneCh := make(chan struct{})
	stop := make(chan struct{})
	var stopOnce sync.Once

	opts.Start = func(c *streamkit.Controller[T]) {
		r, err := src.GetReader()
		if err != nil {
			_ = c.Error(err)
			return
		}
		outer = r

		go func() {
			for {
				s, done, err := outer.Read(context.Background())
				if err != nil {
					select {
					case outerErrCh <- err:
					default:
					}
					return
				}
				if done {
					close(outerDoneCh)
					return
				}

				mu.Lock()
				isActive := active
				mu.Unlock()
				if isActive {
					continue
				}

				select {
				case pending <- s:
				case <-stop:
					return
				}
			}
		}()
	}

	opts.Pull = func(c *streamkit.Controller[T], ctx context.Context) {
		for c.DesiredSize() > 0 {
			if inner != nil {
				v, done, err := inner.Read(ctx)
				if err != nil {
					_ = c.Error(err)
					inner.ReleaseLock()
					return
				}
				if done {
					inner.ReleaseLock()
					inner = nil
					mu.Lock()
					active = false
					mu.Unlock()
					continue
				}
				if err := c.Enqueue(v); err != nil {
					return
				}
				continue
			}

			select {
			case s := <-pending:
				mu.Lock()
				active = true
				mu.Unlock()
				r, err := s.GetReader()
				if err != nil {
					_ = c.Error(err)
					return
				}
				inner = r
			case err := <-outerErrCh:
				_ = c.Error(err)
				return
			case <-outerDoneCh:
				_ = c.Close()
				return
			case <-ctx.Done():
				return
			}
		}
	}

	opts.Cancel = func(reason error) {
		stopOnce.Do(func() { close(stop) })
		if inner != nil {
			inner.Cancel(reason)
		}
		if outer != nil {
			outer.Cancel(reason)
		}
	}

	return streamkit.New[T](opts)
}

// Concat sequentially drains each source in order, same error/complete
// propagation as ConcatAll but over a fixed static list (spec §8 property
// 8; SPEC_FULL.md §4.3 addition).
func Concat[T any](streams ...*streamkit.Stream[T]) *streamkit.Stream[T] {
	idx := 0
	var cur *streamkit.Reader[T]

	return streamkit.New[T](streamkit.StreamOptions[T]{
		Pull: func(c *streamkit.Controller[T], ctx context.Context) {
			for c.DesiredSize() > 0 {
				if cur == nil {
					if idx >= len(streams) {
						_ = c.Close()
						return
					}
					r, err := streams[idx].GetReader()
					if err != nil {
						_ = c.Error(err)
						return
					}
					cur = r
					idx++
				}
				v, done, err := cur.Read(ctx)
				if err != nil {
					_ = c.Error(err)
					cur.ReleaseLock()
					return
				}
				if done {
					cur.ReleaseLock()
					cur = nil
					continue
				}
				if err := c.Enqueue(v); err != nil {
					return
				}
			}
		},
		Cancel: func(reason error) {
			if cur != nil {
				cur.Cancel(reason)
			}
		},
	})
}
