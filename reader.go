package streamkit

import (
	"context"
	"sync"
)

// Reader is the short-lived, exclusive handle obtained from a Stream via
// GetReader. Only one reader may be live per stream at a time.
type Reader[T any] struct {
	stream *Stream[T]

	releaseOnce sync.Once
}

// Read advances the stream, returning either the next value (done=false),
// or the terminal signal (done=true, err=nil on normal completion, err set
// on stream error). After a terminal signal every subsequent Read returns
// {done: true} with no error — the error is delivered at most once.
func (r *Reader[T]) Read(ctx context.Context) (value T, done bool, err error) {
	s := r.stream
	var zero T

	s.mu.Lock()
	for {
		if it, ok := s.queue.Pop(); ok {
			if it.kind == kindNext {
				s.pendingNext--
			}
			if it.kind == kindError {
				s.terminalErr = nil
			}
			s.mu.Unlock()
			switch it.kind {
			case kindNext:
				return it.value, false, nil
			case kindDone:
				return zero, true, nil
			case kindError:
				return zero, true, it.err
			}
		}

		if s.state.terminal() {
			terminalErr := s.terminalErr
			s.mu.Unlock()
			return zero, true, terminalErr
		}

		if s.opts.Pull != nil && !s.pullInFlight && s.desiredSizeLocked() > 0 {
			s.pullInFlight = true
			ctrl := &Controller[T]{stream: s}
			s.mu.Unlock()
			s.opts.Pull(ctrl, ctx)
			s.mu.Lock()
			s.pullInFlight = false
			continue
		}

		waitCh := s.notify
		s.mu.Unlock()
		select {
		case <-waitCh:
			s.mu.Lock()
		case <-ctx.Done():
			return zero, true, ctx.Err()
		}
	}
}

// Cancel is an idempotent, infectious consumer-initiated termination: it
// invokes the stream's Cancel hook with reason (swallowing whatever it
// does) and releases the reader lock.
func (r *Reader[T]) Cancel(reason error) {
	s := r.stream
	s.mu.Lock()
	if !s.state.terminal() {
		s.state = StateCancelled
		s.cancelReason = reason
		s.terminalErr = reason
		s.broadcastLocked()
	}
	s.mu.Unlock()

	s.runCancel(reason)
	r.ReleaseLock()
}

// ReleaseLock releases the exclusive reader lock. It tolerates being
// called when the lock has already been released.
func (r *Reader[T]) ReleaseLock() {
	r.releaseOnce.Do(func() {
		s := r.stream
		s.mu.Lock()
		s.locked = false
		s.mu.Unlock()
	})
}
