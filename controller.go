package streamkit

// Controller is the producer-facing handle passed to a Stream's Start and
// Pull hooks. After Close or Error, further calls fail with
// StreamStateError — the controller does not silently no-op past the
// terminal boundary.
type Controller[T any] struct {
	stream *Stream[T]
}

// Enqueue appends a value to the stream, waking any reader blocked on
// Read. It fails if the stream has already reached a terminal state.
func (c *Controller[T]) Enqueue(v T) error {
	s := c.stream
	s.mu.Lock()
	if s.state.terminal() {
		s.mu.Unlock()
		return &StreamStateError{Message: "cannot enqueue on a " + s.state.String() + " stream"}
	}
	s.queue.Push(queuedItem[T]{kind: kindNext, value: v})
	s.pendingNext++
	s.broadcastLocked()
	s.mu.Unlock()
	return nil
}

// Close marks the stream complete. Readers observe all previously enqueued
// values before receiving the terminal {done: true} signal.
func (c *Controller[T]) Close() error {
	s := c.stream
	s.mu.Lock()
	if s.state.terminal() {
		s.mu.Unlock()
		return &StreamStateError{Message: "cannot close a " + s.state.String() + " stream"}
	}
	s.state = StateClosed
	s.queue.Push(queuedItem[T]{kind: kindDone})
	s.broadcastLocked()
	s.mu.Unlock()
	return nil
}

// Error marks the stream as failed with err. The error is delivered at
// most once, as the rejection of the read that observes it.
func (c *Controller[T]) Error(err error) error {
	s := c.stream
	s.mu.Lock()
	if s.state.terminal() {
		s.mu.Unlock()
		return &StreamStateError{Message: "cannot error a " + s.state.String() + " stream"}
	}
	s.state = StateErrored
	s.terminalErr = err
	s.queue.Push(queuedItem[T]{kind: kindError, err: err})
	s.broadcastLocked()
	s.mu.Unlock()
	return nil
}

// DesiredSize reports the producer-facing backpressure signal: positive
// while the producer should keep enqueueing, zero or negative once it
// should pause.
func (c *Controller[T]) DesiredSize() int {
	return c.stream.DesiredSize()
}
