package streamkit

import "fmt"

// ArgumentError reports an invalid argument supplied to an operator or
// stream constructor at construction time.
type ArgumentError struct {
	Op      string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("streamkit: argument error: %s", e.Message)
	}
	return fmt.Sprintf("streamkit: %s: %s", e.Op, e.Message)
}

// NewArgumentError builds an ArgumentError for the named operator.
func NewArgumentError(op, message string) error {
	return &ArgumentError{Op: op, Message: message}
}

// StreamLockedError is returned by GetReader when a reader is already live.
type StreamLockedError struct{}

func (e *StreamLockedError) Error() string {
	return "streamkit: stream already locked to a reader"
}

// StreamStateError is returned when a controller method is invoked on a
// stream that has already reached a terminal state.
type StreamStateError struct {
	Message string
}

func (e *StreamStateError) Error() string {
	if e.Message == "" {
		return "streamkit: stream is not in a state that permits this operation"
	}
	return "streamkit: " + e.Message
}

// TimeoutError is raised by the timeout operator when the gap between two
// successive items (or between subscription and the first item) exceeds the
// configured duration.
type TimeoutError struct {
	Duration string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("Stream timeout after %s", e.Duration)
}

// InvalidSchedulerError describes a scheduler that cannot provide a
// capability an operator requires. The operators in this module take the
// needed scheduler interface as a parameter type and do not return it.
type InvalidSchedulerError struct {
	Reason string
}

func (e *InvalidSchedulerError) Error() string {
	if e.Reason == "" {
		return "streamkit: invalid scheduler"
	}
	return "streamkit: invalid scheduler: " + e.Reason
}

// IsTerminalError reports whether err represents one of the sticky
// terminal-state sentinels rather than a value-level error raised by a
// producer or operator callback.
func IsTerminalError(err error) bool {
	switch err.(type) {
	case *StreamLockedError, *StreamStateError:
		return true
	default:
		return false
	}
}
