package streamkit

import (
	"context"
	"time"
)

// RetryOptions bounds a RetryPipe/RetryPipeValidated run.
type RetryOptions struct {
	Retries int
	Delay   time.Duration
}

// RetryPipe re-invokes factory (which should build and pipe a full
// pipeline, playing the role of spec §4.4's "factory, ...ops") up to
// Retries additional times whenever the current attempt fails, waiting
// Delay between attempts. Items already emitted by a failed attempt are not
// rolled back: this is a deliberate at-least-once, re-delivery semantic
// (spec §9 Open Questions).
func RetryPipe[T any](factory func() *Stream[T], opts RetryOptions) *Stream[T] {
	var out *Stream[T]
	var ctrl *Controller[T]
	stop := make(chan struct{})

	out = New[T](StreamOptions[T]{
		Start: func(c *Controller[T]) {
			ctrl = c
			go runRetryLoop(ctrl, factory, opts, stop)
		},
		Cancel: func(reason error) {
			close(stop)
		},
	})
	return out
}

func runRetryLoop[T any](ctrl *Controller[T], factory func() *Stream[T], opts RetryOptions, stop chan struct{}) {
	attempt := 0
	for {
		stopped, err := attemptOnce(ctrl, factory, stop)
		if stopped {
			return
		}
		attempt++
		if attempt > opts.Retries {
			_ = ctrl.Error(err)
			return
		}
		select {
		case <-stop:
			return
		case <-time.After(opts.Delay):
		}
	}
}

// attemptOnce runs one attempt of the source pipeline, forwarding values as
// they arrive. It returns true if the attempt reached a terminal state that
// should stop retrying (clean completion, or cancellation), and false with
// the attempt's error if it errored and a retry should be considered.
func attemptOnce[T any](ctrl *Controller[T], factory func() *Stream[T], stop chan struct{}) (bool, error) {
	src := factory()
	r, err := src.GetReader()
	if err != nil {
		_ = ctrl.Error(err)
		return true, nil
	}
	defer r.ReleaseLock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		r.Cancel(context.Canceled)
		cancel()
	}()

	for {
		select {
		case <-stop:
			return true, nil
		default:
		}
		v, done, rerr := r.Read(ctx)
		if rerr != nil {
			select {
			case <-stop:
				return true, nil
			default:
			}
			return false, rerr
		}
		if done {
			_ = ctrl.Close()
			return true, nil
		}
		if eerr := ctrl.Enqueue(v); eerr != nil {
			return true, nil
		}
	}
}

// RetryPipeValidated behaves like RetryPipe but first performs a dry
// construction pass, invoking factory Retries+1 times up front (acquiring
// and immediately releasing a reader on each) so construction-time panics
// or errors surface before the caller starts consuming the real pipeline.
func RetryPipeValidated[T any](factory func() *Stream[T], opts RetryOptions) (*Stream[T], error) {
	for i := 0; i <= opts.Retries; i++ {
		probe := factory()
		r, err := probe.GetReader()
		if err != nil {
			return nil, err
		}
		r.Cancel(nil)
	}
	return RetryPipe(factory, opts), nil
}
