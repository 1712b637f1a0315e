package streamkit

import (
	"context"
	"fmt"
	"strings"
)

// ToArray drains s and returns its full ordered sequence, or the source
// error. Partial results are discarded on error per spec §7.
func ToArray[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	r, err := s.GetReader()
	if err != nil {
		return nil, err
	}
	defer r.ReleaseLock()

	var out []T
	for {
		v, done, err := r.Read(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		out = append(out, v)
	}
}

// ToLast drains s and returns the last emitted value. On an empty stream it
// returns the zero value of T and ok=false — the spec leaves the empty case
// unspecified and this module documents that choice here (see DESIGN.md).
func ToLast[T any](ctx context.Context, s *Stream[T]) (value T, ok bool, err error) {
	r, gerr := s.GetReader()
	if gerr != nil {
		var zero T
		return zero, false, gerr
	}
	defer r.ReleaseLock()

	var last T
	seen := false
	for {
		v, done, rerr := r.Read(ctx)
		if rerr != nil {
			var zero T
			return zero, false, rerr
		}
		if done {
			return last, seen, nil
		}
		last = v
		seen = true
	}
}

// ToString joins all items in s, casting each to a string via fmt.Sprint.
func ToString[T any](ctx context.Context, s *Stream[T]) (string, error) {
	items, err := ToArray(ctx, s)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ""), nil
}

// Subscribe is the imperative driver for a stream: it reads s in a
// dedicated goroutine, invoking onNext for each value, onComplete on
// normal completion, and onError on a source error or an error returned by
// onNext itself (which terminates the subscription). It returns an
// unsubscribe function that cancels the underlying reader.
func Subscribe[T any](ctx context.Context, s *Stream[T], onNext func(T) error, onComplete func(), onError func(error)) (unsubscribe func(), err error) {
	r, err := s.GetReader()
	if err != nil {
		return func() {}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer r.ReleaseLock()
		for {
			v, done, rerr := r.Read(runCtx)
			if rerr != nil {
				if onError != nil {
					onError(rerr)
				}
				return
			}
			if done {
				if onComplete != nil {
					onComplete()
				}
				return
			}
			if nerr := onNext(v); nerr != nil {
				r.Cancel(nerr)
				if onError != nil {
					onError(nerr)
				}
				return
			}
		}
	}()

	return func() {
		cancel()
		r.Cancel(context.Canceled)
	}, nil
}
