// Package operators implements the uniform operator kernel (spec §4.2) and
// the representative operator catalog built on top of it (spec §4.2's
// table, plus the zip/concat additions documented in SPEC_FULL.md §4.3).
package operators

import (
	"context"

	"streamkit"
)

// Hooks configures Kernel's per-value and end-of-stream behavior. Every
// catalog operator in this package is a thin configuration of Hooks over
// the single Kernel loop; per-run state belongs in variables captured by
// the closures passed as OnValue/Flush, never in the Operator value itself.
type Hooks[T, R any] struct {
	// OnValue is invoked for each upstream value; it may enqueue zero, one
	// or many items via c, or defer. Returning an error terminates the
	// output stream with that error and cancels upstream with it.
	OnValue func(v T, c *streamkit.Controller[R]) error
	// Flush runs once, after upstream completes and before the output
	// stream closes, to emit any buffered residue (e.g. buffer's partial
	// group, debounceTime's pending value).
	Flush func(c *streamkit.Controller[R])
	// OnStart runs once, synchronously, right after the upstream reader is
	// acquired — the place to allocate per-run accumulator state, or to arm
	// a timer that must cover the subscription-to-first-value gap (e.g.
	// Timeout).
	OnStart func(c *streamkit.Controller[R])
	// StopUpstream, if non-nil, is checked after each successful OnValue
	// call. When it reports true, Kernel cancels the upstream reader right
	// away instead of waiting for it to complete or error on its own — the
	// shape take-style operators need once they have all the values they
	// will ever forward.
	StopUpstream func() bool
}

// Kernel builds the *streamkit.Stream[R] for one operator application: it
// acquires src's reader in Start, and on every Pull loops while downstream
// desiredSize is positive, reading upstream and invoking hooks.OnValue, per
// spec §4.2 steps 1–4.
func Kernel[T, R any](src *streamkit.Stream[T], hooks Hooks[T, R], strategy ...streamkit.QueuingStrategy) *streamkit.Stream[R] {
	var opts streamkit.StreamOptions[R]
	if len(strategy) > 0 {
		opts.Strategy = strategy[0]
	}

	var upstream *streamkit.Reader[T]

	opts.Start = func(c *streamkit.Controller[R]) {
		r, err := src.GetReader()
		if err != nil {
			_ = c.Error(err)
			return
		}
		upstream = r
		if hooks.OnStart != nil {
			hooks.OnStart(c)
		}
	}

	opts.Pull = func(c *streamkit.Controller[R], ctx context.Context) {
		if upstream == nil {
			return
		}
		for c.DesiredSize() > 0 {
			v, done, err := upstream.Read(ctx)
			if err != nil {
				_ = c.Error(err)
				upstream.ReleaseLock()
				return
			}
			if done {
				if hooks.Flush != nil {
					hooks.Flush(c)
				}
				_ = c.Close()
				upstream.ReleaseLock()
				return
			}
			if oerr := hooks.OnValue(v, c); oerr != nil {
				_ = c.Error(oerr)
				upstream.Cancel(oerr)
				return
			}
			if hooks.StopUpstream != nil && hooks.StopUpstream() {
				upstream.Cancel(nil)
				return
			}
		}
	}

	opts.Cancel = func(reason error) {
		if upstream != nil {
			upstream.Cancel(reason)
		}
	}

	return streamkit.New[R](opts)
}

// Maybe wraps a map function's result type so it can signal "no value"
// alongside a real R, mirroring spec §4.2's "if f returns a missing
// sentinel, skip that item" contract for map's single-value-in/out shape
// without forcing every operator to thread a bool through its own API. See
// MapMaybe.
type Maybe[R any] struct {
	Value   R
	Present bool
}

// Some wraps a present value.
func Some[R any](v R) Maybe[R] { return Maybe[R]{Value: v, Present: true} }

// None is the absent / "missing sentinel" value.
func None[R any]() Maybe[R] { return Maybe[R]{} }
