package vtime_test

import (
	"errors"
	"testing"

	"streamkit/vtime"
)

func TestColdStreamReplaysMarblesRelativeToSubscription(t *testing.T) {
	var result *vtime.ExpectStreamResult
	vtime.Run(t, func(h *vtime.Helpers) {
		src := h.Cold("-a-b-c|", map[string]any{"a": 1, "b": 2, "c": 3}, nil)
		result = h.ExpectStream(src)
	})
	result.AssertMatches(t, "-a-b-c|", map[string]any{"a": 1, "b": 2, "c": 3}, nil)
}

func TestHotStreamDropsEventsBeforeSubscriptionPoint(t *testing.T) {
	var result *vtime.ExpectStreamResult
	vtime.Run(t, func(h *vtime.Helpers) {
		src := h.Hot("-a-^-b-c|", map[string]any{"a": 1, "b": 2, "c": 3}, nil)
		result = h.ExpectStream(src)
	})
	// "a" lies before the `^` subscription point, so it is never scheduled;
	// the surviving events keep their original absolute ticks.
	result.AssertMatches(t, "---^-b-c|", map[string]any{"b": 2, "c": 3}, nil)
}

func TestColdStreamPropagatesError(t *testing.T) {
	boom := errors.New("cold boom")
	var result *vtime.ExpectStreamResult
	vtime.Run(t, func(h *vtime.Helpers) {
		src := h.Cold("-a-#", map[string]any{"a": 1}, boom)
		result = h.ExpectStream(src)
	})
	result.AssertThrows(t, func(err error) bool { return err.Error() == boom.Error() })
}

func TestTimeHelperReportsMarbleDuration(t *testing.T) {
	vtime.Run(t, func(h *vtime.Helpers) {
		if got := h.Time("-a-b-c|"); got != 7 {
			t.Fatalf("expected 7 ticks, got %d", got)
		}
	})
}

func TestExpectResultCapturesEvents(t *testing.T) {
	vtime.Run(t, func(h *vtime.Helpers) {
		src := h.Cold("-a-b|", map[string]any{"a": 1, "b": 2}, nil)
		h.ExpectResult(src, func(res vtime.ExpectResult) {
			if len(res.Events) != 3 {
				t.Errorf("expected 3 events (2 next + complete), got %d", len(res.Events))
			}
		})
	})
}
