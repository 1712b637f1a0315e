package operators_test

import (
	"context"
	"errors"
	"testing"

	"streamkit"
	"streamkit/operators"
)

func TestTakeLimitsOutputAndClosesUpstream(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3, 4, 5})
	out := operators.Take[int](2)(src)
	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

func TestTakeCancelsUpstreamOnceLimitReached(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3, 4, 5})
	out := operators.Take[int](2)(src)
	if _, err := streamkit.ToArray(context.Background(), out); err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if src.Locked() {
		t.Fatalf("expected Take to cancel and release the upstream reader once its limit is reached")
	}
}

func TestTakeZeroEmitsNothing(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3})
	out := operators.Take[int](0)(src)
	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no values, got %v", got)
	}
}

func TestTakeNegativeIsConstructionError(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3})
	out := operators.Take[int](-1)(src)
	_, err := streamkit.ToArray(context.Background(), out)
	var argErr *streamkit.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
}

func TestSkipDropsLeadingValues(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3, 4})
	out := operators.Skip[int](2)(src)
	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("expected [3 4], got %v", got)
	}
}

func TestTakeWhileStopsAtFirstFailure(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3, 4, 1})
	out := operators.TakeWhile(func(v int) bool { return v < 4 })(src)
	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if src.Locked() {
		t.Fatalf("expected TakeWhile to cancel and release the upstream reader on the failing predicate")
	}
}
