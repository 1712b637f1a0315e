package operators_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"streamkit"
	"streamkit/operators"
	"streamkit/scheduler"
)

func TestDelayPreservesOrderAndEventuallyEmitsAll(t *testing.T) {
	sched := scheduler.NewRealTime(nil)
	src := streamkit.From([]int{1, 2, 3})
	out := operators.Delay[int](sched, 5*time.Millisecond)(src)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := streamkit.ToArray(ctx, out)
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
}

func TestThrottleTimeLeadingEmitsFirstOfEachWindow(t *testing.T) {
	sched := scheduler.NewRealTime(nil)
	src := streamkit.New[int](streamkit.StreamOptions[int]{
		Start: func(c *streamkit.Controller[int]) {
			go func() {
				_ = c.Enqueue(1)
				time.Sleep(2 * time.Millisecond)
				_ = c.Enqueue(2)
				time.Sleep(2 * time.Millisecond)
				_ = c.Enqueue(3)
				time.Sleep(60 * time.Millisecond)
				_ = c.Enqueue(4)
				_ = c.Close()
			}()
		},
	})
	out := operators.ThrottleTime[int](sched, 40*time.Millisecond, operators.ThrottleConfig{Leading: true})(src)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := streamkit.ToArray(ctx, out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("expected leading emissions [1 4], got %v", got)
	}
}

func TestDebounceTimeEmitsOnlyLatestAfterQuiet(t *testing.T) {
	sched := scheduler.NewRealTime(nil)
	src := streamkit.New[int](streamkit.StreamOptions[int]{
		Start: func(c *streamkit.Controller[int]) {
			go func() {
				_ = c.Enqueue(1)
				time.Sleep(2 * time.Millisecond)
				_ = c.Enqueue(2)
				time.Sleep(2 * time.Millisecond)
				_ = c.Enqueue(3)
				_ = c.Close()
			}()
		},
	})
	out := operators.DebounceTime[int](sched, 30*time.Millisecond)(src)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := streamkit.ToArray(ctx, out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected [3], got %v", got)
	}
}

func TestTimeoutErrorsOnSlowGap(t *testing.T) {
	sched := scheduler.NewRealTime(nil)
	src := streamkit.New[int](streamkit.StreamOptions[int]{
		Start: func(c *streamkit.Controller[int]) {
			go func() {
				_ = c.Enqueue(1)
				time.Sleep(100 * time.Millisecond)
				_ = c.Enqueue(2)
				_ = c.Close()
			}()
		},
	})
	out := operators.Timeout[int](sched, 20*time.Millisecond)(src)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := streamkit.ToArray(ctx, out)
	var timeoutErr *streamkit.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestTimeoutErrorsOnSlowFirstValue(t *testing.T) {
	sched := scheduler.NewRealTime(nil)
	src := streamkit.New[int](streamkit.StreamOptions[int]{
		Start: func(c *streamkit.Controller[int]) {
			go func() {
				time.Sleep(100 * time.Millisecond)
				_ = c.Enqueue(1)
				_ = c.Close()
			}()
		},
	})
	out := operators.Timeout[int](sched, 20*time.Millisecond)(src)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := streamkit.ToArray(ctx, out)
	var timeoutErr *streamkit.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError for the subscription-to-first-value gap, got %v", err)
	}
}

func TestTimeoutRejectsNonPositiveDuration(t *testing.T) {
	sched := scheduler.NewRealTime(nil)
	src := streamkit.From([]int{1})
	out := operators.Timeout[int](sched, 0)(src)
	_, err := streamkit.ToArray(context.Background(), out)
	var argErr *streamkit.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
}

func TestScheduleForwardsValuesThroughTheScheduler(t *testing.T) {
	sched := scheduler.NewRealTime(nil)
	src := streamkit.From([]int{1, 2, 3})
	out := operators.Schedule[int](sched)(src)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := streamkit.ToArray(ctx, out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
