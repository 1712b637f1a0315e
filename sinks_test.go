package streamkit

import (
	"context"
	"errors"
	"testing"
)

func TestToArrayReturnsOrderedValues(t *testing.T) {
	s := From([]string{"a", "b", "c"})
	out, err := ToArray(context.Background(), s)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(out) != 3 || out[0] != "a" || out[1] != "b" || out[2] != "c" {
		t.Fatalf("unexpected result: %v", out)
	}
}

func TestToArrayDiscardsPartialResultsOnError(t *testing.T) {
	boom := errors.New("boom")
	s := New[int](StreamOptions[int]{
		Start: func(c *Controller[int]) {
			_ = c.Enqueue(1)
			_ = c.Enqueue(2)
			_ = c.Error(boom)
		},
	})
	out, err := ToArray(context.Background(), s)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil result on error, got %v", out)
	}
}

func TestToLastReportsOkFalseOnEmptyStream(t *testing.T) {
	s := New[int](StreamOptions[int]{
		Start: func(c *Controller[int]) {
			_ = c.Close()
		},
	})
	v, ok, err := ToLast(context.Background(), s)
	if err != nil {
		t.Fatalf("ToLast: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for empty stream, got value %v", v)
	}
}

func TestToLastReturnsFinalValue(t *testing.T) {
	s := From([]int{1, 2, 3})
	v, ok, err := ToLast(context.Background(), s)
	if err != nil {
		t.Fatalf("ToLast: %v", err)
	}
	if !ok || v != 3 {
		t.Fatalf("expected (3, true), got (%v, %v)", v, ok)
	}
}

func TestToStringJoinsStringifiedItems(t *testing.T) {
	s := From([]int{1, 2, 3})
	got, err := ToString(context.Background(), s)
	if err != nil {
		t.Fatalf("ToString: %v", err)
	}
	if got != "123" {
		t.Fatalf("expected %q, got %q", "123", got)
	}
}

func TestSubscribeInvokesCallbacksInOrder(t *testing.T) {
	s := From([]int{1, 2, 3})
	var received []int
	completed := make(chan struct{})

	unsub, err := Subscribe(context.Background(), s,
		func(v int) error {
			received = append(received, v)
			return nil
		},
		func() { close(completed) },
		func(err error) { t.Errorf("unexpected error: %v", err) },
	)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	<-completed
	if len(received) != 3 || received[0] != 1 || received[1] != 2 || received[2] != 3 {
		t.Fatalf("unexpected received values: %v", received)
	}
}

func TestSubscribeOnNextErrorTerminatesAndCallsOnError(t *testing.T) {
	s := From([]int{1, 2, 3})
	boom := errors.New("stop here")
	errCh := make(chan error, 1)

	unsub, err := Subscribe(context.Background(), s,
		func(v int) error {
			if v == 2 {
				return boom
			}
			return nil
		},
		func() { t.Errorf("unexpected completion") },
		func(err error) { errCh <- err },
	)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsub()

	got := <-errCh
	if !errors.Is(got, boom) {
		t.Fatalf("expected boom, got %v", got)
	}
}
