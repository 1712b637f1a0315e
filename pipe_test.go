package streamkit_test

import (
	"context"
	"testing"

	streamkit "streamkit"
	"streamkit/operators"
)

func TestPipe2ComposesOperatorsLeftToRight(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3, 4, 5})
	out := streamkit.Pipe2(src,
		operators.Filter(func(v int) bool { return v%2 == 0 }),
		operators.Map(func(v int) int { return v * 10 }),
	)

	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	want := []int{20, 40}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPipe1IsIdentityForSingleOperator(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3})
	out := streamkit.Pipe1(src, operators.Map(func(v int) int { return v + 1 }))

	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
