package operators_test

import (
	"context"
	"errors"
	"testing"

	"streamkit"
	"streamkit/operators"
)

func TestBufferGroupsIntoFixedSizeChunks(t *testing.T) {
	src := streamkit.From([]int{1, 2, 3, 4, 5})
	out := operators.Buffer[int](2)(src)
	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %v", got)
	}
	if len(got[0]) != 2 || got[0][0] != 1 || got[0][1] != 2 {
		t.Fatalf("unexpected first group: %v", got[0])
	}
	if len(got[2]) != 1 || got[2][0] != 5 {
		t.Fatalf("unexpected partial trailing group: %v", got[2])
	}
}

func TestBufferRejectsNonPositiveSize(t *testing.T) {
	src := streamkit.From([]int{1, 2})
	out := operators.Buffer[int](0)(src)
	_, err := streamkit.ToArray(context.Background(), out)
	var argErr *streamkit.ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected ArgumentError, got %v", err)
	}
}

func TestDistinctUntilChangedDropsConsecutiveDuplicates(t *testing.T) {
	src := streamkit.From([]int{1, 1, 2, 2, 2, 1})
	out := operators.DistinctUntilChanged[int](nil)(src)
	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	want := []int{1, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

type keyed struct {
	ID   int
	Name string
}

func TestDistinctUntilKeyChangedComparesOnlyKey(t *testing.T) {
	src := streamkit.From([]keyed{
		{1, "a"}, {1, "b"}, {2, "c"}, {2, "d"},
	})
	out := operators.DistinctUntilKeyChanged(func(k keyed) int { return k.ID }, nil)(src)
	got, err := streamkit.ToArray(context.Background(), out)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("unexpected result: %v", got)
	}
}
