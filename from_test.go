package streamkit

import (
	"context"
	"testing"
)

func TestFromEmptySliceClosesImmediately(t *testing.T) {
	s := From([]int{})
	got, err := ToArray(context.Background(), s)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestFromRespectsBackpressure(t *testing.T) {
	s := From([]int{1, 2, 3, 4, 5})
	r, err := s.GetReader()
	if err != nil {
		t.Fatalf("GetReader: %v", err)
	}
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		v, done, rerr := r.Read(ctx)
		if rerr != nil {
			t.Fatalf("Read: %v", rerr)
		}
		if done {
			t.Fatalf("unexpected early completion at i=%d", i)
		}
		if v != i {
			t.Fatalf("expected %d, got %d", i, v)
		}
	}
	_, done, rerr := r.Read(ctx)
	if rerr != nil {
		t.Fatalf("Read: %v", rerr)
	}
	if !done {
		t.Fatalf("expected completion after all values read")
	}
}
