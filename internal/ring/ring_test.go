package ring

import "testing"

func TestBufferPushPopIsFIFO(t *testing.T) {
	var b Buffer[int]
	b.Push(1)
	b.Push(2)
	b.Push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := b.Pop()
		if !ok || got != want {
			t.Fatalf("expected (%d, true), got (%d, %v)", want, got, ok)
		}
	}
	if _, ok := b.Pop(); ok {
		t.Fatalf("expected empty buffer to report ok=false")
	}
}

func TestBufferPeekDoesNotRemove(t *testing.T) {
	var b Buffer[string]
	b.Push("a")
	b.Push("b")

	v, ok := b.Peek()
	if !ok || v != "a" {
		t.Fatalf("expected (\"a\", true), got (%q, %v)", v, ok)
	}
	if b.Len() != 2 {
		t.Fatalf("expected Peek to leave Len unchanged, got %d", b.Len())
	}
}

func TestBufferLenTracksOutstandingItems(t *testing.T) {
	var b Buffer[int]
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer Len()==0, got %d", b.Len())
	}
	b.Push(1)
	b.Push(2)
	if b.Len() != 2 {
		t.Fatalf("expected Len()==2, got %d", b.Len())
	}
	b.Pop()
	if b.Len() != 1 {
		t.Fatalf("expected Len()==1 after one pop, got %d", b.Len())
	}
}

func TestBufferCompactsAfterDraining(t *testing.T) {
	var b Buffer[int]
	for i := 0; i < 200; i++ {
		b.Push(i)
	}
	for i := 0; i < 150; i++ {
		v, ok := b.Pop()
		if !ok || v != i {
			t.Fatalf("expected (%d, true), got (%d, %v)", i, v, ok)
		}
	}
	if b.Len() != 50 {
		t.Fatalf("expected 50 remaining items, got %d", b.Len())
	}
	for i := 150; i < 200; i++ {
		v, ok := b.Pop()
		if !ok || v != i {
			t.Fatalf("expected (%d, true), got (%d, %v)", i, v, ok)
		}
	}
}
