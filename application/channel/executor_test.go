package channel

import (
	"sync"
	"testing"
)

func TestLooper_PreservesOrder(t *testing.T) {
	l := NewLooper(0)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	l.Close()

	if len(got) != 100 {
		t.Fatalf("ran %d callbacks, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("callback %d ran at position %d", v, i)
		}
	}
}

func TestLooper_PostAfterCloseRunsInline(t *testing.T) {
	l := NewLooper(1)
	l.Close()
	l.Close()

	ran := false
	l.Post(func() { ran = true })
	if !ran {
		t.Error("expected callback to run after Close")
	}
}

func TestInline_Post(t *testing.T) {
	ran := false
	Inline{}.Post(func() { ran = true })
	if !ran {
		t.Error("expected Inline to run the callback")
	}
}
