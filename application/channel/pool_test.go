package channel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_UnboundedRunsConcurrently(t *testing.T) {
	pool := NewWorkerPool(0, nil)
	const n = 8

	var started sync.WaitGroup
	started.Add(n)
	release := make(chan struct{})
	for i := 0; i < n; i++ {
		if err := pool.Submit(func() {
			started.Done()
			<-release
		}); err != nil {
			t.Fatalf("Submit() unexpected error: %v", err)
		}
	}

	// All tasks must be running at the same time for this to return
	started.Wait()
	if got := pool.InFlight(); got != n {
		t.Errorf("InFlight() = %d, want %d", got, n)
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() unexpected error: %v", err)
	}
}

func TestWorkerPool_Limit(t *testing.T) {
	pool := NewWorkerPool(2, nil)

	var running, peak atomic.Int64
	for i := 0; i < 10; i++ {
		_ = pool.Submit(func() {
			cur := running.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() unexpected error: %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(0, nil)
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() unexpected error: %v", err)
	}
	if err := pool.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Submit() error = %v, want ErrPoolClosed", err)
	}
}

func TestWorkerPool_PanicDoesNotKillPool(t *testing.T) {
	pool := NewWorkerPool(1, nil)
	_ = pool.Submit(func() { panic("boom") })

	done := make(chan struct{})
	_ = pool.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task after panic did not run")
	}
}
