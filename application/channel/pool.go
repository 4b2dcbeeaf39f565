package channel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrPoolClosed is returned by Submit after Shutdown
var ErrPoolClosed = errors.New("worker pool is shut down")

// WorkerPool runs submitted tasks on their own goroutines. With a zero limit
// it behaves like a cached thread pool: every task starts at once.
type WorkerPool struct {
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	inflight atomic.Int64
	logger   *zap.Logger
}

// NewWorkerPool creates a pool running at most maxConcurrency tasks at a
// time; 0 means unbounded.
func NewWorkerPool(maxConcurrency int, logger *zap.Logger) *WorkerPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &WorkerPool{logger: logger}
	if maxConcurrency > 0 {
		p.sem = semaphore.NewWeighted(int64(maxConcurrency))
	}
	return p
}

// Submit schedules task. Tasks cannot be cancelled once submitted.
func (p *WorkerPool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	p.wg.Add(1)
	go p.run(task)
	return nil
}

func (p *WorkerPool) run(task func()) {
	defer p.wg.Done()

	if p.sem != nil {
		// Background context: queued work always runs
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
	}

	p.inflight.Add(1)
	defer p.inflight.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

// InFlight returns the number of tasks currently running
func (p *WorkerPool) InFlight() int64 {
	return p.inflight.Load()
}

// Shutdown stops accepting tasks and waits for running ones, or for ctx
func (p *WorkerPool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
