package channel

import "sync"

// Executor runs reply callbacks in the caller's expected context
type Executor interface {
	Post(fn func())
}

// Inline runs callbacks on the goroutine that completed the work
type Inline struct{}

// Post runs fn immediately
func (Inline) Post(fn func()) {
	fn()
}

// Looper serializes callbacks on a single goroutine, in posting order
type Looper struct {
	tasks  chan func()
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewLooper starts the loop goroutine. buffer bounds how many callbacks may
// be queued before Post blocks.
func NewLooper(buffer int) *Looper {
	l := &Looper{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	go l.loop()
	return l
}

func (l *Looper) loop() {
	defer close(l.done)
	for fn := range l.tasks {
		fn()
	}
}

// Post queues fn. After Close, fn runs on the calling goroutine so that no
// reply is lost.
func (l *Looper) Post(fn func()) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		fn()
		return
	}
	l.tasks <- fn
}

// Close drains queued callbacks and stops the loop
func (l *Looper) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.tasks)
	l.mu.Unlock()
	<-l.done
}
