// Package mainloop provides a single-goroutine executor that stands in for
// the UI thread when lingoz runs headless (tests, scripted imports). All
// closures posted to a Loop run one at a time on the goroutine calling Run,
// so state touched only from posted closures needs no locking.
package mainloop

import (
	"context"
	"sync"
)

// Loop serializes posted closures onto one goroutine.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Loop whose queue holds up to buffer pending closures
// before Post blocks.
func New(buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post schedules fn to run on the loop goroutine. It reports false if the
// loop was closed before fn could be queued.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted closures until ctx is done or Close is called.
// Closures already queued when Close is called are still run.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			l.drain()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// Close stops the loop. It is safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return context.Canceled
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
