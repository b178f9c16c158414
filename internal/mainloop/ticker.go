package mainloop

import (
	"sync"
	"time"
)

// Ticker is a repeating tick source that delivers ticks on a Loop.
// It satisfies exam.Timer.
type Ticker struct {
	loop     *Loop
	interval time.Duration
	onTick   func()

	mu   sync.Mutex
	stop chan struct{}
}

// NewTicker creates a stopped Ticker that posts onTick to loop every interval.
func NewTicker(loop *Loop, interval time.Duration, onTick func()) *Ticker {
	return &Ticker{loop: loop, interval: interval, onTick: onTick}
}

// Start begins ticking. Starting a running ticker is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop

	go func() {
		tk := time.NewTicker(t.interval)
		defer tk.Stop()
		for {
			select {
			case <-tk.C:
				t.loop.Post(func() {
					// A tick queued just before Stop must not be delivered.
					if t.running(stop) {
						t.onTick()
					}
				})
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts ticking. Stopping a stopped ticker is a no-op.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

// Running reports whether the ticker is started.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Ticker) running(gen chan struct{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop == gen
}
