package mainloop

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLoop(t *testing.T, l *Loop) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestLoop_RunsInPostOrder(t *testing.T) {
	l := New(16)
	runLoop(t, l)

	var got []int
	for i := range 10 {
		l.Post(func() { got = append(got, i) })
	}
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoop_SerializesConcurrentPosters(t *testing.T) {
	l := New(0)
	runLoop(t, l)

	counter := 0 // only touched on the loop
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				l.Post(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	var got int
	require.NoError(t, l.Call(context.Background(), func() { got = counter }))
	assert.Equal(t, 1000, got)
}

func TestLoop_CloseDrainsQueued(t *testing.T) {
	l := New(4)
	var ran atomic.Int32
	l.Post(func() { ran.Add(1) })
	l.Post(func() { ran.Add(1) })
	l.Close()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, int32(2), ran.Load())
	assert.False(t, l.Post(func() {}), "post after close is refused")
	l.Close()
}

func TestLoop_RunStopsOnContext(t *testing.T) {
	l := New(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Run(ctx), context.DeadlineExceeded)
}

func TestTicker_DeliversOnLoop(t *testing.T) {
	l := New(16)
	runLoop(t, l)

	ticks := 0 // loop-owned
	reached := make(chan struct{})
	tk := NewTicker(l, time.Millisecond, func() {
		ticks++
		if ticks == 3 {
			close(reached)
		}
	})
	tk.Start()
	tk.Start()
	assert.True(t, tk.Running())

	select {
	case <-reached:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker never reached 3 ticks")
	}

	require.NoError(t, l.Call(context.Background(), tk.Stop))
	assert.False(t, tk.Running())

	var after int
	require.NoError(t, l.Call(context.Background(), func() { after = ticks }))
	time.Sleep(20 * time.Millisecond)
	var later int
	require.NoError(t, l.Call(context.Background(), func() { later = ticks }))
	assert.Equal(t, after, later, "no ticks after Stop")
	tk.Stop()
}
