package dedup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_ConcurrentSameKeyCallsOnce(t *testing.T) {
	var g Group[string]
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "result-x", nil
	}

	ctx := context.Background()
	h1 := g.Fetch(ctx, "x", fn)
	<-started
	h2 := g.Fetch(ctx, "x", fn)
	close(release)

	r1 := <-h1
	r2 := <-h2

	require.NoError(t, r1.Err)
	require.NoError(t, r2.Err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "result-x", r1.Value)
	assert.Equal(t, r1.Value, r2.Value)
	assert.True(t, r1.Shared)
	assert.True(t, r2.Shared)
}

func TestFetch_ManyWaitersFanOut(t *testing.T) {
	var g Group[int]
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	first := g.Fetch(context.Background(), "k", fn)
	<-started

	handles := []<-chan Result[int]{first}
	for i := 0; i < 9; i++ {
		handles = append(handles, g.Fetch(context.Background(), "k", fn))
	}
	close(release)

	for _, h := range handles {
		r := <-h
		require.NoError(t, r.Err)
		assert.Equal(t, 42, r.Value)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_EvictsAfterCompletion(t *testing.T) {
	var g Group[int]
	var calls atomic.Int32
	fn := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	v1, err := g.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	v2, err := g.Do(context.Background(), "k", fn)
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
	assert.Equal(t, 0, g.InFlight())
}

func TestFetch_EvictsAfterFailure(t *testing.T) {
	var g Group[int]
	boom := errors.New("boom")
	var calls atomic.Int32

	fn := func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, boom
		}
		return 7, nil
	}

	_, err := g.Do(context.Background(), "k", fn)
	assert.ErrorIs(t, err, boom)

	v, err := g.Do(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFetch_DistinctKeysRunIndependently(t *testing.T) {
	var g Group[string]
	var calls atomic.Int32
	fn := func(key string) func(context.Context) (string, error) {
		return func(ctx context.Context) (string, error) {
			calls.Add(1)
			return key, nil
		}
	}

	var wg sync.WaitGroup
	for _, k := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := g.Do(context.Background(), k, fn(k))
			assert.NoError(t, err)
			assert.Equal(t, k, v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_CancelledWaiterDoesNotCancelSharedCall(t *testing.T) {
	var g Group[string]
	release := make(chan struct{})
	started := make(chan struct{})
	var sawCancel atomic.Bool

	fn := func(ctx context.Context) (string, error) {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			sawCancel.Store(true)
		}
		return "ok", nil
	}

	leaving, cancel := context.WithCancel(context.Background())
	h1 := g.Fetch(leaving, "k", fn)
	<-started
	h2 := g.Fetch(context.Background(), "k", fn)

	cancel()
	r1 := <-h1
	assert.ErrorIs(t, r1.Err, context.Canceled)

	close(release)
	select {
	case r2 := <-h2:
		require.NoError(t, r2.Err)
		assert.Equal(t, "ok", r2.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("second waiter never received a result")
	}
	assert.False(t, sawCancel.Load(), "shared call observed the leaving waiter's cancellation")
}
