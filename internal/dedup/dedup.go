// Package dedup collapses concurrent requests for the same key into a single
// underlying call. It is not a value cache: once a call settles its key is
// forgotten and the next Fetch starts a fresh call.
package dedup

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Result is what every waiter attached to a key receives.
type Result[T any] struct {
	Value T
	Err   error

	// Shared is true when more than one waiter received this result.
	Shared bool
}

// Group is a keyed set of in-flight calls producing T.
// All methods are safe for concurrent use.
type Group[T any] struct {
	sf       singleflight.Group
	inflight atomic.Int64
}

// Fetch returns a handle to the in-flight call for key, starting fn if no
// call is pending. fn runs detached from ctx cancellation because other
// waiters may share it; ctx values are preserved.
func (g *Group[T]) Fetch(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) <-chan Result[T] {
	shared := context.WithoutCancel(ctx)
	ch := g.sf.DoChan(key, func() (any, error) {
		g.inflight.Add(1)
		defer g.inflight.Add(-1)
		return fn(shared)
	})

	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		var r singleflight.Result
		select {
		case r = <-ch:
		case <-ctx.Done():
			var zero T
			out <- Result[T]{Value: zero, Err: ctx.Err()}
			return
		}
		var res Result[T]
		res.Err = r.Err
		res.Shared = r.Shared
		if r.Err == nil {
			v, ok := r.Val.(T)
			if !ok {
				res.Err = fmt.Errorf("dedup: unexpected result type %T for key %q", r.Val, key)
			}
			res.Value = v
		}
		out <- res
	}()
	return out
}

// Do is the blocking form of Fetch.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	r := <-g.Fetch(ctx, key, fn)
	return r.Value, r.Err
}

// Forget drops the in-flight entry for key so the next Fetch starts a new
// call. Waiters already attached still receive the old result.
func (g *Group[T]) Forget(key string) {
	g.sf.Forget(key)
}

// InFlight returns the number of underlying calls currently executing.
func (g *Group[T]) InFlight() int {
	return int(g.inflight.Load())
}
