package viewer

import (
	"context"
	"sync"
	"time"
)

// Future is a settle-once promise. Viewer implementations expose rendering
// milestones (first page, one page rendered, all pages resolved) as futures,
// and the document session awaits them with identity re-checks after every
// suspension point.
type Future[T any] struct {
	err  error
	done chan struct{}
	val  T
	once sync.Once
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// ResolvedFuture returns a future already settled with val.
func ResolvedFuture[T any](val T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(val)

	return f
}

// Resolve settles the future successfully. Later settlements are no-ops.
func (f *Future[T]) Resolve(val T) {
	f.once.Do(func() {
		f.val = val
		close(f.done)
	})
}

// Reject settles the future with an error. Later settlements are no-ops.
func (f *Future[T]) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has been resolved or rejected.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}

// RaceTimeout waits for the future or a deadline, whichever settles first.
// It returns ok=false on timeout or context cancellation. The timer is
// stopped when the future wins; if the future settles after losing the race,
// its result has no further effect on the caller.
func RaceTimeout[T any](ctx context.Context, f *Future[T], d time.Duration) (T, bool) {
	var zero T

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.done:
		if f.err != nil {
			return zero, false
		}

		return f.val, true

	case <-timer.C:
		return zero, false

	case <-ctx.Done():
		return zero, false
	}
}
