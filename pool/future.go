package pool

import (
	"context"
	"sync"
)

// Future is the read side of a one-shot outcome cell shared between the worker that
// runs a task and every caller interested in its result.
//
// A Future starts pending and is resolved exactly once, with either a value or an error.
// All read methods are safe for concurrent use and return the same outcome every time
// once the Future is resolved.
//
// A task that was still queued when the pool shut down is never run and its Future stays
// pending forever; use GetWithContext or Done to bound the wait.
//
// Type parameters:
//   - R: The result type produced by the task
type Future[R any] struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	value    R
	err      error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{
		done: make(chan struct{}),
	}
}

// resolve is the write side. It stores the outcome and releases every waiter.
// A second call returns ErrFutureAlreadyResolved and leaves the first outcome untouched.
func (f *Future[R]) resolve(value R, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resolved {
		return ErrFutureAlreadyResolved
	}

	f.value = value
	f.err = err
	f.resolved = true
	close(f.done)
	return nil
}

// Wait blocks until the Future is resolved.
func (f *Future[R]) Wait() {
	<-f.done
}

// Get blocks until the Future is resolved, then returns the task's value, or the error
// the task returned or panicked with.
//
// Example:
//
//	future, _ := pool.Submit(p, func() (int, error) { return 42, nil })
//	v, err := future.Get()
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithContext is Get with the wait bounded by ctx. If ctx ends first the zero value and
// ctx.Err() are returned; the task itself is not affected and the Future can still be read later.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the outcome without blocking. ready is false while the Future is pending,
// in which case value and err are zero.
func (f *Future[R]) TryGet() (value R, ready bool, err error) {
	select {
	case <-f.done:
		return f.value, true, f.err
	default:
		return value, false, nil
	}
}

// Done returns a channel that is closed once the Future is resolved.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the Future has been resolved.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
