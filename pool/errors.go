package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Submit once Shutdown has been initiated.
	ErrPoolClosed = errors.New("pool is shut down")

	// ErrInvalidWorkerCount is returned by New when WithWorkerCount is given a value below 1.
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

	// ErrNilTask is returned by Submit and Go when the callable is nil.
	ErrNilTask = errors.New("task function is nil")

	// ErrFutureAlreadyResolved signals a second write to a Future. It indicates internal
	// corruption rather than a task failure and is raised as a panic, never swallowed.
	ErrFutureAlreadyResolved = errors.New("future already resolved")

	// ErrShutdownTimeout is reported when a worker fails to exit before the shutdown deadline.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")
)

// PanicError wraps a value recovered from a panicking task, together with the
// goroutine stack at the point of the panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when it is itself an error, so errors.Is and
// errors.As see through the panic.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
