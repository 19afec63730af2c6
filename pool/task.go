package pool

import (
	"runtime"
)

// task is one queued unit of work. run invokes the user's callable, resolves the paired
// Future and returns the task's own error so the worker can account for it.
type task struct {
	id  uint64
	run func() error
}

// newTask pairs fn with f. The returned task resolves f exactly once: with fn's value,
// with the error fn returned, or with a *PanicError if fn panicked.
func newTask[R any](id uint64, fn func() (R, error), f *Future[R]) *task {
	return &task{
		id: id,
		run: func() error {
			value, err := processWithRecovery(fn)
			if rerr := f.resolve(value, err); rerr != nil {
				panic(rerr)
			}
			return err
		},
	}
}

// processWithRecovery calls fn and converts a panic into a *PanicError carrying the stack,
// so a misbehaving task fails its own Future instead of unwinding the worker.
func processWithRecovery[R any](fn func() (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			var zero R
			result = zero
			err = &PanicError{Value: r, Stack: buf[:n]}
		}
	}()

	return fn()
}
