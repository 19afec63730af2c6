// Package cpu binds worker goroutines to OS threads and, where the platform allows it,
// to individual CPU cores.
package cpu

import (
	"errors"
	"runtime"
)

var (
	ErrPinningUnsupported = errors.New("cpu pinning is not supported on this platform")
)

// Binding describes how a worker should be attached to the OS scheduler.
type Binding struct {
	// Dedicated locks the worker goroutine to its own OS thread for its whole lifetime.
	Dedicated bool

	// Pin additionally restricts that thread to a single core, chosen as workerID modulo
	// the number of logical CPUs. Pin implies Dedicated.
	Pin bool
}

// Bind applies b to the calling goroutine and returns a release function that must be
// deferred by the caller. A non-nil error means pinning failed; the thread lock (if any)
// is still in place and release must still be called.
func Bind(workerID int, b Binding) (release func(), err error) {
	if !b.Dedicated && !b.Pin {
		return func() {}, nil
	}

	runtime.LockOSThread()
	release = runtime.UnlockOSThread

	if b.Pin {
		err = pinToCore(coreFor(workerID))
	}
	return release, err
}

// coreFor maps a worker id onto [0, runtime.NumCPU()).
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	return ((workerID % n) + n) % n
}
