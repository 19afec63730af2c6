//go:build linux

package cpu

import (
	"golang.org/x/sys/unix"
)

// pinToCore restricts the current OS thread to cpuID.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	// 0 = current thread
	return unix.SchedSetaffinity(0, &mask)
}
