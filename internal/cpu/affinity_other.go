//go:build !linux && !windows

package cpu

// pinToCore is unavailable here (macOS exposes no thread affinity API); the thread lock
// taken by Bind still gives the worker a dedicated OS thread.
func pinToCore(int) error {
	return ErrPinningUnsupported
}
