package pool

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// newTestPool builds a pool with a silent logger and shuts it down when the test ends.
func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p, _ := newTestPoolWithLog(t, opts...)
	return p
}

// newTestPoolWithLog is newTestPool but also returns a hook capturing every log entry.
func newTestPoolWithLog(t *testing.T, opts ...Option) (*Pool, *logtest.Hook) {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	p, err := New(append([]Option{WithLogger(logger)}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		if err := p.ShutdownTimeout(5 * time.Second); err != nil {
			t.Errorf("cleanup shutdown failed: %v", err)
		}
	})
	return p, hook
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// entriesAt returns the captured log entries at level.
func entriesAt(hook *logtest.Hook, level logrus.Level) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func quietLogger() *logrus.Logger {
	logger, _ := logtest.NewNullLogger()
	return logger
}
