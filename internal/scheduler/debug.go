//go:build debug

package scheduler

import (
	"os"

	"github.com/sirupsen/logrus"
)

var debugLogger = newDebugLogger()

func newDebugLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000000"})
	return l.WithField("component", "queue")
}

// debugLog traces queue operations in builds tagged debug.
func debugLog(format string, args ...interface{}) {
	debugLogger.Debugf(format, args...)
}
