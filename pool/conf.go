package pool

import (
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring the pool.
type Option func(*poolConfig)

type poolConfig struct {
	workerCount      int
	dedicatedThreads bool
	pinCPUs          bool
	drainOnShutdown  bool
	rateLimiter      *rate.Limiter
	logger           logrus.FieldLogger
	metrics          *Metrics

	onTaskStart func(id uint64)
	onTaskEnd   func(id uint64, err error)
}

func defaultConfig() *poolConfig {
	return &poolConfig{
		workerCount: max(runtime.GOMAXPROCS(0), 1),
		logger:      logrus.StandardLogger(),
	}
}

// WithWorkerCount sets the number of worker goroutines.
// If not specified, defaults to runtime.GOMAXPROCS(0).
// A count below 1 makes New fail with ErrInvalidWorkerCount.
func WithWorkerCount(count int) Option {
	return func(cfg *poolConfig) {
		cfg.workerCount = count
	}
}

// WithDedicatedThreads locks every worker goroutine to its own OS thread for the
// lifetime of the pool.
func WithDedicatedThreads() Option {
	return func(cfg *poolConfig) {
		cfg.dedicatedThreads = true
	}
}

// WithCPUPinning gives every worker a dedicated OS thread and pins that thread to a
// single core (worker id modulo the number of CPUs). On platforms without thread
// affinity support the pin is skipped with a warning and the thread lock is kept.
func WithCPUPinning() Option {
	return func(cfg *poolConfig) {
		cfg.dedicatedThreads = true
		cfg.pinCPUs = true
	}
}

// WithDrainOnShutdown makes Shutdown run every task that was queued before shutdown began
// instead of abandoning them.
//
// Without this option, queued tasks that no worker has started are dropped at shutdown and
// their Futures remain pending forever. They are not failed with a cancellation error.
func WithDrainOnShutdown() Option {
	return func(cfg *poolConfig) {
		cfg.drainOnShutdown = true
	}
}

// WithRateLimit sets a rate limiter for controlling task throughput.
// tasksPerSecond specifies the maximum number of tasks started per second across all
// workers, burst the maximum number that may start back to back.
// If not specified, no rate limiting is applied.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithLogger sets the logger used to report recovered worker panics, abandoned tasks and
// shutdown problems. Defaults to logrus.StandardLogger().
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *poolConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics records pool activity into m. See NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(cfg *poolConfig) {
		cfg.metrics = m
	}
}

// WithOnTaskStart registers a hook called on the worker right before a task runs.
// A panic in the hook is recovered and logged; the task still runs.
func WithOnTaskStart(fn func(id uint64)) Option {
	return func(cfg *poolConfig) {
		cfg.onTaskStart = fn
	}
}

// WithOnTaskEnd registers a hook called on the worker after a task finished, with the
// error the task produced (nil on success). The task's Future is already resolved when the
// hook runs. A panic in the hook is recovered and logged by the worker, which then keeps
// serving the queue.
func WithOnTaskEnd(fn func(id uint64, err error)) Option {
	return func(cfg *poolConfig) {
		cfg.onTaskEnd = fn
	}
}
