// Package pool provides a fixed-size worker pool that runs arbitrary callables
// concurrently and hands back a Future for each one.
//
// The primary type is Pool, a set of N long-lived worker goroutines sharing a single
// unbounded FIFO queue. Submit wraps a callable into a task, queues it and returns a
// Future immediately; a worker later runs the callable and resolves the Future with its
// value or error.
//
// # Basic Usage
//
//	p, err := pool.New(pool.WithWorkerCount(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown()
//
//	future, err := pool.Submit(p, func() (int, error) {
//	    return 6 * 7, nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := future.Get() // 42, nil
//
// # Futures
//
// A Future is resolved exactly once. Get, Wait, TryGet, Done and IsReady may be called any
// number of times from any goroutine and always observe the same outcome. GetWithContext
// layers a caller-side timeout on top of the wait without affecting the task.
//
// # Error Handling
//
//   - An error returned by a task, or a panic inside it (as *PanicError), is stored in
//     that task's Future only and surfaces from Get. Other tasks are unaffected.
//   - Submitting after Shutdown has begun fails immediately with ErrPoolClosed.
//   - WithWorkerCount(0) makes New fail with ErrInvalidWorkerCount.
//   - A panic escaping a task's own capture (for example from a WithOnTaskEnd hook) is
//     recovered by the worker, logged, and the worker carries on.
//   - Resolving a Future twice is an internal invariant breach and panics with
//     ErrFutureAlreadyResolved.
//
// # Shutdown
//
// Shutdown waits for running tasks and then for every worker to exit. Tasks still queued
// when Shutdown starts are abandoned: they never run and their Futures stay pending
// forever. This is deliberate; no cancellation error is injected. Use WithDrainOnShutdown
// to run them instead, or bound waits with GetWithContext.
//
// # Configuration Options
//
//   - WithWorkerCount(n): Number of workers (default: GOMAXPROCS)
//   - WithDrainOnShutdown(): Run queued tasks at shutdown instead of abandoning them
//   - WithRateLimit(tasksPerSecond, burst): Throttle task starts across all workers
//   - WithDedicatedThreads(), WithCPUPinning(): Bind workers to OS threads / cores
//   - WithLogger(l): logrus logger for worker-level reports
//   - WithMetrics(m): Prometheus collectors, see NewMetrics
//   - WithOnTaskStart(fn), WithOnTaskEnd(fn): Per-task hooks run on the worker
package pool
