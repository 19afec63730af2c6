package pool

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/utkarsh5026/taskpool/internal/scheduler"
)

// State is a point in the pool lifecycle: Running -> ShuttingDown -> Stopped.
type State int32

const (
	StateRunning State = iota
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting down"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Pool is a fixed-size set of worker goroutines executing tasks from one shared FIFO queue.
//
// The Pool exclusively owns its workers and its queue. Workers are started by New and run
// until Shutdown; the worker count never changes in between.
type Pool struct {
	conf    *poolConfig
	queue   *scheduler.Queue[*task]
	workers []*worker
	state   atomic.Int32
	nextID  atomic.Uint64
	stats   poolStats
}

type poolStats struct {
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	abandoned atomic.Int64
	panics    atomic.Int64
	active    atomic.Int64
}

// Stats is a snapshot of pool activity.
type Stats struct {
	Workers   int
	Queued    int
	Active    int
	Submitted int64
	Completed int64
	Failed    int64
	Abandoned int64
	Panics    int64
	State     State
}

// New creates a pool and starts its workers.
//
// Default configuration:
//   - workerCount: runtime.GOMAXPROCS(0), at least 1
//   - queued tasks are abandoned at shutdown (see WithDrainOnShutdown)
//   - no rate limiting, no metrics, logrus.StandardLogger() for reporting
//
// Returns:
//   - *Pool: A running pool
//   - error: ErrInvalidWorkerCount if WithWorkerCount was given a value below 1
//
// Example:
//
//	p, err := pool.New(pool.WithWorkerCount(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown()
func New(opts ...Option) (*Pool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.workerCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, cfg.workerCount)
	}

	p := &Pool{
		conf:    cfg,
		queue:   scheduler.NewQueue[*task](),
		workers: make([]*worker, cfg.workerCount),
	}
	p.state.Store(int32(StateRunning))

	for i := range p.workers {
		p.workers[i] = newWorker(i, p)
	}
	for _, w := range p.workers {
		go w.run()
	}

	cfg.logger.WithField("workers", cfg.workerCount).Debug("pool started")
	return p, nil
}

// Shutdown stops the pool and blocks until every worker has exited.
//
// Tasks already running finish and resolve their Futures. Tasks still queued are
// abandoned: they never run and their Futures stay pending forever (unless the pool was
// built with WithDrainOnShutdown, in which case they all run first). Submissions made
// after Shutdown begins fail with ErrPoolClosed.
//
// Shutdown is safe to call on an idle pool and any number of times; later calls just wait
// for the workers. It must not be called from inside a task, since the worker running that
// task could never be joined.
func (p *Pool) Shutdown() error {
	return p.shutdown(0)
}

// ShutdownTimeout is Shutdown with the total wait bounded by timeout (0 = wait forever).
//
// Each worker is joined in turn against the shared deadline. A worker that has not exited
// by then is reported and the remaining workers are still joined. The returned error wraps
// ErrShutdownTimeout once per worker that failed to join.
//
// Example:
//
//	if err := p.ShutdownTimeout(5 * time.Second); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
func (p *Pool) ShutdownTimeout(timeout time.Duration) error {
	return p.shutdown(timeout)
}

func (p *Pool) shutdown(timeout time.Duration) error {
	if p.state.CompareAndSwap(int32(StateRunning), int32(StateShuttingDown)) {
		p.conf.logger.WithField("drain", p.conf.drainOnShutdown).Debug("pool shutting down")
		p.abandon(p.queue.Shutdown(p.conf.drainOnShutdown))
	}

	if err := p.join(timeout); err != nil {
		return err
	}

	if p.state.CompareAndSwap(int32(StateShuttingDown), int32(StateStopped)) {
		p.conf.logger.Debug("pool stopped")
	}
	return nil
}

// abandon accounts for tasks dropped from the queue at shutdown. Their Futures are
// deliberately left pending.
func (p *Pool) abandon(tasks []*task) {
	if len(tasks) == 0 {
		return
	}

	p.stats.abandoned.Add(int64(len(tasks)))
	p.conf.metrics.abandoned(len(tasks))
	p.conf.logger.WithField("tasks", len(tasks)).Warn("abandoned queued tasks at shutdown; their futures will stay pending")
}

// join waits for every worker, continuing past any that miss the deadline.
func (p *Pool) join(timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	var errs []error
	expired := false
	for _, w := range p.workers {
		if err := w.join(deadline, expired); err != nil {
			expired = true
			p.conf.logger.WithField("worker", w.id).WithError(err).Error("worker did not exit")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// join waits for the worker to exit. Once the shared deadline has fired (expired), the
// check no longer blocks.
func (w *worker) join(deadline <-chan time.Time, expired bool) error {
	if expired {
		select {
		case <-w.done:
			return nil
		default:
			return fmt.Errorf("worker %d: %w", w.id, ErrShutdownTimeout)
		}
	}

	select {
	case <-w.done:
		return nil
	case <-deadline:
		return fmt.Errorf("worker %d: %w", w.id, ErrShutdownTimeout)
	}
}

// State returns the current lifecycle state.
func (p *Pool) State() State {
	return State(p.state.Load())
}

// Workers returns the fixed number of workers.
func (p *Pool) Workers() int {
	return len(p.workers)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   len(p.workers),
		Queued:    p.queue.Len(),
		Active:    int(p.stats.active.Load()),
		Submitted: p.stats.submitted.Load(),
		Completed: p.stats.completed.Load(),
		Failed:    p.stats.failed.Load(),
		Abandoned: p.stats.abandoned.Load(),
		Panics:    p.stats.panics.Load(),
		State:     p.State(),
	}
}
