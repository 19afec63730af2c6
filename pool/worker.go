package pool

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/utkarsh5026/taskpool/internal/cpu"
	"github.com/utkarsh5026/taskpool/internal/scheduler"
)

// worker is one long-lived goroutine pulling tasks from the shared queue.
// It references the queue but does not own it; the Pool owns both.
type worker struct {
	id    int
	queue *scheduler.Queue[*task]
	conf  *poolConfig
	stats *poolStats
	log   logrus.FieldLogger
	done  chan struct{} // closed when the worker loop has returned
}

func newWorker(id int, p *Pool) *worker {
	return &worker{
		id:    id,
		queue: p.queue,
		conf:  p.conf,
		stats: &p.stats,
		log:   p.conf.logger.WithField("worker", id),
		done:  make(chan struct{}),
	}
}

// run is the worker loop: Idle -> Running -> Idle until the queue reports shutdown.
func (w *worker) run() {
	defer close(w.done)

	release, err := cpu.Bind(w.id, cpu.Binding{
		Dedicated: w.conf.dedicatedThreads,
		Pin:       w.conf.pinCPUs,
	})
	defer release()
	if err != nil {
		w.log.WithError(err).Warn("cpu pinning failed, continuing on an unpinned thread")
	}

	for {
		t, ok := w.queue.Pop()
		if !ok {
			w.log.Debug("worker exiting")
			return
		}
		w.execute(t)
	}
}

// execute runs a single task. Failures inside the user's callable are already captured
// into the task's Future; anything else that panics here (hooks, bookkeeping) is
// recovered and logged so the worker keeps serving the queue. A double resolve of a
// Future is re-raised.
//
// A task only counts as active once it holds a rate limiter token, and its duration covers
// the callable alone.
func (w *worker) execute(t *task) {
	w.waitForToken()

	w.stats.active.Add(1)
	w.conf.metrics.started()

	finished := false
	var start time.Time

	defer func() {
		w.stats.active.Add(-1)
		r := recover()
		if r == nil {
			return
		}
		if !finished {
			var elapsed time.Duration
			if !start.IsZero() {
				elapsed = time.Since(start)
			}
			w.conf.metrics.finished(elapsed, errWorkerPanic)
		}
		if isFatal(r) {
			panic(r)
		}

		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		w.stats.panics.Add(1)
		w.conf.metrics.panicRecovered()
		w.log.WithFields(logrus.Fields{
			"task":  t.id,
			"panic": r,
			"stack": string(buf[:n]),
		}).Error("recovered panic in worker loop")
	}()

	w.beforeStart(t.id)

	start = time.Now()
	err := t.run()

	finished = true
	w.conf.metrics.finished(time.Since(start), err)
	if err != nil {
		w.stats.failed.Add(1)
	} else {
		w.stats.completed.Add(1)
	}

	if w.conf.onTaskEnd != nil {
		w.conf.onTaskEnd(t.id, err)
	}
}

// waitForToken blocks on the rate limiter, if any. A dequeued task always runs, so the
// wait is not tied to the pool's shutdown.
func (w *worker) waitForToken() {
	if w.conf.rateLimiter == nil {
		return
	}
	if err := w.conf.rateLimiter.Wait(context.Background()); err != nil {
		w.log.WithError(err).Warn("rate limiter wait failed")
	}
}

func (w *worker) beforeStart(id uint64) {
	if w.conf.onTaskStart == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.stats.panics.Add(1)
			w.conf.metrics.panicRecovered()
			w.log.WithFields(logrus.Fields{"task": id, "panic": r}).Error("recovered panic in task start hook")
		}
	}()
	w.conf.onTaskStart(id)
}

var errWorkerPanic = errors.New("worker panic")

// isFatal reports whether a recovered value must not be swallowed.
func isFatal(r any) bool {
	err, ok := r.(error)
	return ok && errors.Is(err, ErrFutureAlreadyResolved)
}
