package scheduler

import (
	"errors"
	"sync"
)

var (
	ErrQueueClosed = errors.New("queue is closed")
)

// Queue is an unbounded FIFO hand-off point between any number of producers and a
// fixed set of consumers.
//
// All mutations of the pending items and the closed flag happen under a single mutex,
// and consumers wait on a condition variable bound to that same mutex, so a consumer
// going to sleep can never miss an item pushed concurrently with it.
//
// Type parameters:
//   - T: The item type carried by the queue
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

// NewQueue creates an empty, open queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail of the queue and wakes exactly one waiting consumer.
// It never blocks on capacity; the queue grows without bound.
//
// Returns:
//   - error: ErrQueueClosed if Shutdown has already been called. The closed check and the
//     append are performed atomically, so an item is either accepted before shutdown or rejected.
func (q *Queue[T]) Push(item T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, item)
	depth := len(q.items)
	q.mu.Unlock()

	debugLog("push: depth=%d", depth)
	q.cond.Signal()
	return nil
}

// Pop removes and returns the head item, blocking until one is available.
//
// The second return value is false only when the queue has been shut down and no
// items remain; consumers treat that as the signal to exit.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.closed && len(q.items) == 0 {
		q.cond.Wait()
	}

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Shutdown closes the queue and wakes every waiting consumer.
//
// When drain is false, items still pending are removed and returned to the caller so
// consumers see an empty queue and exit. When drain is true the pending items are left
// in place and consumers keep popping until the queue is empty.
//
// Calling Shutdown more than once is a no-op that returns nil.
func (q *Queue[T]) Shutdown(drain bool) []T {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true

	var pending []T
	if !drain {
		pending = q.items
		q.items = nil
	}
	remaining := len(q.items)
	q.mu.Unlock()

	debugLog("shutdown: drain=%t abandoned=%d remaining=%d", drain, len(pending), remaining)
	q.cond.Broadcast()
	return pending
}

// Len returns the number of pending items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether Shutdown has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
