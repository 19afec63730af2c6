package pool

import (
	"context"
	"errors"

	"github.com/utkarsh5026/taskpool/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

// Submit queues fn for execution and returns a Future for its outcome without waiting for
// a worker. Arguments are bound by capturing them in the closure.
//
// Parameters:
//   - p: The pool to run on
//   - fn: The work to run; its value or error resolves the Future
//
// Returns:
//   - future: A Future resolved once a worker has run fn
//   - error: ErrPoolClosed if shutdown has begun (nothing is queued), ErrNilTask if fn is nil
//
// Example:
//
//	future, err := pool.Submit(p, func() (int, error) {
//	    return square(7), nil
//	})
//	if err != nil {
//	    return err
//	}
//	v, err := future.Get()
func Submit[R any](p *Pool, fn func() (R, error)) (*Future[R], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	if p.State() != StateRunning {
		p.conf.metrics.rejected()
		return nil, ErrPoolClosed
	}

	future := newFuture[R]()
	t := newTask(p.nextID.Add(1), fn, future)

	if err := p.queue.Push(t); err != nil {
		p.conf.metrics.rejected()
		if errors.Is(err, scheduler.ErrQueueClosed) {
			return nil, ErrPoolClosed
		}
		return nil, err
	}

	p.stats.submitted.Add(1)
	p.conf.metrics.submitted()
	return future, nil
}

// Go queues a callable that produces no value. The returned Future resolves to struct{}{}
// and the error fn returned.
func (p *Pool) Go(fn func() error) (*Future[struct{}], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	return Submit(p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

// Map submits fn once per item and waits for every result, returned in input order.
//
// Map stops waiting and returns a nil slice with the first error produced by any item, or
// with ctx.Err() if ctx ends first. Tasks already submitted are not cancelled and keep running on the pool.
//
// Example:
//
//	squares, err := pool.Map(ctx, p, []int{1, 2, 3}, func(n int) (int, error) {
//	    return n * n, nil
//	})
//	// squares: []int{1, 4, 9}
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}
	if fn == nil {
		return nil, ErrNilTask
	}

	futures := make([]*Future[R], len(items))
	for i, item := range items {
		f, err := Submit(p, func() (R, error) {
			return fn(item)
		})
		if err != nil {
			return nil, err
		}
		futures[i] = f
	}

	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range futures {
		g.Go(func() error {
			v, err := f.GetWithContext(gctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
