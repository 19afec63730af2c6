package pool

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMap(t *testing.T) {
	t.Run("results in input order", func(t *testing.T) {
		p := newTestPool(t, WithWorkerCount(4))

		items := make([]int, 50)
		for i := range items {
			items[i] = i
		}

		results, err := Map(context.Background(), p, items, func(n int) (int, error) {
			// later items finish first
			time.Sleep(time.Duration(50-n) * 100 * time.Microsecond)
			return n * n, nil
		})
		if err != nil {
			t.Fatalf("Map failed: %v", err)
		}
		for i, v := range results {
			if v != i*i {
				t.Fatalf("results[%d] = %d, want %d", i, v, i*i)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		p := newTestPool(t, WithWorkerCount(1))

		results, err := Map(context.Background(), p, nil, func(n int) (int, error) { return n, nil })
		if err != nil || len(results) != 0 {
			t.Errorf("expected empty result, got %v, %v", results, err)
		}
	})

	t.Run("first error is returned", func(t *testing.T) {
		p := newTestPool(t, WithWorkerCount(2))

		sentinel := errors.New("item 3 failed")
		results, err := Map(context.Background(), p, []int{1, 2, 3, 4}, func(n int) (string, error) {
			if n == 3 {
				return "", sentinel
			}
			return fmt.Sprint(n), nil
		})
		if !errors.Is(err, sentinel) {
			t.Errorf("expected sentinel error, got %v", err)
		}
		if results != nil {
			t.Errorf("expected nil results alongside an error, got %v", results)
		}
	})

	t.Run("context bounds the wait", func(t *testing.T) {
		p := newTestPool(t, WithWorkerCount(1))

		release := make(chan struct{})
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		results, err := Map(ctx, p, []int{1}, func(n int) (int, error) {
			<-release
			return n, nil
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
		if results != nil {
			t.Errorf("expected nil results on timeout, got %v", results)
		}
	})

	t.Run("closed pool", func(t *testing.T) {
		p := newTestPool(t, WithWorkerCount(1))
		_ = p.Shutdown()

		_, err := Map(context.Background(), p, []int{1}, func(n int) (int, error) { return n, nil })
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("expected ErrPoolClosed, got %v", err)
		}
	})
}
