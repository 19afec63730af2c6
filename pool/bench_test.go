package pool

import (
	"context"
	"fmt"
	"testing"
)

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations, n int) int {
	result := 0
	for i := 0; i < iterations; i++ {
		result += i * n
	}
	return result
}

func BenchmarkSubmit_WorkerScaling(b *testing.B) {
	workerCounts := []int{1, 2, 4, 8, 16}
	taskCount := 10000

	for _, workers := range workerCounts {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			p, err := New(WithWorkerCount(workers), WithLogger(quietLogger()))
			if err != nil {
				b.Fatal(err)
			}
			defer p.Shutdown()

			futures := make([]*Future[int], taskCount)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for j := range futures {
					futures[j], err = Submit(p, func() (int, error) {
						return cpuBoundWork(100, j), nil
					})
					if err != nil {
						b.Fatal(err)
					}
				}
				for _, f := range futures {
					if _, err := f.Get(); err != nil {
						b.Fatal(err)
					}
				}
			}
			b.StopTimer()

			tasksPerOp := float64(taskCount)
			nsPerOp := float64(b.Elapsed().Nanoseconds()) / float64(b.N)
			tasksPerSec := (tasksPerOp / nsPerOp) * 1e9

			b.ReportMetric(tasksPerSec, "tasks/sec")
			b.ReportMetric(tasksPerSec/float64(workers), "tasks/sec/worker")
		})
	}
}

func BenchmarkMap_LoadScaling(b *testing.B) {
	taskCounts := []int{100, 1000, 10000}
	workers := 8

	for _, taskCount := range taskCounts {
		b.Run(fmt.Sprintf("tasks_%d", taskCount), func(b *testing.B) {
			p, err := New(WithWorkerCount(workers), WithLogger(quietLogger()))
			if err != nil {
				b.Fatal(err)
			}
			defer p.Shutdown()

			items := make([]int, taskCount)
			for j := range items {
				items[j] = j
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := Map(context.Background(), p, items, func(n int) (int, error) {
					return cpuBoundWork(100, n), nil
				})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSubmit_Parallel(b *testing.B) {
	p, err := New(WithWorkerCount(8), WithLogger(quietLogger()))
	if err != nil {
		b.Fatal(err)
	}
	defer p.Shutdown()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			f, err := Submit(p, func() (int, error) { return 1, nil })
			if err != nil {
				b.Error(err)
				return
			}
			f.Wait()
		}
	})
}
