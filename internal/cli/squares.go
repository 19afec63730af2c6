package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/utkarsh5026/taskpool/pool"
	"golang.org/x/sync/errgroup"
)

func newSquaresCmd(a *app) *cobra.Command {
	var (
		count       int
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "squares",
		Short: "Submit i*i for i in [0, count) and check every result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("count must be >= 0, got %d", count)
			}
			return a.runSquares(cmd, count, showMetrics)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of tasks to submit")
	cmd.Flags().BoolVar(&showMetrics, "metrics", true, "print pool metrics after the run")
	return cmd
}

func (a *app) runSquares(cmd *cobra.Command, count int, showMetrics bool) error {
	out := cmd.OutOrStdout()

	reg := prometheus.NewRegistry()
	metrics := pool.NewMetrics("taskpool", "squares")
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	p, err := a.newPool(pool.WithMetrics(metrics))
	if err != nil {
		return err
	}

	colorPrintf(out, Bold, "Computing %d squares on %d workers\n", count, p.Workers())
	start := time.Now()

	futures := make([]*pool.Future[int], count)
	for i := range futures {
		futures[i], err = pool.Submit(p, func() (int, error) {
			return i * i, nil
		})
		if err != nil {
			_ = a.shutdown(p)
			return fmt.Errorf("submit %d: %w", i, err)
		}
	}

	bar := makeProgressBar(cmd.ErrOrStderr(), count, "Collecting results")
	results := make([]int, count)

	g, gctx := errgroup.WithContext(cmd.Context())
	for i, f := range futures {
		g.Go(func() error {
			v, err := f.GetWithContext(gctx)
			if err != nil {
				return fmt.Errorf("task %d: %w", i, err)
			}
			results[i] = v
			_ = bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		_ = a.shutdown(p)
		return err
	}
	_ = bar.Finish()
	elapsed := time.Since(start)

	if err := a.shutdown(p); err != nil {
		return err
	}

	sum, mismatches := 0, 0
	for i, v := range results {
		sum += v
		if v != i*i {
			mismatches++
		}
	}

	throughput := 0.0
	if elapsed > 0 {
		throughput = float64(count) / elapsed.Seconds()
	}
	renderTable(out,
		[]string{"Workers", "Tasks", "Sum of squares", "Elapsed", "Tasks/sec"},
		[][]string{{
			strconv.Itoa(p.Workers()),
			strconv.Itoa(count),
			strconv.Itoa(sum),
			elapsed.Round(time.Microsecond).String(),
			fmt.Sprintf("%.0f", throughput),
		}},
	)

	if showMetrics {
		if err := renderMetrics(out, reg); err != nil {
			return err
		}
	}

	if mismatches > 0 {
		colorPrintf(out, Red, "✗ %d of %d results were wrong\n", mismatches, count)
		return fmt.Errorf("%d results did not match", mismatches)
	}
	colorPrintf(out, Green, "✓ all %d results correct\n", count)
	return nil
}
