package cli

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/taskpool/pool"
)

func newDrainCmd(a *app) *cobra.Command {
	var running, queued int

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Shut down a pool while tasks are running and queued",
		Long: `drain starts a pool with --running workers, occupies every worker with a
blocking task, queues --queued more tasks and then shuts the pool down.

Running tasks always finish. Queued tasks are abandoned (their futures stay
pending) unless --drain is set, in which case they all run first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if running < 1 {
				return fmt.Errorf("running must be >= 1, got %d", running)
			}
			if queued < 0 {
				return fmt.Errorf("queued must be >= 0, got %d", queued)
			}
			return a.runDrain(cmd, running, queued)
		},
	}

	cmd.Flags().IntVar(&running, "running", 2, "tasks occupying every worker when shutdown starts")
	cmd.Flags().IntVar(&queued, "queued", 5, "tasks still queued when shutdown starts")
	return cmd
}

func (a *app) runDrain(cmd *cobra.Command, running, queued int) error {
	out := cmd.OutOrStdout()

	p, err := a.newPool(pool.WithWorkerCount(running))
	if err != nil {
		return err
	}

	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(running)

	blockers := make([]*pool.Future[struct{}], running)
	for i := range blockers {
		blockers[i], err = p.Go(func() error {
			started.Done()
			<-release
			return nil
		})
		if err != nil {
			close(release)
			_ = a.shutdown(p)
			return fmt.Errorf("submit running task %d: %w", i, err)
		}
	}
	started.Wait()

	waiting := make([]*pool.Future[int], queued)
	for i := range waiting {
		waiting[i], err = pool.Submit(p, func() (int, error) { return i, nil })
		if err != nil {
			close(release)
			_ = a.shutdown(p)
			return fmt.Errorf("submit queued task %d: %w", i, err)
		}
	}

	colorPrintf(out, Bold, "Shutting down with %d running and %d queued tasks (drain=%v)\n",
		running, queued, a.cfg.Drain)

	done := make(chan error, 1)
	go func() { done <- a.shutdown(p) }()

	for p.State() == pool.StateRunning {
		time.Sleep(time.Millisecond)
	}

	_, lateErr := p.Go(func() error { return nil })

	close(release)
	if err := <-done; err != nil {
		return err
	}

	finished := 0
	for _, f := range blockers {
		if f.IsReady() {
			finished++
		}
	}
	ran, pending := 0, 0
	for _, f := range waiting {
		if f.IsReady() {
			ran++
		} else {
			pending++
		}
	}

	stats := p.Stats()
	renderTable(out,
		[]string{"Running finished", "Queued ran", "Queued pending", "Abandoned", "State", "Late submit"},
		[][]string{{
			fmt.Sprintf("%d/%d", finished, running),
			strconv.Itoa(ran),
			strconv.Itoa(pending),
			strconv.FormatInt(stats.Abandoned, 10),
			stats.State.String(),
			errText(lateErr),
		}},
	)

	if finished != running {
		return fmt.Errorf("only %d of %d running tasks finished", finished, running)
	}
	if !errors.Is(lateErr, pool.ErrPoolClosed) {
		return fmt.Errorf("submission during shutdown was not rejected: %v", lateErr)
	}
	if pending > 0 {
		colorPrintf(out, Yellow, "! %d queued tasks were abandoned; their futures will never resolve\n", pending)
	} else {
		colorPrintf(out, Green, "✓ every queued task ran before the pool stopped\n")
	}
	return nil
}

func errText(err error) string {
	if err == nil {
		return "-"
	}
	return err.Error()
}
