package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/utkarsh5026/taskpool/internal/config"
	"github.com/utkarsh5026/taskpool/pool"
)

// app carries what every subcommand needs once PersistentPreRunE has run
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *logrus.Logger
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "taskpool",
		Short: "taskpool - fixed-size worker pool with futures",
		Long: `taskpool runs small scenarios against a fixed-size worker pool:
tasks are queued, executed by N workers and observed through futures.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.taskpool.yaml)")
	flags.IntP("workers", "w", 0, "number of workers (0 = one per CPU)")
	flags.Bool("dedicated-threads", false, "lock every worker to its own OS thread")
	flags.Bool("pin-cpus", false, "pin every worker thread to a CPU core")
	flags.Bool("drain", false, "run queued tasks at shutdown instead of abandoning them")
	flags.Float64("rate-limit", 0, "maximum tasks started per second (0 = unlimited)")
	flags.Int("burst", 1, "rate limiter burst size")
	flags.Duration("shutdown-timeout", 10*time.Second, "maximum time to wait for workers at shutdown")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(newSquaresCmd(a))
	rootCmd.AddCommand(newBoomCmd(a))
	rootCmd.AddCommand(newDrainCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// init loads configuration and sets up logging
func (a *app) init(cmd *cobra.Command) error {
	m := config.NewManager(a.cfgFile)
	if err := m.BindFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := m.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.NoColor {
		color.NoColor = true
	}

	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(cfg.Level())
	a.log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: cfg.NoColor,
	})

	if used := m.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("loaded configuration")
	}
	return nil
}

// newPool builds a pool from the loaded configuration plus any scenario-specific options
func (a *app) newPool(extra ...pool.Option) (*pool.Pool, error) {
	opts := append(a.cfg.PoolOptions(a.log), extra...)
	p, err := pool.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return p, nil
}

func (a *app) shutdown(p *pool.Pool) error {
	if err := p.ShutdownTimeout(a.cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("pool shutdown: %w", err)
	}
	return nil
}
