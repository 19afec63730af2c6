package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/utkarsh5026/taskpool/pool"
)

const (
	defaultConfigName = ".taskpool"
	envPrefix         = "TASKPOOL"
)

// Config holds the pool settings shared by every taskpool command
type Config struct {
	Workers          int           `mapstructure:"workers"`
	DedicatedThreads bool          `mapstructure:"dedicated-threads"`
	PinCPUs          bool          `mapstructure:"pin-cpus"`
	Drain            bool          `mapstructure:"drain"`
	RateLimit        float64       `mapstructure:"rate-limit"`
	Burst            int           `mapstructure:"burst"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown-timeout"`
	LogLevel         string        `mapstructure:"log-level"`
	NoColor          bool          `mapstructure:"no-color"`
}

// Manager loads taskpool configuration from file, environment and flags
type Manager struct {
	configPath string
	viper      *viper.Viper
}

// NewManager creates a new configuration manager. An empty configPath searches
// $HOME/.taskpool.yaml.
func NewManager(configPath string) *Manager {
	v := viper.New()
	v.SetDefault("workers", 0)
	v.SetDefault("dedicated-threads", false)
	v.SetDefault("pin-cpus", false)
	v.SetDefault("drain", false)
	v.SetDefault("rate-limit", 0.0)
	v.SetDefault("burst", 1)
	v.SetDefault("shutdown-timeout", 10*time.Second)
	v.SetDefault("log-level", "info")
	v.SetDefault("no-color", false)

	return &Manager{
		configPath: configPath,
		viper:      v,
	}
}

// BindFlags lets command-line flags override file and environment values
func (m *Manager) BindFlags(flags *pflag.FlagSet) error {
	return m.viper.BindPFlags(flags)
}

// Load reads the configuration. A missing config file is not an error.
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	// TASKPOOL_RATE_LIMIT -> rate-limit
	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	m.viper.AutomaticEnv()

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFileUsed returns the path of the file that was read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Validate checks the values that the pool would otherwise reject later
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (0 = one per CPU), got %d", c.Workers)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate-limit must be >= 0, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be >= 1 when rate-limit is set, got %d", c.Burst)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level: %w", err)
	}
	return nil
}

// Level returns the parsed log level
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// PoolOptions translates the configuration into pool options
func (c *Config) PoolOptions(logger logrus.FieldLogger) []pool.Option {
	opts := []pool.Option{pool.WithLogger(logger)}

	if c.Workers > 0 {
		opts = append(opts, pool.WithWorkerCount(c.Workers))
	}
	if c.DedicatedThreads {
		opts = append(opts, pool.WithDedicatedThreads())
	}
	if c.PinCPUs {
		opts = append(opts, pool.WithCPUPinning())
	}
	if c.Drain {
		opts = append(opts, pool.WithDrainOnShutdown())
	}
	if c.RateLimit > 0 {
		opts = append(opts, pool.WithRateLimit(c.RateLimit, c.Burst))
	}
	return opts
}
