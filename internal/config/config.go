// Package config holds the run configuration for cmd/aircargo.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/aircargo/internal/search"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "AIRCARGO_CONFIG"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the run configuration.
type Config struct {
	// Instances are built-in names or instance file paths.
	Instances []string         `yaml:"instances"`
	Searchers []SearcherConfig `yaml:"searchers"`

	MaxExpansions int    `yaml:"max_expansions"` // 0 means unlimited
	Parallelism   int    `yaml:"parallelism"`
	Timeout       string `yaml:"timeout"` // per run, e.g. "30s"; empty means none

	Logging LoggingConfig `yaml:"logging"`
}

// SearcherConfig selects one search algorithm.
type SearcherConfig struct {
	Name      string `yaml:"name"`
	Heuristic string `yaml:"heuristic,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file is given: every
// built-in instance against the standard searcher line-up.
func DefaultConfig() *Config {
	return &Config{
		Instances: []string{"air_cargo_p1", "air_cargo_p2", "air_cargo_p3"},
		Searchers: []SearcherConfig{
			{Name: search.NameBreadthFirst},
			{Name: search.NameDepthFirst},
			{Name: search.NameUniformCost},
			{Name: search.NameGreedy, Heuristic: "h_1"},
			{Name: search.NameAStar, Heuristic: "h_1"},
			{Name: search.NameAStar, Heuristic: "h_ignore_preconditions"},
			{Name: search.NameAStar, Heuristic: "h_pg_levelsum"},
		},
		MaxExpansions: 0,
		Parallelism:   4,
		Timeout:       "5m",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file over the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// FromEnv loads the file named by AIRCARGO_CONFIG, or returns the defaults
// when the variable is unset.
func FromEnv() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var err error
	fail := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if len(c.Instances) == 0 {
		fail("no instances")
	}
	if len(c.Searchers) == 0 {
		fail("no searchers")
	}
	for i, s := range c.Searchers {
		if _, serr := search.New(s.Name, s.Heuristic, search.Options{}); serr != nil {
			fail("searchers[%d]: %v", i, serr)
		}
		if s.Heuristic != "" && !search.NeedsHeuristic(s.Name) {
			fail("searchers[%d]: %s takes no heuristic", i, s.Name)
		}
	}
	if c.MaxExpansions < 0 {
		fail("max_expansions %d is negative", c.MaxExpansions)
	}
	if c.Parallelism < 1 {
		fail("parallelism %d must be at least 1", c.Parallelism)
	}
	if c.Timeout != "" {
		if d, perr := time.ParseDuration(c.Timeout); perr != nil || d <= 0 {
			fail("timeout %q is not a positive duration", c.Timeout)
		}
	}
	if _, lerr := zapcore.ParseLevel(c.Logging.Level); lerr != nil {
		fail("logging level %q", c.Logging.Level)
	}
	return err
}

// GetTimeout returns the per-run timeout, or 0 for none.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// SearchOptions returns the options shared by every searcher of a run.
func (c *Config) SearchOptions(logger *zap.Logger) search.Options {
	return search.Options{MaxExpansions: c.MaxExpansions, Logger: logger}
}

// NewLogger builds the zap logger described by c.
func (c *LoggingConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: logging level %q", ErrInvalid, c.Level)
	}

	config := zap.NewProductionConfig()
	if c.Development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
