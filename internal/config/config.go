// Package config loads the planner's YAML configuration and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/boss-solver/internal/solver/battle"
)

// Environment variables read by Load
const (
	EnvConfigPath    = "BOSS_SOLVER_CONFIG"
	EnvAddress       = "BOSS_SOLVER_ADDR"
	EnvMaxIterations = "BOSS_SOLVER_MAX_ITERATIONS"
	EnvTimeout       = "BOSS_SOLVER_TIMEOUT"
	EnvHeuristic     = "BOSS_SOLVER_HEURISTIC"
)

// DefaultPath is used when BOSS_SOLVER_CONFIG is unset. A missing file at the
// default path is not an error.
const DefaultPath = "./boss_solver.yaml"

// DefaultAddress is the HTTP listen address when none is configured
const DefaultAddress = ":8080"

type rawConfig struct {
	Server *struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Solver *struct {
		MaxIterations int    `yaml:"max_iterations"`
		Timeout       string `yaml:"timeout"`
		Heuristic     string `yaml:"heuristic"`
	} `yaml:"solver"`
}

// Config is the resolved configuration
type Config struct {
	ServerAddress string
	MaxIterations int
	Timeout       time.Duration
	Heuristic     string
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	return &Config{
		ServerAddress: DefaultAddress,
		MaxIterations: battle.DefaultMaxIterations,
		Heuristic:     battle.WeightedDamage{}.Name(),
	}
}

// Load resolves the config path from BOSS_SOLVER_CONFIG (or DefaultPath),
// reads it when present, then applies environment overrides.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg, err := LoadFile(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the YAML configuration at path over the defaults
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration document over the defaults
func Parse(data []byte) (*Config, error) {
	var rc rawConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, err
	}

	cfg := Default()
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.Solver != nil {
		if rc.Solver.MaxIterations < 0 {
			return nil, fmt.Errorf("solver.max_iterations must not be negative, got %d", rc.Solver.MaxIterations)
		}
		if rc.Solver.MaxIterations > 0 {
			cfg.MaxIterations = rc.Solver.MaxIterations
		}
		if rc.Solver.Timeout != "" {
			d, err := parseTimeout(rc.Solver.Timeout)
			if err != nil {
				return nil, fmt.Errorf("solver.timeout: %w", err)
			}
			cfg.Timeout = d
		}
		if rc.Solver.Heuristic != "" {
			cfg.Heuristic = rc.Solver.Heuristic
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvAddress); v != "" {
		c.ServerAddress = v
	}
	if v := getenv(EnvMaxIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: invalid iteration count %q", EnvMaxIterations, v)
		}
		if n > 0 {
			c.MaxIterations = n
		}
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := getenv(EnvHeuristic); v != "" {
		c.Heuristic = v
	}
	return c.Validate()
}

// Validate checks that the heuristic name is known
func (c *Config) Validate() error {
	_, err := battle.EstimatorByName(c.Heuristic)
	return err
}

// SolverConfig converts to the search configuration
func (c *Config) SolverConfig() battle.Config {
	est, err := battle.EstimatorByName(c.Heuristic)
	if err != nil {
		est = battle.WeightedDamage{}
	}
	return battle.Config{
		MaxIterations: c.MaxIterations,
		Timeout:       c.Timeout,
		Estimator:     est,
	}
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
