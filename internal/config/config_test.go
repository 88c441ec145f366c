package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/napolitain/boss-solver/internal/solver/battle"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ServerAddress != ":8080" {
		t.Errorf("ServerAddress = %q", cfg.ServerAddress)
	}
	if cfg.MaxIterations != battle.DefaultMaxIterations {
		t.Errorf("MaxIterations = %d", cfg.MaxIterations)
	}
	if cfg.Timeout != 0 || cfg.Heuristic != "weighted" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
server:
  address: "127.0.0.1:9000"
solver:
  max_iterations: 5000
  timeout: 750ms
  heuristic: admissible
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.ServerAddress != "127.0.0.1:9000" {
		t.Errorf("ServerAddress = %q", cfg.ServerAddress)
	}
	if cfg.MaxIterations != 5000 {
		t.Errorf("MaxIterations = %d", cfg.MaxIterations)
	}
	if cfg.Timeout != 750*time.Millisecond {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}

	sc := cfg.SolverConfig()
	if sc.Estimator.Name() != "admissible" || sc.MaxIterations != 5000 || sc.Timeout != 750*time.Millisecond {
		t.Errorf("SolverConfig = %+v", sc)
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("solver:\n  timeout: 2s\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.ServerAddress != DefaultAddress || cfg.MaxIterations != battle.DefaultMaxIterations {
		t.Errorf("unset keys should keep defaults, got %+v", cfg)
	}
	if cfg.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "server: [unterminated"},
		{"negative iterations", "solver:\n  max_iterations: -3\n"},
		{"bad timeout", "solver:\n  timeout: soon\n"},
		{"negative timeout", "solver:\n  timeout: -1s\n"},
		{"unknown heuristic", "solver:\n  heuristic: oracle\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.data)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAddress:       ":7000",
		EnvMaxIterations: "42",
		EnvTimeout:       "1s",
		EnvHeuristic:     "max",
	}
	cfg := Default()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.ServerAddress != ":7000" || cfg.MaxIterations != 42 || cfg.Timeout != time.Second || cfg.Heuristic != "max" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	bad := []map[string]string{
		{EnvMaxIterations: "many"},
		{EnvMaxIterations: "-1"},
		{EnvTimeout: "later"},
		{EnvHeuristic: "guess"},
	}
	for _, e := range bad {
		cfg := Default()
		if err := cfg.ApplyEnv(func(k string) string { return e[k] }); err == nil {
			t.Errorf("ApplyEnv(%v) should fail", e)
		}
	}
}

func TestLoadFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	if err := os.WriteFile(path, []byte("solver:\n  max_iterations: 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvAddress, ":6000")
	t.Setenv(EnvMaxIterations, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvHeuristic, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxIterations != 99 {
		t.Errorf("MaxIterations = %d, want 99 from file", cfg.MaxIterations)
	}
	if cfg.ServerAddress != ":6000" {
		t.Errorf("ServerAddress = %q, want env override", cfg.ServerAddress)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Error("Load should fail when the configured file is missing")
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvAddress, "")
	t.Setenv(EnvMaxIterations, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvHeuristic, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without a config file should use defaults: %v", err)
	}
	if cfg.MaxIterations != battle.DefaultMaxIterations {
		t.Errorf("MaxIterations = %d", cfg.MaxIterations)
	}
}
