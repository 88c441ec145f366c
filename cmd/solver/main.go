package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/napolitain/boss-solver/internal/config"
	"github.com/napolitain/boss-solver/internal/loader"
	"github.com/napolitain/boss-solver/internal/models"
	"github.com/napolitain/boss-solver/internal/solver/battle"
	"github.com/napolitain/boss-solver/internal/version"
)

type options struct {
	encounterFile string
	enemies       string
	abilities     string
	configFile    string
	maxIterations int
	timeout       time.Duration
	heuristic     string
	jsonOutput    bool
	quiet         bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "solver",
		Short: "Boss battle turn planner",
		Long: `Plans the shortest sequence of ability casts that defeats a line of
enemies in order, respecting ability cooldowns.

An encounter comes from a YAML/JSON file (--file) or from inline lists:
  solver solve --enemies 30,50,40 --abilities 20:2,9:1,32:3`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.encounterFile, "file", "f", "", "Path to encounter file (.yaml, .yml or .json)")
	pf.StringVarP(&opts.enemies, "enemies", "e", "", "Comma-separated enemy HP list, e.g. 30,50,40")
	pf.StringVarP(&opts.abilities, "abilities", "a", "", "Comma-separated damage:cooldown list, e.g. 20:2,9:1")
	pf.StringVarP(&opts.configFile, "config", "c", "", "Path to YAML config file (default $BOSS_SOLVER_CONFIG)")
	pf.IntVar(&opts.maxIterations, "max-iterations", battle.DefaultMaxIterations, "Maximum search iterations")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Wall-clock limit for a search, e.g. 2s (0 disables)")
	pf.StringVar(&opts.heuristic, "heuristic", "weighted", "Search heuristic: weighted or admissible")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Print machine-readable JSON")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		newSolveCmd(opts),
		newReplayCmd(opts),
		newCompareCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadEncounter reads the encounter from --file or the inline list flags
func (o *options) loadEncounter() (*models.Encounter, error) {
	if o.encounterFile != "" {
		if o.enemies != "" || o.abilities != "" {
			return nil, errors.New("use either --file or --enemies/--abilities, not both")
		}
		return loader.LoadEncounter(o.encounterFile)
	}
	if o.enemies == "" || o.abilities == "" {
		return nil, errors.New("an encounter is required: pass --file, or both --enemies and --abilities")
	}

	hp, err := loader.ParseEnemies(o.enemies)
	if err != nil {
		return nil, err
	}
	specs, err := loader.ParseAbilities(o.abilities)
	if err != nil {
		return nil, err
	}
	enc := models.NewEncounter(hp, specs)
	enc.Name = "inline"
	return enc, nil
}

// solverConfig layers explicitly set flags over the config file and environment
func (o *options) solverConfig(cmd *cobra.Command) (battle.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(o.configFile)
		if err == nil {
			err = cfg.ApplyEnv(os.Getenv)
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return battle.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-iterations") {
		if o.maxIterations <= 0 {
			return battle.Config{}, fmt.Errorf("--max-iterations must be positive, got %d", o.maxIterations)
		}
		cfg.MaxIterations = o.maxIterations
	}
	if flags.Changed("timeout") {
		if o.timeout < 0 {
			return battle.Config{}, fmt.Errorf("--timeout must not be negative, got %s", o.timeout)
		}
		cfg.Timeout = o.timeout
	}
	if flags.Changed("heuristic") {
		cfg.Heuristic = o.heuristic
	}
	if err := cfg.Validate(); err != nil {
		return battle.Config{}, err
	}
	return cfg.SolverConfig(), nil
}
