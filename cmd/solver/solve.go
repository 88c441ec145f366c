package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/boss-solver/internal/converter"
	"github.com/napolitain/boss-solver/internal/logging"
	"github.com/napolitain/boss-solver/internal/models"
	"github.com/napolitain/boss-solver/internal/solver/battle"
	"github.com/napolitain/boss-solver/internal/watch"
)

func newSolveCmd(opts *options) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the minimum-turn action sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.solverConfig(cmd)
			if err != nil {
				return err
			}
			if watchFile {
				if opts.encounterFile == "" {
					return errors.New("--watch requires --file")
				}
				return watchAndSolve(cmd.Context(), cmd.OutOrStdout(), opts, cfg)
			}

			enc, err := opts.loadEncounter()
			if err != nil {
				return err
			}
			return runSolve(cmd.Context(), cmd.OutOrStdout(), opts, enc, cfg)
		},
	}
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Re-solve whenever the encounter file changes")
	return cmd
}

func runSolve(ctx context.Context, w io.Writer, opts *options, enc *models.Encounter, cfg battle.Config) error {
	res, err := battle.NewSolverWithConfig(cfg).Solve(ctx, enc)

	if opts.jsonOutput {
		resp := converter.FromResult(res)
		if err != nil {
			resp = converter.ErrorResponse(res, err)
		}
		out := json.NewEncoder(w)
		out.SetIndent("", "  ")
		if encErr := out.Encode(resp); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		return err
	}

	if opts.quiet {
		fmt.Fprintln(w, formatCodes(res.Codes()))
		return nil
	}

	printHeader(w, "Boss Battle Planner")
	printEncounter(w, enc)
	printTurnLog(w, res.Sequence)
	printResultSummary(w, enc, res)
	return nil
}

func watchAndSolve(ctx context.Context, w io.Writer, opts *options, cfg battle.Config) error {
	watcher, err := watch.NewWatcher(opts.encounterFile)
	if err != nil {
		return err
	}
	defer watcher.Close()

	solveOnce := func() {
		enc, err := opts.loadEncounter()
		if err != nil {
			logging.Error("failed to load encounter", err, logging.Fields{"file": opts.encounterFile})
			return
		}
		if err := runSolve(ctx, w, opts, enc, cfg); err != nil {
			logging.Error("solve failed", err, logging.Fields{"file": opts.encounterFile})
		}
	}

	logging.Info("watching encounter file", logging.Fields{"file": opts.encounterFile})
	solveOnce()
	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logging.Info("encounter changed", logging.Fields{"file": path})
			solveOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("watch error", err, nil)
		case <-ctx.Done():
			return nil
		}
	}
}

func printResultSummary(w io.Writer, enc *models.Encounter, res *battle.Result) {
	successColor := color.New(color.FgGreen, color.Bold)
	warnColor := color.New(color.FgYellow)

	fmt.Fprintln(w)
	successColor.Fprintf(w, "✓ Defeated %d enemies in %d turns\n", len(enc.EnemyHP), res.Turns)
	if !res.Complete {
		warnColor.Fprintf(w, "⚠ Search stopped early (%s); the plan may not be the shortest\n", res.Status)
	}
	fmt.Fprintf(w, "   Sequence: [%s]\n", formatCodes(res.Codes()))
	fmt.Fprintf(w, "   Heuristic: %s, iterations: %d, expanded: %d, generated: %d, time: %s\n",
		res.Estimator, res.Iterations, res.Expanded, res.Generated, res.Elapsed.Round(time.Microsecond))
}

func formatCodes(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ", ")
}
