package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/boss-solver/internal/converter"
	"github.com/napolitain/boss-solver/internal/solver/battle"
)

type comparison struct {
	Estimator string                  `json:"estimator"`
	Response  converter.SolveResponse `json:"result"`
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Solve with every heuristic and compare plans",
		Long: `Runs the weighted heuristic and the admissible max-damage heuristic on the
same encounter. The admissible run proves the true minimum when it completes,
so a longer weighted plan shows where the default heuristic overshoots.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := opts.loadEncounter()
			if err != nil {
				return err
			}
			base, err := opts.solverConfig(cmd)
			if err != nil {
				return err
			}

			estimators := []battle.Estimator{battle.WeightedDamage{}, battle.MaxDamage{}}
			var results []comparison
			for _, est := range estimators {
				cfg := base
				cfg.Estimator = est
				res, err := battle.NewSolverWithConfig(cfg).Solve(cmd.Context(), enc)
				resp := converter.FromResult(res)
				if err != nil {
					resp = converter.ErrorResponse(res, err)
				}
				results = append(results, comparison{Estimator: est.Name(), Response: resp})
			}

			w := cmd.OutOrStdout()
			if opts.jsonOutput {
				out := json.NewEncoder(w)
				out.SetIndent("", "  ")
				return out.Encode(results)
			}

			if !opts.quiet {
				printHeader(w, "Heuristic Comparison")
			}
			table := tablewriter.NewTable(w,
				tablewriter.WithHeader([]string{"Heuristic", "Turns", "Status", "Iterations", "Sequence"}),
			)
			for _, c := range results {
				turns := fmt.Sprintf("%d", c.Response.Turns)
				if c.Response.Error != "" {
					turns = "-"
				}
				_ = table.Append([]string{
					c.Estimator,
					turns,
					c.Response.Status,
					fmt.Sprintf("%d", c.Response.Iterations),
					formatCodes(c.Response.Sequence),
				})
			}
			_ = table.Render()

			weighted, admissible := results[0].Response, results[1].Response
			if weighted.Error == "" && admissible.Error == "" && admissible.Complete && weighted.Turns > admissible.Turns {
				color.New(color.FgYellow).Fprintf(w, "\n⚠ weighted plan is %d turn(s) longer than the proven minimum\n",
					weighted.Turns-admissible.Turns)
			}
			return nil
		},
	}
}
