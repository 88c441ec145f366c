package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/napolitain/boss-solver/internal/loader"
	"github.com/napolitain/boss-solver/internal/models"
	"github.com/napolitain/boss-solver/internal/solver/battle"
)

func newReplayCmd(opts *options) *cobra.Command {
	var sequence string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-simulate a sequence and show the HP timeline",
		Long: `Replays an action sequence against the encounter turn by turn.
Without --sequence the encounter is solved first and the plan is replayed.

  solver replay -e 30,50,40 -a 20:2,9:1,32:3 --sequence 2,0,1,w,0,1,2,0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := opts.loadEncounter()
			if err != nil {
				return err
			}

			var seq []models.Action
			if sequence != "" {
				seq, err = loader.ParseSequence(sequence)
				if err != nil {
					return err
				}
			} else {
				cfg, err := opts.solverConfig(cmd)
				if err != nil {
					return err
				}
				res, err := battle.NewSolverWithConfig(cfg).Solve(cmd.Context(), enc)
				if err != nil {
					return err
				}
				seq = res.Sequence
			}

			w := cmd.OutOrStdout()
			states, replayErr := battle.Replay(enc, seq)
			if errors.Is(replayErr, battle.ErrInvalidInput) {
				return replayErr
			}

			if !opts.quiet {
				printHeader(w, "Battle Replay")
			}
			printTimeline(w, enc, seq, states)
			if replayErr != nil {
				return fmt.Errorf("replay stopped: %w", replayErr)
			}
			if err := battle.Verify(enc, seq); err != nil {
				return fmt.Errorf("sequence does not win: %w", err)
			}
			if !opts.quiet {
				fmt.Fprintf(w, "\n✓ Victory in %d turns\n", len(seq))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sequence, "sequence", "s", "", "Comma-separated actions: ability index, or -1/w/wait")
	return cmd
}
