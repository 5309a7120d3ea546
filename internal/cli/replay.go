package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"buckshot-lite/internal/console"
	"buckshot-lite/internal/ledger"
	"buckshot-lite/replay"
	"buckshot-lite/roulette"
)

func (a *app) replayCommand() *cobra.Command {
	var (
		tapeFile string
		pacing   float64
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "replay [match-id]",
		Short: "Re-run a recorded match and print its narration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.loadTape(cmd, args, tapeFile)
			if err != nil {
				return err
			}
			tape, err := replay.Decode(data)
			if err != nil {
				return err
			}
			res, err := replay.Run(tape)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "Replaying match %s (seed %d, %d actions)\n", tape.MatchID, tape.Seed, len(tape.Actions))
			renderer := console.NewRenderer(out, pacing)
			for _, batch := range batchesByStep(res.Events) {
				renderer.OnEvents(cmd.Context(), tape.MatchID, batch, res.Final)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&tapeFile, "tape", "", "read the tape from a JSON file instead of the ledger")
	f.Float64Var(&pacing, "pacing", 0, "scale for presentation delays")
	f.BoolVar(&asJSON, "json", false, "print the replayed events as JSON")
	return cmd
}

func (a *app) loadTape(cmd *cobra.Command, args []string, tapeFile string) ([]byte, error) {
	if tapeFile != "" {
		data, err := os.ReadFile(tapeFile)
		if err != nil {
			return nil, fmt.Errorf("read tape: %w", err)
		}
		return data, nil
	}
	if len(args) == 0 {
		return nil, errors.New("need a match id or --tape")
	}

	store, err := a.openLedger()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	rec, err := store.GetMatch(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("match %s not found", args[0])
		}
		return nil, fmt.Errorf("load match: %w", err)
	}
	return rec.Tape, nil
}

// batchesByStep regroups replayed events into the batches Start and Act
// originally returned.
func batchesByStep(events []replay.ReplayEvent) [][]roulette.Event {
	var (
		batches [][]roulette.Event
		step    = -2
	)
	for _, e := range events {
		if e.Step != step || len(batches) == 0 {
			batches = append(batches, nil)
			step = e.Step
		}
		batches[len(batches)-1] = append(batches[len(batches)-1], e.Event)
	}
	return batches
}
