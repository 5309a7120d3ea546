package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"buckshot-lite/internal/console"
	"buckshot-lite/roulette/npc"
)

func (a *app) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently finished matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list matches: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches recorded yet.")
				return nil
			}
			console.RenderHistory(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of matches to show (default ledger.recent_limit)")
	return cmd
}

func (a *app) personasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List available NPC personas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := npc.NewDefaultRegistry()
			if a.cfg.PersonasFile != "" {
				if err := registry.LoadFromFile(a.cfg.PersonasFile); err != nil {
					return fmt.Errorf("load personas: %w", err)
				}
			}
			console.RenderPersonas(cmd.OutOrStdout(), registry.All())
			return nil
		},
	}
}
