package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"buckshot-lite/internal/console"
	"buckshot-lite/internal/gateway"
	"buckshot-lite/internal/ledger"
	"buckshot-lite/internal/match"
	"buckshot-lite/roulette"
	"buckshot-lite/roulette/npc"
)

func (a *app) playCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a match against an NPC or a second human",
		Long: `Play one match. On your turn enter -1 to shoot yourself, 0 to shoot
your opponent, or the number of an item to use it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlay(cmd)
		},
	}
	f := cmd.Flags()
	f.String("preset", "normal", "starting health: easy (2), normal (4) or hard (6)")
	f.Int64("seed", 0, "game seed, 0 picks one from the clock")
	f.String("name", "player", "your name")
	f.String("opponent", "npc", "npc or human")
	f.String("opponent-name", "", "opponent name (defaults to the persona name)")
	f.String("persona", "", "NPC persona id")
	f.String("personas-file", "", "extra personas, .json or .yaml")
	f.Float64("pacing", 1, "scale for presentation delays, 0 disables them")
	f.String("spectate", "", "serve the spectator feed on this address, e.g. :8080")
	a.bind(f, map[string]string{
		"preset":        "preset",
		"seed":          "seed",
		"name":          "name",
		"opponent":      "opponent",
		"opponent_name": "opponent-name",
		"persona":       "persona",
		"personas_file": "personas-file",
		"pacing":        "pacing",
		"spectate":      "spectate",
	})
	return cmd
}

func (a *app) runPlay(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	out := cmd.OutOrStdout()
	cfg := a.cfg

	store, err := a.openLedger()
	if err != nil {
		return err
	}
	defer store.Close()

	registry := npc.NewDefaultRegistry()
	if cfg.PersonasFile != "" {
		if err := registry.LoadFromFile(cfg.PersonasFile); err != nil {
			return fmt.Errorf("load personas: %w", err)
		}
	}
	manager := npc.NewManager(registry, cfg.Seed, a.log)

	prompter, closePrompter, err := a.prompter()
	if err != nil {
		return err
	}
	defer closePrompter()
	human := console.NewHumanController(prompter, out)

	opts := match.Options{
		Game:   roulette.DefaultConfig(),
		Ledger: store,
		Logger: a.log,
	}
	opts.Game.Preset = cfg.GamePreset()
	opts.Game.Seed = cfg.Seed
	opts.Seats[0] = roulette.ContestantSpec{Name: cfg.Name}
	opts.Controllers[0] = human

	if strings.EqualFold(cfg.Opponent, "human") {
		opts.Seats[1] = roulette.ContestantSpec{Name: cfg.OpponentName}
		opts.Controllers[1] = human
	} else {
		inst, err := manager.Spawn(1, cfg.Persona)
		if err != nil {
			return err
		}
		name := cfg.OpponentName
		if name == "" {
			name = inst.Persona.Name
		}
		opts.Seats[1] = roulette.ContestantSpec{Name: name, Robot: true}
		opts.Controllers[1] = match.NewNPCController(manager, inst, cfg.Pacing)
	}
	opts.Sinks = []match.Sink{console.NewRenderer(out, cfg.Pacing)}

	if cfg.Spectate != "" {
		gw := gateway.New(a.log)
		opts.Sinks = append(opts.Sinks, match.SinkFunc(
			func(_ context.Context, matchID string, events []roulette.Event, snap roulette.Snapshot) {
				gw.Publish(matchID, events, snap)
			}))
		handler := gw.Handler(ledger.NewHTTPHandler(store).RegisterRoutes)

		serveCtx, cancelServe := context.WithCancel(ctx)
		served := make(chan error, 1)
		go func() { served <- gw.Serve(serveCtx, cfg.Spectate, handler) }()
		defer func() {
			cancelServe()
			if err := <-served; err != nil {
				a.log.WithError(err).Warn("spectator feed stopped")
			}
		}()
	}

	runner, err := match.New(opts)
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, console.ErrQuit) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(out, "\nMatch abandoned.")
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "\nMatch %s: %s wins after %d rounds and %d actions\n",
		res.MatchID, res.WinnerName, res.Rounds, res.Actions)
	return nil
}
