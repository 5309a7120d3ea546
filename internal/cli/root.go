// Package cli wires the buckshot command tree.
package cli

import (
	"fmt"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"buckshot-lite/internal/config"
	"buckshot-lite/internal/console"
	"buckshot-lite/internal/ledger"
	"buckshot-lite/internal/logging"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	envFile string
	cfg     config.Config
	log     *logrus.Logger

	// prompter opens the line reader used by human seats.
	prompter func() (console.Prompter, func(), error)
}

func newApp() *app {
	return &app{v: config.New(), prompter: openLiner}
}

func openLiner() (console.Prompter, func(), error) {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line, func() { _ = line.Close() }, nil
}

// NewRootCommand builds the buckshot command tree.
func NewRootCommand() *cobra.Command {
	return newApp().rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "buckshot",
		Short:        "Two-seat buckshot roulette for the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./buckshot.yaml)")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file (default .env)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("ledger", "sqlite", "match ledger: off, memory, sqlite or postgres")
	pf.String("ledger-path", "", "sqlite database path")
	pf.String("ledger-dsn", "", "postgres connection string")
	a.bind(pf, map[string]string{
		"log_level":   "log-level",
		"ledger.mode": "ledger",
		"ledger.path": "ledger-path",
		"ledger.dsn":  "ledger-dsn",
	})

	root.AddCommand(
		a.playCommand(),
		a.historyCommand(),
		a.replayCommand(),
		a.personasCommand(),
		versionCommand(),
	)
	return root
}

func (a *app) bind(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile, a.envFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) openLedger() (ledger.Service, error) {
	svc, label, err := ledger.NewService(ledger.Options{
		Mode:        a.cfg.Ledger.Mode,
		DSN:         a.cfg.Ledger.DSN,
		Path:        a.cfg.Ledger.Path,
		RecentLimit: a.cfg.Ledger.RecentLimit,
		Logger:      a.log,
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	a.log.WithField("mode", label).Debug("ledger ready")
	return svc, nil
}
