package main

import (
	"os"

	"github.com/spf13/cobra"

	"repodeck/internal/console"
	"repodeck/internal/view"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the repository screen in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runConsole,
	}
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	client, err := newAPIClient(cfg, log)
	if err != nil {
		return err
	}
	screen := view.NewScreen(client, view.NewLogReporter(log), log)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return console.New(screen, os.Stdin, cmd.OutOrStdout(), log).Run(ctx)
}
