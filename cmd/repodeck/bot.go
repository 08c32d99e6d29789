package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"repodeck/internal/bot"
	"repodeck/internal/scraper"
	"repodeck/internal/storage"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Serve the repository screen as a Telegram bot",
		Args:  cobra.NoArgs,
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	// --- Configuration Loading ---
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireBot(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// --- Logger Setup ---
	log := newLogger(cfg)
	log.WithFields(logrus.Fields{
		"api_base_url":  cfg.APIBaseURL,
		"badgerdb_path": cfg.BadgerDBPath,
	}).Info("Configuration loaded successfully")

	// --- Initialize Components ---
	client, err := newAPIClient(cfg, log)
	if err != nil {
		return err
	}

	drafts, err := storage.NewBadgerDraftStore(cfg.BadgerDBPath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize draft store: %w", err)
	}
	defer func() {
		if err := drafts.Close(); err != nil {
			log.WithError(err).Error("Error closing draft store")
		}
	}()

	titles := scraper.NewRodTitleFetcher(log)

	handler, err := bot.NewHandler(cfg, client, drafts, titles, log)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot handler: %w", err)
	}

	// --- Run until interrupted ---
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	log.Info("repodeck bot is running. Press Ctrl+C to exit.")
	handler.Start(ctx)

	log.Info("repodeck bot shut down gracefully.")
	return nil
}
