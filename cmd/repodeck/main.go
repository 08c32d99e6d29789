package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"repodeck/internal/api"
	"repodeck/internal/config"
)

const (
	flagConfigDir = "config-dir"
	flagAPIURL    = "api-url"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repodeck [sub-command]",
		Short: "List, create, like and remove repositories of a remote API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String(flagConfigDir, "./configs", "directory holding config.yaml")
	cmd.PersistentFlags().String(flagAPIURL, "", "base url of the repositories API (overrides API_BASE_URL)")

	cmd.AddCommand(newBotCmd())
	cmd.AddCommand(newConsoleCmd())
	return cmd
}

// loadConfig reads .env, the config file and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	dir, _ := cmd.Flags().GetString(flagConfigDir)
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return config.Config{}, err
	}
	if apiURL, _ := cmd.Flags().GetString(flagAPIURL); apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newAPIClient(cfg config.Config, log logrus.FieldLogger) (*api.HTTPClient, error) {
	client, err := api.NewHTTPClient(cfg.APIBaseURL, cfg.APITimeout, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	return client, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
