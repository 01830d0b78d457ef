// @title Piiquante API
// @version 1.0
// @description Hot sauce catalogue with owner-only edits and per-user likes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "piiquante",
		Short:         "Run the Piiquante sauces API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return migrate(cmd.Context(), cfg, log)
		},
	})

	return cmd
}

func setup() (config.Config, *zap.Logger, error) {
	cfg := config.Load()

	log, err := newLogger(cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("create logger: %w", err)
	}
	if cfg.EnvFileLoaded {
		log.Info("Loaded environment file", zap.String("file", cfg.EnvFile))
	} else {
		log.Info("No environment file found", zap.String("file", cfg.EnvFile))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, log, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, log, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
