package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-checklist-api/internal/app"
	"go-checklist-api/internal/config"
	"go-checklist-api/internal/logger"
)

func main() {
	slog.SetDefault(logger.New(os.Stderr, slog.LevelInfo, "pretty"))

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "checklist-api",
		Short:         "Checklist management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			slog.SetDefault(logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel), cfg.LogFormat))
			return nil
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run(ctx)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.StorageDriver != config.StorageDriverPostgres {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
			}

			db, err := app.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return db.EnsureSchema(cmd.Context())
		},
	}

	root.AddCommand(serve, migrate, newRoutesCmd(&cfg))
	root.RunE = serve.RunE
	return root
}
