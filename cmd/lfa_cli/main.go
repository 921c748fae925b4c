package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/lawfirm_ledger_app/internal/commands"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/jobs"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/bootstrap"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/config"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/migrations"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	logger := bootstrap.NewLogger(cfg)
	slog.SetDefault(logger)

	deps := commands.Deps{
		Logger: logger,
		Services: func(ctx context.Context) (*portssvc.ServiceContainer, func(), error) {
			return bootstrap.OpenServices(ctx, cfg, logger, nil)
		},
		Migrate: func(_ context.Context, dir migrations.Direction) error {
			return migrations.Run(logger, cfg.DatabaseURL, cfg.MigrationsPath, dir)
		},
		ChartFile:       cfg.ChartFile,
		TaxBracketsFile: cfg.TaxBracketsFile,
	}
	if opts, ok := bootstrap.RedisOpts(cfg); ok {
		deps.Queue = func() (commands.Queue, func(), error) {
			client := jobs.NewClient(opts)
			return client, func() { _ = client.Close() }, nil
		}
	}

	if err := commands.NewRootCommand(deps).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
