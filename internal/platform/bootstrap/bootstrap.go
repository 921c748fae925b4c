// Package bootstrap assembles the collaborators shared by the API, the CLI and the worker.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	portsrepo "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/core/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/observability"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/cache"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/config"
	statementcache "github.com/SscSPs/lawfirm_ledger_app/internal/repositories/cache"
	"github.com/SscSPs/lawfirm_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/lawfirm_ledger_app/pkg/database"
)

// NewLogger builds the process logger: JSON in production, text otherwise.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// OpenServices connects to PostgreSQL (and Redis when configured) and builds the service container.
// The returned func releases every connection.
func OpenServices(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*portssvc.ServiceContainer, func(), error) {
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	closers := []func(){func() { database.ClosePgxPool(dbPool) }}
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var stmtCache portsrepo.StatementCache
	if cfg.RedisAddr != "" {
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			// The cache is an optimization; run without it.
			logger.Warn("Statement cache disabled", slog.String("redis_addr", cfg.RedisAddr), slog.String("error", err.Error()))
		} else {
			closers = append(closers, func() { _ = client.Close() })
			stmtCache = statementcache.NewRedisStatementCache(client, cfg.StatementCacheTTL)
			logger.Info("Statement cache enabled", slog.String("redis_addr", cfg.RedisAddr), slog.Duration("ttl", cfg.StatementCacheTTL))
		}
	}

	repos := &portsrepo.RepositoryProvider{TxManager: pgsql.NewStore(dbPool)}
	return services.NewServiceContainer(cfg.Accounting, repos, stmtCache, metrics), release, nil
}

// RedisOpts returns the asynq connection options, or false when REDIS_ADDR is unset.
func RedisOpts(cfg *config.Config) (asynq.RedisClientOpt, bool) {
	if cfg.RedisAddr == "" {
		return asynq.RedisClientOpt{}, false
	}
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr}, true
}
