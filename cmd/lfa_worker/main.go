package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/lawfirm_ledger_app/internal/jobs"
	"github.com/SscSPs/lawfirm_ledger_app/internal/observability"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/bootstrap"
	"github.com/SscSPs/lawfirm_ledger_app/internal/platform/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := bootstrap.NewLogger(cfg)
	slog.SetDefault(logger)

	redisOpts, ok := bootstrap.RedisOpts(cfg)
	if !ok {
		logger.Error("REDIS_ADDR is required by the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	container, release, err := bootstrap.OpenServices(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer release()

	integrity := jobs.NewLedgerIntegrityJob(container.Ledger, logger, metrics)
	generate := jobs.NewPendingGenerateJob(container.PendingPayments, logger)

	var cron []jobs.CronRegistration
	if cfg.IntegrityCron != "" {
		task, err := jobs.NewLedgerIntegrityTask(false)
		if err != nil {
			logger.Error("Failed to build integrity task", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{Spec: cfg.IntegrityCron, Task: task})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Concurrency: cfg.WorkerConcurrency,
		Logger:      logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerIntegrity, Handler: integrity.Handle},
			{Type: jobs.TaskPendingGenerate, Handler: generate.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("Failed to build worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
