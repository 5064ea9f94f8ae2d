package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fulfilment-app/fulfilment/internal/app"
	"github.com/fulfilment-app/fulfilment/internal/platform/db"
	"github.com/fulfilment-app/fulfilment/internal/shared"
	"github.com/fulfilment-app/fulfilment/internal/stores"
	"github.com/fulfilment-app/fulfilment/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	gateway := stores.NewLegacyGateway(cfg.LegacyStoreManagerURL)
	if cfg.LegacyStoreManagerURL == "" {
		logger.Info("legacy store manager url not set, sync tasks are no-ops")
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	cleanupJob := jobs.NewAuditCleanupJob(shared.NewAuditLogger(pool), logger)
	cleanupTask, err := jobs.NewAuditCleanupTask(jobs.DefaultAuditRetentionDays)
	if err != nil {
		logger.Error("build audit cleanup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Gateway:   gateway,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeAuditCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: cleanupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
