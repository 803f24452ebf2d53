package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/tradewind-bv/tradewind/internal/analytics"
	"github.com/tradewind-bv/tradewind/internal/app"
	jobmetrics "github.com/tradewind-bv/tradewind/internal/jobs"
	"github.com/tradewind-bv/tradewind/internal/platform/cache"
	"github.com/tradewind-bv/tradewind/internal/platform/db"
	"github.com/tradewind-bv/tradewind/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, usedFallback, err := db.NewWithFallback(ctx, cfg.PGDSN, cfg.PGDSNFallback)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()
	if usedFallback {
		logger.Warn("primary database unreachable, running on fallback DSN")
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, continuing degraded", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportCache := analytics.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := analytics.NewService(analytics.NewRepository(dbpool), reportCache, analytics.Options{
		MinClosedMonth: cfg.ForecastMinClosedMonth,
		SmoothingAlpha: cfg.ForecastSmoothingAlpha,
		DefaultMethod:  cfg.ForecastDefaultMethod,
	})

	warmupJob := jobs.NewReportWarmupJob(reportService, logger, jobmetrics.NewMetrics(nil))

	// Nightly warmup keeps the report cache hot before the morning traffic.
	warmupTask, err := jobs.NewReportWarmupTask(jobs.ReportWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
