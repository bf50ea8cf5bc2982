package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/prazodigital/prazos-backend/internal/accounts"
	"github.com/prazodigital/prazos-backend/internal/cron"
	"github.com/prazodigital/prazos-backend/internal/notifications"
	"github.com/prazodigital/prazos-backend/internal/protocols"
	"github.com/prazodigital/prazos-backend/internal/registry"
	"github.com/prazodigital/prazos-backend/internal/scan"
	"github.com/prazodigital/prazos-backend/internal/webhook"
	"github.com/prazodigital/prazos-backend/pkg/config"
	"github.com/prazodigital/prazos-backend/pkg/db"
	"github.com/prazodigital/prazos-backend/pkg/logger"
	"github.com/prazodigital/prazos-backend/pkg/metrics"
	"github.com/prazodigital/prazos-backend/pkg/migrate"
	"github.com/prazodigital/prazos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registryReader := registry.NewReader(dbClient.DB())
	protocolsRepo := protocols.NewRepository(dbClient.DB())
	accountsRepo := accounts.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	scanMetrics := metrics.NewScanMetrics(prometheus.DefaultRegisterer)

	protocolDispatcher, err := webhook.NewDispatcher(webhook.Params{
		Logger:  logg,
		URL:     cfg.Webhook.ProtocolURL,
		Timeout: cfg.Webhook.Timeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create protocol dispatcher", err)
		os.Exit(1)
	}
	accountDispatcher, err := webhook.NewDispatcher(webhook.Params{
		Logger:  logg,
		URL:     cfg.Webhook.AccountURL,
		Timeout: cfg.Webhook.Timeout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account dispatcher", err)
		os.Exit(1)
	}

	protocolScanner, err := scan.NewProtocolScanner(scan.ProtocolScannerParams{
		Registry:  registryReader,
		Protocols: protocolsRepo,
		Sender:    protocolDispatcher,
		Logger:    logg,
		Metrics:   scanMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create protocol scanner", err)
		os.Exit(1)
	}
	accountScanner, err := scan.NewAccountScanner(scan.AccountScannerParams{
		Registry:      registryReader,
		Accounts:      accountsRepo,
		Sender:        accountDispatcher,
		Logger:        logg,
		Metrics:       scanMetrics,
		LookaheadDays: cfg.Scan.AccountLookaheadDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account scanner", err)
		os.Exit(1)
	}

	deadlineScanJob, err := cron.NewDeadlineScanJob(cron.DeadlineScanJobParams{
		Logger:    logg,
		Protocols: protocolScanner,
		Accounts:  accountScanner,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deadline scan job", err)
		os.Exit(1)
	}
	inboxCleanupJob, err := cron.NewInboxCleanupJob(cron.InboxCleanupJobParams{
		Logger:        logg,
		Store:         notificationsRepo,
		RetentionDays: cfg.Notifications.RetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inbox cleanup job", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(deadlineScanJob, inboxCleanupJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Scan.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
