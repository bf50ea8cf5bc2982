package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/prazodigital/prazos-backend/api/routes"
	"github.com/prazodigital/prazos-backend/internal/accounts"
	"github.com/prazodigital/prazos-backend/internal/dismissal"
	"github.com/prazodigital/prazos-backend/internal/notifications"
	"github.com/prazodigital/prazos-backend/internal/protocols"
	"github.com/prazodigital/prazos-backend/internal/registry"
	"github.com/prazodigital/prazos-backend/internal/scan"
	"github.com/prazodigital/prazos-backend/internal/webhook"
	"github.com/prazodigital/prazos-backend/pkg/config"
	"github.com/prazodigital/prazos-backend/pkg/db"
	"github.com/prazodigital/prazos-backend/pkg/env"
	"github.com/prazodigital/prazos-backend/pkg/logger"
	"github.com/prazodigital/prazos-backend/pkg/metrics"
	"github.com/prazodigital/prazos-backend/pkg/migrate"
	"github.com/prazodigital/prazos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	registryWriter := registry.NewWriter(dbClient.DB())
	protocolsRepo := protocols.NewRepository(dbClient.DB())
	accountsRepo := accounts.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())
	notificationsService := notifications.NewService(notificationsRepo, logg)

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

	deadlineChecker, err := notifications.NewDeadlineChecker(notifications.DeadlineCheckerParams{
		Protocols: protocolsRepo,
		Ledger:    notificationsService,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deadline checker", err)
		os.Exit(1)
	}

	dismissalStore, err := dismissal.NewStore(dismissal.StoreParams{KV: redisClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create dismissal store", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			protocolScanner,
			accountScanner,
			notificationsService,
			deadlineChecker,
			dismissalStore,
			registryWriter,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
