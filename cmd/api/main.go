// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Api is the entry point for the Yomira demand-driven crawl and sync core.

The server authenticates requests and exposes the crawl gatekeeper, sync
scheduler/workers, fan-out notification pipeline, offline sync outbox
reconciler, and progress/read-state engine that keep per-user libraries
fresh against third-party manga sources.

Usage:

	go run cmd/api/main.go [flags]

The flags/environment variables are:

	SERVER_PORT     Port to listen on (default: 8080)
	ENVIRONMENT     deployment environment (development, production)
	DATABASE_URL    Postgres connection string (required)
	REDIS_URL       Redis connection string (required)

Startup Sequence:

 1. Logger: Initialize structured JSON logging (slog).
 2. Config: Load and validate environment variables.
 3. Storage: Establish connections to Postgres and Redis.
 4. Migration: Run idempotent schema updates.
 5. Wiring: Inject dependencies into domain services/handlers.
 6. Workers: Launch the sync/notify/progress background loops.
 7. Server: Bind HTTP listener and handle graceful shutdown.

No business logic lives here. This file is strictly for orchestration and wiring.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yomira-app/yomira/internal/api"
	"github.com/yomira-app/yomira/internal/breaker"
	"github.com/yomira-app/yomira/internal/crawl/gatekeeper"
	"github.com/yomira-app/yomira/internal/crawl/sync"
	"github.com/yomira-app/yomira/internal/notify"
	"github.com/yomira-app/yomira/internal/outbox"
	"github.com/yomira-app/yomira/internal/platform/config"
	"github.com/yomira-app/yomira/internal/platform/constants"
	"github.com/yomira-app/yomira/internal/platform/migration"
	pgstore "github.com/yomira-app/yomira/internal/platform/postgres"
	redisstore "github.com/yomira-app/yomira/internal/platform/redis"
	"github.com/yomira-app/yomira/internal/platform/sec"
	"github.com/yomira-app/yomira/internal/progress"
	"github.com/yomira-app/yomira/internal/ratelimit"
	"github.com/yomira-app/yomira/internal/users/auth"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application_startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// # 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries for trace correlation
	log := rawLog.With(slog.String("app", "yomira"))
	slog.SetDefault(log)

	log.Info("[Yomira] service_initializing")

	// # 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Adjust log level if debug mode is explicitly enabled
	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "yomira"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A 30s deadline prevents the app from hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// # 3. PostgreSQL
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// # 4. Redis
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// # 5. Migrations
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// # 6. Platform Services
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	if err != nil {
		return fmt.Errorf("initialize jwt service: %w", err)
	}

	limiter := ratelimit.NewLimiter(rdb)

	// # 7. Health Wiring
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// # 8. Auth Service & Handler
	userRepo := auth.NewUserRepository(pool)
	sessionRepo := auth.NewSessionRepository(pool)
	resetRepo := auth.NewResetTokenRepository(rdb)
	verifyRepo := auth.NewVerificationTokenRepository(rdb)

	authSvc := auth.NewService(userRepo, sessionRepo, resetRepo, verifyRepo, jwtSvc)
	loginLockout := breaker.NewLoginLockout(pool, limiter)
	authHdl := auth.NewHandler(authSvc).WithLockout(loginLockout).WithBreaker(breaker.GlobalAuthBreaker())

	// # 9. Progress/Read-State Engine
	progressStore := progress.NewPostgresStore(pool, log)
	progressSvc := progress.NewService(progressStore, log)
	progressHdl := progress.NewHandler(progressSvc)

	// # 10. Offline Sync Outbox & Reconciler
	libraryStore := outbox.NewPostgresLibraryStore(pool)
	settingsStore := outbox.NewPostgresSettingsStore(pool)
	reconciler := outbox.NewReconciler(libraryStore, settingsStore, progressSvc, log)
	outboxHdl := outbox.NewHandler(reconciler)

	// # 11. Crawl Gatekeeper
	sourceLookup := gatekeeper.NewPostgresSourceLookup(pool)
	syncQueue := sync.NewQueue(rdb, constants.SyncQueueName)
	gk := gatekeeper.NewGatekeeper(syncQueue, sourceLookup, syncQueue, log)

	// # 12. Fan-out Notification Pipeline
	coalescer := notify.NewCoalescer(rdb, log)
	notifyStore := notify.NewPostgresStore(pool)
	healthGate := notify.GlobalHealthGate()
	throttle := notify.NewThrottle(rdb)
	deliverer := notify.NewDeliverer(notifyStore, healthGate, throttle, log)

	// # 13. Sync Scheduler & Workers
	adapters := sync.NewAdapterRegistry()
	synchronizer := sync.NewSynchronizer(pool, adapters, coalescer)

	// # 14. API Assembly
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHdl,
		Progress:  progressHdl,
		Outbox:    outboxHdl,
	}

	// Create a background context for the whole application lifecycle
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// # 15. Background Workers
	// Sync workers drain the gatekeeper-admitted queue; the sweeper is the
	// only producer onto it wired here (no HTTP handler is handed the
	// gatekeeper).
	for i := 0; i < cfg.SyncWorkerCount; i++ {
		worker := sync.NewWorker(syncQueue, synchronizer, synchronizer, log)
		go worker.Run(appCtx)
	}

	sweeper := sync.NewPeriodicSweeper(pool, rdb, gk, constants.SweeperInterval, log)
	go sweeper.Run(appCtx)

	go coalescer.DelayedPoller(appCtx, constants.NotifyPollInterval, deliverer.FanOut)

	go progressSvc.RunReconciliationTicker(appCtx, constants.ProgressReconciliationInterval)

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// # 16. Lifecycle Handling
	shutdownErr := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownErr <- fmt.Errorf("http_server_crash: %w", err)
		}
	}()

	log.Info("yomira_api_running", slog.String("port", cfg.ServerPort))

	// Block until signal or error
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-shutdownErr:
		return err
	}

	// Start Graceful Shutdown Sequence
	appCancel() // Signal background workers to stop

	log.Info("shutting_down_api_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("server_shutdown_failed: %w", err)
	}

	log.Info("graceful_shutdown_complete")
	return nil
}
