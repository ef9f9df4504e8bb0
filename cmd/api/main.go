// Command api is the Tennis Stats API server: import triggers, import status,
// rankings and player reads, health, metrics and scheduled sync.
//
// Usage:
//
//	tennis-api
//	API_PORT=8080 SYNC_RANKINGS_INTERVAL_HOURS=6 tennis-api

// @title Tennis Stats API
// @version 1.0.0
// @description Imports WTA and ATP players, tournaments, seasons and rankings from BallDontLie and serves the synchronized data.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name Tennis Stats
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/albapepper/tennis-stats/internal/api"
	"github.com/albapepper/tennis-stats/internal/api/handler"
	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/config"
	"github.com/albapepper/tennis-stats/internal/db"
	"github.com/albapepper/tennis-stats/internal/importer"
	"github.com/albapepper/tennis-stats/internal/listener"
	"github.com/albapepper/tennis-stats/internal/maintenance"
	"github.com/albapepper/tennis-stats/internal/metrics"
	"github.com/albapepper/tennis-stats/internal/provider/bdl"
	"github.com/albapepper/tennis-stats/internal/store/postgres"

	_ "github.com/albapepper/tennis-stats/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Imports share one unit of work; reads get their own store so they
	// never observe an import's uncommitted batch.
	writes := postgres.New(pool, logger)
	reads := postgres.New(pool, logger)

	if cfg.BDLAPIKey == "" {
		logger.Warn("BALLDONTLIE_API_KEY is not set; imports will return no data")
	}
	client := bdl.NewClient(cfg.BDLBaseURL, cfg.BDLAPIKey, cfg.BDLRequestsPerMinute, logger)
	source := bdl.NewSource(bdl.NewTennisHandler(client, logger), logger)

	metricsSvc := metrics.NewService()
	imp := importer.New(source, importer.Repositories{
		Players:     writes.Players(),
		Tournaments: writes.Tournaments(),
		Rankings:    writes.Rankings(),
		Seasons:     writes.Seasons(),
		UnitOfWork:  writes,
	}, importer.NewTracker(), metricsSvc, logger)
	// Imports share the writes unit of work; every trigger holds this gate.
	gate := importer.NewGate()

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	go appCache.Run(time.Minute, ctx.Done())
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Drop cached reads when another process (the ingest CLI) imports data
	go listener.Start(ctx, cfg.DatabaseURL, appCache, logger)

	// Start maintenance tickers (rankings sync, tournament completion)
	go maintenance.Start(ctx, maintenance.Deps{
		Rankings:    imp,
		Tournaments: reads,
		Cache:       appCache,
		Gate:        gate,
	}, maintenance.ConfigFrom(cfg), logger)

	// Create router
	h := handler.New(imp, gate, reads, pool, appCache, cfg, logger)
	router := api.NewRouter(h, cfg, metricsSvc, prometheus.DefaultGatherer)

	// Create HTTP server. Imports answer only when done, so the write
	// timeout follows the import timeout.
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ImportTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Tennis Stats API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	writes.Discard(shutdownCtx)
	logger.Info("Server stopped")
}
