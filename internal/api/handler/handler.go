// Package handler provides HTTP handlers for all API endpoints.
// Import endpoints run synchronously, one at a time, and answer with the
// structured result; read endpoints serve JSON from the in-memory cache when
// possible.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/tennis-stats/internal/api/respond"
	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/config"
	"github.com/albapepper/tennis-stats/internal/importer"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// ImportService runs imports and reports their status.
type ImportService interface {
	ImportPlayers(ctx context.Context, association tennis.Association, maxPages int, delay time.Duration) importer.Result
	ImportTournaments(ctx context.Context, association tennis.Association, startYear, endYear int, delay time.Duration) importer.Result
	ImportRankings(ctx context.Context, association tennis.Association) importer.Result
	ImportSeasons(ctx context.Context, association tennis.Association) importer.Result
	ImportAllHistoricalData(ctx context.Context, association tennis.Association, startYear, endYear int, delay time.Duration, progress importer.ProgressFunc) importer.FullResult
	Status() importer.Status
}

// ReadStore serves the query side.
type ReadStore interface {
	TopRankings(ctx context.Context, association tennis.Association, count int) ([]tennis.RankedPlayer, error)
	GetPlayer(ctx context.Context, id int) (*tennis.Player, error)
}

// HealthChecker verifies the backing database.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	imports ImportService
	gate    *importer.Gate
	reads   ReadStore
	db      HealthChecker
	cache   *cache.Cache
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Handler with shared dependencies. gate must be the one held
// by every other caller of imports; nil gets a private gate. db may be nil
// when the server runs without a database.
func New(imports ImportService, gate *importer.Gate, reads ReadStore, db HealthChecker, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if gate == nil {
		gate = importer.NewGate()
	}
	return &Handler{
		imports: imports,
		gate:    gate,
		reads:   reads,
		db:      db,
		cache:   c,
		cfg:     cfg,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteUncached(w, http.StatusOK, map[string]interface{}{
		"name":    "Tennis Stats API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteUncached(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteUncached(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "in-memory",
			"timestamp": h.now().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteUncached(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now().Format(time.RFC3339),
		})
		return
	}
	respond.WriteUncached(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteUncached(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.now().Format(time.RFC3339),
	})
}
