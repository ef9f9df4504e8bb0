package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/albapepper/tennis-stats/internal/api/respond"
	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/importer"
)

// importContext bounds an import by the configured timeout. A client that
// disconnects cancels the import at the next page or year boundary.
func (h *Handler) importContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.cfg.ImportTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.cfg.ImportTimeout)
}

// admit takes the import gate or answers 409 when another import holds it.
// Callers release the gate when admit returns true.
func (h *Handler) admit(w http.ResponseWriter) bool {
	if h.gate.TryAcquire() {
		return true
	}
	respond.WriteErrorDetail(w, http.StatusConflict, "IMPORT_RUNNING", "Another import is already running",
		h.imports.Status().CurrentOperation)
	return false
}

// invalidate drops cached reads after an import that changed data.
func (h *Handler) invalidate(changed bool, prefixes ...string) {
	if !changed {
		return
	}
	for _, p := range prefixes {
		if n := h.cache.Invalidate(p); n > 0 {
			h.logger.Debug("Cache invalidated", "prefix", p, "keys", n)
		}
	}
}

// ImportPlayers imports the association's players.
// @Summary Import players
// @Description Pages through the provider's player listing and inserts or updates every player.
// @Tags import
// @Produce json
// @Param association query string false "WTA or ATP" Enums(WTA, ATP)
// @Param maxPages query int false "Maximum pages of 25 players" default(100)
// @Param delayMs query int false "Delay between pages in milliseconds" default(1000)
// @Success 200 {object} importer.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /api/v1/import/players [post]
func (h *Handler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	p, err := h.parseImportParams(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}
	if !h.admit(w) {
		return
	}
	defer h.gate.Release()
	ctx, cancel := h.importContext(r)
	defer cancel()

	h.logger.Info("Starting player import", "association", p.association, "max_pages", p.maxPages)
	res := h.imports.ImportPlayers(ctx, p.association, p.maxPages, p.delay)
	h.invalidate(res.Changed(), cache.PrefixPlayer, cache.PrefixRankings)
	respond.WriteUncached(w, http.StatusOK, res)
}

// ImportTournaments imports tournaments for a range of years.
// @Summary Import tournaments
// @Description Imports the association's tournaments year by year, creating seasons as needed.
// @Tags import
// @Produce json
// @Param association query string false "WTA or ATP" Enums(WTA, ATP)
// @Param startYear query int false "First year" default(2020)
// @Param endYear query int false "Last year (default: current year)"
// @Param delayMs query int false "Delay between years in milliseconds" default(1000)
// @Success 200 {object} importer.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /api/v1/import/tournaments [post]
func (h *Handler) ImportTournaments(w http.ResponseWriter, r *http.Request) {
	p, err := h.parseImportParams(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}
	if !h.admit(w) {
		return
	}
	defer h.gate.Release()
	ctx, cancel := h.importContext(r)
	defer cancel()

	h.logger.Info("Starting tournament import", "association", p.association, "start_year", p.startYear, "end_year", p.endYear)
	res := h.imports.ImportTournaments(ctx, p.association, p.startYear, p.endYear, p.delay)
	respond.WriteUncached(w, http.StatusOK, res)
}

// ImportRankings imports the current ranking table.
// @Summary Import rankings
// @Description Imports the association's current rankings. Players must be imported first.
// @Tags import
// @Produce json
// @Param association query string false "WTA or ATP" Enums(WTA, ATP)
// @Success 200 {object} importer.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /api/v1/import/rankings [post]
func (h *Handler) ImportRankings(w http.ResponseWriter, r *http.Request) {
	association, err := h.queryAssociation(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}
	if !h.admit(w) {
		return
	}
	defer h.gate.Release()
	ctx, cancel := h.importContext(r)
	defer cancel()

	h.logger.Info("Starting rankings import", "association", association)
	res := h.imports.ImportRankings(ctx, association)
	h.invalidate(res.Changed(), cache.PrefixRankings)
	respond.WriteUncached(w, http.StatusOK, res)
}

// ImportSeasons imports the provider's season list.
// @Summary Import seasons
// @Tags import
// @Produce json
// @Param association query string false "WTA or ATP" Enums(WTA, ATP)
// @Success 200 {object} importer.Result
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /api/v1/import/seasons [post]
func (h *Handler) ImportSeasons(w http.ResponseWriter, r *http.Request) {
	association, err := h.queryAssociation(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}
	if !h.admit(w) {
		return
	}
	defer h.gate.Release()
	ctx, cancel := h.importContext(r)
	defer cancel()

	res := h.imports.ImportSeasons(ctx, association)
	respond.WriteUncached(w, http.StatusOK, res)
}

// ImportFull runs the players, tournaments and rankings imports in order.
// @Summary Full historical import
// @Description Long-running. Imports players, then tournaments for the year range, then current rankings.
// @Tags import
// @Produce json
// @Param association query string false "WTA or ATP" Enums(WTA, ATP)
// @Param startYear query int false "First year" default(2020)
// @Param endYear query int false "Last year (default: current year)"
// @Param delayMs query int false "Delay between requests in milliseconds" default(1000)
// @Success 200 {object} importer.FullResult
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /api/v1/import/full [post]
func (h *Handler) ImportFull(w http.ResponseWriter, r *http.Request) {
	p, err := h.parseImportParams(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}
	if !h.admit(w) {
		return
	}
	defer h.gate.Release()
	ctx, cancel := h.importContext(r)
	defer cancel()

	h.logger.Info("Starting full historical import", "association", p.association, "start_year", p.startYear, "end_year", p.endYear)
	progress := func(pr importer.Progress) {
		h.logger.Info("Import progress",
			"operation", pr.CurrentOperation, "current", pr.Current, "total", pr.Total,
			"percent", pr.PercentComplete)
	}
	res := h.imports.ImportAllHistoricalData(ctx, p.association, p.startYear, p.endYear, p.delay, progress)
	h.invalidate(res.Players.Changed() || res.Rankings.Changed(), cache.PrefixPlayer, cache.PrefixRankings)
	respond.WriteUncached(w, http.StatusOK, res)
}

// ImportStatus returns the current import status.
// @Summary Import status
// @Tags import
// @Produce json
// @Success 200 {object} importer.Status
// @Router /api/v1/import/status [get]
func (h *Handler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	respond.WriteUncached(w, http.StatusOK, h.imports.Status())
}

// ImportHealth reports that the import service is available.
// @Summary Import service health
// @Tags import
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/import/health [get]
func (h *Handler) ImportHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteUncached(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "importer",
		"timestamp": h.now().Format(time.RFC3339),
	})
}
