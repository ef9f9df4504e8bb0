package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/tennis-stats/internal/api/respond"
	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

const (
	defaultRankingsCount = 100
	maxRankingsCount     = 500
)

// GetRankings returns the latest ranking table of an association.
// @Summary Current rankings
// @Description Rankings of the most recent ranking date, ordered by rank. Out-of-range counts fall back to 100.
// @Tags rankings
// @Produce json
// @Param association query string false "WTA or ATP" Enums(WTA, ATP)
// @Param count query int false "Number of rows (1-500)" default(100)
// @Success 200 {array} tennis.RankedPlayer
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/rankings [get]
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	association, err := h.queryAssociation(r)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ASSOCIATION", err.Error())
		return
	}
	count, err := queryInt(r, "count", defaultRankingsCount)
	if err != nil || count < 1 || count > maxRankingsCount {
		count = defaultRankingsCount
	}

	cacheKey := fmt.Sprintf("%s%s:%d", cache.PrefixRankings, association, count)
	ttl := cache.TTLRankings

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteCached(w, data, etag, ttl, true)
		return
	}

	rows, err := h.reads.TopRankings(r.Context(), association, count)
	if err != nil {
		h.logger.Error("Failed to get rankings", "association", association, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get rankings")
		return
	}
	if rows == nil {
		rows = []tennis.RankedPlayer{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode rankings")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteCached(w, data, etag, ttl, false)
}

// GetPlayer returns one player by local id.
// @Summary Player details
// @Tags players
// @Produce json
// @Param id path int true "Player id"
// @Success 200 {object} tennis.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/players/{id} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
		return
	}

	cacheKey := fmt.Sprintf("%s%d", cache.PrefixPlayer, id)
	ttl := cache.TTLPlayer

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteCached(w, data, etag, ttl, true)
		return
	}

	player, err := h.reads.GetPlayer(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get player", "id", id, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get player")
		return
	}
	if player == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Player %d not found", id))
		return
	}
	data, err := json.Marshal(player)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode player")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteCached(w, data, etag, ttl, false)
}
