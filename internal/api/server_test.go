package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennis-stats/internal/api/handler"
	"github.com/albapepper/tennis-stats/internal/cache"
	"github.com/albapepper/tennis-stats/internal/config"
	"github.com/albapepper/tennis-stats/internal/importer"
	"github.com/albapepper/tennis-stats/internal/metrics"
	"github.com/albapepper/tennis-stats/internal/provider"
	"github.com/albapepper/tennis-stats/internal/store/memory"
	"github.com/albapepper/tennis-stats/internal/tennis"
)

// cannedSource serves two players and their current rankings.
type cannedSource struct{}

func (cannedSource) GetPlayers(ctx context.Context, a tennis.Association, page, perPage int) []provider.Player {
	if page > 1 {
		return nil
	}
	return []provider.Player{
		{ID: 1, FirstName: "Iga", LastName: "Swiatek", FullName: "Iga Swiatek", Country: "POL"},
		{ID: 2, FirstName: "Coco", LastName: "Gauff", FullName: "Coco Gauff", Country: "USA"},
	}
}

func (cannedSource) GetPlayer(ctx context.Context, a tennis.Association, id int) *provider.Player {
	return nil
}

func (cannedSource) GetTournaments(ctx context.Context, a tennis.Association, year int) []provider.Tournament {
	return nil
}

func (cannedSource) GetRankings(ctx context.Context, a tennis.Association) []provider.Ranking {
	date := time.Now().UTC()
	return []provider.Ranking{
		{PlayerID: 2, Rank: 2, Points: 8000, RankingDate: date},
		{PlayerID: 1, Rank: 1, Points: 9000, RankingDate: date},
	}
}

func (cannedSource) GetSeasons(ctx context.Context, a tennis.Association) []provider.Season {
	return nil
}

type testServer struct {
	router  http.Handler
	metrics *metrics.Service
	store   *memory.Store
}

func newTestServer(t *testing.T, mutate func(*config.Config)) testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		CORSAllowOrigins:  []string{"http://localhost:5173"},
		ImportAssociation: tennis.WTA,
		ImportDelay:       0,
		ImportMaxPages:    100,
		ImportStartYear:   2024,
		ImportTimeout:     time.Minute,
	}
	if mutate != nil {
		mutate(cfg)
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewService(reg)
	store := memory.New()
	imp := importer.New(cannedSource{}, importer.Repositories{
		Players:     store.Players(),
		Tournaments: store.Tournaments(),
		Seasons:     store.Seasons(),
		Rankings:    store.Rankings(),
		UnitOfWork:  store,
	}, importer.NewTracker(), m, logger)

	h := handler.New(imp, nil, store, nil, cache.New(true), cfg, logger)
	return testServer{
		router:  NewRouter(h, cfg, m, reg),
		metrics: m,
		store:   store,
	}
}

func (s testServer) do(method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestImportThenRead(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/v1/import/players?maxPages=1&delayMs=0")
	require.Equal(t, http.StatusOK, rec.Code)
	var players map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &players))
	assert.Equal(t, true, players["success"])
	assert.EqualValues(t, 2, players["added"])
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))

	rec = s.do(http.MethodPost, "/api/v1/import/rankings")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/rankings")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []tennis.RankedPlayer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Iga Swiatek", rows[0].PlayerName)
	assert.Equal(t, "Coco Gauff", rows[1].PlayerName)

	rec = s.do(http.MethodGet, "/api/v1/import/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var status importer.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.IsRunning)
	assert.Equal(t, 100.0, status.PercentComplete)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ImportRuns.WithLabelValues(importer.EntityPlayers, "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.ImportRuns.WithLabelValues(importer.EntityRankings, "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.HTTPRequests.WithLabelValues("POST", "/api/v1/import/players", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.ImportRunning))
}

func TestImportRoutesRequirePost(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodGet, "/api/v1/import/players")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodGet, "/health")

	rec := s.do(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tennis_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.RateLimitEnabled = true
		c.RateLimitRequests = 1
		c.RateLimitWindow = time.Minute
	})

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health").Code)
	rec := s.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestCORSPreflightAllowsPost(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/import/players", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
