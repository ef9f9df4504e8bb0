package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/tennis-stats/internal/api/handler"
	"github.com/albapepper/tennis-stats/internal/config"
	"github.com/albapepper/tennis-stats/internal/metrics"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. m and gatherer may be nil to run without Prometheus.
func NewRouter(h *handler.Handler, cfg *config.Config, m *metrics.Service, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	if m != nil {
		r.Use(MetricsMiddleware(m))
	}
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	if gatherer != nil {
		r.Handle("/metrics", metrics.NewMetricsHandler(gatherer))
	}

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/import", func(r chi.Router) {
			r.Post("/players", h.ImportPlayers)
			r.Post("/tournaments", h.ImportTournaments)
			r.Post("/rankings", h.ImportRankings)
			r.Post("/seasons", h.ImportSeasons)
			r.Post("/full", h.ImportFull)
			r.Get("/status", h.ImportStatus)
			r.Get("/health", h.ImportHealth)
		})

		r.Get("/rankings", h.GetRankings)
		r.Get("/players/{id}", h.GetPlayer)
	})

	return r
}
