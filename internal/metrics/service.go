// Package metrics exposes import and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/albapepper/tennis-stats/internal/importer"
)

var _ importer.Recorder = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ImportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tennis_import_runs_total",
			Help: "Import operations finished, by entity and success.",
		}, []string{"entity", "success"}),
		ImportRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tennis_import_records_total",
			Help: "Provider records reconciled, by entity and outcome.",
		}, []string{"entity", "outcome"}),
		ImportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tennis_import_duration_seconds",
			Help:    "Wall-clock duration of import operations.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		}, []string{"entity"}),
		ImportRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tennis_import_running",
			Help: "Import operations currently in progress.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tennis_http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tennis_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		s.ImportRuns,
		s.ImportRecords,
		s.ImportDuration,
		s.ImportRunning,
		s.HTTPRequests,
		s.HTTPDuration,
	)

	return s
}

// ImportStarted marks an import as running.
func (s *Service) ImportStarted(entity string) {
	s.ImportRunning.Inc()
}

// ImportFinished records the outcome of an import.
func (s *Service) ImportFinished(entity string, r importer.Result) {
	s.ImportRunning.Dec()
	s.ImportRuns.WithLabelValues(entity, strconv.FormatBool(r.Success)).Inc()
	s.ImportDuration.WithLabelValues(entity).Observe(r.Duration.Seconds())

	for outcome, n := range map[string]int{
		"added":   r.Added,
		"updated": r.Updated,
		"skipped": r.Skipped,
		"failed":  r.Failed,
	} {
		if n > 0 {
			s.ImportRecords.WithLabelValues(entity, outcome).Add(float64(n))
		}
	}
}

// ObserveRequest records one served HTTP request.
func (s *Service) ObserveRequest(method, route string, status int, seconds float64) {
	s.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.HTTPDuration.WithLabelValues(route).Observe(seconds)
}
