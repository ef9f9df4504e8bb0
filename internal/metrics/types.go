package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	ImportRuns     *prometheus.CounterVec
	ImportRecords  *prometheus.CounterVec
	ImportDuration *prometheus.HistogramVec
	ImportRunning  prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}
