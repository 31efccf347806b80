// Package metrics provides Prometheus metrics for the bulario API:
// HTTP request counters, latency histograms, in-flight gauge, and dataset
// gauges updated on every load. All metrics are registered with the default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	DatasetRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Medication records currently served from memory",
		},
	)

	DatasetRowsDropped = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_rows_dropped",
			Help: "Source rows dropped by the last load",
		},
	)

	DatasetReloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_reloads_total",
			Help: "Completed dataset loads since process start",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(DatasetRowsDropped)
	prometheus.MustRegister(DatasetReloads)
}
