// Package metrics exposes the Prometheus counters/histograms the HTTP
// surface and bus worker record against, served at /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector this service registers.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PipelineDuration     *prometheus.HistogramVec
	PipelineFingerprints prometheus.Histogram

	JobsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize registers all collectors with the default registry. Safe to
// call more than once; only the first call builds the collectors.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "soundmark_http_requests_total",
					Help: "Total number of HTTP requests by route and status",
				},
				[]string{"route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "soundmark_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"route"},
			),
			PipelineDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "soundmark_pipeline_duration_seconds",
					Help:    "Fingerprint pipeline latency in seconds, by stage",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
				},
				[]string{"stage"},
			),
			PipelineFingerprints: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "soundmark_pipeline_fingerprints_count",
					Help:    "Number of fingerprints produced per pipeline run",
					Buckets: prometheus.ExponentialBuckets(10, 2, 12),
				},
			),
			JobsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "soundmark_bus_jobs_total",
					Help: "Total number of bus worker jobs by outcome",
				},
				[]string{"outcome"},
			),
		}
	})
	return instance
}

// Get returns the process-wide Metrics instance, initializing it on first use.
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
