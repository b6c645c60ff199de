// ABOUTME: Prometheus instruments for rate-change runs and the HTTP API
// ABOUTME: Registered on the default registry via promauto
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters
var (
	TransformsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratechange_transforms_total",
		Help: "Total rate changes by transform kind",
	}, []string{"kind"})
	FramesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratechange_frames_processed_total",
		Help: "Total input frames passed through a transform",
	})
	FramesProducedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratechange_frames_produced_total",
		Help: "Total output frames produced by transforms",
	})
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratechange_errors_total",
		Help: "Total failed runs by stage",
	}, []string{"stage"})
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratechange_http_requests_total",
		Help: "Total HTTP requests by route and status code",
	}, []string{"route", "code"})
)

// Histograms
var (
	TransformLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ratechange_transform_duration_ms",
		Help:    "Transform duration in milliseconds by kind",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}, []string{"kind"})
	StageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ratechange_stage_duration_ms",
		Help:    "Pipeline stage duration in milliseconds",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 30000},
	}, []string{"stage"})
)
