package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "sigmacharter"

// Metrics holds the Prometheus instruments for chart requests. All
// operations are safe for concurrent use.
type Metrics struct {
	// RendersTotal counts renders by endpoint and status (ok, invalid, error).
	RendersTotal *prometheus.CounterVec
	// RenderSeconds observes end-to-end evaluate+render duration per endpoint.
	RenderSeconds *prometheus.HistogramVec
	// BatchSize observes the number of processes per render after truncation.
	BatchSize prometheus.Histogram
}

// NewMetrics registers the chart metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "charts",
			Name:      "renders_total",
			Help:      "Chart renders by endpoint and status.",
		}, []string{"endpoint", "status"}),
		RenderSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "charts",
			Name:      "render_seconds",
			Help:      "Evaluate-and-render duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "charts",
			Name:      "batch_size",
			Help:      "Processes per render after truncation.",
			Buckets:   []float64{1, 2, 3, 4, 5, 8, 10},
		}),
	}
}
