package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation and broadcast pipeline.
type Metrics struct {
	ProviderFetches *prometheus.CounterVec   // labels: source, outcome={success,not_configured,upstream_error}
	ProviderLatency *prometheus.HistogramVec // labels: source
	FallbacksServed *prometheus.CounterVec   // labels: category

	SnapshotsPublished *prometheus.CounterVec   // labels: category
	PublishesSkipped   *prometheus.CounterVec   // labels: category
	AggregateDuration  *prometheus.HistogramVec // labels: category

	Subscribers       prometheus.Gauge
	DroppedDeliveries prometheus.Counter

	AlertsDispatched *prometheus.CounterVec // labels: channel, outcome={ok,skipped,error}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProviderFetches,
		m.ProviderLatency,
		m.FallbacksServed,
		m.SnapshotsPublished,
		m.PublishesSkipped,
		m.AggregateDuration,
		m.Subscribers,
		m.DroppedDeliveries,
		m.AlertsDispatched,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_feed",
			Name:      "provider_fetches_total",
			Help:      "Provider fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hazard_feed",
			Name:      "provider_fetch_duration_seconds",
			Help:      "Upstream fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		FallbacksServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_feed",
			Name:      "fallbacks_served_total",
			Help:      "Synthetic fallback payloads served by category.",
		}, []string{"category"}),
		SnapshotsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_feed",
			Name:      "snapshots_published_total",
			Help:      "Snapshots published to the broadcast hub by category.",
		}, []string{"category"}),
		PublishesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_feed",
			Name:      "publishes_skipped_total",
			Help:      "Scheduler ticks that failed after fallbacks and kept the stale snapshot.",
		}, []string{"category"}),
		AggregateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hazard_feed",
			Name:      "aggregate_duration_seconds",
			Help:      "Duration of one category aggregation fan-out.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"category"}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_feed",
			Name:      "subscribers",
			Help:      "Currently connected broadcast subscribers.",
		}),
		DroppedDeliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard_feed",
			Name:      "dropped_deliveries_total",
			Help:      "Snapshot deliveries dropped because a subscriber buffer was full.",
		}),
		AlertsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_feed",
			Name:      "alerts_dispatched_total",
			Help:      "Alert delivery attempts by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}
}
