package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	// Snapshot metrics.
	SnapshotRefreshes       *prometheus.CounterVec // labels: outcome={success,error}
	SnapshotRefreshDuration prometheus.Histogram
	SnapshotRegions         *prometheus.GaugeVec // labels: scope
	SummaryIssues           *prometheus.CounterVec // labels: kind

	// Upstream summary API metrics.
	SummaryRequests    *prometheus.CounterVec // labels: outcome={success,error}
	SummaryCache       *prometheus.CounterVec // labels: result={hit,miss}
	SummaryAPIDuration prometheus.Histogram

	// Interaction metrics.
	Clicks                *prometheus.CounterVec // labels: outcome={navigated,unresolved,ignored}
	NavigationPublishErrs prometheus.Counter
	NavigationEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SnapshotRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse_map",
			Name:      "snapshot_refreshes_total",
			Help:      "Aggregated map rebuilds by outcome.",
		}, []string{"outcome"}),
		SnapshotRefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "warehouse_map",
			Name:      "snapshot_refresh_duration_seconds",
			Help:      "Duration of a fetch-and-aggregate cycle for one scope.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SnapshotRegions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "warehouse_map",
			Name:      "snapshot_regions",
			Help:      "Regions in the latest snapshot per scope.",
		}, []string{"scope"}),
		SummaryIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse_map",
			Name:      "summary_issues_total",
			Help:      "Problems found in upstream summaries by kind.",
		}, []string{"kind"}),
		SummaryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse_map",
			Name:      "summary_requests_total",
			Help:      "Storage summary API requests by outcome.",
		}, []string{"outcome"}),
		SummaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse_map",
			Name:      "summary_cache_total",
			Help:      "Storage summary cache lookups by result.",
		}, []string{"result"}),
		SummaryAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "warehouse_map",
			Name:      "summary_api_duration_seconds",
			Help:      "Storage summary API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse_map",
			Name:      "clicks_total",
			Help:      "Feature clicks by outcome.",
		}, []string{"outcome"}),
		NavigationPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warehouse_map",
			Name:      "navigation_publish_errors_total",
			Help:      "Navigation events that could not be delivered.",
		}),
		NavigationEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehouse_map",
			Name:      "navigation_events_enabled",
			Help:      "1 when navigation events are published to Kafka, 0 when only logged.",
		}),
	}

	prometheus.MustRegister(
		m.SnapshotRefreshes,
		m.SnapshotRefreshDuration,
		m.SnapshotRegions,
		m.SummaryIssues,
		m.SummaryRequests,
		m.SummaryCache,
		m.SummaryAPIDuration,
		m.Clicks,
		m.NavigationPublishErrs,
		m.NavigationEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SnapshotRefreshes:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "warehouse_map", Name: "snapshot_refreshes_total"}, []string{"outcome"}),
		SnapshotRefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "warehouse_map", Name: "snapshot_refresh_duration_seconds"}),
		SnapshotRegions:         prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "warehouse_map", Name: "snapshot_regions"}, []string{"scope"}),
		SummaryIssues:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "warehouse_map", Name: "summary_issues_total"}, []string{"kind"}),
		SummaryRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "warehouse_map", Name: "summary_requests_total"}, []string{"outcome"}),
		SummaryCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "warehouse_map", Name: "summary_cache_total"}, []string{"result"}),
		SummaryAPIDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "warehouse_map", Name: "summary_api_duration_seconds"}),
		Clicks:                  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "warehouse_map", Name: "clicks_total"}, []string{"outcome"}),
		NavigationPublishErrs:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "warehouse_map", Name: "navigation_publish_errors_total"}),
		NavigationEnabled:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "warehouse_map", Name: "navigation_events_enabled"}),
	}
}
