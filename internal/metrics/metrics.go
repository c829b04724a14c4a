package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the ingestion collectors.
	Registry = prometheus.NewRegistry()

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "afriquotes",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Chart fetches by symbol kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "afriquotes",
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Duration of chart fetches, including rate limit waits.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"kind"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "afriquotes",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of ingestion runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1s to ~2m
		},
		[]string{"mode"},
	)

	lastRunSymbols = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "afriquotes",
			Subsystem: "run",
			Name:      "last_symbols",
			Help:      "Symbols fetched or failed in the most recent run.",
		},
		[]string{"result"},
	)

	snapshotWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "afriquotes",
			Subsystem: "snapshot",
			Name:      "writes_total",
			Help:      "Snapshot file writes by status.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(fetchTotal, fetchDuration, runDuration, lastRunSymbols, snapshotWrites)
}

// RecordFetch counts one fetch outcome. An empty outcome means success.
func RecordFetch(kind, outcome string, d time.Duration) {
	if outcome == "" {
		outcome = "ok"
	}
	fetchTotal.WithLabelValues(kind, outcome).Inc()
	fetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordRun observes a finished run.
func RecordRun(mode string, d time.Duration, fetched, failed int) {
	runDuration.WithLabelValues(mode).Observe(d.Seconds())
	lastRunSymbols.WithLabelValues("fetched").Set(float64(fetched))
	lastRunSymbols.WithLabelValues("failed").Set(float64(failed))
}

// RecordSnapshotWrite counts a snapshot write attempt.
func RecordSnapshotWrite(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	snapshotWrites.WithLabelValues(status).Inc()
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
