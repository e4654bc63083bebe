// Package metrics exposes Prometheus collectors for the polling pipeline and the
// HTTP endpoints that serve them.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run results used as the "result" label.
const (
	ResultDelivered = "delivered"
	ResultEmpty     = "empty"
	ResultFailed    = "failed"
)

var (
	runsTotal          *prometheus.CounterVec
	deliveredTotal     prometheus.Counter
	runDurationSeconds prometheus.Histogram
	cursorValue        prometheus.Gauge

	once sync.Once
)

// Init registers the collectors. It is safe to call more than once.
func Init() {
	once.Do(func() {
		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notice_runs_total",
				Help: "Pipeline runs, labeled by result.",
			},
			[]string{"result"},
		)

		deliveredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notice_delivered_total",
				Help: "Notices delivered to the chat.",
			},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "notice_run_duration_seconds",
				Help:    "Wall time of a pipeline run.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
		)

		cursorValue = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "notice_cursor",
				Help: "Highest notice number delivered so far.",
			},
		)
	})
}

// ObserveRun records the outcome of one pipeline run.
func ObserveRun(result string, duration time.Duration, delivered int) {
	Init()
	runsTotal.WithLabelValues(result).Inc()
	runDurationSeconds.Observe(duration.Seconds())
	if delivered > 0 {
		deliveredTotal.Add(float64(delivered))
	}
}

// SetCursor publishes the current cursor value.
func SetCursor(v int64) {
	Init()
	cursorValue.Set(float64(v))
}
