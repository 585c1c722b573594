package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "atelier",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total pipeline runs by outcome",
		},
		[]string{"status"},
	)

	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "atelier",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"stage"},
	)

	expandFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "atelier",
			Subsystem: "pipeline",
			Name:      "expand_fallbacks_total",
			Help:      "Runs where prompt expansion degraded to pass-through",
		},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, stageDuration, expandFallbacksTotal)
}

func observeStage(stage string, start time.Time) {
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
