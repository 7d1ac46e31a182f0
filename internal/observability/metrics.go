package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	validationCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "run_admin",
		Subsystem: "targets",
		Name:      "validations_total",
		Help:      "Number of target achievements transitioned to validated.",
	})
	lastValidatedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "run_admin",
		Subsystem: "targets",
		Name:      "last_validated_timestamp_seconds",
		Help:      "Unix timestamp of the most recent validation transition.",
	})
	exportCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "run_admin",
		Subsystem: "reports",
		Name:      "exports_total",
		Help:      "Number of report artifacts generated, labeled by format.",
	}, []string{"format"})
	exportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "run_admin",
		Subsystem: "reports",
		Name:      "export_duration_seconds",
		Help:      "Time spent building and rendering report artifacts.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(validationCounter, lastValidatedGauge, exportCounter, exportDuration)
}

// RecordValidation updates the validation watermark after a real transition.
func RecordValidation(ts time.Time) {
	validationCounter.Inc()
	if !ts.IsZero() {
		lastValidatedGauge.Set(float64(ts.Unix()))
	}
}

// RecordExport tracks one rendered artifact.
func RecordExport(format string, elapsed time.Duration) {
	exportCounter.WithLabelValues(format).Inc()
	exportDuration.Observe(elapsed.Seconds())
}
