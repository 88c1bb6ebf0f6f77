// Package metrics provides Prometheus metrics for draft storage backends.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Draft storage metrics
var (
	// draftOperationsTotal records the total number of draft storage operations.
	// Labels:
	//   - backend: Storage backend (e.g., "file", "sqlite")
	//   - operation: Operation name (e.g., "save", "load", "exists")
	//   - status: Operation status (e.g., "success", "failed", "not_found", "corrupt", "full")
	draftOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weekly_report_draft_operations_total",
			Help: "Total number of draft storage operations",
		},
		[]string{"backend", "operation", "status"},
	)

	// draftOperationDuration records the duration of draft storage operations.
	// Labels:
	//   - backend: Storage backend (e.g., "file", "sqlite")
	//   - operation: Operation name (e.g., "save", "load")
	// Buckets: 1ms, 5ms, 10ms, 50ms, 100ms, 500ms, 1s
	draftOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weekly_report_draft_operation_duration_seconds",
			Help:    "Duration of draft storage operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend", "operation"},
	)

	// draftSizeBytes records the size of the last saved draft.
	// Labels:
	//   - backend: Storage backend (e.g., "file", "sqlite")
	draftSizeBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weekly_report_draft_size_bytes",
			Help: "Size in bytes of the most recently saved draft",
		},
		[]string{"backend"},
	)
)

func init() {
	// Register all draft-related metrics with Prometheus
	prometheus.MustRegister(draftOperationsTotal)
	prometheus.MustRegister(draftOperationDuration)
	prometheus.MustRegister(draftSizeBytes)
}

// RecordDraftOperation records a draft storage operation.
// Parameters:
//   - backend: Storage backend (e.g., "file", "sqlite")
//   - operation: Operation name (e.g., "save", "load", "exists")
//   - status: Operation status (e.g., "success", "failed")
func RecordDraftOperation(backend, operation, status string) {
	draftOperationsTotal.WithLabelValues(backend, operation, status).Inc()
}

// RecordDraftDuration records the duration of a draft storage operation.
func RecordDraftDuration(backend, operation string, durationSeconds float64) {
	draftOperationDuration.WithLabelValues(backend, operation).Observe(durationSeconds)
}

// SetDraftSize records the size of the most recently saved draft.
func SetDraftSize(backend string, size int) {
	draftSizeBytes.WithLabelValues(backend).Set(float64(size))
}
