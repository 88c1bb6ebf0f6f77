package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal 周报生成次数
	// Labels: status (success/error/timeout/parse_error)
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weekly_report_generations_total",
			Help: "Total number of weekly report generations by status",
		},
		[]string{"status"},
	)

	// GenerationDuration AI 生成耗时直方图（秒）
	// Buckets: 0.5s, 1s, 2s, 5s, 10s, 20s, 30s, 60s, 120s
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weekly_report_generation_duration_seconds",
			Help:    "Weekly report generation duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	// RefinesTotal 任务润色次数
	// Labels: status (success/fallback/skipped)
	RefinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weekly_report_refines_total",
			Help: "Total number of task refinements by status",
		},
		[]string{"status"},
	)

	// ExportsTotal PDF 导出次数
	// Labels: status (success/LAYOUT_FAILED/RASTER_FAILED/ENCODE_FAILED/EXPORT_FAILED)
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weekly_report_exports_total",
			Help: "Total number of PDF exports by status",
		},
		[]string{"status"},
	)

	// ExportBytes 导出文件大小分布
	ExportBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weekly_report_export_bytes",
			Help:    "Size of exported PDF documents in bytes",
			Buckets: prometheus.ExponentialBuckets(32*1024, 2, 8),
		},
	)

	// BusyRejectionsTotal 因已有操作进行中而被拒绝的请求
	// Labels: operation (generate/refine/export)
	BusyRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weekly_report_busy_rejections_total",
			Help: "Total number of requests rejected because the same operation was in flight",
		},
		[]string{"operation"},
	)
)

// RecordGeneration 记录一次生成结果和耗时
func RecordGeneration(status string, durationSeconds float64) {
	GenerationsTotal.WithLabelValues(status).Inc()
	GenerationDuration.Observe(durationSeconds)
}

// RecordRefine 记录一次润色结果
func RecordRefine(status string) {
	RefinesTotal.WithLabelValues(status).Inc()
}

// RecordExport 记录一次导出，成功时同时记录文件大小
func RecordExport(status string, size int) {
	ExportsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		ExportBytes.Observe(float64(size))
	}
}

// RecordBusyRejection 记录忙碌拒绝
func RecordBusyRejection(operation string) {
	BusyRejectionsTotal.WithLabelValues(operation).Inc()
}
