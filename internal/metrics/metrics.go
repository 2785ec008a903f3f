// Package metrics defines Prometheus metrics for pdihub.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdihub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdihub_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdihub_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	SectionSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdihub_section_saves_total",
			Help: "Section saves by section name and outcome",
		},
		[]string{"section", "outcome"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdihub_submissions_total",
			Help: "Final form submissions by outcome",
		},
		[]string{"outcome"},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pdihub_audit_queue_depth",
			Help: "Current audit worker queue depth",
		},
	)

	RetentionDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pdihub_retention_deleted_total",
			Help: "Inspections deleted by the compliance sweeper",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pdihub_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		SectionSaves, SubmissionsTotal,
		AuditQueueDepth, RetentionDeleted, WSConnections,
	)
}
