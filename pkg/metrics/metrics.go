package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	StorageCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_call_latency_ms",
			Help:    "Object storage call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"operation", "status"},
	)

	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
		[]string{"routing_key", "queue"},
	)

	TaskCreationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_task_creation_count",
			Help: "Total number of workflow tasks created",
		},
		[]string{"trigger"}, // trigger: approval_requested, approved, document
	)

	DocumentUploadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliverable_document_upload_count",
			Help: "Total number of deliverable documents uploaded",
		},
		[]string{"document_type", "status"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func RecordStorageCallLatency(operation, status string, duration time.Duration) {
	StorageCallLatency.WithLabelValues(operation, status).Observe(float64(duration.Milliseconds()))
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

func IncrementTaskCreation(trigger string) {
	TaskCreationCount.WithLabelValues(trigger).Inc()
}

func IncrementDocumentUpload(documentType, status string) {
	DocumentUploadCount.WithLabelValues(documentType, status).Inc()
}
