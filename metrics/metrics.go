// Package metrics exposes Prometheus collectors for the API and the attendance workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnihub_api_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alumnihub_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Attendance metrics
	AttendanceMarked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnihub_attendance_marked_total",
			Help: "Attendance upserts by method and status",
		},
		[]string{"method", "status"},
	)

	BatchmatesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alumnihub_batchmates_created_total",
			Help: "Batchmates created through check-in or registration",
		},
	)

	// Sync queue metrics
	SyncQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alumnihub_sync_queue_depth",
			Help: "Pending batchmate attendance sync tasks",
		},
	)

	SyncTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnihub_sync_tasks_total",
			Help: "Batchmate attendance sync tasks by outcome (succeeded, retried, failed, dropped)",
		},
		[]string{"outcome"},
	)

	SyncRecordsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alumnihub_sync_records_updated_total",
			Help: "Event attendance records rewritten by batchmate attendance sync",
		},
	)

	ExportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alumnihub_exports_generated_total",
			Help: "Spreadsheet exports by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(AttendanceMarked)
	prometheus.MustRegister(BatchmatesCreated)
	prometheus.MustRegister(SyncQueueDepth)
	prometheus.MustRegister(SyncTasksTotal)
	prometheus.MustRegister(SyncRecordsUpdated)
	prometheus.MustRegister(ExportsGenerated)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
