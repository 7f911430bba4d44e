package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Aggregation metrics
	AggregationPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_aggregation_passes_total",
			Help: "Total number of aggregation passes",
		},
		[]string{"service", "status"},
	)

	AggregationPassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleet_aggregation_pass_duration_seconds",
			Help:    "End-to-end duration of one aggregation pass",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	TenantCallFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_tenant_call_failures_total",
			Help: "Total number of failed upstream (tenant, resource) calls",
		},
		[]string{"service", "tenant", "resource"},
	)

	SnapshotVehiclesGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleet_snapshot_vehicles",
			Help: "Number of vehicles in the most recent snapshot",
		},
		[]string{"service"},
	)

	UnresolvedConstraintsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_unresolved_constraints_total",
			Help: "Total number of constraint ids that resolved nowhere",
		},
		[]string{"service", "kind"},
	)

	RosterConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_roster_conflicts_total",
			Help: "Total number of duplicate vehicle assignments resolved on roster load",
		},
		[]string{"service"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordAggregationPass records the outcome and duration of one pass
func RecordAggregationPass(service string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	AggregationPassesTotal.WithLabelValues(service, status).Inc()
	AggregationPassDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(service, queue, status).Inc()
}
