package metrics

import (
	"database/sql"
	"strconv"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	metricPrefix = "watttime_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	backendCalls   *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec

	rateLimited *prometheus.CounterVec

	auditWriteErrors prometheus.Counter
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *zap.Logger) {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total API operation requests by operation and status",
			},
			[]string{"operation", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "API operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		)

		backendCalls = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "backend_calls_total",
				Help: "Total backend calls by operation and result",
			},
			[]string{"operation", "result"},
		)
		backendLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "backend_call_duration_seconds",
				Help:    "Backend call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		)

		rateLimited = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rate_limited_total",
				Help: "Total requests rejected by the rate limiter by path",
			},
			[]string{"path"},
		)

		auditWriteErrors = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "audit_write_errors_total",
				Help: "Total failed audit log writes",
			},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			backendCalls,
			backendLatency,
			rateLimited,
			auditWriteErrors,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// Middleware records per-operation request counts and latency.
func Middleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	next(ctx)
	operation := "unknown"
	if op := ctx.Operation(); op != nil && op.OperationID != "" {
		operation = op.OperationID
	}
	ObserveRequest(operation, ctx.Status(), time.Since(start))
}

// ObserveRequest records an operation request.
func ObserveRequest(operation string, status int, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	if status == 0 {
		status = 200
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// ObserveBackend records backend call duration and result.
func ObserveBackend(operation, result string, duration time.Duration) {
	if operation == "" {
		operation = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if backendCalls != nil {
		backendCalls.WithLabelValues(operation, result).Inc()
	}
	if backendLatency != nil {
		backendLatency.WithLabelValues(operation, result).Observe(duration.Seconds())
	}
}

// IncRateLimited increments the rate limiter rejection counter.
func IncRateLimited(path string) {
	if path == "" {
		path = "unknown"
	}
	if rateLimited != nil {
		rateLimited.WithLabelValues(path).Inc()
	}
}

// IncAuditWriteError increments the audit failure counter.
func IncAuditWriteError() {
	if auditWriteErrors != nil {
		auditWriteErrors.Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
