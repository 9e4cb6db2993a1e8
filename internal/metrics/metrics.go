package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric definitions:
// - http_requests_total: requests by route, method and status
// - http_request_duration_seconds: latency by route and method
// - account_operations_total: account service calls by operation and outcome
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	AccountOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "account_operations_total", Help: "Account operations by name and outcome."},
		[]string{"operation", "outcome"},
	)
)

// Outcome labels for AccountOperations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, AccountOperations)
}

// Middleware records request count and latency. The route template is used
// as the path label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordOperation counts one account operation.
func RecordOperation(operation, outcome string) {
	AccountOperations.WithLabelValues(operation, outcome).Inc()
}
