package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	tokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refresh_total",
			Help: "Total token refresh attempts",
		},
		[]string{"provider", "status"},
	)

	tokenOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_operations_total",
			Help: "Total token operations",
		},
		[]string{"operation", "provider"},
	)

	webhookDeliveryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_delivery_total",
			Help: "Total webhook delivery outcomes",
		},
		[]string{"event", "status"},
	)
)

// RecordTokenRefresh counts one refresh attempt outcome
func RecordTokenRefresh(provider string, success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	tokenRefreshTotal.WithLabelValues(provider, status).Inc()
}

// RecordTokenOperation counts a store/get/delete operation
func RecordTokenOperation(operation, provider string) {
	tokenOperationsTotal.WithLabelValues(operation, provider).Inc()
}

// RecordWebhookDelivery counts one delivery outcome
func RecordWebhookDelivery(event string, success bool) {
	status := "failure"
	if success {
		status = "success"
	}
	webhookDeliveryTotal.WithLabelValues(event, status).Inc()
}

// Middleware records request counts and latencies per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
