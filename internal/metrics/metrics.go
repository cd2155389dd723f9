package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "Total HTTP requests handled, by method, route and status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SyncedProducts counts feed sync outcomes per source
	SyncedProducts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_synced_products_total",
		Help: "Products processed by feed syncs, by source and outcome",
	}, []string{"source", "outcome"})

	// ImportRows counts bulk import row outcomes
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_import_rows_total",
		Help: "Rows processed by bulk imports, by outcome",
	}, []string{"outcome"})
)

// Middleware records request counts and latencies per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
