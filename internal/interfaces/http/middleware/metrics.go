package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/prometheus"
)

// Metrics records per-request counters and latency histograms.  Routes are
// labelled by their template (e.g. /api/v1/cases/:caseID) so cardinality
// stays bounded.
func Metrics(metrics *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		active := metrics.HTTPActiveRequests.WithLabelValues(method, path)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		prometheus.RecordHTTPRequest(metrics, method, path, c.Writer.Status(), time.Since(start))
	}
}
