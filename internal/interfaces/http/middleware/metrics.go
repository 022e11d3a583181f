package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/customerhub/backend/internal/infrastructure/telemetry"
)

// unmatchedRoute labels requests that hit no registered route
const unmatchedRoute = "unknown"

// HTTPMetrics returns a Gin middleware that records request count, latency
// and in-flight requests. A nil metrics value yields a no-op middleware.
func HTTPMetrics(metrics *telemetry.HTTPMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		defer metrics.InFlight.Dec()

		c.Next()

		metrics.ObserveRequest(
			c.Request.Method,
			getRoutePattern(c),
			strconv.Itoa(c.Writer.Status()),
			start,
		)
	}
}

// getRoutePattern returns the matched route pattern (e.g. "/api/v1/customers/:id")
// instead of the raw path to keep label cardinality bounded.
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
