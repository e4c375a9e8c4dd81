package middleware

import (
	"strconv"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no route, so probing random
// paths cannot grow the label space.
const unmatchedRoute = "unmatched"

// Metrics records latency by status class and counts by exact status,
// both keyed on the route template rather than the raw path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPInFlight.Inc()
		defer metrics.HTTPInFlight.Dec()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		code := c.Writer.Status()
		method := c.Request.Method

		metrics.HTTPRequestDuration.WithLabelValues(method, route, statusClass(code)).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	}
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
