package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/ratelimit"
)

// RateLimit keys on the authenticated actor when there is one and the
// client IP otherwise. Limiter errors let the request through.
func RateLimit(limiter ratelimit.Limiter, m *metrics.Metrics, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id := c.GetString(ContextUserID); id != "" {
			key = "user:" + id
		}

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !ok {
			m.RateLimited()
			c.Header("Retry-After", "1")
			httperr.TooManyRequests(c, "rate_limited", "Too many requests.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Metrics records count and latency per route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
