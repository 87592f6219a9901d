package middleware

import (
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"icang-ai-api/pkg/metrics"
)

// Metrics Prometheus 指标采集中间件；skip 中的路径（如指标端点本身）不计入
func Metrics(skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if slices.Contains(skip, path) {
			c.Next()
			return
		}
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		start := time.Now()

		if c.Request.ContentLength > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(c.Request.ContentLength))
		}

		c.Next()

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
