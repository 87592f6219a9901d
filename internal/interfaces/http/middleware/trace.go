package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"icang-ai-api/pkg/logger"
)

// TraceIDHeader 响应中回传的 trace ID
const TraceIDHeader = "X-Trace-ID"

// Trace OpenTelemetry 追踪中间件；探针与指标端点不产生 span
func Trace(serviceName string, untraced ...string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !slices.Contains(untraced, r.URL.Path)
		}),
	)
}

// TraceContext 把当前 span 的 trace_id/span_id 写入日志上下文与响应头
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		if !sc.IsValid() {
			c.Next()
			return
		}

		traceID, spanID := sc.TraceID().String(), sc.SpanID().String()
		c.Set("trace_id", traceID)
		c.Set("span_id", spanID)

		ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.SpanIDKey, spanID))
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}
