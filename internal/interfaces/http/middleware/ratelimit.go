package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"icang-ai-api/internal/infrastructure/persistence/redis"
	"icang-ai-api/internal/interfaces/http/dto"
	apperrors "icang-ai-api/pkg/errors"
	"icang-ai-api/pkg/logger"
	"icang-ai-api/pkg/metrics"
)

// 限流响应头
const (
	RateLimitHeader          = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
)

// RateLimiter 限流器接口；Allow 原子地检查并占用一次配额
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RateLimit 按调用方限流；调用方为认证后的 client，否则为客户端 IP
func RateLimit(limiter RateLimiter, endpoint string) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		caller := c.GetString("client")
		if caller == "" {
			caller = c.ClientIP()
		}
		key := redis.BuildRateLimitKey(caller, endpoint)

		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		// 放行与拒绝都回传配额
		c.Header(RateLimitHeader, strconv.Itoa(limiter.Limit()))
		c.Header(RateLimitRemainingHeader, strconv.Itoa(remaining))

		if !allowed {
			metrics.RateLimitRejectedTotal.WithLabelValues(endpoint).Inc()
			dto.AbortWithError(c, apperrors.ErrTooManyRequests.WithDetail("rate limit exceeded"))
			return
		}

		c.Next()
	}
}
