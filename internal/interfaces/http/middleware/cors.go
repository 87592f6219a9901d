// Package middleware 提供 HTTP 中间件
package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"icang-ai-api/internal/config"
)

// CORS 跨域中间件；通配来源时不允许携带凭证
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  cfg.AllowedMethods,
		AllowHeaders:  cfg.AllowedHeaders,
		ExposeHeaders: []string{RequestIDHeader, TraceIDHeader, RateLimitHeader, RateLimitRemainingHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	}

	if len(c.AllowOrigins) == 0 || slices.Contains(c.AllowOrigins, "*") {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
	} else {
		c.AllowCredentials = true
	}
	return cors.New(c)
}
