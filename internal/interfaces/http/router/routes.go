package router

import (
	"icang-ai-api/internal/interfaces/http/handler"
	"icang-ai-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, gen *handler.GenerationHandler, limiter middleware.RateLimiter) {
	// 模式列表（无需 API Key）
	v1.GET("/modes", gen.ListModes)

	// 内容生成
	v1.POST("/generate", middleware.RateLimit(limiter, "generate"), gen.Generate)
}
