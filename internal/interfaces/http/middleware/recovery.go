package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"icang-ai-api/internal/interfaces/http/dto"
	apperrors "icang-ai-api/pkg/errors"
	"icang-ai-api/pkg/logger"
)

// Recovery 捕获处理链中的 panic，记录堆栈并以统一错误结构返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", rec),
				"stack", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			dto.AbortWithError(c, apperrors.ErrInternalError.WithDetail("request_id="+c.GetString("request_id")))
		}()

		c.Next()
	}
}
