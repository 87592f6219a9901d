// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"icang-ai-api/internal/interfaces/http/dto"
	apperrors "icang-ai-api/pkg/errors"
	"icang-ai-api/pkg/utils"
)

// ClaimsKey 认证通过后 claims 在 gin.Context 中的键
const ClaimsKey = "claims"

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
	// SkipPaths 跳过认证的路径前缀
	SkipPaths []string
	// Enabled 是否启用认证
	Enabled bool
}

// Auth Bearer Token 认证中间件
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		// 读取 Bearer Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, apperrors.ErrTokenMissing.WithDetail("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, apperrors.ErrTokenInvalid.WithDetail("invalid authorization format"))
			return
		}

		// 校验签名、签发者与有效期
		claims, err := jwtManager.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				abortUnauthorized(c, apperrors.ErrTokenExpired)
				return
			}
			abortUnauthorized(c, apperrors.ErrTokenInvalid)
			return
		}

		// 后续限流与模式授权按 client 识别调用方
		c.Set(ClaimsKey, claims)
		c.Set("client", claims.Client)

		c.Next()
	}
}

// abortUnauthorized 终止请求并返回 401
func abortUnauthorized(c *gin.Context, err *apperrors.AppError) {
	dto.AbortWithError(c, err)
}
