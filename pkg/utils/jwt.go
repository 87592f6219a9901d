// Package utils 提供通用工具函数
package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims API 访问令牌声明
type Claims struct {
	// Client 调用方标识（前端名称、脚本名等）
	Client string `json:"client"`
	// Modes 允许使用的生成模式，为空表示全部
	Modes []string `json:"modes,omitempty"`
	jwt.RegisteredClaims
}

// AllowsMode 判断令牌是否允许调用指定模式
func (c *Claims) AllowsMode(mode string) bool {
	if c == nil {
		return false
	}
	if len(c.Modes) == 0 {
		return true
	}
	for _, m := range c.Modes {
		if strings.EqualFold(m, mode) {
			return true
		}
	}
	return false
}

// JWTManager JWT 管理器
type JWTManager struct {
	secret string
	issuer string
}

// NewJWTManager 创建 JWT 管理器
func NewJWTManager(secret, issuer string) *JWTManager {
	return &JWTManager{
		secret: secret,
		issuer: issuer,
	}
}

// GenerateToken 生成访问令牌
func (m *JWTManager) GenerateToken(client string, modes []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Client: client,
		Modes:  modes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ParseToken 解析并验证 Token
func (m *JWTManager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(m.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
