// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"icang-ai-api/internal/application/content"
	"icang-ai-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	redis   *redis.Client
	clients content.ClientProvider
	version string
}

// NewHealthHandler 创建健康检查处理器；redisClient 为 nil 表示未启用
func NewHealthHandler(redisClient *redis.Client, clients content.ClientProvider, version string) *HealthHandler {
	return &HealthHandler{
		redis:   redisClient,
		clients: clients,
		version: version,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Live 存活检查接口
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready 就绪检查：模型客户端可用（API Key 已配置），Redis 启用时需可连通
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"llm":   {Status: "unknown"},
		"redis": {Status: "disabled"},
	}
	ready := true

	if h.clients == nil {
		checks["llm"].Status = "missing"
		checks["llm"].Error = "llm factory not configured"
		ready = false
	} else if _, err := h.clients.Default(ctx); err != nil {
		checks["llm"].Status = "unconfigured"
		checks["llm"].Error = err.Error()
		ready = false
	} else {
		checks["llm"].Status = "ok"
	}

	if h.redis != nil {
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "error"
			checks["redis"].Error = err.Error()
			ready = false
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
