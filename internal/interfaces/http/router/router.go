// Package router 提供 HTTP 路由配置
package router

import (
	"icang-ai-api/internal/config"
	"icang-ai-api/internal/interfaces/http/handler"
	"icang-ai-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	health  *handler.HealthHandler
	gen     *handler.GenerationHandler
	limiter middleware.RateLimiter
}

// New 创建新的路由器；limiter 为 nil 时不限流
func New(cfg *config.Config, health *handler.HealthHandler, gen *handler.GenerationHandler, limiter middleware.RateLimiter) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		health:  health,
		gen:     gen,
		limiter: limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.BodyLimit(r.cfg.Server.HTTP.MaxBodyBytes))

	// CORS 中间件
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	metricsPath := r.cfg.Observability.Metrics.Path

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, "/health", "/live", "/ready", metricsPath))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(metricsPath))
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	jwtCfg := r.cfg.Security.JWT
	v1 := r.engine.Group("/v1")
	v1.Use(middleware.Auth(middleware.AuthConfig{
		Enabled:   jwtCfg.Enabled,
		Secret:    jwtCfg.Secret,
		Issuer:    jwtCfg.Issuer,
		SkipPaths: []string{"/v1/modes"},
	}))
	RegisterV1Routes(v1, r.gen, r.limiter)
}
