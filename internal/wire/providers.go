package wire

import (
	"context"
	"time"

	"icang-ai-api/internal/config"
	"icang-ai-api/internal/infrastructure/llm"
	"icang-ai-api/internal/infrastructure/persistence/redis"
	"icang-ai-api/internal/interfaces/http/handler"
	"icang-ai-api/internal/interfaces/http/middleware"
	"icang-ai-api/internal/workflow/prompt"
	"icang-ai-api/pkg/logger"
)

// ProvideRedisClient 提供 Redis 客户端；未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "redis connected", "addr", redis.Addr(&cfg.Cache.Redis))
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 提供生成接口的限流器；未启用或无 Redis 时返回 nil
func ProvideRateLimiter(cfg *config.Config, client *redis.Client) middleware.RateLimiter {
	rl := cfg.Security.RateLimit
	if !rl.Enabled {
		return nil
	}
	if client == nil {
		logger.Warn(context.Background(), "rate limit enabled but redis is disabled, skipping")
		return nil
	}
	return redis.NewRateLimiter(client, rl.RequestsPerMinute, time.Minute)
}

// ProvideLLMFactory 提供 LLM 客户端工厂
func ProvideLLMFactory(cfg *config.Config) *llm.EinoFactory {
	return llm.NewEinoFactory(cfg)
}

// ProvidePromptRegistry 提供提示词模板注册表
func ProvidePromptRegistry() (*prompt.Registry, error) {
	return prompt.NewRegistry()
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, redisClient *redis.Client, factory *llm.EinoFactory) *handler.HealthHandler {
	return handler.NewHealthHandler(redisClient, factory, cfg.App.Version)
}
