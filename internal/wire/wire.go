//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"icang-ai-api/internal/application/content"
	"icang-ai-api/internal/config"
	"icang-ai-api/internal/infrastructure/llm"
	"icang-ai-api/internal/interfaces/http/handler"
	"icang-ai-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		ContentSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeContentService 仅初始化生成服务（终端前端使用，不连接 Redis）
func InitializeContentService(cfg *config.Config) (*content.Service, error) {
	wire.Build(ContentSet)
	return nil, nil
}

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
)

// ContentSet 生成服务提供者集合
var ContentSet = wire.NewSet(
	ProvideLLMFactory,
	ProvidePromptRegistry,
	content.NewService,
	wire.Bind(new(content.ClientProvider), new(*llm.EinoFactory)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewGenerationHandler,
	router.New,
)
