// Package llm 提供 LLM 客户端的构造与调用
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"icang-ai-api/internal/config"
	apperrors "icang-ai-api/pkg/errors"
	"icang-ai-api/pkg/logger"
	"icang-ai-api/pkg/metrics"
)

// ChatModelBuilder 按 provider 配置构造 Eino ChatModel
type ChatModelBuilder func(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error)

// EinoFactory 管理多个 LLM 客户端句柄，首次使用时惰性构造
type EinoFactory struct {
	config   *config.LLMConfig
	builders map[string]ChatModelBuilder
	clients  map[string]*Client
	mu       sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		builders: map[string]ChatModelBuilder{
			config.ProviderKindGemini: buildGemini,
			config.ProviderKindOpenAI: buildOpenAI,
		},
		clients: make(map[string]*Client),
	}
}

// WithBuilder 替换某类 provider 的构造函数
func (f *EinoFactory) WithBuilder(kind string, b ChatModelBuilder) *EinoFactory {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[strings.ToLower(kind)] = b
	return f
}

// DefaultProvider 返回默认 provider 名称
func (f *EinoFactory) DefaultProvider() string {
	return strings.TrimSpace(f.config.DefaultProvider)
}

// Get 获取指定名称的客户端，如果未指定则返回默认客户端。
// 凭据缺失时返回配置错误且不缓存，补齐配置后可再次获取。
func (f *EinoFactory) Get(ctx context.Context, name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = f.DefaultProvider()
	}
	if name == "" {
		return nil, apperrors.ErrConfiguration.WithDetail("llm provider not specified")
	}

	// 已构造的客户端直接复用
	f.mu.RLock()
	c, ok := f.clients[name]
	f.mu.RUnlock()
	if ok {
		return c, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if c, ok = f.clients[name]; ok {
		return c, nil
	}

	// 构造失败不缓存
	c, err := f.build(ctx, name)
	if err != nil {
		metrics.LLMClientInitTotal.WithLabelValues(name, "error").Inc()
		logger.Warn(ctx, "llm client unavailable", "provider", name, "error", err.Error())
		return nil, err
	}

	metrics.LLMClientInitTotal.WithLabelValues(name, "success").Inc()
	logger.Info(ctx, "llm client initialized", "provider", name, "model", c.Model())
	f.clients[name] = c
	return c, nil
}

// Default 返回默认客户端
func (f *EinoFactory) Default(ctx context.Context) (*Client, error) {
	return f.Get(ctx, "")
}

// build 调用方需持有写锁
func (f *EinoFactory) build(ctx context.Context, name string) (*Client, error) {
	// 读取 provider 配置
	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, apperrors.ErrConfiguration.WithDetail(fmt.Sprintf("provider %s not found in LLM config", name))
	}
	// 凭据缺失时不构造
	if strings.TrimSpace(providerCfg.APIKey) == "" {
		return nil, apperrors.ErrConfiguration.WithDetail(fmt.Sprintf("missing API key for provider %s", name))
	}

	// 按类型选择构造函数，未配置类型时用 provider 名称
	kind := strings.ToLower(strings.TrimSpace(providerCfg.Kind))
	if kind == "" {
		kind = strings.ToLower(name)
	}
	builder, ok := f.builders[kind]
	if !ok {
		return nil, apperrors.ErrConfiguration.WithDetail(fmt.Sprintf("unsupported provider kind %q", kind))
	}

	// 创建 ChatModel
	chatModel, err := builder(ctx, providerCfg)
	if err != nil {
		return nil, apperrors.ErrConfiguration.
			WithDetail(fmt.Sprintf("failed to create chat model for %s", name)).
			WithError(err)
	}
	return NewClient(name, providerCfg.Model, chatModel), nil
}

// buildOpenAI 使用 Eino 的 OpenAI 适配器（任意 OpenAI 兼容接口）
func buildOpenAI(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	mc := &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}
	if cfg.MaxTokens > 0 {
		mc.MaxTokens = ptr(cfg.MaxTokens)
	}
	if cfg.Temperature > 0 {
		mc.Temperature = ptr(float32(cfg.Temperature))
	}
	return openai.NewChatModel(ctx, mc)
}

// buildGemini 使用 genai SDK 的 Gemini 适配器
func buildGemini(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	return NewGeminiChatModel(ctx, cfg)
}

func ptr[T any](v T) *T {
	return &v
}
