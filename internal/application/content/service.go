// Package content 实现内容生成流程：校验、渲染提示词、调用模型、返回结果
package content

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"icang-ai-api/internal/domain/entity"
	llmctx "icang-ai-api/internal/domain/service"
	"icang-ai-api/internal/infrastructure/llm"
	"icang-ai-api/internal/workflow/prompt"
	apperrors "icang-ai-api/pkg/errors"
	"icang-ai-api/pkg/logger"
	"icang-ai-api/pkg/metrics"
	"icang-ai-api/pkg/tracer"
)

// ClientProvider 提供可复用的模型客户端
type ClientProvider interface {
	Default(ctx context.Context) (*llm.Client, error)
}

// Service 内容生成服务，无内部可变状态，可并发使用
type Service struct {
	clients  ClientProvider
	registry *prompt.Registry
}

// NewService 创建内容生成服务
func NewService(clients ClientProvider, registry *prompt.Registry) *Service {
	return &Service{clients: clients, registry: registry}
}

// InitClient 获取默认客户端；未配置 API Key 时返回配置错误
func (s *Service) InitClient(ctx context.Context) (*llm.Client, error) {
	return s.clients.Default(ctx)
}

// Modes 返回全部模式的页面文案，顺序即导航顺序
func (s *Service) Modes() []ModeDescriptor {
	out := make([]ModeDescriptor, 0, len(entity.Modes))
	for _, m := range entity.Modes {
		if d, ok := Describe(m); ok {
			out = append(out, d)
		}
	}
	return out
}

// Generate 执行一次生成。
// 请求非法时返回校验错误且不发起远端调用；远端失败被转换为 Failure 结果，不作为 error 返回。
func (s *Service) Generate(ctx context.Context, req entity.GenerationRequest, client *llm.Client) (entity.GenerationResult, error) {
	start := time.Now()
	mode := req.Mode.String()

	if err := req.Validate(); err != nil {
		metrics.ContentGenerationTotal.WithLabelValues(mode, "invalid").Inc()
		return entity.GenerationResult{}, err
	}
	if client == nil {
		metrics.ContentGenerationTotal.WithLabelValues(mode, "unconfigured").Inc()
		return entity.GenerationResult{}, apperrors.ErrConfiguration.WithDetail("llm client not initialized")
	}

	ctx = logger.WithContext(ctx, logger.ModeKey, mode)
	ctx = logger.WithContext(ctx, logger.ProviderKey, client.Provider())
	ctx = llmctx.WithWorkflowProvider(ctx, llmctx.WorkflowForMode(mode), client.Provider())

	ctx, span := tracer.Start(ctx, "content.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("content.mode", mode),
		attribute.String("llm.provider", client.Provider()),
		attribute.String("llm.model", client.Model()),
	)

	rendered, err := s.registry.Render(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.GenerationResult{}, apperrors.ErrInternalError.WithDetail("render prompt").WithError(err)
	}
	span.SetAttributes(attribute.String("prompt.id", string(rendered.ID)))

	logger.Debug(ctx, "generating content", "prompt_id", string(rendered.ID), "topic_len", len(req.TrimmedTopic()))

	completion, callErr := client.GenerateText(ctx, rendered.Text)
	elapsed := time.Since(start)
	metrics.ContentGenerationDuration.WithLabelValues(mode).Observe(elapsed.Seconds())

	var result entity.GenerationResult
	if callErr != nil {
		span.RecordError(callErr)
		span.SetStatus(codes.Error, callErr.Error())
		metrics.ContentGenerationTotal.WithLabelValues(mode, "failure").Inc()
		logger.Warn(ctx, "content generation failed", "error", callErr.Error(), "elapsed_ms", elapsed.Milliseconds())

		result = entity.Failure(failurePrefix(req.Mode) + callErr.Error())
	} else {
		metrics.ContentGenerationTotal.WithLabelValues(mode, "success").Inc()
		metrics.ContentWordCount.WithLabelValues(mode).Observe(float64(len(strings.Fields(completion.Text))))
		logger.Info(ctx, "content generated", "elapsed_ms", elapsed.Milliseconds(), "chars", len(completion.Text))

		result = entity.Success(completion.Text)
		result.Meta.PromptTokens = completion.PromptTokens
		result.Meta.CompletionTokens = completion.CompletionTokens
	}

	result.Meta.Mode = req.Mode
	result.Meta.Provider = client.Provider()
	result.Meta.Model = client.Model()
	result.Meta.Elapsed = elapsed
	return result, nil
}

// GenerateContent 获取客户端后执行一次生成
func (s *Service) GenerateContent(ctx context.Context, req entity.GenerationRequest) (entity.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		metrics.ContentGenerationTotal.WithLabelValues(req.Mode.String(), "invalid").Inc()
		return entity.GenerationResult{}, err
	}
	client, err := s.InitClient(ctx)
	if err != nil {
		metrics.ContentGenerationTotal.WithLabelValues(req.Mode.String(), "unconfigured").Inc()
		return entity.GenerationResult{}, err
	}
	return s.Generate(ctx, req, client)
}
