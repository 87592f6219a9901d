package eino

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"

	llmctx "icang-ai-api/internal/domain/service"
	"icang-ai-api/pkg/logger"
	"icang-ai-api/pkg/metrics"
)

// newPromptCallbackHandler 记录模板渲染结果；渲染内容只记录长度
func newPromptCallbackHandler() *cbtemplate.PromptCallbackHandler {
	return &cbtemplate.PromptCallbackHandler{
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			workflow := llmctx.WorkflowFromContext(ctx)
			metrics.PromptRenderTotal.WithLabelValues(workflow, "success").Inc()

			chars := 0
			if output != nil {
				for _, m := range output.Result {
					if m != nil {
						chars += len([]rune(m.Content))
					}
				}
			}
			logger.Debug(ctx, "prompt rendered", "workflow", workflow, "chars", chars)
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			workflow := llmctx.WorkflowFromContext(ctx)
			metrics.PromptRenderTotal.WithLabelValues(workflow, "error").Inc()
			logger.Warn(ctx, "prompt render failed", "workflow", workflow, "error", err.Error())
			return ctx
		},
	}
}
