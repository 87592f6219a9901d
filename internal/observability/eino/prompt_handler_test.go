package eino

import (
	"context"
	"errors"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	llmctx "icang-ai-api/internal/domain/service"
	"icang-ai-api/pkg/metrics"
)

func TestPromptHandlerCountsRenders(t *testing.T) {
	h := newPromptCallbackHandler()
	info := &einocb.RunInfo{Type: "Default"}
	ctx := llmctx.WithWorkflowProvider(context.Background(), "prompt-test", "gemini")

	ok := metrics.PromptRenderTotal.WithLabelValues("prompt-test", "success")
	failed := metrics.PromptRenderTotal.WithLabelValues("prompt-test", "error")
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	h.OnEnd(ctx, info, &prompt.CallbackOutput{Result: []*schema.Message{schema.UserMessage("Buatkan cerita")}})
	h.OnEnd(ctx, info, nil)
	h.OnError(ctx, info, errors.New("missing variable"))

	assert.Equal(t, beforeOK+2, testutil.ToFloat64(ok))
	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failed))
}
