package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "icang-ai-api/internal/domain/service"
)

// Client 绑定固定 provider 与模型的调用句柄，构造后只读，可并发使用
type Client struct {
	provider string
	model    string
	chat     model.BaseChatModel
}

// Completion 一次生成调用的输出
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// NewClient 创建调用句柄
func NewClient(provider, modelName string, chat model.BaseChatModel) *Client {
	return &Client{
		provider: strings.TrimSpace(provider),
		model:    strings.TrimSpace(modelName),
		chat:     chat,
	}
}

// Provider 返回 provider 名称
func (c *Client) Provider() string {
	return c.provider
}

// Model 返回模型标识
func (c *Client) Model() string {
	return c.model
}

// GenerateText 以 prompt 作为唯一输入同步调用模型，返回生成文本
func (c *Client) GenerateText(ctx context.Context, prompt string) (*Completion, error) {
	if c == nil || c.chat == nil {
		return nil, fmt.Errorf("llm client not configured")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "", c.provider)

	var opts []model.Option
	if c.model != "" {
		opts = append(opts, model.WithModel(c.model))
	}

	out, err := c.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	text := strings.TrimSpace(out.Content)
	if text == "" {
		return nil, fmt.Errorf("empty response content")
	}

	completion := &Completion{Text: text}
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		completion.PromptTokens = out.ResponseMeta.Usage.PromptTokens
		completion.CompletionTokens = out.ResponseMeta.Usage.CompletionTokens
	}
	return completion, nil
}
