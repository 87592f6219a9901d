package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"icang-ai-api/internal/config"
)

const geminiDefaultModel = "gemini-2.5-flash"

// ErrStreamingUnsupported 该服务只做同步调用
var ErrStreamingUnsupported = errors.New("gemini: streaming is not supported")

// GeminiChatModel 基于 Google GenAI SDK 的 Eino ChatModel 实现
type GeminiChatModel struct {
	client      *genai.Client
	model       string
	temperature *float32
	maxTokens   int
}

// NewGeminiChatModel 创建 Gemini ChatModel
func NewGeminiChatModel(ctx context.Context, cfg config.ProviderConfig) (*GeminiChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	m := &GeminiChatModel{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if m.model == "" {
		m.model = geminiDefaultModel
	}
	if cfg.Temperature > 0 {
		m.temperature = ptr(float32(cfg.Temperature))
	}
	return m, nil
}

// GetType 组件类型名，用于 callbacks RunInfo
func (m *GeminiChatModel) GetType() string {
	return "Gemini"
}

// IsCallbacksEnabled 本组件自行触发 callbacks
func (m *GeminiChatModel) IsCallbacksEnabled() bool {
	return true
}

// Generate 同步生成
func (m *GeminiChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &m.model,
		Temperature: m.temperature,
	}, opts...)
	if m.maxTokens > 0 && options.MaxTokens == nil {
		options.MaxTokens = &m.maxTokens
	}

	conf := &model.Config{Model: m.model}
	if options.Model != nil && *options.Model != "" {
		conf.Model = *options.Model
	}
	if options.Temperature != nil {
		conf.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil {
		conf.MaxTokens = *options.MaxTokens
	}

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: in, Config: conf})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	contents, system := toGenaiContents(in)
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: no input messages")
	}

	gc := &genai.GenerateContentConfig{
		Temperature:       options.Temperature,
		SystemInstruction: system,
	}
	if options.MaxTokens != nil {
		gc.MaxOutputTokens = int32(*options.MaxTokens)
	}

	resp, err := m.client.Models.GenerateContent(ctx, conf.Model, contents, gc)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	outMsg, usage, err := fromGenaiResponse(resp)
	if err != nil {
		return nil, err
	}

	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message:    outMsg,
		Config:     conf,
		TokenUsage: usage,
	})
	return outMsg, nil
}

// Stream 不支持流式输出
func (m *GeminiChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamingUnsupported
}

// toGenaiContents 将 Eino 消息转换为 GenAI 内容，system 消息合并为 SystemInstruction
func toGenaiContents(in []*schema.Message) ([]*genai.Content, *genai.Content) {
	var (
		contents []*genai.Content
		system   []string
	)
	for _, msg := range in {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: msg.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}

	var sys *genai.Content
	if len(system) > 0 {
		sys = &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}}
	}
	return contents, sys
}

func fromGenaiResponse(resp *genai.GenerateContentResponse) (*schema.Message, *model.TokenUsage, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		reason := ""
		if resp != nil && resp.PromptFeedback != nil {
			reason = fmt.Sprintf(" (block reason: %v)", resp.PromptFeedback.BlockReason)
		}
		return nil, nil, fmt.Errorf("gemini: no candidates returned%s", reason)
	}

	cand := resp.Candidates[0]
	var sb strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p != nil {
				sb.WriteString(p.Text)
			}
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, nil, fmt.Errorf("gemini: empty response content (finish reason: %v)", cand.FinishReason)
	}

	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: text,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(cand.FinishReason),
		},
	}

	var usage *model.TokenUsage
	if um := resp.UsageMetadata; um != nil {
		usage = &model.TokenUsage{
			PromptTokens:     int(um.PromptTokenCount),
			CompletionTokens: int(um.CandidatesTokenCount),
			TotalTokens:      int(um.TotalTokenCount),
		}
		msg.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}
	return msg, usage, nil
}
