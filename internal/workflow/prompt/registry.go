package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"icang-ai-api/internal/domain/entity"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptStoryV1 PromptID = "story_v1"
	PromptInfoV1  PromptID = "info_v1"
	PromptMathV1  PromptID = "math_v1"
)

// modePrompts 每个模式固定使用一个模板
var modePrompts = map[entity.Mode]PromptID{
	entity.ModeStory: PromptStoryV1,
	entity.ModeInfo:  PromptInfoV1,
	entity.ModeMath:  PromptMathV1,
}

// RenderedPrompt 渲染后的指令文本，作为唯一参数发送给模型
type RenderedPrompt struct {
	Mode entity.Mode
	ID   PromptID
	Text string
}

// Registry 在构造时加载全部模板，之后只读
type Registry struct {
	templates map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() (*Registry, error) {
	r := &Registry{templates: make(map[PromptID]einoprompt.ChatTemplate, len(modePrompts))}
	for _, id := range modePrompts {
		user, err := readEmbeddedText(fmt.Sprintf("templates/%s.user.txt", id))
		if err != nil {
			return nil, fmt.Errorf("load prompt %s: %w", id, err)
		}
		r.templates[id] = einoprompt.FromMessages(schema.FString, schema.UserMessage(user))
	}
	return r, nil
}

// MustNewRegistry 模板随二进制嵌入，加载失败属于构建错误
func MustNewRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Render 按模式选择模板并填充变量；同样的输入得到同样的输出
func (r *Registry) Render(ctx context.Context, req entity.GenerationRequest) (RenderedPrompt, error) {
	if r == nil {
		return RenderedPrompt{}, fmt.Errorf("prompt registry is nil")
	}
	id, ok := modePrompts[req.Mode]
	if !ok {
		return RenderedPrompt{}, fmt.Errorf("no prompt for mode %q", req.Mode)
	}
	tpl, ok := r.templates[id]
	if !ok {
		return RenderedPrompt{}, fmt.Errorf("prompt %s not loaded", id)
	}

	msgs, err := tpl.Format(ctx, variablesFor(req))
	if err != nil {
		return RenderedPrompt{}, fmt.Errorf("format prompt %s: %w", id, err)
	}

	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		parts = append(parts, m.Content)
	}
	return RenderedPrompt{Mode: req.Mode, ID: id, Text: strings.Join(parts, "\n\n")}, nil
}

func variablesFor(req entity.GenerationRequest) map[string]any {
	vars := map[string]any{
		"topic": req.TrimmedTopic(),
	}
	if req.Mode == entity.ModeStory {
		vars["genre"] = req.Genre.String()
		vars["length"] = req.Length
	}
	return vars
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
