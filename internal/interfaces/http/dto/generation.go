package dto

import (
	"strings"

	"icang-ai-api/internal/application/content"
	"icang-ai-api/internal/domain/entity"
)

// GenerateRequest 生成请求；length/genre 仅在 story 模式下使用
type GenerateRequest struct {
	Mode   string `json:"mode" binding:"required"`
	Topic  string `json:"topic"`
	Length int    `json:"length,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

// ToEntity 转换为领域请求，模式与类型名称在此解析
func (r *GenerateRequest) ToEntity() (entity.GenerationRequest, error) {
	mode, err := entity.ParseMode(r.Mode)
	if err != nil {
		return entity.GenerationRequest{}, err
	}

	req := entity.GenerationRequest{Topic: r.Topic, Mode: mode}
	if mode != entity.ModeStory {
		return req, nil
	}

	req.Length = r.Length
	if strings.TrimSpace(r.Genre) != "" {
		genre, err := entity.ParseGenre(r.Genre)
		if err != nil {
			return entity.GenerationRequest{}, err
		}
		req.Genre = genre
	}
	return req, nil
}

// GenerateResponse 生成成功响应
type GenerateResponse struct {
	Mode             string `json:"mode"`
	Content          string `json:"content"`
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	ElapsedMs        int64  `json:"elapsed_ms"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`
}

// ToGenerateResponse 转换成功结果
func ToGenerateResponse(res entity.GenerationResult) *GenerateResponse {
	return &GenerateResponse{
		Mode:             res.Meta.Mode.String(),
		Content:          res.Text,
		Provider:         res.Meta.Provider,
		Model:            res.Meta.Model,
		ElapsedMs:        res.Meta.Elapsed.Milliseconds(),
		PromptTokens:     res.Meta.PromptTokens,
		CompletionTokens: res.Meta.CompletionTokens,
	}
}

// ModeListResponse 模式列表响应
type ModeListResponse struct {
	Modes          []content.ModeDescriptor `json:"modes"`
	Genres         []string                 `json:"genres"`
	MinStoryLength int                      `json:"min_story_length"`
	MaxStoryLength int                      `json:"max_story_length"`
	LengthStep     int                      `json:"length_step"`
}

// NewModeListResponse 组装模式列表
func NewModeListResponse(modes []content.ModeDescriptor) *ModeListResponse {
	genres := make([]string, 0, len(entity.Genres))
	for _, g := range entity.Genres {
		genres = append(genres, g.String())
	}
	return &ModeListResponse{
		Modes:          modes,
		Genres:         genres,
		MinStoryLength: entity.MinStoryLength,
		MaxStoryLength: entity.MaxStoryLength,
		LengthStep:     entity.StoryLengthStep,
	}
}
