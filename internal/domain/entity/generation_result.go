package entity

import "time"

// ResultStatus 生成结果状态
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultFailure ResultStatus = "failure"
)

// GenerationResult 生成结果：Success(text) 或 Failure(message)
type GenerationResult struct {
	Status  ResultStatus `json:"status"`
	Text    string       `json:"text,omitempty"`
	Message string       `json:"message,omitempty"`
	Meta    ResultMeta   `json:"meta"`
}

// ResultMeta 调用元数据
type ResultMeta struct {
	Mode             Mode          `json:"mode"`
	Provider         string        `json:"provider,omitempty"`
	Model            string        `json:"model,omitempty"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Elapsed          time.Duration `json:"elapsed"`
}

// Success 构造成功结果
func Success(text string) GenerationResult {
	return GenerationResult{Status: ResultSuccess, Text: text}
}

// Failure 构造失败结果
func Failure(message string) GenerationResult {
	return GenerationResult{Status: ResultFailure, Message: message}
}

// OK 是否成功
func (r GenerationResult) OK() bool {
	return r.Status == ResultSuccess
}

// Display 返回界面上应展示的文本：成功时为内容，失败时为错误信息
func (r GenerationResult) Display() string {
	if r.OK() {
		return r.Text
	}
	return r.Message
}
