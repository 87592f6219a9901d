// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"

	apperrors "icang-ai-api/pkg/errors"
)

// Mode 生成模式，同一时刻只有一个模式处于激活状态
type Mode string

const (
	ModeStory Mode = "story"
	ModeInfo  Mode = "info"
	ModeMath  Mode = "math"
)

// Modes 全部模式，顺序即导航顺序
var Modes = []Mode{ModeStory, ModeInfo, ModeMath}

// modeAliases 兼容原页面的叫法
var modeAliases = map[string]Mode{
	"story":      ModeStory,
	"cerita":     ModeStory,
	"app":        ModeStory,
	"info":       ModeInfo,
	"berita":     ModeInfo,
	"news":       ModeInfo,
	"math":       ModeMath,
	"matematika": ModeMath,
}

// ParseMode 解析模式名称（忽略大小写与首尾空白）
func ParseMode(s string) (Mode, error) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", apperrors.ErrValidation.WithDetail(fmt.Sprintf("unknown mode: %q", s))
	}
	return m, nil
}

// Valid 是否为已知模式
func (m Mode) Valid() bool {
	switch m {
	case ModeStory, ModeInfo, ModeMath:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}

// Genre 故事类型（仅 Story 模式使用）
type Genre string

const (
	GenreHorror Genre = "Horror"
	GenreComedy Genre = "Komedi"
	GenreSerius Genre = "Serius"
)

// Genres 下拉框中的可选类型
var Genres = []Genre{GenreHorror, GenreComedy, GenreSerius}

var genreAliases = map[string]Genre{
	"horror":  GenreHorror,
	"komedi":  GenreComedy,
	"comedy":  GenreComedy,
	"serius":  GenreSerius,
	"serious": GenreSerius,
}

// ParseGenre 解析故事类型，支持印尼语与英语写法
func ParseGenre(s string) (Genre, error) {
	g, ok := genreAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", apperrors.ErrValidation.WithDetail(fmt.Sprintf("unknown genre: %q", s))
	}
	return g, nil
}

// Valid 是否为已知类型
func (g Genre) Valid() bool {
	switch g {
	case GenreHorror, GenreComedy, GenreSerius:
		return true
	default:
		return false
	}
}

func (g Genre) String() string {
	return string(g)
}

// 故事长度滑块范围（单位：词）
const (
	MinStoryLength     = 200
	MaxStoryLength     = 500
	StoryLengthStep    = 10
	DefaultStoryLength = MinStoryLength
)

// GenerationRequest 一次用户操作对应的生成请求，用完即弃
type GenerationRequest struct {
	Topic  string `json:"topic"`
	Mode   Mode   `json:"mode"`
	Length int    `json:"length,omitempty"`
	Genre  Genre  `json:"genre,omitempty"`
}

// NewStoryRequest 创建故事请求
func NewStoryRequest(topic string, length int, genre Genre) GenerationRequest {
	return GenerationRequest{Topic: topic, Mode: ModeStory, Length: length, Genre: genre}
}

// NewInfoRequest 创建资讯请求
func NewInfoRequest(topic string) GenerationRequest {
	return GenerationRequest{Topic: topic, Mode: ModeInfo}
}

// NewMathRequest 创建数学解题请求
func NewMathRequest(problem string) GenerationRequest {
	return GenerationRequest{Topic: problem, Mode: ModeMath}
}

// TrimmedTopic 去除首尾空白后的主题
func (r GenerationRequest) TrimmedTopic() string {
	return strings.TrimSpace(r.Topic)
}

// Validate 校验请求；Length/Genre 只在 Story 模式下检查
func (r GenerationRequest) Validate() error {
	if !r.Mode.Valid() {
		return apperrors.ErrValidation.WithDetail(fmt.Sprintf("unknown mode: %q", r.Mode))
	}
	if r.TrimmedTopic() == "" {
		return apperrors.ErrValidation.WithDetail("topic is required")
	}
	if r.Mode != ModeStory {
		return nil
	}
	if r.Length < MinStoryLength || r.Length > MaxStoryLength {
		return apperrors.ErrValidation.WithDetail(
			fmt.Sprintf("length must be between %d and %d, got %d", MinStoryLength, MaxStoryLength, r.Length))
	}
	if !r.Genre.Valid() {
		return apperrors.ErrValidation.WithDetail(fmt.Sprintf("unknown genre: %q", r.Genre))
	}
	return nil
}
