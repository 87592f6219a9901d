// Package cli 提供终端交互前端：显式的页面状态、命令解析与结果展示
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"icang-ai-api/internal/application/content"
	"icang-ai-api/internal/domain/entity"
	"icang-ai-api/internal/infrastructure/llm"
	apperrors "icang-ai-api/pkg/errors"
)

// Page 当前激活的页面，同一时刻只有一个
type Page int

const (
	PageStory Page = iota
	PageInfo
	PageMath
)

// Mode 页面对应的生成模式
func (p Page) Mode() entity.Mode {
	switch p {
	case PageInfo:
		return entity.ModeInfo
	case PageMath:
		return entity.ModeMath
	default:
		return entity.ModeStory
	}
}

func (p Page) String() string {
	return p.Mode().String()
}

// PageForMode 由模式得到页面
func PageForMode(m entity.Mode) (Page, bool) {
	switch m {
	case entity.ModeStory:
		return PageStory, true
	case entity.ModeInfo:
		return PageInfo, true
	case entity.ModeMath:
		return PageMath, true
	default:
		return PageStory, false
	}
}

// ErrGenerationFailed 一次性模式下远端生成失败
var ErrGenerationFailed = errors.New("generation failed")

// Session 一个终端会话；非并发安全，由单个输入循环驱动
type Session struct {
	svc *content.Service
	out io.Writer

	page   Page
	length int
	genre  entity.Genre

	client    *llm.Client
	clientErr error
}

// NewSession 创建会话，默认进入故事页面
func NewSession(svc *content.Service, out io.Writer) *Session {
	return &Session{
		svc:    svc,
		out:    out,
		page:   PageStory,
		length: entity.DefaultStoryLength,
		genre:  entity.GenreHorror,
	}
}

// Page 当前页面
func (s *Session) Page() Page {
	return s.page
}

// StorySettings 当前故事长度与类型
func (s *Session) StorySettings() (int, entity.Genre) {
	return s.length, s.genre
}

// Configured 模型客户端是否可用
func (s *Session) Configured() bool {
	return s.client != nil
}

// Init 初始化模型客户端；失败时只提示，导航仍可用
func (s *Session) Init(ctx context.Context) error {
	client, err := s.svc.InitClient(ctx)
	if err != nil {
		s.clientErr = err
		s.printConfigError(err)
		return err
	}
	s.client = client
	s.clientErr = nil
	return nil
}

// Navigate 切换页面并展示页面头部
func (s *Session) Navigate(p Page) {
	s.page = p
	s.renderHeader()
}

// SetLength 设置故事长度，超出范围时不修改
func (s *Session) SetLength(n int) error {
	if n < entity.MinStoryLength || n > entity.MaxStoryLength {
		return apperrors.ErrValidation.WithDetail(
			fmt.Sprintf("panjang harus antara %d dan %d", entity.MinStoryLength, entity.MaxStoryLength))
	}
	s.length = n
	return nil
}

// SetGenre 设置故事类型
func (s *Session) SetGenre(name string) error {
	g, err := entity.ParseGenre(name)
	if err != nil {
		return err
	}
	s.genre = g
	return nil
}

// Handle 处理一行输入，返回 true 表示退出
func (s *Session) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		s.Submit(ctx, line)
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "/cerita":
		s.Navigate(PageStory)
	case "/berita":
		s.Navigate(PageInfo)
	case "/matematika":
		s.Navigate(PageMath)
	case "/panjang":
		n, err := strconv.Atoi(arg)
		if err != nil {
			s.printf("⚠ panjang harus berupa angka\n")
			return false
		}
		if err := s.SetLength(n); err != nil {
			s.printf("⚠ %s\n", detailOf(err))
			return false
		}
		s.printf("Panjang konten: %d kata\n", s.length)
	case "/genre":
		if err := s.SetGenre(arg); err != nil {
			s.printf("⚠ %s\n", detailOf(err))
			return false
		}
		s.printf("Kategori konten: %s\n", s.genre)
	case "/bantuan", "/help":
		s.renderHelp()
	case "/keluar", "/exit", "/quit":
		return true
	default:
		s.printf("⚠ perintah tidak dikenal: %s (ketik /bantuan)\n", cmd)
	}
	return false
}

// Submit 以当前页面与设置提交一次生成
func (s *Session) Submit(ctx context.Context, topic string) {
	d, _ := content.Describe(s.page.Mode())
	if strings.TrimSpace(topic) == "" {
		s.printf("%s\n", d.EmptyWarning)
		return
	}
	if s.client == nil {
		if err := s.Init(ctx); err != nil {
			return
		}
	}

	if s.page == PageStory || s.page == PageInfo {
		s.printf("Topik yang akan diproses: %s\n", strings.TrimSpace(topic))
	}
	s.printf("%s\n", d.Spinner)

	res, err := s.svc.Generate(ctx, s.request(topic), s.client)
	if err != nil {
		s.printf("⚠ %s\n", detailOf(err))
		return
	}
	s.renderResult(d, res)
}

// RunOnce 一次性生成；配置或校验错误、远端失败均返回 error
func (s *Session) RunOnce(ctx context.Context, topic string) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	d, _ := content.Describe(s.page.Mode())
	res, err := s.svc.Generate(ctx, s.request(topic), s.client)
	if err != nil {
		return err
	}
	s.renderResult(d, res)
	if !res.OK() {
		return ErrGenerationFailed
	}
	return nil
}

// Run 交互循环，读到 EOF 或 /keluar 时结束
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.printf("ICANG AI\nPilih AI anda: /cerita /berita /matematika, /bantuan untuk bantuan\n")
	_ = s.Init(ctx)
	s.renderHeader()

	scanner := bufio.NewScanner(in)
	for {
		s.printf("%s> ", s.page)
		if !scanner.Scan() {
			s.printf("\n")
			return scanner.Err()
		}
		if s.Handle(ctx, scanner.Text()) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (s *Session) request(topic string) entity.GenerationRequest {
	switch s.page {
	case PageInfo:
		return entity.NewInfoRequest(topic)
	case PageMath:
		return entity.NewMathRequest(topic)
	default:
		return entity.NewStoryRequest(topic, s.length, s.genre)
	}
}

func (s *Session) renderHeader() {
	d, _ := content.Describe(s.page.Mode())
	s.printf("\n%s\n", d.Title)
	for _, line := range d.Intro {
		s.printf("%s\n", line)
	}
	if d.StorySettings {
		s.printf("Panjang konten: %d kata | Kategori: %s\n", s.length, s.genre)
	}
	s.printf("%s\n", d.InputLabel)
	if d.Placeholder != "" {
		s.printf("(%s)\n", d.Placeholder)
	}
}

func (s *Session) renderResult(d content.ModeDescriptor, res entity.GenerationResult) {
	if res.OK() && d.SuccessNotice != "" {
		s.printf("%s\n", d.SuccessNotice)
	}
	s.printf("%s\n%s\n", d.ResultHeading, res.Display())
}

func (s *Session) renderHelp() {
	for _, d := range s.svc.Modes() {
		p, _ := PageForMode(d.Mode)
		marker := " "
		if p == s.page {
			marker = "*"
		}
		s.printf("%s /%s  %s\n", marker, commandFor(p), d.NavLabel)
	}
	s.printf("  /panjang N  panjang cerita (%d-%d)\n", entity.MinStoryLength, entity.MaxStoryLength)
	s.printf("  /genre G    kategori cerita (Horror, Komedi, Serius)\n")
	s.printf("  /keluar     keluar\n")
}

func (s *Session) printConfigError(err error) {
	if apperrors.IsConfiguration(err) {
		s.printf("%s\n", content.MissingKeyNotice)
		if d := detailOf(err); d != "" {
			s.printf("(%s)\n", d)
		}
		return
	}
	s.printf("❌ Error saat menginisialisasi Google AI: %v\n", err)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func commandFor(p Page) string {
	switch p {
	case PageInfo:
		return "berita"
	case PageMath:
		return "matematika"
	default:
		return "cerita"
	}
}

func detailOf(err error) string {
	if appErr := apperrors.AsAppError(err); appErr.Detail != "" {
		return appErr.Detail
	}
	return err.Error()
}
