package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icang-ai-api/internal/application/content"
	"icang-ai-api/internal/config"
	"icang-ai-api/internal/infrastructure/llm"
	"icang-ai-api/internal/interfaces/http/handler"
	"icang-ai-api/internal/interfaces/http/middleware"
	"icang-ai-api/internal/workflow/prompt"
	apperrors "icang-ai-api/pkg/errors"
	"icang-ai-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChatModel struct {
	reply string
	err   error
	calls int32
}

func (s *stubChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type stubProvider struct {
	client *llm.Client
	err    error
}

func (p *stubProvider) Default(ctx context.Context) (*llm.Client, error) {
	return p.client, p.err
}

type stubLimiter struct {
	allow bool
	err   error
}

func (l *stubLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	return l.allow, 0, l.err
}

func (l *stubLimiter) Limit() int { return 1 }

type harness struct {
	engine *gin.Engine
	chat   *stubChatModel
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "icang-ai-api", Version: "test", Env: "test"},
		Server: config.ServerConfig{HTTP: config.HTTPServerConfig{
			MaxBodyBytes: 64 << 10,
		}},
		Observability: config.ObservabilityConfig{
			Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		},
	}
}

func newHarness(t *testing.T, cfg *config.Config, chat *stubChatModel, providerErr error, limiter middleware.RateLimiter) *harness {
	t.Helper()
	p := &stubProvider{err: providerErr}
	if providerErr == nil {
		p.client = llm.NewClient("gemini", "gemini-2.5-flash", chat)
	}
	svc := content.NewService(p, prompt.MustNewRegistry())
	r := New(cfg,
		handler.NewHealthHandler(nil, p, cfg.App.Version),
		handler.NewGenerationHandler(svc),
		limiter,
	)
	return &harness{engine: r.Engine(), chat: chat}
}

func (h *harness) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSystemEndpoints(t *testing.T) {
	h := newHarness(t, testConfig(), &stubChatModel{reply: "ok"}, nil, nil)

	for _, path := range []string{"/health", "/live", "/ready", "/metrics"} {
		w := h.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), path)
	}
}

func TestReadyWithoutAPIKey(t *testing.T) {
	h := newHarness(t, testConfig(), &stubChatModel{}, apperrors.ErrConfiguration, nil)

	w := h.do(http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "not_ready", body["status"])
}

func TestListModesWithoutAPIKey(t *testing.T) {
	h := newHarness(t, testConfig(), &stubChatModel{}, apperrors.ErrConfiguration, nil)

	w := h.do(http.MethodGet, "/v1/modes", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]any)
	assert.Len(t, data["modes"], 3)
	assert.Len(t, data["genres"], 3)
	assert.EqualValues(t, 200, data["min_story_length"])
	assert.EqualValues(t, 500, data["max_story_length"])
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]any
		chat        *stubChatModel
		providerErr error
		wantStatus  int
		wantCalls   int32
	}{
		{
			name:       "story success",
			body:       map[string]any{"mode": "story", "topic": "Kancil", "length": 300, "genre": "horror"},
			chat:       &stubChatModel{reply: "Cerita seram"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "info alias success",
			body:       map[string]any{"mode": "berita", "topic": "AI"},
			chat:       &stubChatModel{reply: "Info"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "blank topic",
			body:       map[string]any{"mode": "math", "topic": "  "},
			chat:       &stubChatModel{reply: "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "story length out of range",
			body:       map[string]any{"mode": "story", "topic": "x", "length": 100, "genre": "Serius"},
			chat:       &stubChatModel{reply: "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown mode",
			body:       map[string]any{"mode": "poetry", "topic": "x"},
			chat:       &stubChatModel{reply: "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing mode",
			body:       map[string]any{"topic": "x"},
			chat:       &stubChatModel{reply: "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "missing api key",
			body:        map[string]any{"mode": "info", "topic": "AI"},
			chat:        &stubChatModel{reply: "x"},
			providerErr: apperrors.ErrConfiguration.WithDetail("missing API key for provider gemini"),
			wantStatus:  http.StatusServiceUnavailable,
		},
		{
			name:       "remote failure",
			body:       map[string]any{"mode": "math", "topic": "1+1"},
			chat:       &stubChatModel{err: errors.New("deadline exceeded")},
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testConfig(), tt.chat, tt.providerErr, nil)
			w := h.do(http.MethodPost, "/v1/generate", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&tt.chat.calls))
		})
	}
}

func TestGenerateResponseBody(t *testing.T) {
	h := newHarness(t, testConfig(), &stubChatModel{reply: "Langkah 1: ..."}, nil, nil)

	w := h.do(http.MethodPost, "/v1/generate", map[string]any{"mode": "matematika", "topic": "2x=4"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "math", data["mode"])
	assert.Equal(t, "Langkah 1: ...", data["content"])
	assert.Equal(t, "gemini", data["provider"])
	assert.Equal(t, "gemini-2.5-flash", data["model"])
	assert.Contains(t, data, "elapsed_ms")
}

func TestGenerateFailureMessage(t *testing.T) {
	h := newHarness(t, testConfig(), &stubChatModel{err: errors.New("quota exceeded")}, nil, nil)

	w := h.do(http.MethodPost, "/v1/generate", map[string]any{"mode": "info", "topic": "AI"}, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "❌ Terjadi error saat generate konten: quota exceeded", decode(t, w)["message"])
}

func TestGenerateRateLimited(t *testing.T) {
	chat := &stubChatModel{reply: "x"}
	h := newHarness(t, testConfig(), chat, nil, &stubLimiter{allow: false})

	w := h.do(http.MethodPost, "/v1/generate", map[string]any{"mode": "info", "topic": "AI"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Zero(t, atomic.LoadInt32(&chat.calls))

	// 限流器故障时放行
	h = newHarness(t, testConfig(), chat, nil, &stubLimiter{err: errors.New("redis down")})
	w = h.do(http.MethodPost, "/v1/generate", map[string]any{"mode": "info", "topic": "AI"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateWithAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Security.JWT = config.JWTConfig{Enabled: true, Secret: "s3cret", Issuer: "icang-ai"}
	chat := &stubChatModel{reply: "x"}
	h := newHarness(t, cfg, chat, nil, nil)
	jwtManager := utils.NewJWTManager("s3cret", "icang-ai")
	body := map[string]any{"mode": "story", "topic": "Kancil", "length": 200, "genre": "Komedi"}

	w := h.do(http.MethodPost, "/v1/generate", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtManager.GenerateToken("web", nil, time.Hour)
	require.NoError(t, err)
	w = h.do(http.MethodPost, "/v1/generate", body, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, w.Code)

	mathOnly, err := jwtManager.GenerateToken("kalkulator", []string{"math"}, time.Hour)
	require.NoError(t, err)
	w = h.do(http.MethodPost, "/v1/generate", body, http.Header{"Authorization": {"Bearer " + mathOnly}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 模式列表与系统端点不需要认证
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/v1/modes", nil, nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health", nil, nil).Code)

	assert.Equal(t, int32(1), atomic.LoadInt32(&chat.calls))
}
