package wire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icang-ai-api/internal/config"
	"icang-ai-api/internal/domain/entity"
	apperrors "icang-ai-api/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "icang-ai-api", Version: "test", Env: "test"},
		LLM: config.LLMConfig{
			DefaultProvider: "gemini",
			Providers: map[string]config.ProviderConfig{
				"gemini": {Kind: config.ProviderKindGemini, Model: "gemini-2.5-flash"},
			},
		},
		Security: config.SecurityConfig{
			RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerMinute: 5},
		},
	}
}

func TestProvideRateLimiterWithoutRedis(t *testing.T) {
	cfg := testConfig()
	assert.Nil(t, ProvideRateLimiter(cfg, nil))

	cfg.Security.RateLimit.Enabled = false
	assert.Nil(t, ProvideRateLimiter(cfg, nil))
}

func TestProvideRedisClientDisabled(t *testing.T) {
	client, cleanup, err := ProvideRedisClient(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.NotPanics(t, cleanup)
}

func TestInitializeContentServiceWithoutKey(t *testing.T) {
	svc, err := InitializeContentService(testConfig())
	require.NoError(t, err)

	assert.Len(t, svc.Modes(), 3)
	_, err = svc.GenerateContent(context.Background(), entity.NewInfoRequest("AI"))
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestInitializeApp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r, cleanup, err := InitializeApp(context.Background(), testConfig())
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
