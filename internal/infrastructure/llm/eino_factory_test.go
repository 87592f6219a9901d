package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icang-ai-api/internal/config"
	llmctx "icang-ai-api/internal/domain/service"
	apperrors "icang-ai-api/pkg/errors"
)

type fakeChatModel struct {
	mu        sync.Mutex
	out       *schema.Message
	err       error
	calls     int
	lastModel string
	lastInput []*schema.Message
	provider  string
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	o := model.GetCommonOptions(&model.Options{}, opts...)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastInput = in
	f.provider = llmctx.ProviderFromContext(ctx)
	if o.Model != nil {
		f.lastModel = *o.Model
	}
	return f.out, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrStreamingUnsupported
}

func newTestConfig(apiKey string) *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "gemini",
			Providers: map[string]config.ProviderConfig{
				"gemini": {Kind: config.ProviderKindGemini, APIKey: apiKey, Model: "gemini-2.5-flash"},
			},
		},
	}
}

func countingBuilder(n *int32) ChatModelBuilder {
	return func(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
		atomic.AddInt32(n, 1)
		return &fakeChatModel{out: schema.AssistantMessage("ok", nil)}, nil
	}
}

func TestFactoryMissingKeyIsConfigurationError(t *testing.T) {
	var built int32
	cfg := newTestConfig("")
	f := NewEinoFactory(cfg).WithBuilder(config.ProviderKindGemini, countingBuilder(&built))

	c, err := f.Default(context.Background())
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.Zero(t, atomic.LoadInt32(&built))

	// 补齐配置后可以恢复
	cfg.LLM.Providers["gemini"] = config.ProviderConfig{Kind: config.ProviderKindGemini, APIKey: "k", Model: "gemini-2.5-flash"}
	c, err = f.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Provider())
	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
}

func TestFactoryUnknownProvider(t *testing.T) {
	f := NewEinoFactory(newTestConfig("k"))

	_, err := f.Get(context.Background(), "claude")
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestFactoryUnsupportedKind(t *testing.T) {
	cfg := newTestConfig("k")
	cfg.LLM.Providers["local"] = config.ProviderConfig{Kind: "ollama", APIKey: "k"}
	f := NewEinoFactory(cfg)

	_, err := f.Get(context.Background(), "local")
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestFactoryBuilderFailureIsWrapped(t *testing.T) {
	boom := errors.New("dial failed")
	f := NewEinoFactory(newTestConfig("k")).WithBuilder(config.ProviderKindGemini,
		func(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
			return nil, boom
		})

	_, err := f.Default(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsConfiguration(err))
	assert.ErrorIs(t, err, boom)
}

func TestFactoryCachesClient(t *testing.T) {
	var built int32
	f := NewEinoFactory(newTestConfig("k")).WithBuilder(config.ProviderKindGemini, countingBuilder(&built))

	a, err := f.Default(context.Background())
	require.NoError(t, err)
	b, err := f.Get(context.Background(), "gemini")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
}

func TestFactoryConcurrentGetBuildsOnce(t *testing.T) {
	var built int32
	f := NewEinoFactory(newTestConfig("k")).WithBuilder(config.ProviderKindGemini, countingBuilder(&built))

	const n = 32
	clients := make([]*Client, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := f.Default(context.Background())
			assert.NoError(t, err)
			clients[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
	for _, c := range clients[1:] {
		assert.Same(t, clients[0], c)
	}
}

func TestFactoryKindDefaultsToName(t *testing.T) {
	var built int32
	cfg := newTestConfig("k")
	cfg.LLM.Providers["gemini"] = config.ProviderConfig{APIKey: "k"}
	f := NewEinoFactory(cfg).WithBuilder(config.ProviderKindGemini, countingBuilder(&built))

	_, err := f.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&built))
}
