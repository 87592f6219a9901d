package redis

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icang-ai-api/internal/config"
)

// unreachable 指向一个没有监听的端口
func unreachable() *config.RedisConfig {
	return &config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 200 * time.Millisecond,
		ReadTimeout: 200 * time.Millisecond,
	}
}

// newTestClient 连接一个进程内 Redis
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &Client{rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestBuildRateLimitKey(t *testing.T) {
	assert.Equal(t, "icang:ratelimit:generate:10.0.0.1", BuildRateLimitKey("10.0.0.1", "generate"))
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Addr(&config.RedisConfig{Host: "localhost", Port: 6379}))
}

func TestNewClientFailsWhenUnreachable(t *testing.T) {
	c, err := NewClient(context.Background(), unreachable())
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestNewClientAndHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c, err := NewClient(context.Background(), &config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.NoError(t, c.HealthCheck(context.Background()))
}

func TestRateLimiterPropagatesRedisErrors(t *testing.T) {
	c := newClient(unreachable())
	t.Cleanup(func() { _ = c.Close() })

	l := NewRateLimiter(c, 5, time.Minute)
	assert.Equal(t, 5, l.Limit())

	allowed, _, err := l.Allow(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, allowed)

	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	c, mr := newTestClient(t)
	l := NewRateLimiter(c, 5, time.Minute)
	ctx := context.Background()
	key := BuildRateLimitKey("web", "generate")

	var remaining []int
	for i := 0; i < 8; i++ {
		allowed, left, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, i < 5, allowed, "request %d", i)
		remaining = append(remaining, left)
	}
	assert.Equal(t, []int{4, 3, 2, 1, 0, 0, 0, 0}, remaining)

	// 被拒绝的请求不占用配额
	members, err := mr.ZMembers(key)
	require.NoError(t, err)
	assert.Len(t, members, 5)
	assert.Equal(t, 2*time.Minute, mr.TTL(key))
}

func TestRateLimiterConcurrentRequestsRespectLimit(t *testing.T) {
	c, _ := newTestClient(t)
	l := NewRateLimiter(c, 5, time.Minute)
	key := BuildRateLimitKey("burst", "generate")

	var allowed int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := l.Allow(context.Background(), key)
			if err == nil && ok {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), atomic.LoadInt32(&allowed))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	c, _ := newTestClient(t)
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	l := NewRateLimiter(c, 2, time.Minute)
	l.now = clock.Now
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Advance(30 * time.Second)
	ok, _, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "window has not moved past the first requests yet")

	clock.Advance(31 * time.Second)
	ok, left, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, left)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	c, _ := newTestClient(t)
	l := NewRateLimiter(c, 1, time.Minute)
	ctx := context.Background()

	ok, _, err := l.Allow(ctx, BuildRateLimitKey("a", "generate"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _, err = l.Allow(ctx, BuildRateLimitKey("b", "generate"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _, err = l.Allow(ctx, BuildRateLimitKey("a", "generate"))
	require.NoError(t, err)
	assert.False(t, ok)
}
