package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// slidingWindowScript 清理窗口外记录、计数、未超限时记录本次请求，整体原子执行
//
// KEYS[1] 限流键
// ARGV[1] 当前时间(ms) ARGV[2] 窗口(ms) ARGV[3] 上限 ARGV[4] 本次请求的成员
// 返回 {allowed(0/1), remaining}
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	return {0, 0}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window * 2)
return {1, limit - count - 1}
`)

// RateLimiter 滑动窗口限流器，计数保存在有序集合中
type RateLimiter struct {
	client *Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter 创建限流器：window 内最多 limit 次
func NewRateLimiter(client *Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

// Limit 返回窗口内的请求上限
func (l *RateLimiter) Limit() int {
	return l.limit
}

// Allow 检查并占用一次配额（滑动窗口算法），返回是否放行及剩余配额
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", l.limit),
		attribute.Int64("ratelimit.window_ms", l.window.Milliseconds()),
	)
	defer span.End()

	now := l.now().UnixMilli()
	// 成员带随机后缀，同一毫秒内的请求不会互相覆盖
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	res, err := slidingWindowScript.Run(ctx, l.client.rdb, []string{key},
		now, l.window.Milliseconds(), l.limit, member).Int64Slice()
	if err != nil {
		span.RecordError(err)
		return false, 0, err
	}
	if len(res) != 2 {
		err = fmt.Errorf("unexpected rate limit script reply: %v", res)
		span.RecordError(err)
		return false, 0, err
	}

	allowed, remaining := res[0] == 1, int(res[1])
	span.SetAttributes(
		attribute.Bool("ratelimit.allowed", allowed),
		attribute.Int("ratelimit.remaining", remaining),
	)
	return allowed, remaining, nil
}

// BuildRateLimitKey 构建限流键
func BuildRateLimitKey(caller, endpoint string) string {
	return fmt.Sprintf("icang:ratelimit:%s:%s", endpoint, caller)
}
