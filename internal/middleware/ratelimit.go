package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrTooManyRequests 超过限流阈值
var ErrTooManyRequests = response.NewBusinessError(
	response.WithErrorCode(response.TooManyRequests),
	response.WithErrorMessage("Too many requests from this IP, please try again later."),
)

// Limiter 固定窗口计数限流
type Limiter interface {
	// Allow 记录一次请求，返回是否放行与窗口内剩余次数
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// MemoryLimiter 进程内限流，未配置 Redis 时使用
type MemoryLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// NewMemoryLimiter 创建进程内限流器，ctx 结束时停止清理协程
func NewMemoryLimiter(ctx context.Context, limit int, duration time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.cleanupLoop(ctx, duration*2)
	return l
}

func (l *MemoryLimiter) Limit() int {
	return l.limit
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, exists := l.windows[key]
	if !exists || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true, l.limit - 1, nil
	}

	if w.count >= l.limit {
		return false, 0, nil
	}
	w.count++
	return true, l.limit - w.count, nil
}

// cleanupLoop 定期删除过期窗口
func (l *MemoryLimiter) cleanupLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// incrWindow 计数加一，首次计数时设置窗口过期时间
var incrWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Redis 计数键前缀，完整键为 ratelimit:<prefix>:<ip>
const (
	PrefixAPI    = "api"
	PrefixUpload = "upload"
)

// RedisLimiter 多实例共享的限流
type RedisLimiter struct {
	client   redis.UniversalClient
	prefix   string
	limit    int
	duration time.Duration
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, limit int, duration time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, duration: duration}
}

func (l *RedisLimiter) Limit() int {
	return l.limit
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	count, err := incrWindow.Run(ctx, l.client, []string{l.key(key)}, l.duration.Milliseconds()).Int()
	if err != nil {
		return true, l.limit, fmt.Errorf("redis 限流失败: %w", err)
	}

	if count > l.limit {
		return false, 0, nil
	}
	return true, l.limit - count, nil
}

func (l *RedisLimiter) key(client string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.prefix, client)
}

// RateLimit 按客户端 IP 限流，后端出错时放行
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn("限流检查失败，放行请求", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			dto.AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
