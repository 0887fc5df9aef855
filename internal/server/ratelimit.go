package server

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultLoginRateLimit 為每分鐘每個用戶端允許的登入次數。
const DefaultLoginRateLimit = 5

const loginWindow = time.Minute

// --- Rate Limiter ---

// rateLimiter 以固定時間窗計數每個用戶端 IP 的請求數。
// 過期的計數在下次同一 IP 請求時重設，不需背景 goroutine。
type rateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	requests map[string]*bucket
	now      func() time.Time
}

type bucket struct {
	count int
	reset time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:    limit,
		window:   window,
		requests: make(map[string]*bucket),
		now:      time.Now,
	}
}

// allow 回報 key 是否仍在配額內，並計入本次請求。
func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.requests[key]
	if !ok || !now.Before(b.reset) {
		rl.requests[key] = &bucket{count: 1, reset: now.Add(rl.window)}
		rl.sweep(now)
		return true
	}
	if b.count >= rl.limit {
		return false
	}
	b.count++
	return true
}

// sweep 移除已過期的計數，避免 map 無限成長。呼叫端持有 mu。
func (rl *rateLimiter) sweep(now time.Time) {
	for k, b := range rl.requests {
		if !now.Before(b.reset) {
			delete(rl.requests, k)
		}
	}
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(errTooManyRequests.code, envelope{Message: errTooManyRequests.msg})
			return
		}
		c.Next()
	}
}
