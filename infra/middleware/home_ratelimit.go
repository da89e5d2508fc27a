package middleware

import (
	"strconv"
	"sync"
	"time"

	"ruralhome_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// UserRateLimiter throttles expensive routes per authenticated user (IP when anonymous).
// 추천 파이프라인은 외부 피드 17회 호출을 유발하므로 사용자별 제한
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	every    time.Duration
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUserRateLimiter allows burst requests, refilling one per every.
func NewUserRateLimiter(every time.Duration, burst int) *UserRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &UserRateLimiter{
		limiters: make(map[string]*userLimiter),
		every:    every,
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

func (rl *UserRateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	ul, ok := rl.limiters[key]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rate.Every(rl.every), rl.burst)}
		rl.limiters[key] = ul
	}
	ul.lastSeen = now

	// 오래 쓰지 않은 항목 정리
	if len(rl.limiters) > 1024 {
		for k, v := range rl.limiters {
			if now.Sub(v.lastSeen) > rl.idle {
				delete(rl.limiters, k)
			}
		}
	}
	return ul.limiter
}

func (rl *UserRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if uid := c.Locals("user_id"); uid != nil {
			key = "user:" + toString(uid)
		}

		r := rl.get(key).ReserveN(rl.now(), 1)
		if delay := r.DelayFrom(rl.now()); delay > 0 {
			r.CancelAt(rl.now())
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(delay.Seconds())+1))
			return response.Error(c, fiber.StatusTooManyRequests, response.StatusCode(fiber.StatusTooManyRequests), "too many requests")
		}
		return c.Next()
	}
}

func toString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}
