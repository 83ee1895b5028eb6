package vision

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter ограничивает обращения к модели по алгоритму token bucket:
// отдельные вёдра на запросы в минуту (RPM) и токены в час (TPH).
type RateLimiter struct {
	mu       sync.Mutex
	requests bucket
	tokens   bucket
}

type bucket struct {
	level     int
	capacity  int
	perPeriod int
	period    time.Duration
	lastCheck time.Time
}

// refill пополняет ведро пропорционально прошедшему времени.
func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastCheck)
	b.level += int(float64(b.perPeriod) * float64(elapsed) / float64(b.period))
	if b.level > b.capacity {
		b.level = b.capacity
	}
	b.lastCheck = now
}

func NewRateLimiter(requestsPerMinute, tokensPerHour int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if tokensPerHour <= 0 {
		tokensPerHour = 90000 // GPT-4 tier 1
	}

	now := time.Now()
	return &RateLimiter{
		requests: bucket{
			level:     requestsPerMinute,
			capacity:  requestsPerMinute,
			perPeriod: requestsPerMinute,
			period:    time.Minute,
			lastCheck: now,
		},
		tokens: bucket{
			level:     tokensPerHour,
			capacity:  tokensPerHour,
			perPeriod: tokensPerHour,
			period:    time.Hour,
			lastCheck: now,
		},
	}
}

// AllowRequest проверяет, можно ли выполнить запрос сейчас.
func (rl *RateLimiter) AllowRequest(ctx context.Context) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.requests.refill(time.Now())
	if rl.requests.level <= 0 {
		return fmt.Errorf("превышен лимит запросов (%d RPM)", rl.requests.perPeriod)
	}
	rl.requests.level--
	return nil
}

// AllowTokens проверяет, доступно ли указанное количество токенов.
func (rl *RateLimiter) AllowTokens(ctx context.Context, n int) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens.refill(time.Now())
	if rl.tokens.level < n {
		return fmt.Errorf("превышен лимит токенов (%d TPH): требуется %d, доступно %d",
			rl.tokens.perPeriod, n, rl.tokens.level)
	}
	rl.tokens.level -= n
	return nil
}

// ConsumeTokens списывает токены после выполненного запроса.
func (rl *RateLimiter) ConsumeTokens(n int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.tokens.level -= n
	if rl.tokens.level < 0 {
		rl.tokens.level = 0
	}
}
