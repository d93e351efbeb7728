package agent

import (
	"context"
	"strings"
	"sync"
	"time"
)

// RateLimiter 令牌桶限流器，约束对补全服务的调用频率。
// Groq等后端按每分钟请求数限额，超过时返回429。
type RateLimiter struct {
	rate           float64       // 每秒生成的令牌数
	capacity       float64       // 桶的容量
	tokens         float64       // 当前令牌数
	lastRefillTime time.Time     // 上次填充令牌的时间
	mutex          sync.Mutex    // 互斥锁，保证并发安全
	retryWaitTime  time.Duration // 重试基础等待时间
	maxRetries     int           // 最大重试次数
}

// NewRateLimiter 按每分钟请求数创建限流器
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	capacity := requestsPerMinute / 2
	if capacity <= 0 {
		capacity = 1
	}

	return &RateLimiter{
		rate:           float64(requestsPerMinute) / 60.0,
		capacity:       float64(capacity),
		tokens:         float64(capacity), // 初始填满
		lastRefillTime: time.Now(),
		retryWaitTime:  1 * time.Second,
		maxRetries:     3,
	}
}

// WithRetryPolicy 设置重试策略
func (rl *RateLimiter) WithRetryPolicy(waitTime time.Duration, maxRetries int) *RateLimiter {
	rl.retryWaitTime = waitTime
	rl.maxRetries = maxRetries
	return rl
}

// refill 根据经过的时间填充令牌，调用方需持有锁
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefillTime).Seconds()
	rl.lastRefillTime = now

	rl.tokens += elapsed * rl.rate
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
}

// Allow 判断是否允许立即通过一个请求，消耗一个令牌
func (rl *RateLimiter) Allow() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refill()
	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

// Wait 阻塞直到取得一个令牌或上下文取消
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mutex.Lock()
		rl.refill()

		if rl.tokens >= 1.0 {
			rl.tokens -= 1.0
			rl.mutex.Unlock()
			return nil
		}

		waitTime := time.Duration((1.0 - rl.tokens) / rl.rate * float64(time.Second))
		rl.mutex.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
			// 继续尝试获取令牌
		}
	}
}

// Do 在限流与退避重试下执行fn，仅对限频/瞬时网络类错误重试
func (rl *RateLimiter) Do(ctx context.Context, fn func() error) error {
	var err error

	for retry := 0; retry <= rl.maxRetries; retry++ {
		if err = rl.Wait(ctx); err != nil {
			return err
		}

		err = fn()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) || retry >= rl.maxRetries {
			return err
		}

		backoffTime := rl.retryWaitTime * time.Duration(1<<uint(retry))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffTime):
			// 继续重试
		}
	}

	return err
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	for _, substr := range []string{
		"timeout",
		"deadline exceeded",
		"connection reset",
		"EOF",
		"connection refused",
		"429",
		"rate limit",
		"no such host",
	} {
		if strings.Contains(errStr, substr) {
			return true
		}
	}
	return false
}
