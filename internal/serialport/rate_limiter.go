package serialport

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// RateLimiter 下行写入限速（Token Bucket），避免控制板串口缓冲被冲垮
type RateLimiter struct {
	limiter      *rate.Limiter
	ratePerSec   float64
	burst        int
	allowedCount atomic.Int64
	waitFailed   atomic.Int64
}

// NewRateLimiter ratePerSec<=0 时不限速
func NewRateLimiter(ratePerSec float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	lim := rate.Inf
	if ratePerSec > 0 {
		lim = rate.Limit(ratePerSec)
	}
	return &RateLimiter{
		limiter:    rate.NewLimiter(lim, burst),
		ratePerSec: ratePerSec,
		burst:      burst,
	}
}

// Wait 阻塞直到拿到令牌或 ctx 结束
func (l *RateLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		l.waitFailed.Add(1)
		return err
	}
	l.allowedCount.Add(1)
	return nil
}

// Stats 获取统计信息
func (l *RateLimiter) Stats() RateLimiterStats {
	return RateLimiterStats{
		RatePerSecond: l.ratePerSec,
		Burst:         l.burst,
		AllowedTotal:  l.allowedCount.Load(),
		FailedTotal:   l.waitFailed.Load(),
	}
}

// RateLimiterStats 限速统计
type RateLimiterStats struct {
	RatePerSecond float64 `json:"rate_per_second"`
	Burst         int     `json:"burst"`
	AllowedTotal  int64   `json:"allowed_total"`
	FailedTotal   int64   `json:"failed_total"`
}
