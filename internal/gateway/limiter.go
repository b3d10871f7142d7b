package gateway

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// CommandLimiter 下行命令节流（Token Bucket），避免连续命令淹没网关串口
type CommandLimiter struct {
	limiter       *rate.Limiter
	allowedCount  atomic.Int64
	rejectedCount atomic.Int64
}

// NewCommandLimiter perSec<=0 时不限速
func NewCommandLimiter(perSec float64, burst int) *CommandLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(perSec)
	if perSec <= 0 {
		limit = rate.Inf
	}
	return &CommandLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait 等待直到允许发送，ctx 取消或超时返回错误
func (l *CommandLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		l.rejectedCount.Add(1)
		return err
	}
	l.allowedCount.Add(1)
	return nil
}

// LimiterStats 节流统计
type LimiterStats struct {
	AllowedTotal  int64 `json:"allowed_total"`
	RejectedTotal int64 `json:"rejected_total"`
}

// Stats 获取统计信息
func (l *CommandLimiter) Stats() LimiterStats {
	return LimiterStats{AllowedTotal: l.allowedCount.Load(), RejectedTotal: l.rejectedCount.Load()}
}
