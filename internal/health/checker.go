package health

import (
	"context"
	"time"
)

// Status 健康状态
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"  // 可以继续收发，但有隐患
	StatusUnhealthy Status = "unhealthy" // 串口断开或历史存储不可用
)

// CheckResult 单项检查结果
type CheckResult struct {
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Latency   time.Duration  `json:"latency"`
	CheckedAt time.Time      `json:"checkedAt"`
}

// Checker 健康检查器接口
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// timed 执行 fn 并补上耗时与检查时间
func timed(fn func() CheckResult) CheckResult {
	start := time.Now()
	r := fn()
	r.Latency = time.Since(start)
	r.CheckedAt = start
	return r
}
