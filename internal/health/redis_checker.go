package health

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPinger 历史存储所用 Redis 连接（*storage/redis.Client 实现）
type RedisPinger interface {
	HealthCheck(ctx context.Context) error
	PoolStats() *redis.PoolStats
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// RedisChecker 历史存储检查器，同时报告各历史列表长度
type RedisChecker struct {
	client RedisPinger
	keys   []string
}

// NewRedisChecker keys 为需要报告长度的历史列表键
func NewRedisChecker(client RedisPinger, keys ...string) *RedisChecker {
	return &RedisChecker{client: client, keys: keys}
}

func (c *RedisChecker) Name() string { return "redis" }

// Check Ping 失败为不健康；连接池接近耗尽为降级
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	return timed(func() CheckResult {
		if err := c.client.HealthCheck(ctx); err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err)}
		}

		stats := c.client.PoolStats()
		utilization := 0.0
		if stats.TotalConns > 0 {
			utilization = float64(stats.TotalConns-stats.IdleConns) / float64(stats.TotalConns)
		}
		details := map[string]any{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"timeouts":    stats.Timeouts,
			"utilization": fmt.Sprintf("%.1f%%", utilization*100),
		}
		for _, key := range c.keys {
			if n, err := c.client.LLen(ctx, key).Result(); err == nil {
				details[key] = n
			}
		}

		if utilization > 0.9 {
			return CheckResult{Status: StatusDegraded, Message: "connection pool near limit", Details: details}
		}
		return CheckResult{Status: StatusHealthy, Message: "ok", Details: details}
	})
}
