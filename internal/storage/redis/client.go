package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
)

// ErrDisabled 配置未启用 Redis
var ErrDisabled = errors.New("redis is not enabled")

// defaultPingTimeout 未配置 dialTimeout 时的连通性检查时限
const defaultPingTimeout = 5 * time.Second

// Client 历史记录共享存储连接，所有键带统一前缀
type Client struct {
	*redis.Client
	prefix string
}

// NewClient 连接 Redis 并 Ping 一次，失败时关闭连接返回错误
func NewClient(ctx context.Context, cfg cfgpkg.RedisConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &Client{Client: rdb, prefix: strings.Trim(cfg.KeyPrefix, ":")}, nil
}

// Key 以冒号拼接前缀与各段，例如 loragw:gw-1:frames
func (c *Client) Key(parts ...string) string {
	if c.prefix == "" {
		return strings.Join(parts, ":")
	}
	return c.prefix + ":" + strings.Join(parts, ":")
}

// HealthCheck Ping
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
