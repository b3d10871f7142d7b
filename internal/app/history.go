package app

import (
	"context"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/history"
	redisstorage "github.com/taoyao-code/loragw/internal/storage/redis"
)

// HistoryStores 帧与日志两个历史列表
type HistoryStores struct {
	Frames history.Store
	Logs   history.Store
	Redis  *redisstorage.Client // 未启用 Redis 时为 nil
}

// Close 释放 Redis 连接
func (h *HistoryStores) Close() error {
	if h.Redis != nil {
		return h.Redis.Close()
	}
	return nil
}

// NewHistoryStores 启用 Redis 时使用共享存储（连接失败直接返回错误），否则使用进程内存储
func NewHistoryStores(ctx context.Context, cfg *cfgpkg.Config, instance string, logger *zap.Logger) (*HistoryStores, error) {
	if !cfg.Redis.Enabled {
		logger.Info("redis is disabled, using in-memory history")
		return &HistoryStores{
			Frames: history.NewMemoryStore(cfg.Gateway.MaxFrames),
			Logs:   history.NewMemoryStore(cfg.Gateway.MaxLogs),
		}, nil
	}

	client, err := redisstorage.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	framesKey, logsKey := client.Key(instance, "frames"), client.Key(instance, "logs")
	logger.Info("redis history initialized",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("pool_size", cfg.Redis.PoolSize),
		zap.String("frames_key", framesKey),
		zap.String("logs_key", logsKey))

	return &HistoryStores{
		Frames: redisstorage.NewHistoryStore(client, framesKey, cfg.Gateway.MaxFrames),
		Logs:   redisstorage.NewHistoryStore(client, logsKey, cfg.Gateway.MaxLogs),
		Redis:  client,
	}, nil
}
