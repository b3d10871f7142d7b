package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taoyao-code/loragw/internal/history"
)

// HistoryStore 基于 Redis List 的有界历史记录：LPUSH + LTRIM，最新在前
// 多个控制器实例可共享同一份帧/日志历史
type HistoryStore struct {
	rdb redis.Cmdable
	key string
	max int
}

// NewHistoryStore key 形如 "loragw:frames"
func NewHistoryStore(rdb redis.Cmdable, key string, max int) *HistoryStore {
	if max <= 0 {
		max = 100
	}
	return &HistoryStore{rdb: rdb, key: key, max: max}
}

// Add 写入一条记录并裁剪到容量上限
func (s *HistoryStore) Add(ctx context.Context, e history.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, s.key, data)
		p.LTrim(ctx, s.key, 0, int64(s.max-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("push history entry: %w", err)
	}
	return nil
}

// List 读取最多 limit 条记录
func (s *HistoryStore) List(ctx context.Context, limit int) ([]history.Entry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.rdb.LRange(ctx, s.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	out := make([]history.Entry, 0, len(raw))
	for _, r := range raw {
		var e history.Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			// 跳过无法解析的记录
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
