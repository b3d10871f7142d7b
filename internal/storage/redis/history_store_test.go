package redis

import (
	"context"
	"strconv"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/loragw/internal/history"
)

// 使用测试用Redis客户端（需要本地Redis实例）
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // 使用测试专用数据库
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skip("Redis not available, skipping test")
		return nil
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

func TestHistoryStore_BoundedMostRecentFirst(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	s := NewHistoryStore(client, "loragw:test:frames", 3)
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Add(ctx, history.NewEntry(history.KindFrame, "frame"+strconv.Itoa(i))))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "frame5", all[0].Text)
	assert.Equal(t, "frame3", all[2].Text)
	assert.Equal(t, history.KindFrame, all[0].Kind)

	one, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, all[0].ID, one[0].ID)
}

func TestHistoryStore_SkipsCorruptEntries(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	s := NewHistoryStore(client, "loragw:test:logs", 10)
	require.NoError(t, s.Add(ctx, history.NewEntry(history.KindLog, "ok")))
	require.NoError(t, client.LPush(ctx, "loragw:test:logs", "not-json").Err())

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ok", list[0].Text)
}

var _ history.Store = (*HistoryStore)(nil)

func TestClient_Key(t *testing.T) {
	assert.Equal(t, "loragw:gw-1:frames", (&Client{prefix: "loragw"}).Key("gw-1", "frames"))
	assert.Equal(t, "gw-1:logs", (&Client{}).Key("gw-1", "logs"))
}
