package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLimiter_Unlimited(t *testing.T) {
	l := NewCommandLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Wait(context.Background()))
	}
	assert.Equal(t, int64(100), l.Stats().AllowedTotal)
}

func TestCommandLimiter_RejectsOnDeadline(t *testing.T) {
	l := NewCommandLimiter(0.1, 1) // 每 10 秒一条
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))

	stats := l.Stats()
	assert.Equal(t, int64(1), stats.AllowedTotal)
	assert.Equal(t, int64(1), stats.RejectedTotal)
}
