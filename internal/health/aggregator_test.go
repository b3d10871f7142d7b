package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/loragw/internal/gateway"
)

// mockChecker 模拟检查器
type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) Check(context.Context) CheckResult {
	return CheckResult{Status: m.status, Message: "mock", Latency: time.Millisecond}
}

type linkStub bool

func (l linkStub) Running() bool { return bool(l) }

type pingerStub struct {
	err   error
	stats redis.PoolStats
}

func (p *pingerStub) HealthCheck(context.Context) error { return p.err }
func (p *pingerStub) PoolStats() *redis.PoolStats      { return &p.stats }

func (p *pingerStub) LLen(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "llen", key)
	cmd.SetVal(int64(len(key)))
	return cmd
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		statuses  []Status
		want      Status
		wantReady bool
	}{
		{"全部健康", []Status{StatusHealthy, StatusHealthy}, StatusHealthy, true},
		{"部分降级", []Status{StatusHealthy, StatusDegraded}, StatusDegraded, true},
		{"部分不健康", []Status{StatusDegraded, StatusUnhealthy}, StatusUnhealthy, false},
		{"无检查器", nil, StatusHealthy, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			for i, s := range tt.statuses {
				agg.AddChecker(&mockChecker{name: string(rune('a' + i)), status: s})
			}
			report := agg.Report(ctx)
			assert.Equal(t, tt.want, report.Status)
			assert.Len(t, report.Checks, len(tt.statuses))
			assert.Equal(t, tt.wantReady, agg.Ready(ctx))
		})
	}
}

func TestSerialChecker(t *testing.T) {
	lim := gateway.NewCommandLimiter(0, 0)
	require.NoError(t, lim.Wait(context.Background()))

	up := NewSerialChecker("/dev/ttyUSB0", linkStub(true), lim).Check(context.Background())
	assert.Equal(t, StatusHealthy, up.Status)
	assert.Equal(t, "/dev/ttyUSB0", up.Details["device"])
	assert.Equal(t, int64(1), up.Details["commands_allowed"])

	down := NewSerialChecker("/dev/ttyUSB0", linkStub(false), nil).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, down.Status)
	assert.Equal(t, "serial link down", down.Message)
}

func TestRedisChecker(t *testing.T) {
	ok := NewRedisChecker(&pingerStub{stats: redis.PoolStats{TotalConns: 10, IdleConns: 8}}, "gw:frames").Check(context.Background())
	assert.Equal(t, StatusHealthy, ok.Status)
	assert.Equal(t, int64(9), ok.Details["gw:frames"])
	assert.False(t, ok.CheckedAt.IsZero())

	busy := NewRedisChecker(&pingerStub{stats: redis.PoolStats{TotalConns: 10, IdleConns: 0}}).Check(context.Background())
	assert.Equal(t, StatusDegraded, busy.Status)

	failed := NewRedisChecker(&pingerStub{err: errors.New("connection refused")}).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, failed.Status)
	assert.Contains(t, failed.Message, "connection refused")
}

func TestReadiness(t *testing.T) {
	r := NewReadiness()
	assert.False(t, r.Ready())
	r.SetHistoryReady(true)
	assert.False(t, r.Ready())
	r.SetSerialReady(true)
	assert.True(t, r.Ready())
}

func TestHTTPRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	agg := NewAggregator(NewSerialChecker("COM3", linkStub(false), nil))
	RegisterHTTPRoutes(r, agg)

	get := func(path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		return rr
	}

	assert.Equal(t, http.StatusOK, get("/health/live").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/health/ready").Code)

	rr := get("/health")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var report Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, StatusUnhealthy, report.Status)
	assert.Contains(t, report.Checks, "serial")
}
