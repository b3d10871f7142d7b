package app

import (
	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/loragw/internal/gateway"
	"github.com/taoyao-code/loragw/internal/health"
	redisstorage "github.com/taoyao-code/loragw/internal/storage/redis"
)

// NewHealthAggregator 串口检查必选，Redis 检查仅在启用时添加并报告本实例的历史列表长度
func NewHealthAggregator(device, instance string, link health.LinkStatus, limiter *gateway.CommandLimiter, redisClient *redisstorage.Client) *health.Aggregator {
	agg := health.NewAggregator(health.NewSerialChecker(device, link, limiter))
	if redisClient != nil {
		agg.AddChecker(health.NewRedisChecker(redisClient,
			redisClient.Key(instance, "frames"),
			redisClient.Key(instance, "logs")))
	}
	return agg
}

// RegisterHealthRoutes 注册健康检查HTTP路由
func RegisterHealthRoutes(r *gin.Engine, aggregator *health.Aggregator) {
	health.RegisterHTTPRoutes(r, aggregator)
}
