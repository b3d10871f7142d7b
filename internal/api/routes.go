package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/loragw/internal/api/middleware"
)

// RouteOptions 路由注册选项
type RouteOptions struct {
	Auth middleware.AuthConfig
	CORS bool
}

// RegisterRoutes 注册网关控制路由
func RegisterRoutes(r *gin.Engine, h *Handler, opts RouteOptions, logger *zap.Logger) {
	if r == nil || h == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api := r.Group("/api")
	if opts.CORS {
		api.Use(middleware.CORS())
	}
	if opts.Auth.Enabled {
		api.Use(middleware.APIKeyAuth(opts.Auth, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(opts.Auth.APIKeys)))
	} else {
		logger.Warn("api authentication disabled")
	}

	api.GET("/frames", h.ListFrames)
	api.GET("/logs", h.ListLogs)
	api.GET("/radio/options", h.RadioOptions)

	cmd := api.Group("/commands")
	cmd.POST("/read", h.SendRead)
	cmd.POST("/set", h.SendSet)

	logger.Info("api routes registered", zap.Int("endpoints", 5))
}
