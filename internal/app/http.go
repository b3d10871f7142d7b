package app

import (
	"net/http"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/httpserver"
)

// NewHTTPServer metricsHandler 为 nil 时不注册指标路由
func NewHTTPServer(cfg *cfgpkg.Config, metricsHandler http.Handler, readyFn func() bool, log *zap.Logger) *httpserver.Server {
	return httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler, readyFn, log)
}
