package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/metrics"
)

// NewMetrics 初始化注册表与链路指标；关闭指标导出时 handler 为 nil，指标仍照常计数
func NewMetrics(cfg cfgpkg.MetricsConfig) (*prometheus.Registry, *metrics.AppMetrics, http.Handler) {
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)
	if !cfg.Enable {
		return reg, appm, nil
	}
	return reg, appm, metrics.Handler(reg)
}
