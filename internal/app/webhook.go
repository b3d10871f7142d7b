package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/thirdparty"
)

// NewForwarderIfEnabled 未启用时返回 nil
func NewForwarderIfEnabled(cfg cfgpkg.WebhookConfig, instance string, reg prometheus.Registerer, logger *zap.Logger) *thirdparty.Forwarder {
	if !cfg.Enabled {
		return nil
	}
	p := thirdparty.NewPusher(&http.Client{Timeout: cfg.Timeout}, cfg.APIKey, cfg.Secret)
	if cfg.Retries >= 0 {
		p.Retries = cfg.Retries
	}
	logger.Info("webhook forwarding enabled", zap.String("url", cfg.URL), zap.Strings("kinds", cfg.Kinds))
	return thirdparty.NewForwarder(p, cfg.URL, instance, cfg.QueueSize, cfg.Kinds, logger, thirdparty.NewMetrics(reg))
}
