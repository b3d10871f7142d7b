package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taoyao-code/loragw/internal/api"
	"github.com/taoyao-code/loragw/internal/api/middleware"
	"github.com/taoyao-code/loragw/internal/app"
	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/diag"
	"github.com/taoyao-code/loragw/internal/gateway"
	"github.com/taoyao-code/loragw/internal/health"
	"github.com/taoyao-code/loragw/internal/presets"
)

// Banner 启动横幅
const Banner = "Controller for Libelium LoRa Gateway - version 0.7"

// shutdownTimeout HTTP 优雅关闭时限
const shutdownTimeout = 10 * time.Second

// Run 统一启动流程，阻塞直到 ctx 取消
// 启动顺序：指标 → 历史存储 → 诊断输出 → 预设/转发 → HTTP → 串口链路
func Run(ctx context.Context, cfg *cfgpkg.Config, log *zap.Logger) error {
	return RunWith(ctx, cfg, log, app.NewSerialOpener(cfg.Serial))
}

// RunWith 与 Run 相同，串口打开方式由调用方提供
func RunWith(ctx context.Context, cfg *cfgpkg.Config, log *zap.Logger, open gateway.Opener) error {
	instance := app.InstanceID(cfg.App)
	log = log.With(zap.String("instance", instance))
	log.Info(Banner)

	// ========== 阶段1: 基础组件 ==========
	reg, appm, metricsHandler := app.NewMetrics(cfg.Metrics)
	ready := health.NewReadiness()

	// ========== 阶段2: 历史存储（Redis 失败直接返回）==========
	stores, err := app.NewHistoryStores(ctx, cfg, instance, log)
	if err != nil {
		log.Error("history store initialization failed", zap.Error(err))
		return err
	}
	defer func() { _ = stores.Close() }()
	ready.SetHistoryReady(true)

	sink := diag.New(log, stores.Logs, stores.Frames, cfg.Gateway.DiagQueueSize)

	// ========== 阶段3: 预设与命令节流 ==========
	ps, err := presets.Load(cfg.Gateway.PresetsPath)
	if err != nil {
		log.Error("load presets failed", zap.String("path", cfg.Gateway.PresetsPath), zap.Error(err))
		return err
	}
	if names := ps.Names(); len(names) > 0 {
		log.Info("radio presets loaded", zap.Strings("presets", names))
	}
	limiter := gateway.NewCommandLimiter(cfg.Gateway.CommandRate, cfg.Gateway.CommandBurst)

	linkOpts := []gateway.Option{
		gateway.WithMetrics(appm),
		gateway.WithLimiter(limiter),
		gateway.WithIdleEOF(),
	}
	fwd := app.NewForwarderIfEnabled(cfg.Webhook, instance, reg, log)
	if fwd != nil {
		linkOpts = append(linkOpts, gateway.WithMessageHandler(fwd.Handle))
	}
	sup := gateway.NewSupervisor(open, sink, log, linkOpts...)
	sup.OnStateChange(ready.SetSerialReady)

	// ========== 阶段4: HTTP ==========
	httpSrv := app.NewHTTPServer(cfg, metricsHandler, ready.Ready, log)
	healthAgg := app.NewHealthAggregator(cfg.Serial.Device, instance, sup, limiter, stores.Redis)
	handler := api.NewHandler(sup, stores.Frames, stores.Logs, ps, log)
	httpSrv.Register(func(r *gin.Engine) {
		api.RegisterRoutes(r, handler, api.RouteOptions{
			Auth: middleware.AuthConfig{Enabled: cfg.API.Auth.Enabled, APIKeys: cfg.API.Auth.APIKeys},
			CORS: cfg.API.CORS,
		}, log)
		app.RegisterHealthRoutes(r, healthAgg)
	})

	// ========== 阶段5: 并行运行，任一退出即整体关闭 ==========
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sink.Run(gctx)
		return nil
	})
	if fwd != nil {
		g.Go(func() error {
			fwd.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		log.Info("http server started", zap.String("addr", cfg.HTTP.Addr))
		return httpSrv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(sctx)
		log.Info("http server stopped")
		return err
	})
	g.Go(func() error {
		log.Info("serial supervisor started",
			zap.String("device", cfg.Serial.Device),
			zap.Int("baud", cfg.Serial.Baud))
		err := sup.Run(gctx)
		log.Info("serial supervisor stopped")
		return err
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown with error", zap.Error(err))
		return err
	}
	log.Info("shutdown complete")
	return nil
}
