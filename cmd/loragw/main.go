package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/taoyao-code/loragw/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/loragw/internal/config"
	"github.com/taoyao-code/loragw/internal/logging"
)

func main() {
	// 1) 加载配置（LORAGW_CONFIG 指定文件路径）
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// 3) 信号处理，优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, cfg, logger); err != nil {
		logger.Error("loragw exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
