// Package main 提供预生成 Worker 的独立入口，消费 feed.rebuild.requested 事件，
// 重建热点 Feed 页面并写回两级缓存。
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	configloader "github.com/bionicotaku/lingo-services-feed/internal/infrastructure/configloader"
	"github.com/go-kratos/kratos/v2/log"
	_ "go.uber.org/automaxprocs" // 自动设置 GOMAXPROCS 为容器 CPU 配额
)

type rebuildApp struct {
	Task   runner
	Logger log.Logger
}

type runner interface {
	Run(ctx context.Context) error
}

func main() {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	flag.Parse()

	params := configloader.Params{ConfPath: *confFlag}
	app, cleanup, err := wireRebuildTask(ctx, params)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	logger := app.Logger
	if logger == nil {
		logger = log.NewStdLogger(os.Stdout)
	}
	helper := log.NewHelper(logger)

	if app.Task == nil {
		helper.Warn("rebuild runner disabled (missing messaging.pubsub configuration)")
		return
	}

	helper.Info("starting rebuild task")

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Task.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		helper.Errorf("rebuild runner stopped unexpectedly: %v", err)
		os.Exit(1)
	}

	helper.Info("rebuild task stopped")
}
