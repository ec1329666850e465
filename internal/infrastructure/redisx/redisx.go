// Package redisx 封装共享缓存所用的 Redis 客户端组件，
// 提供与 pgxpoolx 一致的生命周期管理与 Wire Provider。
package redisx

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// Config 描述 Redis 连接参数。Addr 为空时组件以禁用状态返回，
// 依赖方需要按共享层缺失降级。
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// Component 持有 Redis 客户端及其清理函数。
type Component struct {
	client *redis.Client
}

// ProviderSet 供 Wire 装配 Redis 组件。
var ProviderSet = wire.NewSet(NewComponent, ProvideClient)

// NewComponent 建立 Redis 连接并做一次启动探活。
// 探活失败不阻断启动：共享缓存属于可降级依赖。
func NewComponent(ctx context.Context, cfg Config, logger log.Logger) (*Component, func(), error) {
	helper := log.NewHelper(logger)
	if cfg.Addr == "" {
		helper.Warn("redis disabled (missing addr), shared cache tier unavailable")
		return &Component{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		helper.Warnf("redis ping failed at startup: addr=%s err=%v", cfg.Addr, err)
	} else {
		helper.Infof("redis connected: addr=%s db=%d", cfg.Addr, cfg.DB)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			helper.Warnf("close redis client: %v", err)
		}
	}
	return &Component{client: client}, cleanup, nil
}

// ProvideClient 暴露底层客户端；组件禁用时返回 nil。
func ProvideClient(component *Component) *redis.Client {
	if component == nil {
		return nil
	}
	return component.client
}
