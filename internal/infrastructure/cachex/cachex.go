// Package cachex 实现 Feed 结果的两级读穿缓存：
// 进程内 TTL 缓存在前，Redis 共享缓存在后。任一层故障都不会阻断读取，
// 只会降级为穿透到下一层或现场组装。
package cachex

import (
	"context"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// Source 标识一次 Get 的数据来源。
type Source string

// 数据来源常量定义
const (
	SourceLocal  Source = "local"  // 进程内命中
	SourceShared Source = "shared" // 共享层命中
	SourceLoader Source = "loader" // 两层未命中，由 loader 现场生成
)

// Loader 在双层未命中时生成缓存值。
type Loader func(ctx context.Context) ([]byte, error)

// Config 描述两级缓存参数。
type Config struct {
	LocalTTL        time.Duration // 进程内条目存活时间
	SharedTTL       time.Duration // 共享层条目存活时间
	LockTTL         time.Duration // 重建去重锁存活时间
	LocalMaxEntries int           // 进程内条目上限
}

// 默认参数：本地层短 TTL 吸收热点，共享层长 TTL 扛穿透。
const (
	defaultLocalTTL        = 30 * time.Second
	defaultSharedTTL       = 5 * time.Minute
	defaultLockTTL         = 30 * time.Second
	defaultLocalMaxEntries = 4096
)

func (c Config) normalize() Config {
	if c.LocalTTL <= 0 {
		c.LocalTTL = defaultLocalTTL
	}
	if c.SharedTTL <= 0 {
		c.SharedTTL = defaultSharedTTL
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaultLockTTL
	}
	if c.LocalMaxEntries <= 0 {
		c.LocalMaxEntries = defaultLocalMaxEntries
	}
	return c
}

// Cache 是两级读穿缓存。共享层客户端为 nil 时自动退化为单层本地缓存。
type Cache struct {
	cfg    Config
	local  *localStore
	client *redis.Client
	log    *log.Helper
}

// Component 持有缓存实例与后台清理协程。
type Component struct {
	cache *Cache
}

// ProviderSet 供 Wire 装配两级缓存。
var ProviderSet = wire.NewSet(NewComponent, ProvideCache)

// NewComponent 构造缓存组件并启动过期清理协程。
func NewComponent(cfg Config, client *redis.Client, logger log.Logger) (*Component, func(), error) {
	cfg = cfg.normalize()
	cache := &Cache{
		cfg:    cfg,
		local:  newLocalStore(cfg.LocalMaxEntries),
		client: client,
		log:    log.NewHelper(logger),
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.LocalTTL)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				cache.local.purgeExpired(now)
			}
		}
	}()

	cleanup := func() { close(stop) }
	return &Component{cache: cache}, cleanup, nil
}

// ProvideCache 暴露缓存实例。
func ProvideCache(component *Component) *Cache {
	if component == nil {
		return nil
	}
	return component.cache
}

// Get 依次查本地层、共享层；均未命中时调用 loader 并回填两层。
// 共享层故障按未命中处理并告警，loader 错误原样返回。
func (c *Cache) Get(ctx context.Context, key string, loader Loader) ([]byte, Source, error) {
	now := time.Now()
	if value, ok := c.local.get(key, now); ok {
		return value, SourceLocal, nil
	}

	if c.client != nil {
		value, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			c.local.set(key, value, c.cfg.LocalTTL, now)
			return value, SourceShared, nil
		case errors.Is(err, redis.Nil):
			// 未命中，继续走 loader
		default:
			c.log.WithContext(ctx).Warnf("shared cache get failed, fall through: key=%s err=%v", key, err)
		}
	}

	if loader == nil {
		return nil, SourceLoader, nil
	}
	value, err := loader(ctx)
	if err != nil {
		return nil, SourceLoader, err
	}
	c.Put(ctx, key, value)
	return value, SourceLoader, nil
}

// Put 将值写入两层缓存。共享层写入失败只告警。
func (c *Cache) Put(ctx context.Context, key string, value []byte) {
	c.local.set(key, value, c.cfg.LocalTTL, time.Now())
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, c.cfg.SharedTTL).Err(); err != nil {
		c.log.WithContext(ctx).Warnf("shared cache set failed: key=%s err=%v", key, err)
	}
}

// Invalidate 删除精确键，返回两层合计清除的条目数。
func (c *Cache) Invalidate(ctx context.Context, keys ...string) int {
	if len(keys) == 0 {
		return 0
	}
	cleared := c.local.delete(keys...)
	if c.client != nil {
		removed, err := c.client.Del(ctx, keys...).Result()
		if err != nil {
			c.log.WithContext(ctx).Warnf("shared cache del failed: keys=%d err=%v", len(keys), err)
		} else {
			cleared += int(removed)
		}
	}
	return cleared
}

// InvalidatePattern 按 glob 模式删除两层缓存键。
// 共享层使用 SCAN + DEL，尽力而为；扫描失败只影响共享层。
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) int {
	cleared := c.local.deletePattern(pattern)
	if c.client == nil {
		return cleared
	}

	iter := c.client.Scan(ctx, 0, pattern, 256).Iterator()
	batch := make([]string, 0, 256)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		removed, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			c.log.WithContext(ctx).Warnf("shared cache pattern del failed: pattern=%s err=%v", pattern, err)
		} else {
			cleared += int(removed)
		}
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 256 {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		c.log.WithContext(ctx).Warnf("shared cache scan failed: pattern=%s err=%v", pattern, err)
	}
	return cleared
}

// TryLock 以 SET NX 抢占重建去重锁。共享层缺失或故障时放行，
// 重复重建由任务幂等性兜底。
func (c *Cache) TryLock(ctx context.Context, key string) bool {
	if c.client == nil {
		return true
	}
	ok, err := c.client.SetNX(ctx, key, "1", c.cfg.LockTTL).Result()
	if err != nil {
		c.log.WithContext(ctx).Warnf("rebuild lock acquire failed, proceeding: key=%s err=%v", key, err)
		return true
	}
	return ok
}

// Unlock 释放重建去重锁。
func (c *Cache) Unlock(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.WithContext(ctx).Warnf("rebuild lock release failed: key=%s err=%v", key, err)
	}
}

// LocalLen 返回本地层条目数，仅用于观测。
func (c *Cache) LocalLen() int {
	return c.local.len()
}
