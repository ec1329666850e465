package configloader

import (
	"github.com/bionicotaku/lingo-utils/gclog"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	txconfig "github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/cachex"
	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/redisx"
	"github.com/bionicotaku/lingo-services-feed/internal/services"
)

// ProviderSet 暴露配置加载相关的依赖注入入口。
// gcpubsub.Config 由各任务入口按主题选择（ProvideCatalogPubSubConfig 等），
// 不纳入公共集合，避免多订阅二义性。
var ProviderSet = wire.NewSet(
	LoadRuntimeConfig,
	ProvideServiceInfo,
	ProvideLoggerConfig,
	ProvideObservabilityConfig,
	ProvideObservabilityInfo,
	ProvideDatabaseConfig,
	ProvidePgxConfig,
	ProvideTxConfig,
	ProvideRedisConfig,
	ProvideCacheConfig,
	ProvideFeedOptions,
	ProvideMessagingConfig,
	ProvidePubSubDependencies,
)

// LoadRuntimeConfig 调用 Load 并供 Wire 使用。
func LoadRuntimeConfig(params Params) (RuntimeConfig, error) {
	return Load(params)
}

// ProvideServiceInfo 返回服务元信息。
func ProvideServiceInfo(cfg RuntimeConfig) ServiceInfo {
	return cfg.Service
}

// ProvideLoggerConfig 构造 gclog.Config。
func ProvideLoggerConfig(info ServiceInfo) gclog.Config {
	return gclog.Config{
		Service:              info.Name,
		Version:              info.Version,
		Environment:          info.Environment,
		InstanceID:           info.InstanceID,
		EnableSourceLocation: true,
		StaticLabels: map[string]string{
			"service.id": info.InstanceID,
		},
	}
}

// ProvideObservabilityConfig 将 ObservabilityConfig 转换为 obswire.ObservabilityConfig。
func ProvideObservabilityConfig(cfg RuntimeConfig) obswire.ObservabilityConfig {
	tracing := cfg.Observability.Tracing
	metrics := cfg.Observability.Metrics

	var tracingCfg *obswire.TracingConfig
	if tracing.Enabled || tracing.Endpoint != "" || tracing.Exporter != "" {
		tracingCfg = &obswire.TracingConfig{
			Enabled:            tracing.Enabled,
			Exporter:           tracing.Exporter,
			Endpoint:           tracing.Endpoint,
			Headers:            tracing.Headers,
			Insecure:           tracing.Insecure,
			SamplingRatio:      tracing.SamplingRatio,
			Attributes:         tracing.Attributes,
			BatchTimeout:       tracing.BatchTimeout,
			ExportTimeout:      tracing.ExportTimeout,
			MaxQueueSize:       tracing.MaxQueueSize,
			MaxExportBatchSize: tracing.MaxExportBatchSize,
			Required:           tracing.Required,
		}
	}

	var metricsCfg *obswire.MetricsConfig
	if metrics.Enabled || metrics.Exporter != "" || metrics.Endpoint != "" {
		metricsCfg = &obswire.MetricsConfig{
			Enabled:             metrics.Enabled,
			Exporter:            metrics.Exporter,
			Endpoint:            metrics.Endpoint,
			Headers:             metrics.Headers,
			Insecure:            metrics.Insecure,
			Interval:            metrics.Interval,
			ResourceAttributes:  metrics.ResourceAttributes,
			DisableRuntimeStats: metrics.DisableRuntimeStats,
			Required:            metrics.Required,
		}
	}

	return obswire.ObservabilityConfig{
		Tracing:          tracingCfg,
		Metrics:          metricsCfg,
		GlobalAttributes: cfg.Observability.GlobalAttributes,
	}
}

// ProvideObservabilityInfo 转换为 obswire.ServiceInfo。
func ProvideObservabilityInfo(info ServiceInfo) obswire.ServiceInfo {
	return obswire.ServiceInfo{
		Name:        info.Name,
		Version:     info.Version,
		Environment: info.Environment,
	}
}

// ProvideDatabaseConfig 返回数据库配置。
func ProvideDatabaseConfig(cfg RuntimeConfig) DatabaseConfig {
	return cfg.Database
}

// ProvidePgxConfig 将 DatabaseConfig 转换为 pgxpoolx.Config。
func ProvidePgxConfig(dbCfg DatabaseConfig) pgxpoolx.Config {
	enablePrepared := dbCfg.PreparedStmts
	metricsEnabled := dbCfg.PoolMetrics
	return pgxpoolx.Config{
		DSN:                dbCfg.DSN,
		MaxConns:           int32(dbCfg.MaxOpenConns),
		MinConns:           int32(dbCfg.MinOpenConns),
		MaxConnLifetime:    dbCfg.MaxConnLifetime,
		MaxConnIdleTime:    dbCfg.MaxConnIdleTime,
		HealthCheckPeriod:  dbCfg.HealthCheckPeriod,
		Schema:             dbCfg.Schema,
		EnablePreparedStmt: &enablePrepared,
		MetricsEnabled:     &metricsEnabled,
	}
}

// ProvideTxConfig 构造 txmanager.Config。
func ProvideTxConfig(cfg RuntimeConfig) txconfig.Config {
	tx := cfg.Database.Transaction
	return txconfig.Config{
		DefaultIsolation: tx.DefaultIsolation,
		DefaultTimeout:   tx.DefaultTimeout,
		LockTimeout:      tx.LockTimeout,
		MaxRetries:       tx.MaxRetries,
		MetricsEnabled:   boolPtr(tx.MetricsEnabled),
	}
}

// ProvideRedisConfig 将 RedisConfig 转换为 redisx.Config。
func ProvideRedisConfig(cfg RuntimeConfig) redisx.Config {
	r := cfg.Redis
	return redisx.Config{
		Addr:         r.Addr,
		Password:     r.Password,
		DB:           r.DB,
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,
		PoolSize:     r.PoolSize,
		MinIdleConns: r.MinIdleConns,
	}
}

// ProvideCacheConfig 将 CacheConfig 转换为 cachex.Config。
func ProvideCacheConfig(cfg RuntimeConfig) cachex.Config {
	c := cfg.Cache
	return cachex.Config{
		LocalTTL:        c.LocalTTL,
		SharedTTL:       c.SharedTTL,
		LockTTL:         c.LockTTL,
		LocalMaxEntries: c.LocalMaxEntries,
	}
}

// ProvideFeedOptions 将 FeedConfig 转换为 services.FeedOptions。
func ProvideFeedOptions(cfg RuntimeConfig) services.FeedOptions {
	f := cfg.Feed
	return services.FeedOptions{
		CandidateWindow:     f.CandidateWindow,
		SponsorInterval:     f.SponsorInterval,
		DiversityFactor:     f.DiversityFactor,
		PregenFollowerLimit: f.PregenFollowerLimit,
		RebuildStaggerMin:   f.RebuildStaggerMin,
		RebuildStaggerMax:   f.RebuildStaggerMax,
	}
}

// ProvideMessagingConfig 返回消息相关配置。
func ProvideMessagingConfig(cfg RuntimeConfig) MessagingConfig {
	return cfg.Messaging
}

// ProvideCatalogPubSubConfig 返回 catalog 事件流的 gcpubsub.Config。
func ProvideCatalogPubSubConfig(msg MessagingConfig) gcpubsub.Config {
	return toGCPubSubConfig(msg.Topics["catalog"])
}

// ProvideSocialPubSubConfig 返回 social 事件流的 gcpubsub.Config。
func ProvideSocialPubSubConfig(msg MessagingConfig) gcpubsub.Config {
	return toGCPubSubConfig(msg.Topics["social"])
}

// ProvideRebuildPubSubConfig 返回重建任务流的 gcpubsub.Config。
// Outbox 发布器与 rebuild 消费者共用该主题。
func ProvideRebuildPubSubConfig(msg MessagingConfig) gcpubsub.Config {
	return toGCPubSubConfig(msg.Topics["rebuild"])
}

func toGCPubSubConfig(cfg PubSubConfig) gcpubsub.Config {
	if cfg.ProjectID == "" {
		return gcpubsub.Config{}
	}
	result := gcpubsub.Config{
		ProjectID:           cfg.ProjectID,
		TopicID:             cfg.TopicID,
		SubscriptionID:      cfg.SubscriptionID,
		PublishTimeout:      cfg.PublishTimeout,
		OrderingKeyEnabled:  boolPtr(cfg.OrderingKeyEnabled),
		EnableLogging:       boolPtr(cfg.LoggingEnabled),
		EnableMetrics:       boolPtr(cfg.MetricsEnabled),
		EmulatorEndpoint:    cfg.EmulatorEndpoint,
		ExactlyOnceDelivery: cfg.ExactlyOnceDelivery,
		Receive: gcpubsub.ReceiveConfig{
			NumGoroutines:          cfg.Receive.NumGoroutines,
			MaxOutstandingMessages: cfg.Receive.MaxOutstandingMessages,
			MaxOutstandingBytes:    cfg.Receive.MaxOutstandingBytes,
			MaxExtension:           cfg.Receive.MaxExtension,
			MaxExtensionPeriod:     cfg.Receive.MaxExtensionPeriod,
		},
	}
	return result.Normalize()
}

// ProvidePubSubDependencies 注入 Pub/Sub 依赖。
func ProvidePubSubDependencies(logger log.Logger) gcpubsub.Dependencies {
	return gcpubsub.Dependencies{Logger: logger}
}

// ProvideCatalogOutboxConfig 返回 catalog 消费者的 outboxcfg.Config。
func ProvideCatalogOutboxConfig(msg MessagingConfig) outboxcfg.Config {
	return outboxConfigFor(msg, "catalog")
}

// ProvideSocialOutboxConfig 返回 social 消费者的 outboxcfg.Config。
func ProvideSocialOutboxConfig(msg MessagingConfig) outboxcfg.Config {
	return outboxConfigFor(msg, "social")
}

// ProvideRebuildOutboxConfig 返回 rebuild 消费者的 outboxcfg.Config。
func ProvideRebuildOutboxConfig(msg MessagingConfig) outboxcfg.Config {
	return outboxConfigFor(msg, "rebuild")
}

// ProvidePublisherOutboxConfig 返回 Outbox 发布器的 outboxcfg.Config。
// 发布器不消费事件，Inbox 段取任意已配置条目兜底即可。
func ProvidePublisherOutboxConfig(msg MessagingConfig) outboxcfg.Config {
	return outboxConfigFor(msg, "")
}

// outboxConfigFor 按 inbox 名称组装共享 Outbox 组件的配置。
// 名称未配置时退回 default 条目，再退回任意条目。
func outboxConfigFor(msg MessagingConfig, inboxName string) outboxcfg.Config {
	cfg := outboxcfg.Config{
		Schema: msg.Schema,
		Publisher: outboxcfg.PublisherConfig{
			BatchSize:      msg.Outbox.BatchSize,
			TickInterval:   msg.Outbox.TickInterval,
			InitialBackoff: msg.Outbox.InitialBackoff,
			MaxBackoff:     msg.Outbox.MaxBackoff,
			MaxAttempts:    msg.Outbox.MaxAttempts,
			PublishTimeout: msg.Outbox.PublishTimeout,
			Workers:        msg.Outbox.Workers,
			LockTTL:        msg.Outbox.LockTTL,
			LoggingEnabled: msg.Outbox.LoggingEnabled,
			MetricsEnabled: msg.Outbox.MetricsEnabled,
		},
	}

	selected := InboxConfig{}
	if msg.Inboxes != nil {
		if inbox, ok := msg.Inboxes[inboxName]; ok {
			selected = inbox
		} else if inbox, ok := msg.Inboxes["default"]; ok {
			selected = inbox
		} else {
			for _, inbox := range msg.Inboxes {
				selected = inbox
				break
			}
		}
	}

	cfg.Inbox = outboxcfg.InboxConfig{
		SourceService:  selected.SourceService,
		MaxConcurrency: selected.MaxConcurrency,
		LoggingEnabled: selected.LoggingEnabled,
		MetricsEnabled: selected.MetricsEnabled,
	}

	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

func boolPtr(v bool) *bool {
	return &v
}
