package configloader

import (
	"fmt"
	"time"
)

// rawBootstrap 是配置文件的直接映射。时长字段以字符串承载，
// 归一化阶段统一解析为 time.Duration。
type rawBootstrap struct {
	Data          rawData          `json:"data"`
	Cache         rawCache         `json:"cache"`
	Feed          rawFeed          `json:"feed"`
	Observability rawObservability `json:"observability"`
	Messaging     rawMessaging     `json:"messaging"`
}

type rawData struct {
	Postgres rawPostgres `json:"postgres"`
	Redis    rawRedis    `json:"redis"`
}

type rawPostgres struct {
	DSN               string         `json:"dsn"`
	MaxOpenConns      int            `json:"max_open_conns"`
	MinOpenConns      int            `json:"min_open_conns"`
	MaxConnLifetime   string         `json:"max_conn_lifetime"`
	MaxConnIdleTime   string         `json:"max_conn_idle_time"`
	HealthCheckPeriod string         `json:"health_check_period"`
	Schema            string         `json:"schema"`
	PreparedStmts     bool           `json:"prepared_statements_enabled"`
	PoolMetrics       bool           `json:"pool_metrics_enabled"`
	Transaction       rawTransaction `json:"transaction"`
}

type rawTransaction struct {
	DefaultIsolation string `json:"default_isolation"`
	DefaultTimeout   string `json:"default_timeout"`
	LockTimeout      string `json:"lock_timeout"`
	MaxRetries       int    `json:"max_retries"`
	MetricsEnabled   bool   `json:"metrics_enabled"`
}

type rawRedis struct {
	Addr         string `json:"addr"`
	Password     string `json:"password"`
	DB           int    `json:"db"`
	DialTimeout  string `json:"dial_timeout"`
	ReadTimeout  string `json:"read_timeout"`
	WriteTimeout string `json:"write_timeout"`
	PoolSize     int    `json:"pool_size"`
	MinIdleConns int    `json:"min_idle_conns"`
}

type rawCache struct {
	LocalTTL        string `json:"local_ttl"`
	SharedTTL       string `json:"shared_ttl"`
	LockTTL         string `json:"lock_ttl"`
	LocalMaxEntries int    `json:"local_max_entries"`
}

type rawFeed struct {
	CandidateWindow     int32   `json:"candidate_window"`
	SponsorInterval     int32   `json:"sponsor_interval"`
	DiversityFactor     float64 `json:"diversity_factor"`
	PregenFollowerLimit int32   `json:"pregen_follower_limit"`
	RebuildStaggerMin   string  `json:"rebuild_stagger_min"`
	RebuildStaggerMax   string  `json:"rebuild_stagger_max"`
}

type rawObservability struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          rawTracing        `json:"tracing"`
	Metrics          rawMetrics        `json:"metrics"`
}

type rawTracing struct {
	Enabled            bool              `json:"enabled"`
	Exporter           string            `json:"exporter"`
	Endpoint           string            `json:"endpoint"`
	Headers            map[string]string `json:"headers"`
	Insecure           bool              `json:"insecure"`
	SamplingRatio      float64           `json:"sampling_ratio"`
	BatchTimeout       string            `json:"batch_timeout"`
	ExportTimeout      string            `json:"export_timeout"`
	MaxQueueSize       int               `json:"max_queue_size"`
	MaxExportBatchSize int               `json:"max_export_batch_size"`
	Required           bool              `json:"required"`
	Attributes         map[string]string `json:"attributes"`
}

type rawMetrics struct {
	Enabled             bool              `json:"enabled"`
	Exporter            string            `json:"exporter"`
	Endpoint            string            `json:"endpoint"`
	Headers             map[string]string `json:"headers"`
	Insecure            bool              `json:"insecure"`
	Interval            string            `json:"interval"`
	DisableRuntimeStats bool              `json:"disable_runtime_stats"`
	Required            bool              `json:"required"`
	ResourceAttributes  map[string]string `json:"resource_attributes"`
}

type rawMessaging struct {
	Topics  map[string]rawPubSub   `json:"topics"`
	Outbox  rawOutboxPublisher     `json:"outbox"`
	Inboxes map[string]rawInbox    `json:"inboxes"`
}

type rawPubSub struct {
	ProjectID           string        `json:"project_id"`
	TopicID             string        `json:"topic_id"`
	SubscriptionID      string        `json:"subscription_id"`
	OrderingKeyEnabled  bool          `json:"ordering_key_enabled"`
	LoggingEnabled      bool          `json:"logging_enabled"`
	MetricsEnabled      bool          `json:"metrics_enabled"`
	EmulatorEndpoint    string        `json:"emulator_endpoint"`
	PublishTimeout      string        `json:"publish_timeout"`
	ExactlyOnceDelivery bool          `json:"exactly_once_delivery"`
	DeadLetterTopicID   string        `json:"dead_letter_topic_id"`
	Receive             rawPubSubRecv `json:"receive"`
}

type rawPubSubRecv struct {
	NumGoroutines          int    `json:"num_goroutines"`
	MaxOutstandingMessages int    `json:"max_outstanding_messages"`
	MaxOutstandingBytes    int    `json:"max_outstanding_bytes"`
	MaxExtension           string `json:"max_extension"`
	MaxExtensionPeriod     string `json:"max_extension_period"`
}

type rawOutboxPublisher struct {
	BatchSize      int    `json:"batch_size"`
	TickInterval   string `json:"tick_interval"`
	InitialBackoff string `json:"initial_backoff"`
	MaxBackoff     string `json:"max_backoff"`
	MaxAttempts    int    `json:"max_attempts"`
	PublishTimeout string `json:"publish_timeout"`
	Workers        int    `json:"workers"`
	LockTTL        string `json:"lock_ttl"`
	LoggingEnabled *bool  `json:"logging_enabled"`
	MetricsEnabled *bool  `json:"metrics_enabled"`
}

type rawInbox struct {
	SourceService  string `json:"source_service"`
	MaxConcurrency int    `json:"max_concurrency"`
	LoggingEnabled *bool  `json:"logging_enabled"`
	MetricsEnabled *bool  `json:"metrics_enabled"`
}

func fromBootstrap(b *rawBootstrap) (RuntimeConfig, error) {
	if b == nil {
		return RuntimeConfig{}, nil
	}
	p := &durationParser{}

	rc := RuntimeConfig{
		Database: DatabaseConfig{
			DSN:               b.Data.Postgres.DSN,
			MaxOpenConns:      b.Data.Postgres.MaxOpenConns,
			MinOpenConns:      b.Data.Postgres.MinOpenConns,
			MaxConnLifetime:   p.parse("data.postgres.max_conn_lifetime", b.Data.Postgres.MaxConnLifetime),
			MaxConnIdleTime:   p.parse("data.postgres.max_conn_idle_time", b.Data.Postgres.MaxConnIdleTime),
			HealthCheckPeriod: p.parse("data.postgres.health_check_period", b.Data.Postgres.HealthCheckPeriod),
			Schema:            b.Data.Postgres.Schema,
			PreparedStmts:     b.Data.Postgres.PreparedStmts,
			PoolMetrics:       b.Data.Postgres.PoolMetrics,
			Transaction: TransactionConfig{
				DefaultIsolation: b.Data.Postgres.Transaction.DefaultIsolation,
				DefaultTimeout:   p.parse("data.postgres.transaction.default_timeout", b.Data.Postgres.Transaction.DefaultTimeout),
				LockTimeout:      p.parse("data.postgres.transaction.lock_timeout", b.Data.Postgres.Transaction.LockTimeout),
				MaxRetries:       b.Data.Postgres.Transaction.MaxRetries,
				MetricsEnabled:   b.Data.Postgres.Transaction.MetricsEnabled,
			},
		},
		Redis: RedisConfig{
			Addr:         b.Data.Redis.Addr,
			Password:     b.Data.Redis.Password,
			DB:           b.Data.Redis.DB,
			DialTimeout:  p.parse("data.redis.dial_timeout", b.Data.Redis.DialTimeout),
			ReadTimeout:  p.parse("data.redis.read_timeout", b.Data.Redis.ReadTimeout),
			WriteTimeout: p.parse("data.redis.write_timeout", b.Data.Redis.WriteTimeout),
			PoolSize:     b.Data.Redis.PoolSize,
			MinIdleConns: b.Data.Redis.MinIdleConns,
		},
		Cache: CacheConfig{
			LocalTTL:        p.parse("cache.local_ttl", b.Cache.LocalTTL),
			SharedTTL:       p.parse("cache.shared_ttl", b.Cache.SharedTTL),
			LockTTL:         p.parse("cache.lock_ttl", b.Cache.LockTTL),
			LocalMaxEntries: b.Cache.LocalMaxEntries,
		},
		Feed: FeedConfig{
			CandidateWindow:     b.Feed.CandidateWindow,
			SponsorInterval:     b.Feed.SponsorInterval,
			DiversityFactor:     b.Feed.DiversityFactor,
			PregenFollowerLimit: b.Feed.PregenFollowerLimit,
			RebuildStaggerMin:   p.parse("feed.rebuild_stagger_min", b.Feed.RebuildStaggerMin),
			RebuildStaggerMax:   p.parse("feed.rebuild_stagger_max", b.Feed.RebuildStaggerMax),
		},
		Observability: ObservabilityConfig{
			GlobalAttributes: mapCopy(b.Observability.GlobalAttributes),
			Tracing: TracingConfig{
				Enabled:            b.Observability.Tracing.Enabled,
				Exporter:           b.Observability.Tracing.Exporter,
				Endpoint:           b.Observability.Tracing.Endpoint,
				Headers:            mapCopy(b.Observability.Tracing.Headers),
				Insecure:           b.Observability.Tracing.Insecure,
				SamplingRatio:      b.Observability.Tracing.SamplingRatio,
				BatchTimeout:       p.parse("observability.tracing.batch_timeout", b.Observability.Tracing.BatchTimeout),
				ExportTimeout:      p.parse("observability.tracing.export_timeout", b.Observability.Tracing.ExportTimeout),
				MaxQueueSize:       b.Observability.Tracing.MaxQueueSize,
				MaxExportBatchSize: b.Observability.Tracing.MaxExportBatchSize,
				Required:           b.Observability.Tracing.Required,
				Attributes:         mapCopy(b.Observability.Tracing.Attributes),
			},
			Metrics: MetricsConfig{
				Enabled:             b.Observability.Metrics.Enabled,
				Exporter:            b.Observability.Metrics.Exporter,
				Endpoint:            b.Observability.Metrics.Endpoint,
				Headers:             mapCopy(b.Observability.Metrics.Headers),
				Insecure:            b.Observability.Metrics.Insecure,
				Interval:            p.parse("observability.metrics.interval", b.Observability.Metrics.Interval),
				DisableRuntimeStats: b.Observability.Metrics.DisableRuntimeStats,
				Required:            b.Observability.Metrics.Required,
				ResourceAttributes:  mapCopy(b.Observability.Metrics.ResourceAttributes),
			},
		},
		Messaging: messagingFromRaw(b, p),
	}
	if p.err != nil {
		return RuntimeConfig{}, p.err
	}
	return rc, nil
}

func messagingFromRaw(b *rawBootstrap, p *durationParser) MessagingConfig {
	cfg := MessagingConfig{
		Schema: b.Data.Postgres.Schema,
		Outbox: OutboxPublisherConfig{
			BatchSize:      b.Messaging.Outbox.BatchSize,
			TickInterval:   p.parse("messaging.outbox.tick_interval", b.Messaging.Outbox.TickInterval),
			InitialBackoff: p.parse("messaging.outbox.initial_backoff", b.Messaging.Outbox.InitialBackoff),
			MaxBackoff:     p.parse("messaging.outbox.max_backoff", b.Messaging.Outbox.MaxBackoff),
			MaxAttempts:    b.Messaging.Outbox.MaxAttempts,
			PublishTimeout: p.parse("messaging.outbox.publish_timeout", b.Messaging.Outbox.PublishTimeout),
			Workers:        b.Messaging.Outbox.Workers,
			LockTTL:        p.parse("messaging.outbox.lock_ttl", b.Messaging.Outbox.LockTTL),
			LoggingEnabled: b.Messaging.Outbox.LoggingEnabled,
			MetricsEnabled: b.Messaging.Outbox.MetricsEnabled,
		},
	}
	if len(b.Messaging.Topics) > 0 {
		cfg.Topics = make(map[string]PubSubConfig, len(b.Messaging.Topics))
		for name, raw := range b.Messaging.Topics {
			cfg.Topics[name] = PubSubConfig{
				ProjectID:           raw.ProjectID,
				TopicID:             raw.TopicID,
				SubscriptionID:      raw.SubscriptionID,
				OrderingKeyEnabled:  raw.OrderingKeyEnabled,
				LoggingEnabled:      raw.LoggingEnabled,
				MetricsEnabled:      raw.MetricsEnabled,
				EmulatorEndpoint:    raw.EmulatorEndpoint,
				PublishTimeout:      p.parse("messaging.topics."+name+".publish_timeout", raw.PublishTimeout),
				ExactlyOnceDelivery: raw.ExactlyOnceDelivery,
				DeadLetterTopicID:   raw.DeadLetterTopicID,
				Receive: PubSubReceiveConfig{
					NumGoroutines:          raw.Receive.NumGoroutines,
					MaxOutstandingMessages: raw.Receive.MaxOutstandingMessages,
					MaxOutstandingBytes:    raw.Receive.MaxOutstandingBytes,
					MaxExtension:           p.parse("messaging.topics."+name+".receive.max_extension", raw.Receive.MaxExtension),
					MaxExtensionPeriod:     p.parse("messaging.topics."+name+".receive.max_extension_period", raw.Receive.MaxExtensionPeriod),
				},
			}
		}
	}
	if len(b.Messaging.Inboxes) > 0 {
		cfg.Inboxes = make(map[string]InboxConfig, len(b.Messaging.Inboxes))
		for name, raw := range b.Messaging.Inboxes {
			cfg.Inboxes[name] = InboxConfig{
				SourceService:  raw.SourceService,
				MaxConcurrency: raw.MaxConcurrency,
				LoggingEnabled: raw.LoggingEnabled,
				MetricsEnabled: raw.MetricsEnabled,
			}
		}
	}
	return cfg
}

// durationParser 收敛时长字段解析，首个错误带字段路径返回。
type durationParser struct {
	err error
}

func (p *durationParser) parse(field, value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("parse duration %s=%q: %w", field, value, err)
		}
		return 0
	}
	return d
}

func mapCopy(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func fillDefaults(cfg *RuntimeConfig) {
	if cfg.Feed.CandidateWindow <= 0 {
		cfg.Feed.CandidateWindow = 500
	}
	if cfg.Feed.PregenFollowerLimit <= 0 {
		cfg.Feed.PregenFollowerLimit = 20
	}
	if cfg.Feed.RebuildStaggerMin <= 0 {
		cfg.Feed.RebuildStaggerMin = 2 * time.Second
	}
	if cfg.Feed.RebuildStaggerMax <= cfg.Feed.RebuildStaggerMin {
		cfg.Feed.RebuildStaggerMax = 20 * time.Second
	}
	if cfg.Database.Schema == "" {
		cfg.Database.Schema = "feed"
	}
}
