package cataloginbox_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/cachex"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories"
	"github.com/bionicotaku/lingo-services-feed/internal/services"
	cataloginbox "github.com/bionicotaku/lingo-services-feed/internal/tasks/catalog_inbox"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/docker/go-connections/nat"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type catalogEvent struct {
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	AggregateID   string         `json:"aggregate_id"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Version       int64          `json:"version"`
	ChangedFields []string       `json:"changed_fields,omitempty"`
	Video         *videoSnapshot `json:"video,omitempty"`
}

type videoSnapshot struct {
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Visibility string    `json:"visibility"`
	LikesCount int64     `json:"likes_count"`
	PlaysCount int64     `json:"plays_count"`
	Categories []string  `json:"categories,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func TestCatalogInboxTask_MaintainsProjection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn, terminate := startPostgres(ctx, t)
	defer terminate()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	applyMigrations(ctx, t, pool)

	logger := log.NewStdLogger(io.Discard)
	cfg := outboxcfg.Config{Schema: "feed", Inbox: outboxcfg.InboxConfig{SourceService: "catalog", MaxConcurrency: 1}}

	inboxRepo := repositories.NewInboxRepository(pool, logger, cfg)
	projectionRepo := repositories.NewFeedVideoProjectionRepository(pool, logger)
	followRepo := repositories.NewFollowGraphRepository(pool, logger)
	outboxRepo := repositories.NewOutboxRepository(pool, logger, cfg)
	manager, err := txmanager.NewManager(pool, txmanager.Config{}, txmanager.Dependencies{Logger: logger})
	require.NoError(t, err)

	cacheComponent, cacheCleanup, err := cachex.NewComponent(cachex.Config{}, nil, logger)
	require.NoError(t, err)
	t.Cleanup(cacheCleanup)
	cache := cachex.ProvideCache(cacheComponent)

	opts := services.FeedOptions{}
	scoring := services.NewScoringEngine()
	invalidator := services.NewInvalidationService(cache, followRepo, opts, logger)
	pregen := services.NewPregenerationService(outboxRepo, nil, opts, logger)

	videoID := uuid.New()
	ownerID := uuid.New()
	createdAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)

	created := catalogEvent{
		EventID:     uuid.NewString(),
		EventType:   "catalog.video.created",
		AggregateID: videoID.String(),
		OccurredAt:  createdAt,
		Version:     1,
		Video: &videoSnapshot{
			OwnerID:    ownerID.String(),
			Title:      "Sample Title",
			Status:     "ready",
			Visibility: "public",
			LikesCount: 10,
			PlaysCount: 40,
			Categories: []string{"tech"},
			Tags:       []string{"golang"},
			CreatedAt:  createdAt,
		},
	}

	stub := &stubSubscriber{messages: []*gcpubsub.Message{buildMessage(t, created)}}
	task := cataloginbox.NewTask(stub, inboxRepo, projectionRepo, scoring, invalidator, pregen, manager, logger, cfg.Inbox)
	require.NotNil(t, task)

	require.NoError(t, task.Run(ctx))

	record, err := projectionRepo.Get(ctx, nil, videoID)
	require.NoError(t, err)
	require.Equal(t, "Sample Title", record.Title)
	require.Equal(t, ownerID, record.OwnerID)
	require.Equal(t, int64(1), record.Version)
	require.Greater(t, record.TrendingScore, 0.0)

	// 投影写入与预生成任务同事务落库。
	pending, err := outboxRepo.CountPending(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), pending)

	// 乱序保护：旧版本更新被丢弃，新版本生效。
	stale := created
	stale.EventID = uuid.NewString()
	stale.EventType = "catalog.video.updated"
	stale.ChangedFields = []string{"title"}
	staleSnap := *created.Video
	staleSnap.Title = "Stale Title"
	stale.Video = &staleSnap

	fresh := created
	fresh.EventID = uuid.NewString()
	fresh.EventType = "catalog.video.updated"
	fresh.Version = 2
	fresh.ChangedFields = []string{"likes_count"}
	freshSnap := *created.Video
	freshSnap.LikesCount = 25
	fresh.Video = &freshSnap

	stub.messages = []*gcpubsub.Message{buildMessage(t, stale), buildMessage(t, fresh)}
	require.NoError(t, task.Run(ctx))

	record, err = projectionRepo.Get(ctx, nil, videoID)
	require.NoError(t, err)
	require.Equal(t, int64(2), record.Version)
	require.Equal(t, int64(25), record.LikesCount)
	require.Equal(t, "Sample Title", record.Title, "stale update must not overwrite newer state")

	deleted := catalogEvent{
		EventID:     uuid.NewString(),
		EventType:   "catalog.video.deleted",
		AggregateID: videoID.String(),
		OccurredAt:  time.Now().UTC(),
		Version:     3,
	}
	stub.messages = []*gcpubsub.Message{buildMessage(t, deleted)}
	require.NoError(t, task.Run(ctx))

	_, err = projectionRepo.Get(ctx, nil, videoID)
	require.ErrorIs(t, err, repositories.ErrProjectionNotFound)
}

// stubSubscriber 同步投递排队消息。
type stubSubscriber struct {
	messages []*gcpubsub.Message
}

func (s *stubSubscriber) Receive(ctx context.Context, handler func(context.Context, *gcpubsub.Message) error) error {
	for _, msg := range s.messages {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubSubscriber) Stop() {}

func buildMessage(t *testing.T, evt catalogEvent) *gcpubsub.Message {
	t.Helper()
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	return &gcpubsub.Message{
		ID:   uuid.NewString(),
		Data: data,
		Attributes: map[string]string{
			"event_id":       evt.EventID,
			"event_type":     evt.EventType,
			"aggregate_id":   evt.AggregateID,
			"aggregate_type": "video",
		},
	}
}

func startPostgres(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "feed",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://postgres:postgres@%s:%s/feed?sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("skip catalog inbox tests: cannot start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/feed?sslmode=disable", host, port.Port())
	cleanup := func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	}
	return dsn, cleanup
}

func applyMigrations(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	migrationsDir := filepath.Join("..", "..", "..", "migrations")
	entries, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	require.NoError(t, err)
	sort.Strings(entries)

	for _, path := range entries {
		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		_, execErr := pool.Exec(ctx, string(content))
		require.NoErrorf(t, execErr, "apply migration %s", filepath.Base(path))
	}
}
