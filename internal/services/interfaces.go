package services

import (
	"context"

	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/cachex"
	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/models/vo"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/uuid"
)

// FeedCandidatesRepo 抽象候选集读取与投影访问，由投影仓储实现。
type FeedCandidatesRepo interface {
	Get(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.FeedVideoProjection, error)
	ListPublicCandidates(ctx context.Context, sess txmanager.Session, excludedOwnerIDs []uuid.UUID, limit int32) ([]*po.FeedVideoProjection, error)
	ListCandidatesByOwners(ctx context.Context, sess txmanager.Session, ownerIDs []uuid.UUID, limit int32) ([]*po.FeedVideoProjection, error)
	ListCandidatesByCategory(ctx context.Context, sess txmanager.Session, category string, limit int32) ([]*po.FeedVideoProjection, error)
	ListVideosByOwner(ctx context.Context, sess txmanager.Session, ownerID uuid.UUID, includeRestricted bool, limit int32) ([]*po.FeedVideoProjection, error)
	CountPublicCandidates(ctx context.Context, sess txmanager.Session, excludedOwnerIDs []uuid.UUID) (int64, error)
	CountCandidatesByOwners(ctx context.Context, sess txmanager.Session, ownerIDs []uuid.UUID) (int64, error)
	CountCandidatesByCategory(ctx context.Context, sess txmanager.Session, category string) (int64, error)
	CountVideosByOwner(ctx context.Context, sess txmanager.Session, ownerID uuid.UUID, includeRestricted bool) (int64, error)
}

// FollowGraphRepo 抽象关注图投影读取。
type FollowGraphRepo interface {
	Following(ctx context.Context, sess txmanager.Session, followerID uuid.UUID) ([]uuid.UUID, error)
	Blocked(ctx context.Context, sess txmanager.Session, followerID uuid.UUID) ([]uuid.UUID, error)
	FollowersAfter(ctx context.Context, sess txmanager.Session, followedID, after uuid.UUID, limit int32) ([]uuid.UUID, error)
}

// SeenItemsStore 抽象 per-viewer 已曝光历史。
type SeenItemsStore interface {
	Add(ctx context.Context, viewerID uuid.UUID, videoIDs []uuid.UUID) error
	List(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error)
}

// FeedCache 抽象两级缓存，便于测试替换。
type FeedCache interface {
	Get(ctx context.Context, key string, loader cachex.Loader) ([]byte, cachex.Source, error)
	Put(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context, keys ...string) int
	InvalidatePattern(ctx context.Context, pattern string) int
	TryLock(ctx context.Context, key string) bool
	Unlock(ctx context.Context, key string)
}

// OutboxEnqueuer 抽象事务性 Outbox 写入。
type OutboxEnqueuer interface {
	Enqueue(ctx context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error
}

// FeedServiceInterface 抽象 Feed 组装用例，便于测试替换。
type FeedServiceInterface interface {
	GetFeed(ctx context.Context, input GetFeedInput) (*vo.FeedPage, vo.CacheSource, error)
}

// InvalidationServiceInterface 抽象选择性缓存失效用例。
type InvalidationServiceInterface interface {
	OnVideoChanged(ctx context.Context, input VideoChangeInput) (*vo.InvalidationReport, error)
}

// PregenerationServiceInterface 抽象预生成调度与执行。
type PregenerationServiceInterface interface {
	ScheduleRebuilds(ctx context.Context, sess txmanager.Session, tasks []RebuildTask, reason string) error
	Rebuild(ctx context.Context, task RebuildTask) error
}

var (
	_ FeedCandidatesRepo = (*repositories.FeedVideoProjectionRepository)(nil)
	_ FollowGraphRepo    = (*repositories.FollowGraphRepository)(nil)
	_ SeenItemsStore     = (*repositories.SeenItemsRepository)(nil)
	_ FeedCache          = (*cachex.Cache)(nil)
	_ OutboxEnqueuer     = (*repositories.OutboxRepository)(nil)

	_ FeedServiceInterface          = (*FeedService)(nil)
	_ InvalidationServiceInterface  = (*InvalidationService)(nil)
	_ PregenerationServiceInterface = (*PregenerationService)(nil)
)
