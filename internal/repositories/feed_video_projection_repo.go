package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories/mappers"
	feeddb "github.com/bionicotaku/lingo-services-feed/internal/repositories/feeddb"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProjectionNotFound 表示投影记录不存在。
var ErrProjectionNotFound = errors.New("feed video projection not found")

// FeedVideoProjectionRepository 维护 feed.videos_projection，并为组装器提供候选查询。
type FeedVideoProjectionRepository struct {
	db      *pgxpool.Pool
	queries *feeddb.Queries
	log     *log.Helper
}

// NewFeedVideoProjectionRepository 构造仓储实例。
func NewFeedVideoProjectionRepository(db *pgxpool.Pool, logger log.Logger) *FeedVideoProjectionRepository {
	return &FeedVideoProjectionRepository{
		db:      db,
		queries: feeddb.New(db),
		log:     log.NewHelper(logger),
	}
}

// UpsertVideoProjectionInput 描述投影写入参数。
// 版本号小于等于现存记录的写入会被静默丢弃（乱序保护）。
type UpsertVideoProjectionInput struct {
	VideoID         uuid.UUID
	OwnerID         uuid.UUID
	Title           string
	ThumbnailURL    *string
	DurationMicros  *int64
	Status          po.VideoStatus
	Visibility      string
	LikesCount      int64
	CommentsCount   int64
	ViewsCount      int64
	PlaysCount      int64
	SharesCount     int64
	EngagementScore float64
	TrendingScore   float64
	Categories      []string
	Tags            []string
	IsFeatured      bool
	CreatedAt       time.Time
	PublishedAt     *time.Time
	UpdatedAt       *time.Time
	Version         int64
}

// Upsert 写入投影记录。
func (r *FeedVideoProjectionRepository) Upsert(ctx context.Context, sess txmanager.Session, input UpsertVideoProjectionInput) error {
	queries := r.withSession(sess)
	params := feeddb.UpsertVideoProjectionParams{
		VideoID:         input.VideoID,
		OwnerID:         input.OwnerID,
		Title:           input.Title,
		ThumbnailUrl:    mappers.ToPgText(input.ThumbnailURL),
		DurationMicros:  mappers.ToPgInt8(input.DurationMicros),
		Status:          string(input.Status),
		Visibility:      input.Visibility,
		LikesCount:      input.LikesCount,
		CommentsCount:   input.CommentsCount,
		ViewsCount:      input.ViewsCount,
		PlaysCount:      input.PlaysCount,
		SharesCount:     input.SharesCount,
		EngagementScore: input.EngagementScore,
		TrendingScore:   input.TrendingScore,
		Categories:      input.Categories,
		Tags:            input.Tags,
		IsFeatured:      input.IsFeatured,
		CreatedAt:       mappers.ToPgTimestamptz(input.CreatedAt),
		PublishedAt:     mappers.ToPgTimestamptzPtr(input.PublishedAt),
		Column20:        mappers.ToPgTimestamptzPtr(input.UpdatedAt),
		Version:         input.Version,
	}
	if err := queries.UpsertVideoProjection(ctx, params); err != nil {
		r.log.WithContext(ctx).Errorf("upsert video projection failed: video=%s err=%v", input.VideoID, err)
		return fmt.Errorf("upsert video projection: %w", err)
	}
	return nil
}

// Get 返回单个投影。
func (r *FeedVideoProjectionRepository) Get(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.FeedVideoProjection, error) {
	row, err := r.withSession(sess).GetVideoProjection(ctx, videoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectionNotFound
		}
		return nil, fmt.Errorf("get video projection: %w", err)
	}
	return mappers.FeedVideoProjectionFromRow(row), nil
}

// Delete 删除投影记录（catalog.video.deleted）。
func (r *FeedVideoProjectionRepository) Delete(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) error {
	if err := r.withSession(sess).DeleteVideoProjection(ctx, videoID); err != nil {
		return fmt.Errorf("delete video projection: %w", err)
	}
	return nil
}

// ListPublicCandidates 返回公开且就绪的候选，排除指定作者（拉黑过滤）。
func (r *FeedVideoProjectionRepository) ListPublicCandidates(ctx context.Context, sess txmanager.Session, excludedOwnerIDs []uuid.UUID, limit int32) ([]*po.FeedVideoProjection, error) {
	if excludedOwnerIDs == nil {
		excludedOwnerIDs = []uuid.UUID{}
	}
	rows, err := r.withSession(sess).ListPublicCandidates(ctx, feeddb.ListPublicCandidatesParams{
		ExcludedOwnerIds: excludedOwnerIDs,
		Limit:            limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list public candidates: %w", err)
	}
	return projectionsFromRows(rows), nil
}

// ListCandidatesByOwners 返回指定作者集合的公开候选（following Feed）。
func (r *FeedVideoProjectionRepository) ListCandidatesByOwners(ctx context.Context, sess txmanager.Session, ownerIDs []uuid.UUID, limit int32) ([]*po.FeedVideoProjection, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	rows, err := r.withSession(sess).ListCandidatesByOwners(ctx, feeddb.ListCandidatesByOwnersParams{
		OwnerIds: ownerIDs,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidates by owners: %w", err)
	}
	return projectionsFromRows(rows), nil
}

// ListCandidatesByCategory 返回指定分类下的公开候选。
func (r *FeedVideoProjectionRepository) ListCandidatesByCategory(ctx context.Context, sess txmanager.Session, category string, limit int32) ([]*po.FeedVideoProjection, error) {
	rows, err := r.withSession(sess).ListCandidatesByCategory(ctx, feeddb.ListCandidatesByCategoryParams{
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidates by category: %w", err)
	}
	return projectionsFromRows(rows), nil
}

// ListVideosByOwner 返回某作者的视频列表。
// includeRestricted 为 true 时（作者看自己的主页）不做可见性/状态过滤。
func (r *FeedVideoProjectionRepository) ListVideosByOwner(ctx context.Context, sess txmanager.Session, ownerID uuid.UUID, includeRestricted bool, limit int32) ([]*po.FeedVideoProjection, error) {
	queries := r.withSession(sess)
	if includeRestricted {
		rows, err := queries.ListOwnVideos(ctx, feeddb.ListOwnVideosParams{OwnerID: ownerID, Limit: limit})
		if err != nil {
			return nil, fmt.Errorf("list own videos: %w", err)
		}
		return projectionsFromRows(rows), nil
	}
	rows, err := queries.ListPublicVideosByOwner(ctx, feeddb.ListPublicVideosByOwnerParams{OwnerID: ownerID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list public videos by owner: %w", err)
	}
	return projectionsFromRows(rows), nil
}

// CountPublicCandidates 统计公开候选总量。
func (r *FeedVideoProjectionRepository) CountPublicCandidates(ctx context.Context, sess txmanager.Session, excludedOwnerIDs []uuid.UUID) (int64, error) {
	if excludedOwnerIDs == nil {
		excludedOwnerIDs = []uuid.UUID{}
	}
	count, err := r.withSession(sess).CountPublicCandidates(ctx, excludedOwnerIDs)
	if err != nil {
		return 0, fmt.Errorf("count public candidates: %w", err)
	}
	return count, nil
}

// CountCandidatesByOwners 统计指定作者集合的公开候选总量。
func (r *FeedVideoProjectionRepository) CountCandidatesByOwners(ctx context.Context, sess txmanager.Session, ownerIDs []uuid.UUID) (int64, error) {
	if len(ownerIDs) == 0 {
		return 0, nil
	}
	count, err := r.withSession(sess).CountCandidatesByOwners(ctx, ownerIDs)
	if err != nil {
		return 0, fmt.Errorf("count candidates by owners: %w", err)
	}
	return count, nil
}

// CountCandidatesByCategory 统计指定分类的公开候选总量。
func (r *FeedVideoProjectionRepository) CountCandidatesByCategory(ctx context.Context, sess txmanager.Session, category string) (int64, error) {
	count, err := r.withSession(sess).CountCandidatesByCategory(ctx, category)
	if err != nil {
		return 0, fmt.Errorf("count candidates by category: %w", err)
	}
	return count, nil
}

// CountVideosByOwner 统计某作者的视频总量。
func (r *FeedVideoProjectionRepository) CountVideosByOwner(ctx context.Context, sess txmanager.Session, ownerID uuid.UUID, includeRestricted bool) (int64, error) {
	queries := r.withSession(sess)
	if includeRestricted {
		count, err := queries.CountOwnVideos(ctx, ownerID)
		if err != nil {
			return 0, fmt.Errorf("count own videos: %w", err)
		}
		return count, nil
	}
	count, err := queries.CountPublicVideosByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("count public videos by owner: %w", err)
	}
	return count, nil
}

func (r *FeedVideoProjectionRepository) withSession(sess txmanager.Session) *feeddb.Queries {
	if sess != nil {
		return r.queries.WithTx(sess.Tx())
	}
	return r.queries
}

func projectionsFromRows(rows []feeddb.FeedVideosProjection) []*po.FeedVideoProjection {
	result := make([]*po.FeedVideoProjection, 0, len(rows))
	for _, row := range rows {
		result = append(result, mappers.FeedVideoProjectionFromRow(row))
	}
	return result
}
