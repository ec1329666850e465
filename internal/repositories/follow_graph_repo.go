package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories/mappers"
	feeddb "github.com/bionicotaku/lingo-services-feed/internal/repositories/feeddb"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowGraphRepository 维护 feed.follow_edges 投影。
type FollowGraphRepository struct {
	db      *pgxpool.Pool
	queries *feeddb.Queries
	log     *log.Helper
}

// NewFollowGraphRepository 构造仓储实例。
func NewFollowGraphRepository(db *pgxpool.Pool, logger log.Logger) *FollowGraphRepository {
	return &FollowGraphRepository{
		db:      db,
		queries: feeddb.New(db),
		log:     log.NewHelper(logger),
	}
}

// UpsertFollowEdgeInput 描述关注边写入参数。
// occurred_at 早于现存记录的写入会被静默丢弃（乱序保护）。
type UpsertFollowEdgeInput struct {
	FollowerID uuid.UUID
	FollowedID uuid.UUID
	State      po.FollowState
	OccurredAt time.Time
}

// Upsert 写入关注边。
func (r *FollowGraphRepository) Upsert(ctx context.Context, sess txmanager.Session, input UpsertFollowEdgeInput) error {
	params := feeddb.UpsertFollowEdgeParams{
		FollowerID: input.FollowerID,
		FollowedID: input.FollowedID,
		State:      string(input.State),
		OccurredAt: mappers.ToPgTimestamptz(input.OccurredAt),
	}
	if err := r.withSession(sess).UpsertFollowEdge(ctx, params); err != nil {
		r.log.WithContext(ctx).Errorf("upsert follow edge failed: follower=%s followed=%s err=%v", input.FollowerID, input.FollowedID, err)
		return fmt.Errorf("upsert follow edge: %w", err)
	}
	return nil
}

// Delete 删除关注边（取消关注/解除拉黑）。
func (r *FollowGraphRepository) Delete(ctx context.Context, sess txmanager.Session, followerID, followedID uuid.UUID, occurredAt time.Time) error {
	params := feeddb.DeleteFollowEdgeParams{
		FollowerID: followerID,
		FollowedID: followedID,
		OccurredAt: mappers.ToPgTimestamptz(occurredAt),
	}
	if err := r.withSession(sess).DeleteFollowEdge(ctx, params); err != nil {
		return fmt.Errorf("delete follow edge: %w", err)
	}
	return nil
}

// Following 返回 viewer 正在关注的作者集合。
func (r *FollowGraphRepository) Following(ctx context.Context, sess txmanager.Session, followerID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.withSession(sess).ListFollowingIDs(ctx, followerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return ids, nil
}

// Blocked 返回 viewer 已拉黑的作者集合。
func (r *FollowGraphRepository) Blocked(ctx context.Context, sess txmanager.Session, followerID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.withSession(sess).ListBlockedIDs(ctx, followerID)
	if err != nil {
		return nil, fmt.Errorf("list blocked: %w", err)
	}
	return ids, nil
}

// FollowersAfter 按 follower_id 升序返回 after 之后的一批粉丝，供调用方
// 以键集游标遍历全量粉丝。after 传 uuid.Nil 表示从头开始。
func (r *FollowGraphRepository) FollowersAfter(ctx context.Context, sess txmanager.Session, followedID, after uuid.UUID, limit int32) ([]uuid.UUID, error) {
	ids, err := r.withSession(sess).ListFollowerIDsAfter(ctx, feeddb.ListFollowerIDsAfterParams{
		FollowedID: followedID,
		FollowerID: after,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list followers after %s: %w", after, err)
	}
	return ids, nil
}

func (r *FollowGraphRepository) withSession(sess txmanager.Session) *feeddb.Queries {
	if sess != nil {
		return r.queries.WithTx(sess.Tx())
	}
	return r.queries
}
