package socialinbox

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories"
	"github.com/bionicotaku/lingo-services-feed/internal/services"
	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

type eventHandler struct {
	follows *repositories.FollowGraphRepository
	cache   services.FeedCache
	pregen  services.PregenerationServiceInterface
	log     *log.Helper
	metrics *inboxMetrics
	clock   func() time.Time
}

func newEventHandler(
	follows *repositories.FollowGraphRepository,
	cache services.FeedCache,
	pregen services.PregenerationServiceInterface,
	logger log.Logger,
	metrics *inboxMetrics,
) *eventHandler {
	return &eventHandler{
		follows: follows,
		cache:   cache,
		pregen:  pregen,
		log:     log.NewHelper(logger),
		metrics: metrics,
		clock:   time.Now,
	}
}

// Handle 把关注/拉黑事件落到关注图投影，随后让 follower 的相关
// Feed 缓存立即失效：关注流成员变了，TTL 等不起。
func (h *eventHandler) Handle(ctx context.Context, sess txmanager.Session, evt *Event, _ *store.InboxEvent) error {
	if evt == nil {
		return fmt.Errorf("social inbox: nil event")
	}

	followerID, err := uuid.Parse(evt.FollowerID)
	if err != nil {
		return fmt.Errorf("social inbox: parse follower_id: %w", err)
	}
	followedID, err := uuid.Parse(evt.FollowedID)
	if err != nil {
		return fmt.Errorf("social inbox: parse followed_id: %w", err)
	}

	occurredAt := evt.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = h.clock().UTC()
	}

	var handleErr error
	switch evt.EventType {
	case EventTypeFollowCreated:
		handleErr = h.upsertEdge(ctx, sess, followerID, followedID, po.FollowStateFollowing, occurredAt)
	case EventTypeBlockCreated:
		handleErr = h.upsertEdge(ctx, sess, followerID, followedID, po.FollowStateBlocked, occurredAt)
	case EventTypeFollowDeleted, EventTypeBlockDeleted:
		handleErr = h.follows.Delete(ctx, sess, followerID, followedID, occurredAt)
	default:
		h.log.WithContext(ctx).Debugw("msg", "social inbox: skip unsupported event", "event_type", evt.EventType, "event_id", evt.EventID)
		return nil
	}

	if handleErr != nil {
		if h.metrics != nil {
			h.metrics.recordFailure(ctx, evt.EventType, handleErr)
		}
		return fmt.Errorf("social inbox: apply edge: %w", handleErr)
	}

	h.invalidateViewer(ctx, evt.EventType, followerID)
	if err := h.scheduleRebuild(ctx, sess, evt.EventType, followerID); err != nil {
		return err
	}

	if h.metrics != nil {
		h.metrics.recordSuccess(ctx, evt.EventType, occurredAt, h.clock())
	}
	return nil
}

func (h *eventHandler) upsertEdge(ctx context.Context, sess txmanager.Session, followerID, followedID uuid.UUID, state po.FollowState, occurredAt time.Time) error {
	return h.follows.Upsert(ctx, sess, repositories.UpsertFollowEdgeInput{
		FollowerID: followerID,
		FollowedID: followedID,
		State:      state,
		OccurredAt: occurredAt,
	})
}

// invalidateViewer 清掉 follower 自己的关注流缓存；
// 拉黑还会改变屏蔽集合，个性化流一并清理。
func (h *eventHandler) invalidateViewer(ctx context.Context, eventType string, followerID uuid.UUID) {
	cleared := h.cache.InvalidatePattern(ctx, services.ViewerFeedPattern(services.FeedTypeFollowing, followerID))
	if eventType == EventTypeBlockCreated || eventType == EventTypeBlockDeleted {
		cleared += h.cache.InvalidatePattern(ctx, services.ViewerFeedPattern(services.FeedTypePersonalized, followerID))
	}
	h.log.WithContext(ctx).Debugf("social inbox: invalidated viewer caches: follower=%s cleared=%d", followerID, cleared)
}

func (h *eventHandler) scheduleRebuild(ctx context.Context, sess txmanager.Session, eventType string, followerID uuid.UUID) error {
	viewer := followerID
	tasks := []services.RebuildTask{{
		FeedType: services.FeedTypeFollowing,
		ViewerID: &viewer,
		Page:     1,
		PageSize: 20,
	}}
	if err := h.pregen.ScheduleRebuilds(ctx, sess, tasks, eventType); err != nil {
		return fmt.Errorf("social inbox: schedule rebuilds: %w", err)
	}
	return nil
}
