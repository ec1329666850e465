package cataloginbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/models/vo"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories"
	"github.com/bionicotaku/lingo-services-feed/internal/services"
	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

type eventHandler struct {
	projections *repositories.FeedVideoProjectionRepository
	scoring     *services.ScoringEngine
	invalidator *services.InvalidationService
	pregen      services.PregenerationServiceInterface
	log         *log.Helper
	metrics     *inboxMetrics
	clock       func() time.Time
}

func newEventHandler(
	repo *repositories.FeedVideoProjectionRepository,
	scoring *services.ScoringEngine,
	invalidator *services.InvalidationService,
	pregen services.PregenerationServiceInterface,
	logger log.Logger,
	metrics *inboxMetrics,
) *eventHandler {
	return &eventHandler{
		projections: repo,
		scoring:     scoring,
		invalidator: invalidator,
		pregen:      pregen,
		log:         log.NewHelper(logger),
		metrics:     metrics,
		clock:       time.Now,
	}
}

func (h *eventHandler) Handle(ctx context.Context, sess txmanager.Session, evt *Event, inboxEvt *store.InboxEvent) error {
	if evt == nil {
		return fmt.Errorf("catalog inbox: nil event")
	}

	aggregateID := evt.AggregateID
	if aggregateID == "" && inboxEvt != nil && inboxEvt.AggregateID != nil {
		aggregateID = *inboxEvt.AggregateID
	}
	videoID, err := uuid.Parse(aggregateID)
	if err != nil {
		return fmt.Errorf("catalog inbox: parse aggregate_id: %w", err)
	}

	occurredAt := evt.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = h.clock().UTC()
	}

	var handleErr error
	switch evt.EventType {
	case EventTypeVideoCreated, EventTypeVideoUpdated:
		handleErr = h.handleUpsert(ctx, sess, evt, videoID, occurredAt)
	case EventTypeVideoDeleted:
		handleErr = h.handleDeleted(ctx, sess, evt, videoID)
	default:
		h.log.WithContext(ctx).Debugw("msg", "catalog inbox: skip unsupported event", "event_type", evt.EventType, "event_id", evt.EventID)
		return nil
	}

	if handleErr != nil {
		if h.metrics != nil {
			h.metrics.recordFailure(ctx, evt.EventType, handleErr)
		}
		return handleErr
	}

	if h.metrics != nil {
		h.metrics.recordSuccess(ctx, evt.EventType, occurredAt, h.clock())
	}
	return nil
}

func (h *eventHandler) handleUpsert(ctx context.Context, sess txmanager.Session, evt *Event, videoID uuid.UUID, occurredAt time.Time) error {
	snap := evt.Video
	if snap == nil {
		return errors.New("catalog inbox: video snapshot missing")
	}
	ownerID, err := uuid.Parse(snap.OwnerID)
	if err != nil {
		return fmt.Errorf("catalog inbox: parse owner_id: %w", err)
	}

	current, err := h.loadCurrent(ctx, sess, videoID)
	if err != nil {
		return err
	}

	counters := services.EngagementCounters{
		Likes:    snap.LikesCount,
		Comments: snap.CommentsCount,
		Views:    snap.ViewsCount,
		Plays:    snap.PlaysCount,
		Shares:   snap.SharesCount,
	}
	engagement, trending := h.scoring.Score(counters, snap.CreatedAt, h.clock().UTC())

	input := repositories.UpsertVideoProjectionInput{
		VideoID:         videoID,
		OwnerID:         ownerID,
		Title:           snap.Title,
		ThumbnailURL:    snap.ThumbnailURL,
		DurationMicros:  snap.DurationMicros,
		Status:          po.VideoStatus(snap.Status),
		Visibility:      snap.Visibility,
		LikesCount:      snap.LikesCount,
		CommentsCount:   snap.CommentsCount,
		ViewsCount:      snap.ViewsCount,
		PlaysCount:      snap.PlaysCount,
		SharesCount:     snap.SharesCount,
		EngagementScore: engagement,
		TrendingScore:   trending,
		Categories:      snap.Categories,
		Tags:            snap.Tags,
		IsFeatured:      snap.IsFeatured,
		CreatedAt:       snap.CreatedAt,
		PublishedAt:     snap.PublishedAt,
		UpdatedAt:       &occurredAt,
		Version:         evt.Version,
	}
	if err := h.projections.Upsert(ctx, sess, input); err != nil {
		return fmt.Errorf("catalog inbox: upsert projection: %w", err)
	}

	kind := services.VideoChangeUpdated
	if evt.EventType == EventTypeVideoCreated || current == nil {
		kind = services.VideoChangeCreated
	}
	change := services.VideoChangeInput{
		Kind:          kind,
		VideoID:       videoID,
		OwnerID:       ownerID,
		ChangedFields: evt.ChangedFields,
		Categories:    unionStrings(currentCategories(current), snap.Categories),
		Tags:          unionStrings(currentTags(current), snap.Tags),
	}
	return h.finishChange(ctx, sess, change)
}

func (h *eventHandler) handleDeleted(ctx context.Context, sess txmanager.Session, evt *Event, videoID uuid.UUID) error {
	current, err := h.loadCurrent(ctx, sess, videoID)
	if err != nil {
		return err
	}

	ownerID := uuid.Nil
	if evt.Video != nil {
		if parsed, parseErr := uuid.Parse(evt.Video.OwnerID); parseErr == nil {
			ownerID = parsed
		}
	}
	if ownerID == uuid.Nil && current != nil {
		ownerID = current.OwnerID
	}
	if ownerID == uuid.Nil {
		h.log.WithContext(ctx).Debugw("msg", "catalog inbox: delete without known owner, skip fanout", "video_id", videoID, "event_id", evt.EventID)
		return h.projections.Delete(ctx, sess, videoID)
	}

	if err := h.projections.Delete(ctx, sess, videoID); err != nil {
		return fmt.Errorf("catalog inbox: delete projection: %w", err)
	}

	var snapCategories, snapTags []string
	if evt.Video != nil {
		snapCategories = evt.Video.Categories
		snapTags = evt.Video.Tags
	}
	change := services.VideoChangeInput{
		Kind:       services.VideoChangeDeleted,
		VideoID:    videoID,
		OwnerID:    ownerID,
		Categories: unionStrings(currentCategories(current), snapCategories),
		Tags:       unionStrings(currentTags(current), snapTags),
	}
	return h.finishChange(ctx, sess, change)
}

// finishChange 在投影写入后执行选择性失效，并把热点页面的预生成任务
// 与本事务一起落入 Outbox。缓存清理失败只降级告警，不阻断事件确认。
func (h *eventHandler) finishChange(ctx context.Context, sess txmanager.Session, change services.VideoChangeInput) error {
	report, err := h.invalidator.OnVideoChanged(ctx, change)
	if err != nil {
		h.log.WithContext(ctx).Warnw("msg", "catalog inbox: cache invalidation degraded", "video_id", change.VideoID, "error", err)
	}
	followers := followersFromReport(report, change.OwnerID)
	tasks := h.invalidator.RebuildTargets(change, followers)
	if err := h.pregen.ScheduleRebuilds(ctx, sess, tasks, string(change.Kind)); err != nil {
		return fmt.Errorf("catalog inbox: schedule rebuilds: %w", err)
	}
	return nil
}

func (h *eventHandler) loadCurrent(ctx context.Context, sess txmanager.Session, videoID uuid.UUID) (*po.FeedVideoProjection, error) {
	current, err := h.projections.Get(ctx, sess, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog inbox: load projection: %w", err)
	}
	return current, nil
}

func followersFromReport(report *vo.InvalidationReport, ownerID uuid.UUID) []uuid.UUID {
	if report == nil {
		return nil
	}
	followers := make([]uuid.UUID, 0, len(report.AffectedViewerIDs))
	for _, viewer := range report.AffectedViewerIDs {
		if viewer != ownerID {
			followers = append(followers, viewer)
		}
	}
	return followers
}

func currentCategories(current *po.FeedVideoProjection) []string {
	if current == nil {
		return nil
	}
	return current.Categories
}

func currentTags(current *po.FeedVideoProjection) []string {
	if current == nil {
		return nil
	}
	return current.Tags
}

// unionStrings 合并去重，保持首次出现的顺序。
func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, group := range [][]string{a, b} {
		for _, v := range group {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
