package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// RebuildEventType 是预生成任务在 Outbox 中的事件类型。
const RebuildEventType = "feed.rebuild.requested"

// rebuildAggregateType 是预生成事件挂载的聚合类型。
const rebuildAggregateType = "feed"

// rebuildSchemaVersion 标记预生成事件载荷的版本。
const rebuildSchemaVersion = "v1"

// RebuildTask 描述一个待预生成的缓存页面。
type RebuildTask struct {
	FeedType FeedType   `json:"feed_type"`
	ViewerID *uuid.UUID `json:"viewer_id,omitempty"`
	Category string     `json:"category,omitempty"`
	OwnerID  *uuid.UUID `json:"owner_id,omitempty"`
	Page     int32      `json:"page"`
	PageSize int32      `json:"page_size"`
}

// RebuildEvent 是预生成任务在 Outbox 与 Pub/Sub 上的 JSON 载荷。
type RebuildEvent struct {
	Task       RebuildTask `json:"task"`
	Reason     string      `json:"reason,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// PageRebuilder 抽象页面重建入口，由 Feed 组装服务实现。
type PageRebuilder interface {
	RebuildPage(ctx context.Context, input GetFeedInput) error
}

var _ PageRebuilder = (*FeedService)(nil)

// PregenerationService 负责热点缓存键的异步预生成：
// 调度侧在投影写入事务内把任务写进 Outbox 并错峰 AvailableAt，
// 执行侧消费任务后直接重建页面写回缓存，避免失效后的首个请求吃冷启动。
type PregenerationService struct {
	outbox    OutboxEnqueuer
	rebuilder PageRebuilder
	opts      FeedOptions
	metrics   *outboxMetrics
	log       *log.Helper
}

// NewPregenerationService 构造预生成服务。
func NewPregenerationService(
	outbox OutboxEnqueuer,
	rebuilder PageRebuilder,
	opts FeedOptions,
	logger log.Logger,
) *PregenerationService {
	return &PregenerationService{
		outbox:    outbox,
		rebuilder: rebuilder,
		opts:      opts,
		metrics:   newOutboxMetrics("pregeneration_service"),
		log:       log.NewHelper(logger),
	}
}

// ScheduleRebuilds 把预生成任务写入 Outbox，AvailableAt 在配置区间内随机错峰，
// 避免大量粉丝的关注流在同一时刻集中重建。与投影写入共用同一事务。
func (s *PregenerationService) ScheduleRebuilds(ctx context.Context, sess txmanager.Session, tasks []RebuildTask, reason string) error {
	if s.outbox == nil || len(tasks) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, task := range tasks {
		payload, err := json.Marshal(RebuildEvent{
			Task:       task,
			Reason:     reason,
			OccurredAt: now,
		})
		if err != nil {
			s.metrics.recordFailure(ctx, RebuildEventType, err)
			return fmt.Errorf("marshal rebuild task: %w", err)
		}
		msg := repositories.OutboxMessage{
			EventID:       uuid.New(),
			AggregateType: rebuildAggregateType,
			AggregateID:   rebuildAggregateID(task),
			EventType:     RebuildEventType,
			Payload:       payload,
			Headers: map[string]string{
				"schema_version": rebuildSchemaVersion,
			},
			AvailableAt: now.Add(s.staggerDelay()),
		}
		if err := s.outbox.Enqueue(ctx, sess, msg); err != nil {
			s.metrics.recordFailure(ctx, RebuildEventType, err)
			return fmt.Errorf("enqueue rebuild task: %w", err)
		}
		s.metrics.recordSuccess(ctx, RebuildEventType, now)
	}
	s.log.WithContext(ctx).Debugf("scheduled %d rebuild tasks: reason=%s", len(tasks), reason)
	return nil
}

// Rebuild 执行单个预生成任务，重建页面并写回两级缓存。
func (s *PregenerationService) Rebuild(ctx context.Context, task RebuildTask) error {
	if _, ok := ParseFeedType(string(task.FeedType)); !ok {
		s.log.WithContext(ctx).Warnf("skip rebuild task with unknown feed type: %q", task.FeedType)
		return nil
	}
	return s.rebuilder.RebuildPage(ctx, GetFeedInput{
		FeedType:       string(task.FeedType),
		ViewerID:       task.ViewerID,
		Category:       task.Category,
		ProfileOwnerID: task.OwnerID,
		Page:           task.Page,
		PageSize:       task.PageSize,
	})
}

// staggerDelay 在 [RebuildStaggerMin, RebuildStaggerMax] 内均匀采样延迟。
func (s *PregenerationService) staggerDelay() time.Duration {
	minDelay := s.opts.RebuildStaggerMin
	maxDelay := s.opts.RebuildStaggerMax
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay <= minDelay {
		return minDelay
	}
	return minDelay + time.Duration(rand.Int64N(int64(maxDelay-minDelay)))
}

// rebuildAggregateID 选取事件聚合 ID：优先 viewer，其次主页作者。
func rebuildAggregateID(task RebuildTask) uuid.UUID {
	if task.ViewerID != nil {
		return *task.ViewerID
	}
	if task.OwnerID != nil {
		return *task.OwnerID
	}
	return uuid.Nil
}
