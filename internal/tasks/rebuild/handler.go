package rebuild

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/services"
	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

type eventHandler struct {
	pregen  services.PregenerationServiceInterface
	log     *log.Helper
	metrics *taskMetrics
	clock   func() time.Time
}

func newEventHandler(pregen services.PregenerationServiceInterface, logger log.Logger, metrics *taskMetrics) *eventHandler {
	return &eventHandler{
		pregen:  pregen,
		log:     log.NewHelper(logger),
		metrics: metrics,
		clock:   time.Now,
	}
}

// Handle 执行单个预生成任务。页面重建读主库、写缓存，
// 不依赖事务会话；Inbox 事务只承担去重记账。
func (h *eventHandler) Handle(ctx context.Context, _ txmanager.Session, evt *services.RebuildEvent, _ *store.InboxEvent) error {
	if evt == nil {
		return fmt.Errorf("rebuild: nil event")
	}

	started := h.clock()
	if err := h.pregen.Rebuild(ctx, evt.Task); err != nil {
		if h.metrics != nil {
			h.metrics.recordFailure(ctx, string(evt.Task.FeedType), err)
		}
		return fmt.Errorf("rebuild: feed_type=%s: %w", evt.Task.FeedType, err)
	}

	if h.metrics != nil {
		h.metrics.recordSuccess(ctx, string(evt.Task.FeedType), evt.OccurredAt, h.clock())
	}
	h.log.WithContext(ctx).Debugf("rebuild done: feed_type=%s reason=%s elapsed=%s",
		evt.Task.FeedType, evt.Reason, h.clock().Sub(started))
	return nil
}
