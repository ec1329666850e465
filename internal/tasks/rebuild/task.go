package rebuild

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/repositories"
	"github.com/bionicotaku/lingo-services-feed/internal/services"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/outbox/inbox"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// Task 封装预生成任务消费逻辑。
type Task struct {
	runner *inbox.Runner[services.RebuildEvent]
}

// NewTask 构造 Inbox Runner。
func NewTask(
	subscriber gcpubsub.Subscriber,
	inboxRepo *repositories.InboxRepository,
	pregen services.PregenerationServiceInterface,
	tx txmanager.Manager,
	logger log.Logger,
	cfg outboxcfg.InboxConfig,
) *Task {
	if subscriber == nil || inboxRepo == nil || pregen == nil || tx == nil {
		return nil
	}

	metrics := newTaskMetrics()
	handler := newEventHandler(pregen, logger, metrics)
	dec := newDecoder()

	runner, err := inbox.NewRunner[services.RebuildEvent](inbox.RunnerParams[services.RebuildEvent]{
		Store:      inboxRepo.Shared(),
		Subscriber: subscriber,
		TxManager:  tx,
		Decoder:    dec,
		Handler:    handler,
		Config:     cfg.Normalize(),
		Logger:     logger,
	})
	if err != nil {
		log.NewHelper(logger).Errorw("msg", "rebuild: init runner failed", "error", err)
		return nil
	}

	task := &Task{runner: runner}
	task.runner.WithClock(time.Now)
	return task
}

// Run 启动消费循环。
func (t *Task) Run(ctx context.Context) error {
	if t == nil || t.runner == nil {
		return nil
	}
	return t.runner.Run(ctx)
}

// WithClock 提供测试替换时间。
func (t *Task) WithClock(fn func() time.Time) {
	if t == nil || t.runner == nil || fn == nil {
		return
	}
	t.runner.WithClock(fn)
}
