package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 观看历史约束：每个 viewer 至多保留 500 条，整表 24 小时过期。
const (
	seenListCap = 500
	seenListTTL = 24 * time.Hour
)

// SeenItemsRepository 基于 Redis List 维护 per-viewer 的已曝光视频历史。
// 列表左端为最新曝光，LTRIM 淘汰最旧条目。
type SeenItemsRepository struct {
	client *redis.Client
	log    *log.Helper
}

// NewSeenItemsRepository 构造仓储实例。
func NewSeenItemsRepository(client *redis.Client, logger log.Logger) *SeenItemsRepository {
	return &SeenItemsRepository{
		client: client,
		log:    log.NewHelper(logger),
	}
}

func seenListKey(viewerID uuid.UUID) string {
	return "feed:seen:" + viewerID.String()
}

// Add 记录一批已曝光视频。写入、截断与续期在同一个 pipeline 中完成。
func (r *SeenItemsRepository) Add(ctx context.Context, viewerID uuid.UUID, videoIDs []uuid.UUID) error {
	if r.client == nil || len(videoIDs) == 0 {
		return nil
	}
	key := seenListKey(viewerID)
	values := make([]interface{}, 0, len(videoIDs))
	for _, id := range videoIDs {
		values = append(values, id.String())
	}
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, values...)
	pipe.LTrim(ctx, key, 0, seenListCap-1)
	pipe.Expire(ctx, key, seenListTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append seen items: %w", err)
	}
	return nil
}

// List 返回 viewer 的已曝光视频集合（新到旧）。
// 列表不存在视为空历史；无法解析的条目跳过并告警。
func (r *SeenItemsRepository) List(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	if r.client == nil {
		return nil, nil
	}
	raw, err := r.client.LRange(ctx, seenListKey(viewerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load seen items: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, parseErr := uuid.Parse(value)
		if parseErr != nil {
			r.log.WithContext(ctx).Warnf("skip malformed seen item: viewer=%s value=%q", viewerID, value)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
