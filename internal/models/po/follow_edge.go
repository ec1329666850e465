package po

import (
	"time"

	"github.com/google/uuid"
)

// FollowEdge 表示 feed.follow_edges 表的数据库实体。
// 由 Social Inbox 消费 social.relationship.* 事件维护，用于 following Feed
// 的候选过滤与失效时的粉丝扇出。
type FollowEdge struct {
	FollowerID uuid.UUID   // 关注者
	FollowedID uuid.UUID   // 被关注者
	State      FollowState // following / blocked
	OccurredAt time.Time   // 事件发生时间，用于乱序丢弃
	UpdatedAt  time.Time   // 最近更新时间
}
