// Package socialinbox 消费 social 服务的关注与拉黑事件，维护关注图投影。
package socialinbox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// 事件类型常量，与 social 服务发布的 event_type 一致。
const (
	EventTypeFollowCreated = "social.follow.created"
	EventTypeFollowDeleted = "social.follow.deleted"
	EventTypeBlockCreated  = "social.block.created"
	EventTypeBlockDeleted  = "social.block.deleted"
)

// Event 描述关注图的边变更。
type Event struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// decoder 实现 inbox.Decoder 接口。
type decoder struct{}

func newDecoder() *decoder {
	return &decoder{}
}

// Decode 解析事件载荷。
func (d *decoder) Decode(data []byte) (*Event, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("social inbox: empty payload")
	}
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("social inbox: unmarshal event: %w", err)
	}
	evt.EventType = strings.ToLower(strings.TrimSpace(evt.EventType))
	evt.FollowerID = strings.TrimSpace(evt.FollowerID)
	evt.FollowedID = strings.TrimSpace(evt.FollowedID)
	if !evt.OccurredAt.IsZero() {
		evt.OccurredAt = evt.OccurredAt.UTC()
	}
	return &evt, nil
}
