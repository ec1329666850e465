// Package cataloginbox 消费 catalog 服务的视频事件，维护 Feed 投影并触发缓存失效。
package cataloginbox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// 事件类型常量，与 catalog 服务发布的 event_type 一致。
const (
	EventTypeVideoCreated = "catalog.video.created"
	EventTypeVideoUpdated = "catalog.video.updated"
	EventTypeVideoDeleted = "catalog.video.deleted"
)

// VideoSnapshot 是事件携带的视频全量快照。
// created/updated 事件必带；deleted 事件可省略。
type VideoSnapshot struct {
	OwnerID        string     `json:"owner_id"`
	Title          string     `json:"title"`
	ThumbnailURL   *string    `json:"thumbnail_url,omitempty"`
	DurationMicros *int64     `json:"duration_micros,omitempty"`
	Status         string     `json:"status"`
	Visibility     string     `json:"visibility"`
	LikesCount     int64      `json:"likes_count"`
	CommentsCount  int64      `json:"comments_count"`
	ViewsCount     int64      `json:"views_count"`
	PlaysCount     int64      `json:"plays_count"`
	SharesCount    int64      `json:"shares_count"`
	Categories     []string   `json:"categories,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	IsFeatured     bool       `json:"is_featured"`
	CreatedAt      time.Time  `json:"created_at"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
}

// Event 描述 catalog 发布的视频变更事件。
// ChangedFields 标记本次更新实际变动的字段，失效层据此收敛清理范围。
type Event struct {
	EventID       string         `json:"event_id"`
	EventType     string         `json:"event_type"`
	AggregateID   string         `json:"aggregate_id"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Version       int64          `json:"version"`
	ChangedFields []string       `json:"changed_fields,omitempty"`
	Video         *VideoSnapshot `json:"video,omitempty"`
}

// decoder 实现 inbox.Decoder 接口，将 Pub/Sub payload 解析为 catalog 事件。
type decoder struct{}

// newDecoder 构造事件解码器。
func newDecoder() *decoder {
	return &decoder{}
}

// Decode 解析事件载荷。
func (d *decoder) Decode(data []byte) (*Event, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("catalog inbox: empty payload")
	}
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("catalog inbox: unmarshal event: %w", err)
	}
	normalizeEvent(&evt)
	return &evt, nil
}

// normalizeEvent 补足缺省值，时间统一为 UTC。
func normalizeEvent(evt *Event) {
	evt.EventType = strings.ToLower(strings.TrimSpace(evt.EventType))
	evt.AggregateID = strings.TrimSpace(evt.AggregateID)
	if !evt.OccurredAt.IsZero() {
		evt.OccurredAt = evt.OccurredAt.UTC()
	}
	if evt.Video != nil {
		evt.Video.OwnerID = strings.TrimSpace(evt.Video.OwnerID)
		evt.Video.Status = strings.ToLower(strings.TrimSpace(evt.Video.Status))
		evt.Video.Visibility = strings.ToLower(strings.TrimSpace(evt.Video.Visibility))
	}
}
