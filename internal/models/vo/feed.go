// Package vo 定义向上层返回的 Feed 视图对象。
// 组装结果会以 JSON 形式写入缓存，因此字段带有序列化标签。
package vo

import (
	"time"

	"github.com/google/uuid"
)

// PageStatus 标识一次 Feed 请求的组装结果状态。
type PageStatus string

// 页面状态常量定义
const (
	PageStatusOK              PageStatus = "ok"                // 正常组装
	PageStatusUnknownFeedType PageStatus = "unknown_feed_type" // 无法识别的 Feed 类型
)

// FeedItem 表示排序后的单张推荐卡片。
type FeedItem struct {
	VideoID         uuid.UUID  `json:"video_id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	Title           string     `json:"title"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	DurationMicros  int64      `json:"duration_micros,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	IsFeatured      bool       `json:"is_featured,omitempty"`
	IsSponsored     bool       `json:"is_sponsored,omitempty"`
	EngagementScore float64    `json:"engagement_score"`
	TrendingScore   float64    `json:"trending_score"`
	CreatedAt       time.Time  `json:"created_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// FeedPage 表示某个（viewer, feedType, page）组合的完整组装结果。
type FeedPage struct {
	Status      PageStatus `json:"status"`
	FeedType    string     `json:"feed_type"`
	Items       []FeedItem `json:"items"`
	Page        int32      `json:"page"`
	PageSize    int32      `json:"page_size"`
	Total       int64      `json:"total"`
	HasMore     bool       `json:"has_more"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// CacheSource 标识一次读取命中的缓存层级。
type CacheSource string

// 缓存层级常量定义
const (
	CacheSourceLocal  CacheSource = "local"  // 进程内缓存命中
	CacheSourceShared CacheSource = "shared" // 共享缓存命中
	CacheSourceBuild  CacheSource = "build"  // 双层未命中，现场组装
	CacheSourceBypass CacheSource = "bypass" // 调用方要求绕过缓存
)

// InvalidationReport 汇总一次选择性失效的影响范围，供观测与调试使用。
type InvalidationReport struct {
	ClearedKeyCount   int         `json:"cleared_key_count"`
	AffectedViewerIDs []uuid.UUID `json:"affected_viewer_ids"`
	AffectedFeedTypes []string    `json:"affected_feed_types"`
}
