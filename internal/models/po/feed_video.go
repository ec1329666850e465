// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射数据库表结构，不直接暴露给上层业务逻辑。
package po

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus 表示视频的生命周期状态。
// 对应数据库枚举类型 feed.video_status。
type VideoStatus string

// 视频状态常量定义
const (
	VideoStatusProcessing VideoStatus = "processing" // 转码/分析仍在进行
	VideoStatusReady      VideoStatus = "ready"      // 可对外分发
	VideoStatusFailed     VideoStatus = "failed"     // 处理失败或被下架
)

// Visibility 状态取值。
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityPrivate  = "private"
)

// FeedVideoProjection 表示 feed.videos_projection 表的数据库实体。
// 由 Catalog Inbox 消费 catalog.video.* 事件维护，是排序与组装的唯一数据来源。
type FeedVideoProjection struct {
	VideoID         uuid.UUID   // 主键
	OwnerID         uuid.UUID   // 上传者
	Title           string      // 标题
	ThumbnailURL    *string     // 主缩略图 URL
	DurationMicros  *int64      // 视频时长（微秒）
	Status          VideoStatus // 生命周期状态
	Visibility      string      // 可见性状态（public/unlisted/private）
	LikesCount      int64       // 点赞数（非负）
	CommentsCount   int64       // 评论数（非负）
	ViewsCount      int64       // 浏览数（非负）
	PlaysCount      int64       // 播放数（非负）
	SharesCount     int64       // 分享数（非负）
	EngagementScore float64     // 加权互动得分（写入时重算）
	TrendingScore   float64     // 时间衰减后的热度得分（写入时重算）
	Categories      []string    // 所属分类
	Tags            []string    // 内容标签
	IsFeatured      bool        // 是否置顶推荐
	CreatedAt       time.Time   // 创建时间（不可变，衰减基准）
	PublishedAt     *time.Time  // 发布时间（UTC）
	UpdatedAt       time.Time   // 最近更新时间
	Version         int64       // 事件版本号，用于乱序丢弃
}

// FollowState 表示关注关系状态。
// 对应数据库枚举类型 feed.follow_state。
type FollowState string

// 关注状态常量定义
const (
	FollowStateFollowing FollowState = "following" // 正在关注
	FollowStateBlocked   FollowState = "blocked"   // 已拉黑
)
