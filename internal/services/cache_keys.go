package services

import (
	"fmt"

	"github.com/google/uuid"
)

// FeedType 枚举支持的 Feed 类型。
type FeedType string

// Feed 类型常量定义
const (
	FeedTypePersonalized FeedType = "personalized"  // 个性化推荐流
	FeedTypeFollowing    FeedType = "following"     // 关注流
	FeedTypeCategory     FeedType = "category"      // 分类流
	FeedTypeOwnProfile   FeedType = "own_profile"   // 自己的主页列表
	FeedTypeOtherProfile FeedType = "other_profile" // 他人主页列表
)

// ParseFeedType 校验并归一化 Feed 类型，未知类型返回 false。
func ParseFeedType(raw string) (FeedType, bool) {
	switch FeedType(raw) {
	case FeedTypePersonalized, FeedTypeFollowing, FeedTypeCategory, FeedTypeOwnProfile, FeedTypeOtherProfile:
		return FeedType(raw), true
	default:
		return "", false
	}
}

// guestViewerKey 是匿名访客在缓存键与抖动哈希中的统一标识。
const guestViewerKey = "guest"

// viewerKey 返回 viewer 在缓存键中的标识段。
func viewerKey(viewerID *uuid.UUID) string {
	if viewerID == nil {
		return guestViewerKey
	}
	return viewerID.String()
}

// FeedCacheKey 生成某次 Feed 请求的缓存键。
// 布局：feed:{type}:{viewer|guest}[:c{category}][:o{owner}]:p{page}:s{size}，
// 类型与维度全部入键，跨类型、跨 viewer 不会碰撞。
func FeedCacheKey(feedType FeedType, viewerID *uuid.UUID, category string, ownerID *uuid.UUID, page, pageSize int32) string {
	key := fmt.Sprintf("feed:%s:%s", feedType, viewerKey(viewerID))
	if feedType == FeedTypeCategory && category != "" {
		key += ":c" + category
	}
	if feedType == FeedTypeOtherProfile && ownerID != nil {
		key += ":o" + ownerID.String()
	}
	return fmt.Sprintf("%s:p%d:s%d", key, page, pageSize)
}

// VideoCacheKey 生成单个视频条目的缓存键。
func VideoCacheKey(videoID uuid.UUID) string {
	return "video:" + videoID.String()
}

// TagCacheKey 生成按标签聚合的辅助缓存键。
func TagCacheKey(tag string) string {
	return "tags:" + tag
}

// RebuildLockKey 生成某个缓存键的重建去重锁键。
func RebuildLockKey(cacheKey string) string {
	return "lock:" + cacheKey
}

// ViewerFeedPattern 匹配某 viewer 在某 Feed 类型下的全部分页。
func ViewerFeedPattern(feedType FeedType, viewerID uuid.UUID) string {
	return fmt.Sprintf("feed:%s:%s:*", feedType, viewerID)
}

// AllViewersFeedPattern 匹配某 Feed 类型下所有 viewer 的缓存键。
func AllViewersFeedPattern(feedType FeedType) string {
	return fmt.Sprintf("feed:%s:*", feedType)
}

// CategoryFeedPattern 匹配所有 viewer 在某分类下的缓存键。
func CategoryFeedPattern(category string) string {
	return fmt.Sprintf("feed:%s:*:c%s:*", FeedTypeCategory, category)
}

// OwnerProfilePattern 匹配所有 viewer 对某作者主页的缓存键。
func OwnerProfilePattern(ownerID uuid.UUID) string {
	return fmt.Sprintf("feed:%s:*:o%s:*", FeedTypeOtherProfile, ownerID)
}
