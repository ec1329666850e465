package services

import (
	"context"
	"slices"

	"github.com/bionicotaku/lingo-services-feed/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// VideoChangeKind 枚举投影变更类型。
type VideoChangeKind string

// 变更类型常量定义
const (
	VideoChangeCreated VideoChangeKind = "created"
	VideoChangeUpdated VideoChangeKind = "updated"
	VideoChangeDeleted VideoChangeKind = "deleted"
)

// 变更字段名，与 catalog 事件的 changed_fields 取值一致。
const (
	FieldVisibility      = "visibility"
	FieldStatus          = "status"
	FieldCategories      = "categories"
	FieldTags            = "tags"
	FieldIsFeatured      = "is_featured"
	FieldTrendingScore   = "trending_score"
	FieldEngagementScore = "engagement_score"
	FieldLikesCount      = "likes_count"
	FieldCommentsCount   = "comments_count"
	FieldViewsCount      = "views_count"
	FieldPlaysCount      = "plays_count"
	FieldSharesCount     = "shares_count"
)

// 粉丝扇出按主键游标分页读取的批大小，预生成另有更小的上限。
const followerFanoutBatch int32 = 1000

// VideoChangeInput 描述一次内容变更的失效请求。
// Categories/Tags 为变更前后取值的并集，用于定向清理分类与标签缓存。
type VideoChangeInput struct {
	Kind          VideoChangeKind
	VideoID       uuid.UUID
	OwnerID       uuid.UUID
	ChangedFields []string
	Categories    []string
	Tags          []string
}

// InvalidationService 按变更字段选择性清理两级缓存，并驱动热点键的预生成。
// 爆炸半径收敛在作者与其粉丝：其余 viewer 依赖 TTL 自然过期。
type InvalidationService struct {
	cache   FeedCache
	follows FollowGraphRepo
	opts    FeedOptions
	metrics *feedMetrics
	log     *log.Helper
}

// NewInvalidationService 构造失效服务。
func NewInvalidationService(
	cache FeedCache,
	follows FollowGraphRepo,
	opts FeedOptions,
	logger log.Logger,
) *InvalidationService {
	return &InvalidationService{
		cache:   cache,
		follows: follows,
		opts:    opts,
		metrics: newFeedMetrics("invalidation_service"),
		log:     log.NewHelper(logger),
	}
}

// OnVideoChanged 执行选择性失效并返回影响范围报告。
// 缓存层故障降级为部分清理；报告用于观测，不回滚。
func (s *InvalidationService) OnVideoChanged(ctx context.Context, input VideoChangeInput) (*vo.InvalidationReport, error) {
	report := &vo.InvalidationReport{}
	touched := map[FeedType]struct{}{}
	viewers := map[uuid.UUID]struct{}{input.OwnerID: {}}

	// 任何变更都会让单条缓存与作者主页列表过时。
	report.ClearedKeyCount += s.cache.Invalidate(ctx, VideoCacheKey(input.VideoID))
	report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, ViewerFeedPattern(FeedTypeOwnProfile, input.OwnerID))
	report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, OwnerProfilePattern(input.OwnerID))
	touched[FeedTypeOwnProfile] = struct{}{}
	touched[FeedTypeOtherProfile] = struct{}{}

	structural := input.Kind != VideoChangeUpdated || s.hasStructuralChange(input.ChangedFields)
	personalized := s.hasRankingChange(input.ChangedFields) || s.hasPersonalizedChange(input.ChangedFields)

	// 只有结构性变更才触发粉丝扇出；纯计数或排序元数据变化走廉价路径。
	if structural {
		followers := s.loadFollowers(ctx, input.OwnerID)
		for _, follower := range followers {
			viewers[follower] = struct{}{}
		}
		// 作者视角的全部 Feed 类型 + 每个粉丝的关注流。
		report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, ViewerFeedPattern(FeedTypePersonalized, input.OwnerID))
		report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, ViewerFeedPattern(FeedTypeFollowing, input.OwnerID))
		report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, ViewerFeedPattern(FeedTypeCategory, input.OwnerID))
		touched[FeedTypePersonalized] = struct{}{}
		touched[FeedTypeFollowing] = struct{}{}
		for _, follower := range followers {
			report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, ViewerFeedPattern(FeedTypeFollowing, follower))
		}
		if slices.Contains(input.ChangedFields, FieldCategories) || input.Kind != VideoChangeUpdated {
			for _, category := range input.Categories {
				report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, CategoryFeedPattern(category))
			}
			if len(input.Categories) > 0 {
				touched[FeedTypeCategory] = struct{}{}
			}
		}
	} else if personalized {
		// 计数、标签或分数变化：个性化排序受影响，关注流与分类流保持不动。
		report.ClearedKeyCount += s.cache.InvalidatePattern(ctx, ViewerFeedPattern(FeedTypePersonalized, input.OwnerID))
		touched[FeedTypePersonalized] = struct{}{}
	}

	if slices.Contains(input.ChangedFields, FieldTags) {
		for _, tag := range input.Tags {
			report.ClearedKeyCount += s.cache.Invalidate(ctx, TagCacheKey(tag))
		}
	}

	for viewer := range viewers {
		report.AffectedViewerIDs = append(report.AffectedViewerIDs, viewer)
	}
	slices.SortFunc(report.AffectedViewerIDs, func(a, b uuid.UUID) int {
		switch {
		case a.String() < b.String():
			return -1
		case a == b:
			return 0
		default:
			return 1
		}
	})
	for feedType := range touched {
		report.AffectedFeedTypes = append(report.AffectedFeedTypes, string(feedType))
	}
	slices.Sort(report.AffectedFeedTypes)

	s.metrics.recordInvalidation(ctx, string(input.Kind), report.ClearedKeyCount)
	s.log.WithContext(ctx).Infof("cache invalidated: video=%s kind=%s cleared=%d viewers=%d types=%v",
		input.VideoID, input.Kind, report.ClearedKeyCount, len(report.AffectedViewerIDs), report.AffectedFeedTypes)
	return report, nil
}

// RebuildTargets 返回本次变更后值得预生成的热点页面。
// 上限由 PregenFollowerLimit 控制，只回填各自首页。
func (s *InvalidationService) RebuildTargets(input VideoChangeInput, followers []uuid.UUID) []RebuildTask {
	limit := int(s.opts.PregenFollowerLimit)
	if limit <= 0 {
		limit = 20
	}
	owner := input.OwnerID
	tasks := []RebuildTask{{
		FeedType: FeedTypePersonalized,
		ViewerID: &owner,
		Page:     1,
		PageSize: defaultPageSize,
	}}
	for i, follower := range followers {
		if i >= limit {
			break
		}
		viewer := follower
		tasks = append(tasks, RebuildTask{
			FeedType: FeedTypeFollowing,
			ViewerID: &viewer,
			Page:     1,
			PageSize: defaultPageSize,
		})
	}
	return tasks
}

// loadFollowers 按 follower_id 游标分页取出全部粉丝。扇出只在事件路径上执行，
// 全量读取是可接受的成本；分页中途失败则对已取到的部分降级清理。
func (s *InvalidationService) loadFollowers(ctx context.Context, ownerID uuid.UUID) []uuid.UUID {
	var all []uuid.UUID
	cursor := uuid.Nil
	for {
		page, err := s.follows.FollowersAfter(ctx, nil, ownerID, cursor, followerFanoutBatch)
		if err != nil {
			s.log.WithContext(ctx).Warnf("load followers failed, partial fanout: owner=%s loaded=%d err=%v", ownerID, len(all), err)
			return all
		}
		all = append(all, page...)
		if int32(len(page)) < followerFanoutBatch {
			return all
		}
		cursor = page[len(page)-1]
	}
}

func (s *InvalidationService) hasStructuralChange(fields []string) bool {
	for _, field := range fields {
		switch field {
		case FieldVisibility, FieldStatus, FieldCategories, FieldIsFeatured:
			return true
		}
	}
	return false
}

func (s *InvalidationService) hasRankingChange(fields []string) bool {
	for _, field := range fields {
		switch field {
		case FieldLikesCount, FieldCommentsCount, FieldViewsCount, FieldPlaysCount, FieldSharesCount:
			return true
		}
	}
	return false
}

// hasPersonalizedChange 覆盖影响个性化排序但不改变结构可见性的元数据字段。
func (s *InvalidationService) hasPersonalizedChange(fields []string) bool {
	for _, field := range fields {
		switch field {
		case FieldTags, FieldTrendingScore, FieldEngagementScore:
			return true
		}
	}
	return false
}
