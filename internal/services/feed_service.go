package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/cachex"
	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/models/vo"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// 分页边界：页码从 1 开始，单页最多 50 条。
const (
	defaultPageSize int32 = 20
	maxPageSize     int32 = 50
)

// Feed 组装相关的哨兵错误。
var (
	ErrMissingCategory     = errors.New("category feed requires a category")
	ErrMissingProfileOwner = errors.New("profile feed requires an owner id")
	ErrMissingViewer       = errors.New("own profile feed requires a viewer id")
)

// FeedOptions 收敛组装器的运行参数，由 configloader 注入。
type FeedOptions struct {
	CandidateWindow     int32
	SponsorInterval     int32
	DiversityFactor     float64
	PregenFollowerLimit int32
	RebuildStaggerMin   time.Duration
	RebuildStaggerMax   time.Duration
}

// GetFeedInput 描述一次 Feed 请求。
type GetFeedInput struct {
	FeedType       string
	ViewerID       *uuid.UUID // nil 表示匿名访客
	Category       string     // category Feed 必填
	ProfileOwnerID *uuid.UUID // other_profile Feed 必填
	Page           int32
	PageSize       int32
	BypassCache    bool
	// DiversityFactor 固定抖动幅度；nil 时按配置或请求级采样。
	DiversityFactor *float64
}

// FeedService 负责按 (viewer, feedType, page) 组装排序分页结果，
// 读路径为 两级缓存 → 候选查询 → 打分排序 → 回填缓存。
type FeedService struct {
	candidates FeedCandidatesRepo
	follows    FollowGraphRepo
	seen       SeenItemsStore
	cache      FeedCache
	sponsors   SponsorProvider
	scoring    *ScoringEngine
	opts       FeedOptions
	metrics    *feedMetrics
	log        *log.Helper
	spawn      func(func())
}

// NewFeedService 构造 Feed 组装服务。
func NewFeedService(
	candidates FeedCandidatesRepo,
	follows FollowGraphRepo,
	seen SeenItemsStore,
	cache FeedCache,
	sponsors SponsorProvider,
	scoring *ScoringEngine,
	opts FeedOptions,
	logger log.Logger,
) *FeedService {
	return &FeedService{
		candidates: candidates,
		follows:    follows,
		seen:       seen,
		cache:      cache,
		sponsors:   sponsors,
		scoring:    scoring,
		opts:       opts,
		metrics:    newFeedMetrics("feed_service"),
		log:        log.NewHelper(logger),
		spawn:      func(fn func()) { go fn() },
	}
}

// WithBackgroundSpawn 替换后台副作用的调度方式，测试中用于同步执行。
func (s *FeedService) WithBackgroundSpawn(spawn func(func())) *FeedService {
	s.spawn = spawn
	return s
}

// feedQuery 是边界检查后的规范化请求。
type feedQuery struct {
	feedType  FeedType
	viewerID  *uuid.UUID
	category  string
	ownerID   *uuid.UUID
	page      int32
	pageSize  int32
	diversity float64
}

// GetFeed 返回某 viewer 的一页 Feed。
// 未知 Feed 类型不报错，返回带状态标记的空页；缓存任一层故障自动降级。
func (s *FeedService) GetFeed(ctx context.Context, input GetFeedInput) (*vo.FeedPage, vo.CacheSource, error) {
	started := time.Now()

	feedType, ok := ParseFeedType(input.FeedType)
	if !ok {
		s.log.WithContext(ctx).Warnf("unknown feed type requested: %q", input.FeedType)
		s.metrics.recordUnknownType(ctx, input.FeedType)
		return emptyPage(vo.PageStatusUnknownFeedType, input.FeedType, clampPage(input.Page), clampPageSize(input.PageSize)), vo.CacheSourceBuild, nil
	}

	query, err := s.normalize(feedType, input)
	if err != nil {
		return nil, "", err
	}

	page, source, err := s.servePage(ctx, query, input.BypassCache)
	if err != nil {
		return nil, "", err
	}

	s.afterServe(ctx, query, page, source)
	s.mergeSponsors(ctx, query, page)
	s.metrics.recordServe(ctx, string(feedType), string(source), time.Since(started))
	return page, source, nil
}

// RebuildPage 绕过缓存读取，现场组装并回填缓存。预生成任务使用。
func (s *FeedService) RebuildPage(ctx context.Context, input GetFeedInput) error {
	feedType, ok := ParseFeedType(input.FeedType)
	if !ok {
		return fmt.Errorf("rebuild unknown feed type %q", input.FeedType)
	}
	query, err := s.normalize(feedType, input)
	if err != nil {
		return err
	}
	key := s.cacheKey(query)
	lockKey := RebuildLockKey(key)
	if !s.cache.TryLock(ctx, lockKey) {
		s.log.WithContext(ctx).Debugf("rebuild already in flight, skip: key=%s", key)
		return nil
	}
	defer s.cache.Unlock(ctx, lockKey)

	page, err := s.buildPage(ctx, query)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal rebuilt page: %w", err)
	}
	s.cache.Put(ctx, key, payload)
	s.metrics.recordRebuild(ctx, string(query.feedType))
	return nil
}

func (s *FeedService) normalize(feedType FeedType, input GetFeedInput) (feedQuery, error) {
	switch feedType {
	case FeedTypeCategory:
		if input.Category == "" {
			return feedQuery{}, ErrMissingCategory
		}
	case FeedTypeOtherProfile:
		if input.ProfileOwnerID == nil {
			return feedQuery{}, ErrMissingProfileOwner
		}
	case FeedTypeOwnProfile:
		if input.ViewerID == nil {
			return feedQuery{}, ErrMissingViewer
		}
	}

	return feedQuery{
		feedType:  feedType,
		viewerID:  input.ViewerID,
		category:  input.Category,
		ownerID:   input.ProfileOwnerID,
		page:      clampPage(input.Page),
		pageSize:  clampPageSize(input.PageSize),
		diversity: s.resolveDiversity(feedType, input.DiversityFactor),
	}, nil
}

// resolveDiversity 决定抖动幅度：主页列表不抖动，
// 请求级固定值优先，其次服务配置，默认每次请求在区间内采样。
func (s *FeedService) resolveDiversity(feedType FeedType, pinned *float64) float64 {
	if feedType == FeedTypeOwnProfile || feedType == FeedTypeOtherProfile {
		return 0
	}
	if pinned != nil {
		return ClampDiversity(*pinned)
	}
	if s.opts.DiversityFactor > 0 {
		return ClampDiversity(s.opts.DiversityFactor)
	}
	return DiversityMin + (DiversityMax-DiversityMin)*rand.Float64()
}

func (s *FeedService) cacheKey(q feedQuery) string {
	return FeedCacheKey(q.feedType, q.viewerID, q.category, q.ownerID, q.page, q.pageSize)
}

func (s *FeedService) servePage(ctx context.Context, query feedQuery, bypass bool) (*vo.FeedPage, vo.CacheSource, error) {
	if bypass {
		page, err := s.buildPage(ctx, query)
		if err != nil {
			return nil, "", err
		}
		if payload, marshalErr := json.Marshal(page); marshalErr == nil {
			s.cache.Put(ctx, s.cacheKey(query), payload)
		}
		return page, vo.CacheSourceBypass, nil
	}

	var built *vo.FeedPage
	payload, source, err := s.cache.Get(ctx, s.cacheKey(query), func(loadCtx context.Context) ([]byte, error) {
		page, buildErr := s.buildPage(loadCtx, query)
		if buildErr != nil {
			return nil, buildErr
		}
		built = page
		return json.Marshal(page)
	})
	if err != nil {
		return nil, "", err
	}

	if built != nil {
		return built, vo.CacheSourceBuild, nil
	}
	var page vo.FeedPage
	if unmarshalErr := json.Unmarshal(payload, &page); unmarshalErr != nil {
		// 缓存内容损坏：清掉坏条目并现场组装。
		s.log.WithContext(ctx).Warnf("drop corrupted cache entry: key=%s err=%v", s.cacheKey(query), unmarshalErr)
		s.cache.Invalidate(ctx, s.cacheKey(query))
		rebuilt, buildErr := s.buildPage(ctx, query)
		if buildErr != nil {
			return nil, "", buildErr
		}
		return rebuilt, vo.CacheSourceBuild, nil
	}
	if source == cachex.SourceLocal {
		return &page, vo.CacheSourceLocal, nil
	}
	return &page, vo.CacheSourceShared, nil
}

// buildPage 执行完整组装：候选查询 → 拉黑/已看过滤 → 打分排序 → 分页。
func (s *FeedService) buildPage(ctx context.Context, query feedQuery) (*vo.FeedPage, error) {
	now := time.Now().UTC()

	candidates, total, err := s.loadCandidates(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates = s.excludeSeen(ctx, query, candidates)

	ranked := s.rank(candidates, query, now)

	start := int((query.page - 1) * query.pageSize)
	end := start + int(query.pageSize)
	if start > len(ranked) {
		start = len(ranked)
	}
	if end > len(ranked) {
		end = len(ranked)
	}

	items := make([]vo.FeedItem, 0, end-start)
	for _, candidate := range ranked[start:end] {
		items = append(items, feedItemFromProjection(candidate.projection, candidate.engagement, candidate.trending))
	}

	return &vo.FeedPage{
		Status:      vo.PageStatusOK,
		FeedType:    string(query.feedType),
		Items:       items,
		Page:        query.page,
		PageSize:    query.pageSize,
		Total:       total,
		HasMore:     int64(query.page)*int64(query.pageSize) < total,
		GeneratedAt: now,
	}, nil
}

// loadCandidates 按 Feed 类型取出候选窗口与未分页总量。
func (s *FeedService) loadCandidates(ctx context.Context, query feedQuery) ([]*po.FeedVideoProjection, int64, error) {
	window := s.opts.CandidateWindow
	if window <= 0 {
		window = 500
	}

	switch query.feedType {
	case FeedTypePersonalized:
		blocked := s.blockedOwners(ctx, query.viewerID)
		return s.gatherCandidates(ctx, "personalized",
			func(ctx context.Context) ([]*po.FeedVideoProjection, error) {
				return s.candidates.ListPublicCandidates(ctx, nil, blocked, window)
			},
			func(ctx context.Context) (int64, error) {
				return s.candidates.CountPublicCandidates(ctx, nil, blocked)
			})

	case FeedTypeFollowing:
		return s.loadFollowingCandidates(ctx, query, window)

	case FeedTypeCategory:
		list, total, err := s.gatherCandidates(ctx, "category",
			func(ctx context.Context) ([]*po.FeedVideoProjection, error) {
				return s.candidates.ListCandidatesByCategory(ctx, nil, query.category, window)
			},
			func(ctx context.Context) (int64, error) {
				return s.candidates.CountCandidatesByCategory(ctx, nil, query.category)
			})
		if err != nil {
			return nil, 0, err
		}
		return s.filterBlocked(ctx, query.viewerID, list), total, nil

	case FeedTypeOwnProfile:
		return s.gatherCandidates(ctx, "own profile",
			func(ctx context.Context) ([]*po.FeedVideoProjection, error) {
				return s.candidates.ListVideosByOwner(ctx, nil, *query.viewerID, true, window)
			},
			func(ctx context.Context) (int64, error) {
				return s.candidates.CountVideosByOwner(ctx, nil, *query.viewerID, true)
			})

	case FeedTypeOtherProfile:
		return s.gatherCandidates(ctx, "profile",
			func(ctx context.Context) ([]*po.FeedVideoProjection, error) {
				return s.candidates.ListVideosByOwner(ctx, nil, *query.ownerID, false, window)
			},
			func(ctx context.Context) (int64, error) {
				return s.candidates.CountVideosByOwner(ctx, nil, *query.ownerID, false)
			})
	}
	return nil, 0, nil
}

// gatherCandidates 并行执行候选窗口与总量两条查询。
func (s *FeedService) gatherCandidates(
	ctx context.Context,
	label string,
	listFn func(context.Context) ([]*po.FeedVideoProjection, error),
	countFn func(context.Context) (int64, error),
) ([]*po.FeedVideoProjection, int64, error) {
	var (
		list  []*po.FeedVideoProjection
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if list, err = listFn(gctx); err != nil {
			return fmt.Errorf("load %s candidates: %w", label, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if total, err = countFn(gctx); err != nil {
			return fmt.Errorf("count %s candidates: %w", label, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// loadFollowingCandidates 读取关注流候选。
// 关注图不可用时降级为全局热门（viewer 仍然可消费），关注为空时返回空页。
func (s *FeedService) loadFollowingCandidates(ctx context.Context, query feedQuery, window int32) ([]*po.FeedVideoProjection, int64, error) {
	if query.viewerID == nil {
		return s.fallbackToGlobal(ctx, window)
	}
	following, err := s.follows.Following(ctx, nil, *query.viewerID)
	if err != nil {
		s.log.WithContext(ctx).Warnf("follow graph unavailable, fall back to global trending: viewer=%s err=%v", *query.viewerID, err)
		s.metrics.recordFollowFallback(ctx)
		return s.fallbackToGlobal(ctx, window)
	}
	if len(following) == 0 {
		return nil, 0, nil
	}
	return s.gatherCandidates(ctx, "following",
		func(ctx context.Context) ([]*po.FeedVideoProjection, error) {
			return s.candidates.ListCandidatesByOwners(ctx, nil, following, window)
		},
		func(ctx context.Context) (int64, error) {
			return s.candidates.CountCandidatesByOwners(ctx, nil, following)
		})
}

func (s *FeedService) fallbackToGlobal(ctx context.Context, window int32) ([]*po.FeedVideoProjection, int64, error) {
	return s.gatherCandidates(ctx, "global",
		func(ctx context.Context) ([]*po.FeedVideoProjection, error) {
			return s.candidates.ListPublicCandidates(ctx, nil, nil, window)
		},
		func(ctx context.Context) (int64, error) {
			return s.candidates.CountPublicCandidates(ctx, nil, nil)
		})
}

// blockedOwners 读取拉黑作者集合；失败按空集处理，不阻断组装。
func (s *FeedService) blockedOwners(ctx context.Context, viewerID *uuid.UUID) []uuid.UUID {
	if viewerID == nil {
		return nil
	}
	blocked, err := s.follows.Blocked(ctx, nil, *viewerID)
	if err != nil {
		s.log.WithContext(ctx).Warnf("load blocked owners failed, skip exclusion: viewer=%s err=%v", *viewerID, err)
		return nil
	}
	return blocked
}

func (s *FeedService) filterBlocked(ctx context.Context, viewerID *uuid.UUID, list []*po.FeedVideoProjection) []*po.FeedVideoProjection {
	blocked := s.blockedOwners(ctx, viewerID)
	if len(blocked) == 0 {
		return list
	}
	blockedSet := make(map[uuid.UUID]struct{}, len(blocked))
	for _, id := range blocked {
		blockedSet[id] = struct{}{}
	}
	filtered := list[:0]
	for _, item := range list {
		if _, ok := blockedSet[item.OwnerID]; !ok {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// excludeSeen 对发现类 Feed 过滤 viewer 已曝光的内容。
// 历史存储不可用时跳过过滤并告警，宁可重复也不中断。
func (s *FeedService) excludeSeen(ctx context.Context, query feedQuery, list []*po.FeedVideoProjection) []*po.FeedVideoProjection {
	if !isDiscoveryFeed(query.feedType) || query.viewerID == nil || len(list) == 0 {
		return list
	}
	seenIDs, err := s.seen.List(ctx, *query.viewerID)
	if err != nil {
		s.log.WithContext(ctx).Warnf("seen store unavailable, skip exclusion: viewer=%s err=%v", *query.viewerID, err)
		s.metrics.recordSeenStoreFailure(ctx)
		return list
	}
	if len(seenIDs) == 0 {
		return list
	}
	seenSet := make(map[uuid.UUID]struct{}, len(seenIDs))
	for _, id := range seenIDs {
		seenSet[id] = struct{}{}
	}
	filtered := list[:0]
	for _, item := range list {
		if _, ok := seenSet[item.VideoID]; !ok {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// rankedCandidate 缓存排序所需的派生得分。
type rankedCandidate struct {
	projection *po.FeedVideoProjection
	engagement float64
	trending   float64
	rank       float64
}

// rank 重算互动/热度得分并排序：置顶优先，带抖动热度降序，
// 创建时间与 video_id 两级决胜保证全序稳定。
func (s *FeedService) rank(list []*po.FeedVideoProjection, query feedQuery, now time.Time) []rankedCandidate {
	viewer := viewerKey(query.viewerID)
	ranked := make([]rankedCandidate, 0, len(list))
	for _, projection := range list {
		engagement, trending := s.scoring.Score(countersFromProjection(projection), projection.CreatedAt, now)
		ranked = append(ranked, rankedCandidate{
			projection: projection,
			engagement: engagement,
			trending:   trending,
			rank:       s.scoring.RankScore(trending, viewer, projection.VideoID, now, query.diversity),
		})
	}
	sortRanked(ranked)
	return ranked
}

func sortRanked(ranked []rankedCandidate) {
	slices.SortFunc(ranked, func(a, b rankedCandidate) int {
		if a.projection.IsFeatured != b.projection.IsFeatured {
			if a.projection.IsFeatured {
				return -1
			}
			return 1
		}
		if a.rank != b.rank {
			if a.rank > b.rank {
				return -1
			}
			return 1
		}
		if !a.projection.CreatedAt.Equal(b.projection.CreatedAt) {
			if a.projection.CreatedAt.After(b.projection.CreatedAt) {
				return -1
			}
			return 1
		}
		switch {
		case a.projection.VideoID.String() > b.projection.VideoID.String():
			return -1
		case a.projection.VideoID == b.projection.VideoID:
			return 0
		default:
			return 1
		}
	})
}

// afterServe 处理组装后的副作用：记录曝光、命中刷新、预热下一页。
func (s *FeedService) afterServe(ctx context.Context, query feedQuery, page *vo.FeedPage, source vo.CacheSource) {
	if isDiscoveryFeed(query.feedType) && query.viewerID != nil && len(page.Items) > 0 {
		viewer := *query.viewerID
		ids := make([]uuid.UUID, 0, len(page.Items))
		for _, item := range page.Items {
			ids = append(ids, item.VideoID)
		}
		markCtx := context.WithoutCancel(ctx)
		s.spawn(func() {
			if err := s.seen.Add(markCtx, viewer, ids); err != nil {
				s.log.Warnf("record seen items failed: viewer=%s err=%v", viewer, err)
			}
		})
	}

	switch {
	case source == vo.CacheSourceLocal || source == vo.CacheSourceShared:
		// 命中即刷新：低优先级重建本键，锁被占用则放弃。
		hit := query
		refreshCtx := context.WithoutCancel(ctx)
		s.spawn(func() { s.rebuildKeyLocked(refreshCtx, hit) })
	case source == vo.CacheSourceBuild && page.HasMore && isDiscoveryFeed(query.feedType):
		// 现场组装意味着缓存是冷的，顺手预热下一页。
		next := query
		next.page = query.page + 1
		warmCtx := context.WithoutCancel(ctx)
		s.spawn(func() { s.rebuildKeyLocked(warmCtx, next) })
	}
}

// rebuildKeyLocked 在重建锁保护下现场组装并回填指定页；
// 拿不到锁说明同键重建已在进行，直接放弃。
func (s *FeedService) rebuildKeyLocked(ctx context.Context, query feedQuery) {
	key := s.cacheKey(query)
	lockKey := RebuildLockKey(key)
	if !s.cache.TryLock(ctx, lockKey) {
		return
	}
	defer s.cache.Unlock(ctx, lockKey)
	page, err := s.buildPage(ctx, query)
	if err != nil {
		s.log.Debugf("background rebuild failed: key=%s err=%v", key, err)
		return
	}
	if payload, marshalErr := json.Marshal(page); marshalErr == nil {
		s.cache.Put(ctx, key, payload)
	}
}

// mergeSponsors 按固定间隔向页面插入赞助内容。失败时静默降级。
func (s *FeedService) mergeSponsors(ctx context.Context, query feedQuery, page *vo.FeedPage) {
	interval := int(s.opts.SponsorInterval)
	if interval <= 0 || len(page.Items) == 0 || !isDiscoveryFeed(query.feedType) {
		return
	}
	slots := len(page.Items) / interval
	if slots == 0 {
		return
	}
	fillers, err := s.sponsors.Fillers(ctx, SponsorRequest{
		ViewerID: query.viewerID,
		FeedType: query.feedType,
		Limit:    int32(slots),
	})
	if err != nil {
		s.log.WithContext(ctx).Debugf("sponsor provider failed, serve without fillers: err=%v", err)
		return
	}
	if len(fillers) == 0 {
		return
	}

	merged := make([]vo.FeedItem, 0, len(page.Items)+len(fillers))
	next := 0
	for i, item := range page.Items {
		merged = append(merged, item)
		if (i+1)%interval == 0 && next < len(fillers) {
			filler := fillers[next]
			filler.IsSponsored = true
			merged = append(merged, filler)
			next++
		}
	}
	page.Items = merged
}

func isDiscoveryFeed(feedType FeedType) bool {
	switch feedType {
	case FeedTypePersonalized, FeedTypeFollowing, FeedTypeCategory:
		return true
	default:
		return false
	}
}

func clampPage(page int32) int32 {
	if page < 1 {
		return 1
	}
	return page
}

func clampPageSize(size int32) int32 {
	switch {
	case size < 1:
		return defaultPageSize
	case size > maxPageSize:
		return maxPageSize
	default:
		return size
	}
}

func emptyPage(status vo.PageStatus, feedType string, page, pageSize int32) *vo.FeedPage {
	return &vo.FeedPage{
		Status:      status,
		FeedType:    feedType,
		Items:       []vo.FeedItem{},
		Page:        page,
		PageSize:    pageSize,
		GeneratedAt: time.Now().UTC(),
	}
}

func countersFromProjection(p *po.FeedVideoProjection) EngagementCounters {
	return EngagementCounters{
		Likes:    p.LikesCount,
		Comments: p.CommentsCount,
		Views:    p.ViewsCount,
		Plays:    p.PlaysCount,
		Shares:   p.SharesCount,
	}
}

func feedItemFromProjection(p *po.FeedVideoProjection, engagement, trending float64) vo.FeedItem {
	item := vo.FeedItem{
		VideoID:         p.VideoID,
		OwnerID:         p.OwnerID,
		Title:           p.Title,
		Categories:      p.Categories,
		Tags:            p.Tags,
		IsFeatured:      p.IsFeatured,
		EngagementScore: engagement,
		TrendingScore:   trending,
		CreatedAt:       p.CreatedAt,
		PublishedAt:     p.PublishedAt,
	}
	if p.ThumbnailURL != nil {
		item.ThumbnailURL = *p.ThumbnailURL
	}
	if p.DurationMicros != nil {
		item.DurationMicros = *p.DurationMicros
	}
	return item
}
