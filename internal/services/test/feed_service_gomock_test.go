package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/cachex"
	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/models/vo"
	"github.com/bionicotaku/lingo-services-feed/internal/services"
	"github.com/bionicotaku/lingo-services-feed/internal/services/mocks"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type feedFixture struct {
	candidates *mocks.MockFeedCandidatesRepo
	follows    *mocks.MockFollowGraphRepo
	seen       *fakeSeenStore
	cache      *mocks.MockFeedCache
	sponsors   *mocks.MockSponsorProvider
	svc        *services.FeedService
}

func newFeedFixture(t *testing.T, ctrl *gomock.Controller, opts services.FeedOptions) *feedFixture {
	t.Helper()
	f := &feedFixture{
		candidates: mocks.NewMockFeedCandidatesRepo(ctrl),
		follows:    mocks.NewMockFollowGraphRepo(ctrl),
		seen:       newFakeSeenStore(),
		cache:      mocks.NewMockFeedCache(ctrl),
		sponsors:   mocks.NewMockSponsorProvider(ctrl),
	}
	// 曝光写入走异步 goroutine，固定 List 返回值避免跨请求串扰。
	f.seen.listFn = func(uuid.UUID) ([]uuid.UUID, error) { return nil, nil }
	f.svc = services.NewFeedService(
		f.candidates, f.follows, f.seen, f.cache, f.sponsors,
		services.NewScoringEngine(), opts, log.NewStdLogger(io.Discard))
	// 后台副作用同步执行，保证 mock 断言在用例内完成。
	f.svc.WithBackgroundSpawn(func(fn func()) { fn() })
	return f
}

func projection(owner uuid.UUID, age time.Duration, likes int64) *po.FeedVideoProjection {
	return &po.FeedVideoProjection{
		VideoID:    uuid.New(),
		OwnerID:    owner,
		Title:      "video",
		Status:     po.VideoStatusReady,
		Visibility: "public",
		LikesCount: likes,
		CreatedAt:  time.Now().UTC().Add(-age),
	}
}

func TestFeedService_GetFeed_UnknownTypeReturnsMarkedEmptyPage(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	page, source, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType: "trending",
		Page:     0,
		PageSize: 999,
	})
	require.NoError(t, err)
	require.Equal(t, vo.CacheSourceBuild, source)
	require.Equal(t, vo.PageStatusUnknownFeedType, page.Status)
	require.Equal(t, "trending", page.FeedType)
	require.Empty(t, page.Items)
	require.Equal(t, int32(1), page.Page, "page clamps to 1")
	require.Equal(t, int32(50), page.PageSize, "page size clamps to the max")
}

func TestFeedService_GetFeed_ValidationErrors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	_, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{FeedType: "category"})
	require.ErrorIs(t, err, services.ErrMissingCategory)

	_, _, err = f.svc.GetFeed(context.Background(), services.GetFeedInput{FeedType: "other_profile"})
	require.ErrorIs(t, err, services.ErrMissingProfileOwner)

	_, _, err = f.svc.GetFeed(context.Background(), services.GetFeedInput{FeedType: "own_profile"})
	require.ErrorIs(t, err, services.ErrMissingViewer)
}

func TestFeedService_GetFeed_FollowingReflectsFollowChange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	viewer := uuid.New()
	ownerA := uuid.New()
	ownerB := uuid.New()
	a1 := projection(ownerA, time.Hour, 10)
	b1 := projection(ownerB, time.Hour, 50)

	gomock.InOrder(
		f.follows.EXPECT().Following(gomock.Any(), gomock.Any(), viewer).Return([]uuid.UUID{ownerA}, nil),
		f.follows.EXPECT().Following(gomock.Any(), gomock.Any(), viewer).Return([]uuid.UUID{ownerA, ownerB}, nil),
	)
	f.candidates.EXPECT().ListCandidatesByOwners(gomock.Any(), gomock.Any(), []uuid.UUID{ownerA}, int32(500)).Return([]*po.FeedVideoProjection{a1}, nil)
	f.candidates.EXPECT().CountCandidatesByOwners(gomock.Any(), gomock.Any(), []uuid.UUID{ownerA}).Return(int64(1), nil)
	f.candidates.EXPECT().ListCandidatesByOwners(gomock.Any(), gomock.Any(), []uuid.UUID{ownerA, ownerB}, int32(500)).Return([]*po.FeedVideoProjection{a1, b1}, nil)
	f.candidates.EXPECT().CountCandidatesByOwners(gomock.Any(), gomock.Any(), []uuid.UUID{ownerA, ownerB}).Return(int64(2), nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)

	input := services.GetFeedInput{
		FeedType:        "following",
		ViewerID:        &viewer,
		BypassCache:     true,
		DiversityFactor: ptrFloat64(0),
	}

	page, source, err := f.svc.GetFeed(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, vo.CacheSourceBypass, source)
	require.Len(t, page.Items, 1)
	require.Equal(t, a1.VideoID, page.Items[0].VideoID)

	page, _, err = f.svc.GetFeed(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	// 同龄视频按互动得分排序，新关注作者的热门视频排到前面。
	require.Equal(t, b1.VideoID, page.Items[0].VideoID)
	require.Equal(t, a1.VideoID, page.Items[1].VideoID)
}

func TestFeedService_GetFeed_FollowGraphErrorFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	viewer := uuid.New()
	global := projection(uuid.New(), time.Hour, 5)

	f.follows.EXPECT().Following(gomock.Any(), gomock.Any(), viewer).Return(nil, errors.New("graph down"))
	f.candidates.EXPECT().ListPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), int32(500)).Return([]*po.FeedVideoProjection{global}, nil)
	f.candidates.EXPECT().CountPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil()).Return(int64(1), nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any())

	page, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType:        "following",
		ViewerID:        &viewer,
		BypassCache:     true,
		DiversityFactor: ptrFloat64(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, global.VideoID, page.Items[0].VideoID)
}

func TestFeedService_GetFeed_EmptyFollowingReturnsEmptyPage(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	viewer := uuid.New()
	f.follows.EXPECT().Following(gomock.Any(), gomock.Any(), viewer).Return([]uuid.UUID{}, nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any())

	page, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType:    "following",
		ViewerID:    &viewer,
		BypassCache: true,
	})
	require.NoError(t, err)
	require.Equal(t, vo.PageStatusOK, page.Status)
	require.Empty(t, page.Items)
	require.Equal(t, int64(0), page.Total)
	require.False(t, page.HasMore)
}

func TestFeedService_GetFeed_PersonalizedExcludesBlockedAndSeen(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	viewer := uuid.New()
	blockedOwner := uuid.New()
	kept := projection(uuid.New(), time.Hour, 5)
	alreadySeen := projection(uuid.New(), time.Hour, 80)
	f.seen.listFn = func(uuid.UUID) ([]uuid.UUID, error) {
		return []uuid.UUID{alreadySeen.VideoID}, nil
	}

	f.follows.EXPECT().Blocked(gomock.Any(), gomock.Any(), viewer).Return([]uuid.UUID{blockedOwner}, nil)
	f.candidates.EXPECT().ListPublicCandidates(gomock.Any(), gomock.Any(), []uuid.UUID{blockedOwner}, int32(500)).
		Return([]*po.FeedVideoProjection{kept, alreadySeen}, nil)
	f.candidates.EXPECT().CountPublicCandidates(gomock.Any(), gomock.Any(), []uuid.UUID{blockedOwner}).Return(int64(2), nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any())

	page, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType:        "personalized",
		ViewerID:        &viewer,
		BypassCache:     true,
		DiversityFactor: ptrFloat64(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, kept.VideoID, page.Items[0].VideoID)
}

func TestFeedService_GetFeed_SponsorsInterleavedAtInterval(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500, SponsorInterval: 2})

	list := []*po.FeedVideoProjection{
		projection(uuid.New(), time.Hour, 40),
		projection(uuid.New(), time.Hour, 30),
		projection(uuid.New(), time.Hour, 20),
		projection(uuid.New(), time.Hour, 10),
	}
	filler := vo.FeedItem{VideoID: uuid.New(), Title: "promo"}

	f.candidates.EXPECT().ListCandidatesByCategory(gomock.Any(), gomock.Any(), "music", int32(500)).Return(list, nil)
	f.candidates.EXPECT().CountCandidatesByCategory(gomock.Any(), gomock.Any(), "music").Return(int64(4), nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any())
	f.sponsors.EXPECT().Fillers(gomock.Any(), services.SponsorRequest{
		FeedType: services.FeedTypeCategory,
		Limit:    2,
	}).Return([]vo.FeedItem{filler}, nil)

	page, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType:        "category",
		Category:        "music",
		BypassCache:     true,
		DiversityFactor: ptrFloat64(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	require.Equal(t, filler.VideoID, page.Items[2].VideoID)
	require.True(t, page.Items[2].IsSponsored)
}

func TestFeedService_GetFeed_SponsorFailureDegradesSilently(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500, SponsorInterval: 2})

	list := []*po.FeedVideoProjection{
		projection(uuid.New(), time.Hour, 40),
		projection(uuid.New(), time.Hour, 30),
	}
	f.candidates.EXPECT().ListCandidatesByCategory(gomock.Any(), gomock.Any(), "music", int32(500)).Return(list, nil)
	f.candidates.EXPECT().CountCandidatesByCategory(gomock.Any(), gomock.Any(), "music").Return(int64(2), nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any())
	f.sponsors.EXPECT().Fillers(gomock.Any(), gomock.Any()).Return(nil, errors.New("ad service down"))

	page, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType:        "category",
		Category:        "music",
		BypassCache:     true,
		DiversityFactor: ptrFloat64(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
}

func TestFeedService_GetFeed_SharedCacheHit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	cached := &vo.FeedPage{
		Status:      vo.PageStatusOK,
		FeedType:    "personalized",
		Items:       []vo.FeedItem{{VideoID: uuid.New(), Title: "cached"}},
		Page:        1,
		PageSize:    20,
		Total:       1,
		GeneratedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	f.cache.EXPECT().Get(gomock.Any(), "feed:personalized:guest:p1:s20", gomock.Any()).
		Return(payload, cachex.SourceShared, nil)
	// 命中会调度后台刷新；此处锁被占用，刷新直接放弃。
	f.cache.EXPECT().TryLock(gomock.Any(), "lock:feed:personalized:guest:p1:s20").Return(false)

	page, source, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{FeedType: "personalized"})
	require.NoError(t, err)
	require.Equal(t, vo.CacheSourceShared, source)
	require.Len(t, page.Items, 1)
	require.Equal(t, cached.Items[0].VideoID, page.Items[0].VideoID)
}

func TestFeedService_GetFeed_HitSchedulesKeyRefresh(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	cached := &vo.FeedPage{
		Status:   vo.PageStatusOK,
		FeedType: "personalized",
		Items:    []vo.FeedItem{{VideoID: uuid.New(), Title: "cached"}},
		Page:     1,
		PageSize: 20,
		Total:    1,
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	fresh := projection(uuid.New(), time.Hour, 5)
	const key = "feed:personalized:guest:p1:s20"

	f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(payload, cachex.SourceLocal, nil)
	f.cache.EXPECT().TryLock(gomock.Any(), "lock:"+key).Return(true)
	f.candidates.EXPECT().ListPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), int32(500)).
		Return([]*po.FeedVideoProjection{fresh}, nil)
	f.candidates.EXPECT().CountPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil()).Return(int64(1), nil)
	f.cache.EXPECT().Put(gomock.Any(), key, gomock.Any()).Do(func(_ context.Context, _ string, refreshed []byte) {
		var page vo.FeedPage
		require.NoError(t, json.Unmarshal(refreshed, &page))
		require.Len(t, page.Items, 1)
		require.Equal(t, fresh.VideoID, page.Items[0].VideoID)
	})
	f.cache.EXPECT().Unlock(gomock.Any(), "lock:"+key)

	// 命中返回缓存内容，同时后台重建同一键并回填新鲜页面。
	page, source, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{FeedType: "personalized"})
	require.NoError(t, err)
	require.Equal(t, vo.CacheSourceLocal, source)
	require.Equal(t, cached.Items[0].VideoID, page.Items[0].VideoID)
}

func TestFeedService_GetFeed_CorruptedCacheEntryRebuilt(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	item := projection(uuid.New(), time.Hour, 5)
	const key = "feed:personalized:guest:p1:s20"

	f.cache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return([]byte("{not json"), cachex.SourceShared, nil)
	f.cache.EXPECT().Invalidate(gomock.Any(), key).Return(1)
	f.candidates.EXPECT().ListPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), int32(500)).
		Return([]*po.FeedVideoProjection{item}, nil)
	f.candidates.EXPECT().CountPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil()).Return(int64(1), nil)

	page, source, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{FeedType: "personalized"})
	require.NoError(t, err)
	require.Equal(t, vo.CacheSourceBuild, source)
	require.Equal(t, vo.PageStatusOK, page.Status)
	require.Len(t, page.Items, 1)
}

func TestFeedService_GetFeed_SecondPageSlice(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	list := []*po.FeedVideoProjection{
		projection(uuid.New(), time.Hour, 40),
		projection(uuid.New(), time.Hour, 30),
		projection(uuid.New(), time.Hour, 20),
	}
	f.candidates.EXPECT().ListCandidatesByCategory(gomock.Any(), gomock.Any(), "music", int32(500)).Return(list, nil)
	f.candidates.EXPECT().CountCandidatesByCategory(gomock.Any(), gomock.Any(), "music").Return(int64(3), nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any())

	page, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType:        "category",
		Category:        "music",
		Page:            2,
		PageSize:        2,
		BypassCache:     true,
		DiversityFactor: ptrFloat64(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, list[2].VideoID, page.Items[0].VideoID)
	require.Equal(t, int64(3), page.Total)
	require.False(t, page.HasMore)
}

func TestFeedService_GetFeed_FeaturedPinnedFirst(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	hot := projection(uuid.New(), time.Hour, 1000)
	featured := projection(uuid.New(), 200*time.Hour, 0)
	featured.IsFeatured = true

	f.candidates.EXPECT().ListPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), int32(500)).
		Return([]*po.FeedVideoProjection{hot, featured}, nil)
	f.candidates.EXPECT().CountPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil()).Return(int64(2), nil)
	f.cache.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any())

	page, _, err := f.svc.GetFeed(context.Background(), services.GetFeedInput{
		FeedType:        "personalized",
		BypassCache:     true,
		DiversityFactor: ptrFloat64(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, featured.VideoID, page.Items[0].VideoID)
}

func TestFeedService_RebuildPage_SkipsWhenLockHeld(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	f.cache.EXPECT().TryLock(gomock.Any(), "lock:feed:personalized:guest:p1:s20").Return(false)

	err := f.svc.RebuildPage(context.Background(), services.GetFeedInput{FeedType: "personalized"})
	require.NoError(t, err)
}

func TestFeedService_RebuildPage_BuildsAndCaches(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	item := projection(uuid.New(), time.Hour, 5)
	const key = "feed:personalized:guest:p1:s20"

	f.cache.EXPECT().TryLock(gomock.Any(), "lock:"+key).Return(true)
	f.candidates.EXPECT().ListPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil(), int32(500)).
		Return([]*po.FeedVideoProjection{item}, nil)
	f.candidates.EXPECT().CountPublicCandidates(gomock.Any(), gomock.Any(), gomock.Nil()).Return(int64(1), nil)
	f.cache.EXPECT().Put(gomock.Any(), key, gomock.Any()).Do(func(_ context.Context, _ string, payload []byte) {
		var page vo.FeedPage
		require.NoError(t, json.Unmarshal(payload, &page))
		require.Len(t, page.Items, 1)
	})
	f.cache.EXPECT().Unlock(gomock.Any(), "lock:"+key)

	err := f.svc.RebuildPage(context.Background(), services.GetFeedInput{FeedType: "personalized"})
	require.NoError(t, err)
}

func TestFeedService_RebuildPage_UnknownTypeErrors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFeedFixture(t, ctrl, services.FeedOptions{CandidateWindow: 500})

	err := f.svc.RebuildPage(context.Background(), services.GetFeedInput{FeedType: "trending"})
	require.Error(t, err)
}
