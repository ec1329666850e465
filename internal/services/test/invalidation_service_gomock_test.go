package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/bionicotaku/lingo-services-feed/internal/services"
	"github.com/bionicotaku/lingo-services-feed/internal/services/mocks"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newInvalidationFixture(t *testing.T, ctrl *gomock.Controller, opts services.FeedOptions) (*mocks.MockFeedCache, *mocks.MockFollowGraphRepo, *services.InvalidationService) {
	t.Helper()
	cache := mocks.NewMockFeedCache(ctrl)
	follows := mocks.NewMockFollowGraphRepo(ctrl)
	svc := services.NewInvalidationService(cache, follows, opts, log.NewStdLogger(io.Discard))
	return cache, follows, svc
}

func TestInvalidationService_CounterOnlyChangeSkipsFanout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache, _, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{})

	videoID := uuid.New()
	owner := uuid.New()

	cache.EXPECT().Invalidate(gomock.Any(), services.VideoCacheKey(videoID)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeOwnProfile, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.OwnerProfilePattern(owner)).Return(2)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypePersonalized, owner)).Return(1)

	// 纯计数变化走廉价路径：不读粉丝图，不清理关注流与分类流。
	report, err := svc.OnVideoChanged(context.Background(), services.VideoChangeInput{
		Kind:          services.VideoChangeUpdated,
		VideoID:       videoID,
		OwnerID:       owner,
		ChangedFields: []string{"likes_count"},
		Categories:    []string{"music"},
	})
	require.NoError(t, err)
	require.Equal(t, 5, report.ClearedKeyCount)
	require.Equal(t, []uuid.UUID{owner}, report.AffectedViewerIDs)
	require.Contains(t, report.AffectedFeedTypes, "personalized")
	require.NotContains(t, report.AffectedFeedTypes, "following")
	require.NotContains(t, report.AffectedFeedTypes, "category")
}

func TestInvalidationService_VisibilityChangeClearsStructuralScopes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache, follows, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{})

	videoID := uuid.New()
	owner := uuid.New()
	follower := uuid.New()

	cache.EXPECT().Invalidate(gomock.Any(), services.VideoCacheKey(videoID)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeOwnProfile, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.OwnerProfilePattern(owner)).Return(1)
	follows.EXPECT().FollowersAfter(gomock.Any(), gomock.Any(), owner, uuid.Nil, int32(1000)).Return([]uuid.UUID{follower}, nil)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypePersonalized, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeFollowing, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeCategory, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeFollowing, follower)).Return(1)

	// visibility 变化未波及 categories，分类流按维持处理。
	report, err := svc.OnVideoChanged(context.Background(), services.VideoChangeInput{
		Kind:          services.VideoChangeUpdated,
		VideoID:       videoID,
		OwnerID:       owner,
		ChangedFields: []string{"visibility"},
		Categories:    []string{"music"},
	})
	require.NoError(t, err)
	require.Equal(t, 7, report.ClearedKeyCount)
	require.NotContains(t, report.AffectedFeedTypes, "category")
}

func TestInvalidationService_DeletionClearsCategoryFeeds(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache, follows, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{})

	videoID := uuid.New()
	owner := uuid.New()

	cache.EXPECT().Invalidate(gomock.Any(), services.VideoCacheKey(videoID)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeOwnProfile, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.OwnerProfilePattern(owner)).Return(1)
	follows.EXPECT().FollowersAfter(gomock.Any(), gomock.Any(), owner, uuid.Nil, int32(1000)).Return(nil, nil)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypePersonalized, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeFollowing, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeCategory, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.CategoryFeedPattern("music")).Return(3)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.CategoryFeedPattern("news")).Return(2)

	report, err := svc.OnVideoChanged(context.Background(), services.VideoChangeInput{
		Kind:       services.VideoChangeDeleted,
		VideoID:    videoID,
		OwnerID:    owner,
		Categories: []string{"music", "news"},
	})
	require.NoError(t, err)
	require.Equal(t, 11, report.ClearedKeyCount)
	require.Contains(t, report.AffectedFeedTypes, "category")
	require.Equal(t, []uuid.UUID{owner}, report.AffectedViewerIDs)
}

func TestInvalidationService_TagChangeClearsPersonalizedAndTagKeys(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache, _, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{})

	videoID := uuid.New()
	owner := uuid.New()

	cache.EXPECT().Invalidate(gomock.Any(), services.VideoCacheKey(videoID)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeOwnProfile, owner)).Return(0)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.OwnerProfilePattern(owner)).Return(0)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypePersonalized, owner)).Return(1)
	cache.EXPECT().Invalidate(gomock.Any(), services.TagCacheKey("golang")).Return(1)
	cache.EXPECT().Invalidate(gomock.Any(), services.TagCacheKey("tutorial")).Return(1)

	// 标签影响个性化排序：除标签辅助键外，作者的个性化流也要失效。
	report, err := svc.OnVideoChanged(context.Background(), services.VideoChangeInput{
		Kind:          services.VideoChangeUpdated,
		VideoID:       videoID,
		OwnerID:       owner,
		ChangedFields: []string{"tags"},
		Tags:          []string{"golang", "tutorial"},
	})
	require.NoError(t, err)
	require.Equal(t, 4, report.ClearedKeyCount)
	require.Contains(t, report.AffectedFeedTypes, "personalized")
	require.NotContains(t, report.AffectedFeedTypes, "following")
}

func TestInvalidationService_ScoreChangeClearsPersonalizedOnly(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache, _, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{})

	videoID := uuid.New()
	owner := uuid.New()

	cache.EXPECT().Invalidate(gomock.Any(), services.VideoCacheKey(videoID)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeOwnProfile, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.OwnerProfilePattern(owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypePersonalized, owner)).Return(1)

	report, err := svc.OnVideoChanged(context.Background(), services.VideoChangeInput{
		Kind:          services.VideoChangeUpdated,
		VideoID:       videoID,
		OwnerID:       owner,
		ChangedFields: []string{"trending_score", "engagement_score"},
	})
	require.NoError(t, err)
	require.Equal(t, 4, report.ClearedKeyCount)
	require.Equal(t, []uuid.UUID{owner}, report.AffectedViewerIDs)
}

func TestInvalidationService_FanoutPagesThroughAllFollowers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache, follows, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{})

	videoID := uuid.New()
	owner := uuid.New()

	firstPage := make([]uuid.UUID, 1000)
	for i := range firstPage {
		firstPage[i] = uuid.New()
	}
	tail := []uuid.UUID{uuid.New()}

	follows.EXPECT().FollowersAfter(gomock.Any(), gomock.Any(), owner, uuid.Nil, int32(1000)).Return(firstPage, nil)
	follows.EXPECT().FollowersAfter(gomock.Any(), gomock.Any(), owner, firstPage[999], int32(1000)).Return(tail, nil)
	cache.EXPECT().Invalidate(gomock.Any(), gomock.Any()).Return(1).AnyTimes()
	cache.EXPECT().InvalidatePattern(gomock.Any(), gomock.Any()).Return(1).AnyTimes()

	// 结构性变更的扇出覆盖全部粉丝，不在单批上限处截断。
	report, err := svc.OnVideoChanged(context.Background(), services.VideoChangeInput{
		Kind:          services.VideoChangeUpdated,
		VideoID:       videoID,
		OwnerID:       owner,
		ChangedFields: []string{"status"},
	})
	require.NoError(t, err)
	require.Len(t, report.AffectedViewerIDs, 1002, "owner plus every follower across pages")
}

func TestInvalidationService_FollowerLookupFailureSkipsFanout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cache, follows, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{})

	videoID := uuid.New()
	owner := uuid.New()

	cache.EXPECT().Invalidate(gomock.Any(), services.VideoCacheKey(videoID)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeOwnProfile, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.OwnerProfilePattern(owner)).Return(1)
	follows.EXPECT().FollowersAfter(gomock.Any(), gomock.Any(), owner, uuid.Nil, int32(1000)).Return(nil, errors.New("graph down"))
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypePersonalized, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeFollowing, owner)).Return(1)
	cache.EXPECT().InvalidatePattern(gomock.Any(), services.ViewerFeedPattern(services.FeedTypeCategory, owner)).Return(1)

	// 粉丝图不可用时仍清理作者自己的范围，只是放弃粉丝扇出。
	report, err := svc.OnVideoChanged(context.Background(), services.VideoChangeInput{
		Kind:          services.VideoChangeUpdated,
		VideoID:       videoID,
		OwnerID:       owner,
		ChangedFields: []string{"status"},
	})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{owner}, report.AffectedViewerIDs)
}

func TestInvalidationService_RebuildTargets(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	_, _, svc := newInvalidationFixture(t, ctrl, services.FeedOptions{PregenFollowerLimit: 2})

	owner := uuid.New()
	followers := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	tasks := svc.RebuildTargets(services.VideoChangeInput{OwnerID: owner}, followers)
	require.Len(t, tasks, 3, "owner page plus capped follower pages")

	require.Equal(t, services.FeedTypePersonalized, tasks[0].FeedType)
	require.Equal(t, owner, *tasks[0].ViewerID)
	require.Equal(t, int32(1), tasks[0].Page)
	require.Equal(t, int32(20), tasks[0].PageSize)

	for i, task := range tasks[1:] {
		require.Equal(t, services.FeedTypeFollowing, task.FeedType, fmt.Sprintf("task %d", i+1))
		require.Equal(t, followers[i], *task.ViewerID)
		require.Equal(t, int32(1), task.Page)
	}
}
