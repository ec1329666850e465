package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func newProjectionInput(videoID, ownerID uuid.UUID) repositories.UpsertVideoProjectionInput {
	now := time.Now().UTC()
	publishedAt := now.Add(-time.Hour)
	return repositories.UpsertVideoProjectionInput{
		VideoID:         videoID,
		OwnerID:         ownerID,
		Title:           "Go concurrency patterns",
		ThumbnailURL:    stringPtr("https://example.com/thumb.jpg"),
		DurationMicros:  int64Ptr(120_000_000),
		Status:          po.VideoStatusReady,
		Visibility:      "public",
		LikesCount:      10,
		CommentsCount:   2,
		ViewsCount:      100,
		PlaysCount:      40,
		SharesCount:     1,
		EngagementScore: 49.6,
		TrendingScore:   49.6,
		Categories:      []string{"tech"},
		Tags:            []string{"golang"},
		CreatedAt:       now.Add(-2 * time.Hour),
		PublishedAt:     &publishedAt,
		UpdatedAt:       timePtr(now),
		Version:         3,
	}
}

func TestFeedVideoProjectionRepositoryIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn, terminate := startPostgres(ctx, t)
	defer terminate()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	applyMigrations(ctx, t, pool)

	repo := repositories.NewFeedVideoProjectionRepository(pool, stdLogger)

	videoID := uuid.New()
	ownerID := uuid.New()
	input := newProjectionInput(videoID, ownerID)

	require.NoError(t, repo.Upsert(ctx, nil, input))

	record, err := repo.Get(ctx, nil, videoID)
	require.NoError(t, err)
	require.Equal(t, ownerID, record.OwnerID)
	require.Equal(t, "Go concurrency patterns", record.Title)
	require.Equal(t, po.VideoStatusReady, record.Status)
	require.Equal(t, "public", record.Visibility)
	require.Equal(t, int64(10), record.LikesCount)
	require.Equal(t, []string{"tech"}, record.Categories)
	require.Equal(t, []string{"golang"}, record.Tags)
	require.Equal(t, int64(120_000_000), derefInt64(record.DurationMicros))
	require.Equal(t, int64(3), record.Version)

	input.Title = "Updated"
	input.LikesCount = 11
	input.Version = 4
	require.NoError(t, repo.Upsert(ctx, nil, input))

	record, err = repo.Get(ctx, nil, videoID)
	require.NoError(t, err)
	require.Equal(t, "Updated", record.Title)
	require.Equal(t, int64(11), record.LikesCount)
	require.Equal(t, int64(4), record.Version)

	// 乱序保护：低版本写入静默丢弃。
	stale := newProjectionInput(videoID, ownerID)
	stale.Title = "Stale"
	stale.Version = 2
	require.NoError(t, repo.Upsert(ctx, nil, stale))

	record, err = repo.Get(ctx, nil, videoID)
	require.NoError(t, err)
	require.Equal(t, "Updated", record.Title)
	require.Equal(t, int64(4), record.Version)

	require.NoError(t, repo.Delete(ctx, nil, videoID))

	_, err = repo.Get(ctx, nil, videoID)
	require.ErrorIs(t, err, repositories.ErrProjectionNotFound)
}

func TestFeedVideoProjectionCandidateQueries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn, terminate := startPostgres(ctx, t)
	defer terminate()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	applyMigrations(ctx, t, pool)

	repo := repositories.NewFeedVideoProjectionRepository(pool, stdLogger)

	ownerA := uuid.New()
	ownerB := uuid.New()
	blockedOwner := uuid.New()

	seed := func(owner uuid.UUID, mutate func(*repositories.UpsertVideoProjectionInput)) uuid.UUID {
		input := newProjectionInput(uuid.New(), owner)
		if mutate != nil {
			mutate(&input)
		}
		require.NoError(t, repo.Upsert(ctx, nil, input))
		return input.VideoID
	}

	hot := seed(ownerA, func(in *repositories.UpsertVideoProjectionInput) {
		in.Title = "hot"
		in.TrendingScore = 90
	})
	featured := seed(ownerA, func(in *repositories.UpsertVideoProjectionInput) {
		in.Title = "featured"
		in.TrendingScore = 5
		in.IsFeatured = true
	})
	cold := seed(ownerB, func(in *repositories.UpsertVideoProjectionInput) {
		in.Title = "cold"
		in.TrendingScore = 1
		in.Categories = []string{"music"}
	})
	seed(ownerB, func(in *repositories.UpsertVideoProjectionInput) {
		in.Title = "processing"
		in.Status = po.VideoStatusProcessing
	})
	privateVideo := seed(ownerA, func(in *repositories.UpsertVideoProjectionInput) {
		in.Title = "private"
		in.Visibility = "private"
	})
	seed(blockedOwner, func(in *repositories.UpsertVideoProjectionInput) {
		in.Title = "blocked-owner"
		in.TrendingScore = 99
	})

	// 候选查询只返回 public+ready，且置顶优先、热度降序。
	candidates, err := repo.ListPublicCandidates(ctx, nil, []uuid.UUID{blockedOwner}, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	require.Equal(t, featured, candidates[0].VideoID)
	require.Equal(t, hot, candidates[1].VideoID)
	require.Equal(t, cold, candidates[2].VideoID)

	count, err := repo.CountPublicCandidates(ctx, nil, []uuid.UUID{blockedOwner})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	withBlocked, err := repo.CountPublicCandidates(ctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(4), withBlocked)

	byOwners, err := repo.ListCandidatesByOwners(ctx, nil, []uuid.UUID{ownerB}, 10)
	require.NoError(t, err)
	require.Len(t, byOwners, 1)
	require.Equal(t, cold, byOwners[0].VideoID)

	ownersCount, err := repo.CountCandidatesByOwners(ctx, nil, []uuid.UUID{ownerA, ownerB})
	require.NoError(t, err)
	require.Equal(t, int64(3), ownersCount)

	byCategory, err := repo.ListCandidatesByCategory(ctx, nil, "music", 10)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, cold, byCategory[0].VideoID)

	categoryCount, err := repo.CountCandidatesByCategory(ctx, nil, "music")
	require.NoError(t, err)
	require.Equal(t, int64(1), categoryCount)

	// 作者主页：本人可见全部，访客只看 public+ready。
	own, err := repo.ListVideosByOwner(ctx, nil, ownerA, true, 10)
	require.NoError(t, err)
	require.Len(t, own, 3)

	visible, err := repo.ListVideosByOwner(ctx, nil, ownerA, false, 10)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	for _, item := range visible {
		require.NotEqual(t, privateVideo, item.VideoID)
	}

	ownCount, err := repo.CountVideosByOwner(ctx, nil, ownerA, true)
	require.NoError(t, err)
	require.Equal(t, int64(3), ownCount)

	visibleCount, err := repo.CountVideosByOwner(ctx, nil, ownerA, false)
	require.NoError(t, err)
	require.Equal(t, int64(2), visibleCount)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
