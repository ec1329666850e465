package services_test

import (
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestScoringEngine_EngagementScore_Weights(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()

	score := engine.EngagementScore(services.EngagementCounters{
		Likes:    10,
		Comments: 5,
		Views:    100,
		Plays:    50,
		Shares:   2,
	})
	require.InDelta(t, 10*1.2+5*1.8+100*0.3+50*0.6+2*2.0, score, 1e-9)
}

func TestScoringEngine_EngagementScore_NegativeCountersClamped(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()

	score := engine.EngagementScore(services.EngagementCounters{
		Likes:    -5,
		Comments: -1,
		Views:    10,
	})
	require.InDelta(t, 10*0.3, score, 1e-9)
}

func TestScoringEngine_RecencyFactor_Anchors(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"fresh", time.Hour, 1.0},
		{"fresh boundary", 2 * time.Hour, 1.0},
		{"one day", 24 * time.Hour, 0.8},
		{"one week", 168 * time.Hour, 0.5},
		{"two weeks", 336 * time.Hour, 0.3},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := engine.RecencyFactor(now.Add(-tc.age), now)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestScoringEngine_RecencyFactor_FutureCreatedAt(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Now().UTC()
	require.InDelta(t, 1.0, engine.RecencyFactor(now.Add(time.Hour), now), 1e-9)
}

func TestScoringEngine_RecencyFactor_MonotoneAndBounded(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	prev := 1.1
	for age := time.Duration(0); age <= 60*24*time.Hour; age += 30 * time.Minute {
		got := engine.RecencyFactor(now.Add(-age), now)
		require.LessOrEqual(t, got, prev, "factor must not increase at age %v", age)
		require.Greater(t, got, 0.1, "factor must stay above the floor at age %v", age)
		prev = got
	}
}

func TestScoringEngine_RecencyFactor_ContinuousAtTail(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	before := engine.RecencyFactor(now.Add(-336*time.Hour+time.Second), now)
	after := engine.RecencyFactor(now.Add(-336*time.Hour-time.Second), now)
	require.InDelta(t, before, after, 1e-3)
}

func TestScoringEngine_RecencyFactor_HourBucketReuse(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 同一创建小时内的两个时间点共享同一个衰减系数。
	a := engine.RecencyFactor(now.Add(-10*time.Hour-10*time.Minute), now)
	b := engine.RecencyFactor(now.Add(-10*time.Hour-40*time.Minute), now)
	require.Equal(t, a, b)

	// now 跨入下一小时后重算，系数继续衰减而不是停留在旧值。
	later := engine.RecencyFactor(now.Add(-10*time.Hour-10*time.Minute), now.Add(time.Hour))
	require.Less(t, later, a)
}

func TestScoringEngine_TrendingScore_ZeroEngagementOrdersByFreshness(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Now().UTC()

	fresh := engine.TrendingScore(0, now.Add(-3*time.Hour), now)
	stale := engine.TrendingScore(0, now.Add(-30*24*time.Hour), now)
	require.Greater(t, fresh, stale, "newer zero-engagement content must rank higher")
	require.Greater(t, stale, 0.0)
}

func TestScoringEngine_RankScore_JitterDeterministicAndBounded(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Now().UTC()
	videoID := uuid.New()
	viewer := uuid.New().String()
	const trending = 42.0
	const diversity = 0.1

	first := engine.RankScore(trending, viewer, videoID, now, diversity)
	second := engine.RankScore(trending, viewer, videoID, now, diversity)
	require.Equal(t, first, second, "same (viewer, hour, video) must produce identical jitter")

	require.GreaterOrEqual(t, first, trending*(1-diversity))
	require.LessOrEqual(t, first, trending*(1+diversity))
}

func TestScoringEngine_RankScore_ZeroDiversityIsIdentity(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	require.Equal(t, 7.5, engine.RankScore(7.5, "guest", uuid.New(), time.Now(), 0))
}

func TestScoringEngine_RankScore_VariesAcrossViewers(t *testing.T) {
	t.Parallel()

	engine := services.NewScoringEngine()
	now := time.Now().UTC()
	videoID := uuid.New()

	a := engine.RankScore(10, uuid.New().String(), videoID, now, 0.1)
	b := engine.RankScore(10, uuid.New().String(), videoID, now, 0.1)
	require.NotEqual(t, a, b)
}

func TestClampDiversity(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, services.ClampDiversity(-1))
	require.Equal(t, 0.0, services.ClampDiversity(0))
	require.Equal(t, services.DiversityMin, services.ClampDiversity(0.001))
	require.Equal(t, 0.05, services.ClampDiversity(0.05))
	require.Equal(t, services.DiversityMax, services.ClampDiversity(0.5))
}
