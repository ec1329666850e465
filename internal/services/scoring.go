package services

import (
	"hash/fnv"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EngagementWeights 定义互动计数的加权系数。
type EngagementWeights struct {
	Likes    float64
	Comments float64
	Views    float64
	Plays    float64
	Shares   float64
}

// DefaultEngagementWeights 返回线上使用的权重：
// 评论与分享的成本最高，权重也最高；浏览最廉价，权重最低。
func DefaultEngagementWeights() EngagementWeights {
	return EngagementWeights{
		Likes:    1.2,
		Comments: 1.8,
		Views:    0.3,
		Plays:    0.6,
		Shares:   2.0,
	}
}

// EngagementCounters 汇总单个视频的互动计数，负值按 0 处理。
type EngagementCounters struct {
	Likes    int64
	Comments int64
	Views    int64
	Plays    int64
	Shares   int64
}

// 衰减曲线锚点（小时）与对应系数。锚点之间线性插值，
// 两周之后按指数尾部渐近逼近 0.1，全程连续且单调不增。
const (
	decayFreshHours = 2.0
	decayDayHours   = 24.0
	decayWeekHours  = 168.0
	decayTwoWeeks   = 336.0

	decayFreshFactor = 1.0
	decayDayFactor   = 0.8
	decayWeekFactor  = 0.5
	decayTwoWkFactor = 0.3
	decayFloor       = 0.1
)

// trendingEpsilon 保证零互动内容仍按新旧排序：
// 热度取 max(engagement, ε)·recency，ε>0 使衰减差异不被乘零抹平。
const trendingEpsilon = 1e-3

// 多样性抖动幅度的采样区间。
const (
	DiversityMin = 0.01
	DiversityMax = 0.10
)

// ScoringEngine 计算互动得分、时间衰减热度与带抖动的最终排序分。
// 衰减系数按小时桶记忆化，其余无内部状态，所有方法可并发调用。
type ScoringEngine struct {
	weights EngagementWeights
	recency sync.Map // createdAt 小时桶 Unix 秒 → recencyEntry
}

// recencyEntry 记录某个 createdAt 小时桶在某个 now 小时桶内的衰减系数。
// now 跨入下一小时后条目失效并重算，等价于约 1 小时的 TTL。
type recencyEntry struct {
	nowBucket int64
	factor    float64
}

// NewScoringEngine 使用默认权重构造评分引擎。
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{weights: DefaultEngagementWeights()}
}

// NewScoringEngineWithWeights 使用自定义权重构造评分引擎。
func NewScoringEngineWithWeights(weights EngagementWeights) *ScoringEngine {
	return &ScoringEngine{weights: weights}
}

// EngagementScore 返回加权互动得分。所有计数先截断到非负。
func (e *ScoringEngine) EngagementScore(c EngagementCounters) float64 {
	return e.weights.Likes*nonNegative(c.Likes) +
		e.weights.Comments*nonNegative(c.Comments) +
		e.weights.Views*nonNegative(c.Views) +
		e.weights.Plays*nonNegative(c.Plays) +
		e.weights.Shares*nonNegative(c.Shares)
}

// RecencyFactor 返回基于内容年龄的衰减系数，范围 (decayFloor, 1.0]。
// createdAt 在 now 之后时按零年龄处理。
// createdAt 对齐到小时后记忆化：同一 (创建小时, 当前小时) 只算一次。
func (e *ScoringEngine) RecencyFactor(createdAt, now time.Time) float64 {
	createdHour := createdAt.Truncate(time.Hour)
	key := createdHour.Unix()
	nowBucket := now.Unix() / 3600
	if v, ok := e.recency.Load(key); ok {
		if entry := v.(recencyEntry); entry.nowBucket == nowBucket {
			return entry.factor
		}
	}
	factor := e.decayAt(now.Sub(createdHour).Hours())
	e.recency.Store(key, recencyEntry{nowBucket: nowBucket, factor: factor})
	return factor
}

func (e *ScoringEngine) decayAt(ageHours float64) float64 {
	if ageHours <= decayFreshHours {
		return decayFreshFactor
	}
	switch {
	case ageHours <= decayDayHours:
		return interpolate(ageHours, decayFreshHours, decayDayHours, decayFreshFactor, decayDayFactor)
	case ageHours <= decayWeekHours:
		return interpolate(ageHours, decayDayHours, decayWeekHours, decayDayFactor, decayWeekFactor)
	case ageHours <= decayTwoWeeks:
		return interpolate(ageHours, decayWeekHours, decayTwoWeeks, decayWeekFactor, decayTwoWkFactor)
	default:
		tail := math.Exp(-(ageHours - decayTwoWeeks) / decayTwoWeeks)
		return decayFloor + (decayTwoWkFactor-decayFloor)*tail
	}
}

// TrendingScore 返回时间衰减后的热度得分。
func (e *ScoringEngine) TrendingScore(engagement float64, createdAt, now time.Time) float64 {
	if engagement < trendingEpsilon {
		engagement = trendingEpsilon
	}
	return engagement * e.RecencyFactor(createdAt, now)
}

// Score 从原始计数一步计算 (engagement, trending)。
func (e *ScoringEngine) Score(c EngagementCounters, createdAt, now time.Time) (float64, float64) {
	engagement := e.EngagementScore(c)
	return engagement, e.TrendingScore(engagement, createdAt, now)
}

// RankScore 在热度得分上叠加确定性多样性抖动。
// 同一 (viewer, 小时桶, video) 的抖动因子可复现，跨小时桶自然轮换；
// diversity 为抖动幅度 d，因子落在 [1-d, 1+d]。
func (e *ScoringEngine) RankScore(trending float64, viewerKey string, videoID uuid.UUID, now time.Time, diversity float64) float64 {
	if diversity <= 0 {
		return trending
	}
	bucket := now.Unix() / 3600
	return trending * jitterFactor(viewerKey, videoID, bucket, diversity)
}

func jitterFactor(viewerKey string, videoID uuid.UUID, bucket int64, d float64) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(viewerKey))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(strconv.FormatInt(bucket, 10)))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(videoID.String()))
	u := float64(h.Sum64()) / float64(math.MaxUint64)
	return 1 + d*(2*u-1)
}

// ClampDiversity 将抖动幅度收敛到合法区间；非正值返回 0（关闭抖动）。
func ClampDiversity(d float64) float64 {
	if d <= 0 {
		return 0
	}
	if d < DiversityMin {
		return DiversityMin
	}
	if d > DiversityMax {
		return DiversityMax
	}
	return d
}

func interpolate(x, x0, x1, y0, y1 float64) float64 {
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

func nonNegative(v int64) float64 {
	if v < 0 {
		return 0
	}
	return float64(v)
}
