// Package mappers 负责 sqlc 模型与领域 PO 对象之间的转换。
package mappers

import (
	"time"

	"github.com/bionicotaku/lingo-services-feed/internal/models/po"
	feeddb "github.com/bionicotaku/lingo-services-feed/internal/repositories/feeddb"

	"github.com/jackc/pgx/v5/pgtype"
)

// FeedVideoProjectionFromRow 将 sqlc 投影行转换为领域对象。
func FeedVideoProjectionFromRow(row feeddb.FeedVideosProjection) *po.FeedVideoProjection {
	return &po.FeedVideoProjection{
		VideoID:         row.VideoID,
		OwnerID:         row.OwnerID,
		Title:           row.Title,
		ThumbnailURL:    textPtr(row.ThumbnailUrl),
		DurationMicros:  int8Ptr(row.DurationMicros),
		Status:          po.VideoStatus(row.Status),
		Visibility:      row.Visibility,
		LikesCount:      row.LikesCount,
		CommentsCount:   row.CommentsCount,
		ViewsCount:      row.ViewsCount,
		PlaysCount:      row.PlaysCount,
		SharesCount:     row.SharesCount,
		EngagementScore: row.EngagementScore,
		TrendingScore:   row.TrendingScore,
		Categories:      row.Categories,
		Tags:            row.Tags,
		IsFeatured:      row.IsFeatured,
		CreatedAt:       mustTimestamp(row.CreatedAt),
		PublishedAt:     timestampPtr(row.PublishedAt),
		UpdatedAt:       mustTimestamp(row.UpdatedAt),
		Version:         row.Version,
	}
}

// FollowEdgeFromRow 转换关注边。
func FollowEdgeFromRow(row feeddb.FeedFollowEdge) *po.FollowEdge {
	return &po.FollowEdge{
		FollowerID: row.FollowerID,
		FollowedID: row.FollowedID,
		State:      po.FollowState(row.State),
		OccurredAt: mustTimestamp(row.OccurredAt),
		UpdatedAt:  mustTimestamp(row.UpdatedAt),
	}
}

// ToPgTimestamptz 将 time.Time 转换为 pgtype.Timestamptz。
func ToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

// ToPgTimestamptzPtr 将 *time.Time 转换为 pgtype.Timestamptz。
func ToPgTimestamptzPtr(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

// ToPgInt8 将 *int64 转换为 pgtype.Int8。
func ToPgInt8(value *int64) pgtype.Int8 {
	if value == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *value, Valid: true}
}

// ToPgText 将 *string 转换为 pgtype.Text。
func ToPgText(value *string) pgtype.Text {
	if value == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *value, Valid: true}
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func mustTimestamp(value pgtype.Timestamptz) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	return value.Time.UTC()
}

func timestampPtr(value pgtype.Timestamptz) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}

func int8Ptr(value pgtype.Int8) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}
