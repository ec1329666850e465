package services

import (
	"context"

	"github.com/bionicotaku/lingo-services-feed/internal/models/vo"

	"github.com/google/uuid"
)

// SponsorRequest 描述一次赞助位填充请求。
type SponsorRequest struct {
	ViewerID *uuid.UUID
	FeedType FeedType
	Limit    int32
}

// SponsorProvider 返回可插入 Feed 的赞助内容。
// 提供方失败时组装器按无填充降级，不影响主结果。
type SponsorProvider interface {
	Fillers(ctx context.Context, req SponsorRequest) ([]vo.FeedItem, error)
}

// NoopSponsorProvider 是默认实现，不返回任何赞助内容。
// 接入真实广告服务时通过 Wire 替换。
type NoopSponsorProvider struct{}

// NewNoopSponsorProvider 构造空实现。
func NewNoopSponsorProvider() *NoopSponsorProvider {
	return &NoopSponsorProvider{}
}

// Fillers 恒返回空集合。
func (p *NoopSponsorProvider) Fillers(_ context.Context, _ SponsorRequest) ([]vo.FeedItem, error) {
	return nil, nil
}

var _ SponsorProvider = (*NoopSponsorProvider)(nil)
