// Package services 包含 Feed 业务用例的编排逻辑。
// 该层负责打分、组装、失效与预生成等核心规则，不直接依赖传输层或基础设施细节。
package services

import "github.com/google/wire"

// ProviderSet 暴露 Services 层的构造函数供 Wire 依赖注入使用。
// 仓储与缓存接口的绑定在各 cmd 的 wire.go 中声明。
var ProviderSet = wire.NewSet(
	NewScoringEngine,
	NewNoopSponsorProvider,
	NewFeedService,
	NewInvalidationService,
	NewPregenerationService,
)
