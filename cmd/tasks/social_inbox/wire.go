//go:build wireinject
// +build wireinject

// Package main 为 social inbox 任务提供 Wire 依赖注入定义。
package main

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/cachex"
	configloader "github.com/bionicotaku/lingo-services-feed/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-feed/internal/infrastructure/redisx"
	"github.com/bionicotaku/lingo-services-feed/internal/repositories"
	"github.com/bionicotaku/lingo-services-feed/internal/services"
	socialinbox "github.com/bionicotaku/lingo-services-feed/internal/tasks/social_inbox"

	"github.com/bionicotaku/lingo-utils/gclog"
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	"github.com/bionicotaku/lingo-utils/pgxpoolx"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

func wireSocialInboxTask(context.Context, configloader.Params) (*socialInboxApp, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		configloader.ProvideSocialPubSubConfig,
		configloader.ProvideSocialOutboxConfig,
		gclog.ProviderSet,
		obswire.ProviderSet,
		pgxpoolx.ProviderSet,
		txmanager.ProviderSet,
		gcpubsub.ProviderSet,
		redisx.ProviderSet,
		cachex.ProviderSet,
		repositories.ProviderSet,
		wire.Bind(new(services.FeedCandidatesRepo), new(*repositories.FeedVideoProjectionRepository)),
		wire.Bind(new(services.FollowGraphRepo), new(*repositories.FollowGraphRepository)),
		wire.Bind(new(services.SeenItemsStore), new(*repositories.SeenItemsRepository)),
		wire.Bind(new(services.FeedCache), new(*cachex.Cache)),
		wire.Bind(new(services.OutboxEnqueuer), new(*repositories.OutboxRepository)),
		wire.Bind(new(services.SponsorProvider), new(*services.NoopSponsorProvider)),
		wire.Bind(new(services.PageRebuilder), new(*services.FeedService)),
		wire.Bind(new(services.PregenerationServiceInterface), new(*services.PregenerationService)),
		services.ProviderSet,
		socialinbox.ProvideTask,
		newSocialInboxApp,
	))
}

func newSocialInboxApp(_ *obswire.Component, logger log.Logger, task *socialinbox.Task) (*socialInboxApp, error) {
	if task == nil {
		return &socialInboxApp{Logger: logger}, nil
	}
	if logger == nil {
		return nil, fmt.Errorf("logger not initialized")
	}
	return &socialInboxApp{
		Task:   task,
		Logger: logger,
	}, nil
}
