package mocks

//go:generate go run github.com/golang/mock/mockgen -destination=mock_feed_candidates_repo.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services FeedCandidatesRepo
//go:generate go run github.com/golang/mock/mockgen -destination=mock_follow_graph_repo.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services FollowGraphRepo
//go:generate go run github.com/golang/mock/mockgen -destination=mock_seen_items_store.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services SeenItemsStore
//go:generate go run github.com/golang/mock/mockgen -destination=mock_feed_cache.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services FeedCache
//go:generate go run github.com/golang/mock/mockgen -destination=mock_outbox_enqueuer.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services OutboxEnqueuer
//go:generate go run github.com/golang/mock/mockgen -destination=mock_sponsor_provider.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services SponsorProvider
//go:generate go run github.com/golang/mock/mockgen -destination=mock_page_rebuilder.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services PageRebuilder
//go:generate go run github.com/golang/mock/mockgen -destination=mock_pregeneration_service.go -package=mocks github.com/bionicotaku/lingo-services-feed/internal/services PregenerationServiceInterface
