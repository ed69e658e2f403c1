//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"gotweet/internal/common"
	"gotweet/internal/config"
	"gotweet/internal/dbmongo"
	"gotweet/internal/feed"
	"gotweet/internal/observability"
)

var repositorySet = wire.NewSet(
	feed.NewFeedRepository,
	wire.Bind(new(feed.Tweets), new(*feed.FeedRepository)),
	wire.Bind(new(feed.Users), new(*feed.FeedRepository)),
	wire.Bind(new(feed.Follows), new(*feed.FeedRepository)),
	wire.Bind(new(feed.Engagements), new(*feed.FeedRepository)),
	wire.Bind(new(feed.Hashtags), new(*feed.FeedRepository)),
	wire.Bind(new(feed.Bookmarks), new(*feed.FeedRepository)),
)

func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		ProvideLogger,
		wire.Bind(new(log.FieldLogger), new(*log.Logger)),
		ProvideMongo,
		ProvideRegistry,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		observability.NewFeedMetrics,
		ProvideTokenVerifier,
		common.NewAuthenticator,
		repositorySet,
		feed.NewFeedService,
		wire.Bind(new(feed.FeedUsecase), new(*feed.FeedService)),
		feed.NewFeedHandlers,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

// InitializeMongo is the storage-only graph used by maintenance commands.
func InitializeMongo(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	wire.Build(ProvideLogger, ProvideMongo)
	return nil, nil, nil
}
