package wire

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"gotweet/internal/common"
	"gotweet/internal/config"
	"gotweet/internal/dbmongo"
	"gotweet/internal/feed"
)

// Application is everything the serve command needs.
type Application struct {
	Config   *config.Config
	Logger   *log.Logger
	Mongo    *dbmongo.MongoClient
	Registry *prometheus.Registry
	Auth     *common.Authenticator
	Handlers *feed.FeedHandlers
}

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	return common.NewLogger(cfg.Logging)
}

// ProvideMongo connects and returns a cleanup that disconnects.
func ProvideMongo(cfg *config.Config, logger *log.Logger) (*dbmongo.MongoClient, func(), error) {
	mc, err := dbmongo.NewMongoConnection(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Close(ctx); err != nil {
			logger.WithError(err).Warn("mongodb disconnect failed")
		}
	}
	return mc, cleanup, nil
}

// ProvideRegistry builds a private registry with the runtime collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideTokenVerifier(cfg *config.Config) (*common.TokenVerifier, error) {
	return common.NewTokenVerifier(cfg.Auth.JWTSecret)
}
