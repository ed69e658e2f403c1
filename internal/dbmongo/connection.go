// Package dbmongo owns the MongoDB connection, the document models and the collection indexes.
package dbmongo

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotweet/internal/config"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
	names    config.CollectionsConfig
}

// NewMongoConnection connects and pings, retrying with exponential backoff.
func NewMongoConnection(c *config.Config, logger log.FieldLogger) (*MongoClient, error) {
	uri := c.GetMongoURI()
	attemptTimeout := time.Duration(c.MongoDB.ConnectTimeout) * time.Second
	if attemptTimeout <= 0 {
		attemptTimeout = 10 * time.Second
	}

	var client *mongo.Client
	connect := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), attemptTimeout)
		defer cancel()

		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			// a bad URI will not fix itself
			return backoff.Permanent(fmt.Errorf("failed to connect MongoDB: %w", err))
		}
		if err := cl.Ping(ctx, nil); err != nil {
			_ = cl.Disconnect(context.Background())
			return fmt.Errorf("failed to ping mongodb: %w", err)
		}
		client = cl
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second
	retries := c.MongoDB.ConnectRetries
	if retries < 0 {
		retries = 0
	}

	notify := func(err error, next time.Duration) {
		logger.WithError(err).WithField("retry_in", next).Warn("mongodb not reachable yet")
	}
	if err := backoff.RetryNotify(connect, backoff.WithMaxRetries(policy, uint64(retries)), notify); err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"host":     c.MongoDB.Host,
		"database": c.MongoDB.Database,
	}).Info("connected to mongodb")

	return NewMongoClient(client, client.Database(c.MongoDB.Database), c.Collections), nil
}

// NewMongoClient wraps an existing client, e.g. one handed out by a test harness.
func NewMongoClient(client *mongo.Client, database *mongo.Database, names config.CollectionsConfig) *MongoClient {
	return &MongoClient{Client: client, Database: database, names: names}
}

func (mc *MongoClient) Tweets() *mongo.Collection    { return mc.Database.Collection(mc.names.Tweets) }
func (mc *MongoClient) Users() *mongo.Collection     { return mc.Database.Collection(mc.names.Users) }
func (mc *MongoClient) Followers() *mongo.Collection { return mc.Database.Collection(mc.names.Followers) }
func (mc *MongoClient) Bookmarks() *mongo.Collection { return mc.Database.Collection(mc.names.Bookmarks) }
func (mc *MongoClient) Hashtags() *mongo.Collection  { return mc.Database.Collection(mc.names.Hashtags) }

// Names returns the configured collection names.
func (mc *MongoClient) Names() config.CollectionsConfig { return mc.names }

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
