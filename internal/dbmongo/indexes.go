package dbmongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSet is the set of indexes one collection needs.
type IndexSet struct {
	Collection *mongo.Collection
	Models     []mongo.IndexModel
}

// FeedIndexes lists what the feed queries rely on. The text index backs $text search,
// and the unique hashtag name backs the find-or-create upsert.
func FeedIndexes(mc *MongoClient) []IndexSet {
	return []IndexSet{
		{
			Collection: mc.Tweets(),
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "content", Value: "text"}}, Options: options.Index().SetName("content_text")},
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("user_id_created_at")},
				{Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "type", Value: 1}}, Options: options.Index().SetName("parent_id_type")},
			},
		},
		{
			Collection: mc.Hashtags(),
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName("name_unique").SetUnique(true)},
			},
		},
		{
			Collection: mc.Bookmarks(),
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "tweet_id", Value: 1}}, Options: options.Index().SetName("user_id_tweet_id_unique").SetUnique(true)},
				{Keys: bson.D{{Key: "tweet_id", Value: 1}}, Options: options.Index().SetName("tweet_id")},
			},
		},
		{
			Collection: mc.Followers(),
			Models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "followed_user_id", Value: 1}}, Options: options.Index().SetName("user_id_followed_user_id_unique").SetUnique(true)},
			},
		},
	}
}

// EnsureIndexes creates any missing index. createIndexes is a no-op for existing identical indexes.
func EnsureIndexes(ctx context.Context, sets []IndexSet) ([]string, error) {
	var created []string
	for _, set := range sets {
		names, err := set.Collection.Indexes().CreateMany(ctx, set.Models)
		if err != nil {
			return created, fmt.Errorf("failed to create indexes on %s: %w", set.Collection.Name(), err)
		}
		for _, n := range names {
			created = append(created, set.Collection.Name()+"."+n)
		}
	}
	return created, nil
}
