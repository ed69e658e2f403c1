package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gotweet/internal/common"
	"gotweet/internal/dbmongo"
)

type FeedRepository struct {
	mc *dbmongo.MongoClient
}

func NewFeedRepository(mc *dbmongo.MongoClient) *FeedRepository {
	return &FeedRepository{mc: mc}
}

// --------- TWEETS ---------
type Tweets interface {
	AggregateTweets(ctx context.Context, p Pipeline) ([]dbmongo.TweetView, error)
	CountTweets(ctx context.Context, p Pipeline) (int64, error)
	TweetByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Tweet, error)
	InsertTweet(ctx context.Context, tweet *dbmongo.Tweet) error
	// IncrementViews adds one to field on every id and stamps updated_at, in one update.
	IncrementViews(ctx context.Context, ids []primitive.ObjectID, field ViewField, at time.Time) error
}

func (r *FeedRepository) AggregateTweets(ctx context.Context, p Pipeline) ([]dbmongo.TweetView, error) {
	stages, err := r.compile(p)
	if err != nil {
		return nil, err
	}
	cur, err := r.mc.Tweets().Aggregate(ctx, stages)
	if err != nil {
		return nil, err
	}
	views := []dbmongo.TweetView{}
	if err := cur.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *FeedRepository) CountTweets(ctx context.Context, p Pipeline) (int64, error) {
	if len(p) == 1 && p.IsMatchOnly() {
		return r.mc.Tweets().CountDocuments(ctx, matchFilter(*p[0].Match))
	}

	stages, err := r.compile(p)
	if err != nil {
		return 0, err
	}
	stages = append(stages, bson.D{{Key: "$count", Value: "total"}})
	cur, err := r.mc.Tweets().Aggregate(ctx, stages)
	if err != nil {
		return 0, err
	}
	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (r *FeedRepository) TweetByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Tweet, error) {
	var tweet dbmongo.Tweet
	err := r.mc.Tweets().FindOne(ctx, bson.M{"_id": id}).Decode(&tweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NotFound("tweet not found")
	}
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *FeedRepository) InsertTweet(ctx context.Context, tweet *dbmongo.Tweet) error {
	if tweet.ID.IsZero() {
		tweet.ID = primitive.NewObjectID()
	}
	_, err := r.mc.Tweets().InsertOne(ctx, tweet)
	return err
}

func (r *FeedRepository) IncrementViews(ctx context.Context, ids []primitive.ObjectID, field ViewField, at time.Time) error {
	_, err := r.mc.Tweets().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{
			"$inc": bson.M{string(field): 1},
			"$set": bson.M{"updated_at": at},
		},
	)
	return err
}

// --------- USERS & FOLLOWS ---------
type Users interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.User, error)
}

type Follows interface {
	// FollowedIDs lists the users userID follows.
	FollowedIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

func (r *FeedRepository) UserByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.User, error) {
	var user dbmongo.User
	opts := options.FindOne().SetProjection(bson.M{
		"name": 1, "username": 1, "email": 1, "verify": 1, "twitter_circle": 1,
	})
	err := r.mc.Users().FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *FeedRepository) FollowedIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"followed_user_id": 1, "_id": 0})
	cur, err := r.mc.Followers().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	var edges []dbmongo.Follower
	if err := cur.All(ctx, &edges); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.FollowedUserID)
	}
	return ids, nil
}

// --------- ENGAGEMENT ---------
type Engagements interface {
	BookmarkCounts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	ChildCounts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]ChildCounts, error)
}

func (r *FeedRepository) BookmarkCounts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	cur, err := r.mc.Bookmarks().Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tweet_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tweet_id"},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		TweetID primitive.ObjectID `bson:"_id"`
		Count   int64              `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[primitive.ObjectID]int64, len(rows))
	for _, row := range rows {
		counts[row.TweetID] = row.Count
	}
	return counts, nil
}

func (r *FeedRepository) ChildCounts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]ChildCounts, error) {
	cur, err := r.mc.Tweets().Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"parent_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "parent_id", Value: "$parent_id"}, {Key: "type", Value: "$type"}}},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Key struct {
			ParentID primitive.ObjectID `bson:"parent_id"`
			Type     common.TweetKind   `bson:"type"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[primitive.ObjectID]ChildCounts, len(rows))
	for _, row := range rows {
		c := counts[row.Key.ParentID]
		switch row.Key.Type {
		case common.TweetKindRetweet:
			c.Retweets += row.Count
		case common.TweetKindComment:
			c.Comments += row.Count
		case common.TweetKindQuoteTweet:
			c.Quotes += row.Count
		}
		counts[row.Key.ParentID] = c
	}
	return counts, nil
}

// --------- HASHTAGS ---------
type Hashtags interface {
	// FindOrCreateHashtag must be atomic: concurrent calls with one name yield one document.
	FindOrCreateHashtag(ctx context.Context, name string, at time.Time) (primitive.ObjectID, error)
}

func (r *FeedRepository) FindOrCreateHashtag(ctx context.Context, name string, at time.Time) (primitive.ObjectID, error) {
	filter := bson.M{"name": name}
	update := bson.M{"$setOnInsert": bson.M{"name": name, "created_at": at}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var tag dbmongo.Hashtag
	err := r.mc.Hashtags().FindOneAndUpdate(ctx, filter, update, opts).Decode(&tag)
	if mongo.IsDuplicateKeyError(err) {
		// two upserts raced on the unique index; the winner's document is there now
		err = r.mc.Hashtags().FindOne(ctx, filter).Decode(&tag)
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("find or create hashtag: %w", err)
	}
	return tag.ID, nil
}

// --------- BOOKMARKS ---------
type Bookmarks interface {
	UpsertBookmark(ctx context.Context, userID, tweetID primitive.ObjectID, at time.Time) (*dbmongo.Bookmark, error)
	DeleteBookmark(ctx context.Context, userID, tweetID primitive.ObjectID) error
}

func (r *FeedRepository) UpsertBookmark(ctx context.Context, userID, tweetID primitive.ObjectID, at time.Time) (*dbmongo.Bookmark, error) {
	filter := bson.M{"user_id": userID, "tweet_id": tweetID}
	update := bson.M{"$setOnInsert": bson.M{"user_id": userID, "tweet_id": tweetID, "created_at": at}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var mark dbmongo.Bookmark
	err := r.mc.Bookmarks().FindOneAndUpdate(ctx, filter, update, opts).Decode(&mark)
	if mongo.IsDuplicateKeyError(err) {
		err = r.mc.Bookmarks().FindOne(ctx, filter).Decode(&mark)
	}
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

func (r *FeedRepository) DeleteBookmark(ctx context.Context, userID, tweetID primitive.ObjectID) error {
	_, err := r.mc.Bookmarks().DeleteOne(ctx, bson.M{"user_id": userID, "tweet_id": tweetID})
	return err
}
