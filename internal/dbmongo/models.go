package dbmongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
)

type Media struct {
	URL  string           `bson:"url" json:"url"`
	Type common.MediaType `bson:"type" json:"type"`
}

// Tweet is the stored document. ParentID is nil only for originals.
type Tweet struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Type       common.TweetKind     `bson:"type" json:"type"`
	Audience   common.Audience      `bson:"audience" json:"audience"`
	Content    string               `bson:"content" json:"content"`
	ParentID   *primitive.ObjectID  `bson:"parent_id" json:"parent_id"`
	Hashtags   []primitive.ObjectID `bson:"hashtags" json:"hashtags"`
	Mentions   []primitive.ObjectID `bson:"mentions" json:"mentions"`
	Medias     []Media              `bson:"medias" json:"medias"`
	GuestViews int64                `bson:"guest_views" json:"guest_views"`
	UserViews  int64                `bson:"user_views" json:"user_views"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}

// User holds only the fields the feed reads; the auth service owns the rest of the document.
// RestrictedCircle holds at most 150 ids.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name             string               `bson:"name" json:"name"`
	Username         string               `bson:"username" json:"username"`
	Email            string               `bson:"email" json:"email"`
	Verify           common.VerifyStatus  `bson:"verify" json:"verify"`
	RestrictedCircle []primitive.ObjectID `bson:"twitter_circle" json:"-"`
}

// Follower is a follow edge: UserID follows FollowedUserID.
type Follower struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	FollowedUserID primitive.ObjectID `bson:"followed_user_id" json:"followed_user_id"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

type Bookmark struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	TweetID   primitive.ObjectID `bson:"tweet_id" json:"tweet_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Hashtag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Mention is the public projection of a mentioned user.
type Mention struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
}

// TweetView is a tweet as returned by feed queries: hashtags and mentions
// hydrated, engagement counters attached after the fetch.
type TweetView struct {
	ID         primitive.ObjectID  `bson:"_id" json:"_id"`
	UserID     primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Type       common.TweetKind    `bson:"type" json:"type"`
	Audience   common.Audience     `bson:"audience" json:"audience"`
	Content    string              `bson:"content" json:"content"`
	ParentID   *primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	Hashtags   []Hashtag           `bson:"hashtags" json:"hashtags"`
	Mentions   []Mention           `bson:"mentions" json:"mentions"`
	Medias     []Media             `bson:"medias" json:"medias"`
	GuestViews int64               `bson:"guest_views" json:"guest_views"`
	UserViews  int64               `bson:"user_views" json:"user_views"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`

	Bookmarks    int64 `bson:"-" json:"bookmarks"`
	RetweetCount int64 `bson:"-" json:"retweet_count"`
	CommentCount int64 `bson:"-" json:"comment_count"`
	QuoteCount   int64 `bson:"-" json:"quote_count"`
}
