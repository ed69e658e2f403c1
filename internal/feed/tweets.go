package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
	"gotweet/internal/dbmongo"
)

// NewTweet is a validated create request.
type NewTweet struct {
	Type     common.TweetKind
	Audience common.Audience
	Content  string
	ParentID *primitive.ObjectID
	Hashtags []string
	Mentions []primitive.ObjectID
	Medias   []dbmongo.Media
}

func (in NewTweet) validate() error {
	if !in.Type.IsValid() {
		return common.InvalidArgument("type is not a valid tweet type")
	}
	if !in.Audience.IsValid() {
		return common.InvalidArgument("audience is not a valid audience")
	}
	for _, m := range in.Medias {
		if !m.Type.IsValid() {
			return common.InvalidArgument("medias contains an unknown media type")
		}
		if strings.TrimSpace(m.URL) == "" {
			return common.InvalidArgument("medias url is required")
		}
	}

	if in.Type.IsChild() && in.ParentID == nil {
		return common.InvalidArgument("parent_id is required for retweets, comments and quote tweets")
	}
	if !in.Type.IsChild() && in.ParentID != nil {
		return common.InvalidArgument("parent_id must be null for an original tweet")
	}

	content := strings.TrimSpace(in.Content)
	if in.Type == common.TweetKindRetweet {
		if content != "" || len(in.Hashtags) > 0 || len(in.Mentions) > 0 || len(in.Medias) > 0 {
			return common.InvalidArgument("a retweet carries no content, hashtags, mentions or medias")
		}
		return nil
	}
	if content == "" && len(in.Hashtags) == 0 && len(in.Mentions) == 0 {
		return common.InvalidArgument("content is required")
	}
	return nil
}

// CreateTweet stores a new tweet by viewer, creating any hashtags it names.
func (s *FeedService) CreateTweet(ctx context.Context, viewer Viewer, in NewTweet) (tweet *dbmongo.Tweet, err error) {
	ctx, done := s.instrument(ctx, modeCreateTweet, PageQuery{})
	defer func() { done(0, err) }()

	if viewer.IsAnonymous() {
		return nil, common.Unauthorized("access token is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.tweets.TweetByID(ctx, *in.ParentID); err != nil {
			if common.KindOf(err) == common.KindNotFound {
				return nil, common.NotFound("parent tweet not found")
			}
			return nil, err
		}
	}

	hashtagIDs, err := s.hashtags.Resolve(ctx, in.Hashtags)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tweet = &dbmongo.Tweet{
		UserID:    viewer.ID,
		Type:      in.Type,
		Audience:  in.Audience,
		Content:   in.Content,
		ParentID:  in.ParentID,
		Hashtags:  hashtagIDs,
		Mentions:  lo.Uniq(in.Mentions),
		Medias:    in.Medias,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tweet.Mentions == nil {
		tweet.Mentions = []primitive.ObjectID{}
	}
	if tweet.Medias == nil {
		tweet.Medias = []dbmongo.Media{}
	}

	if err := s.tweets.InsertTweet(ctx, tweet); err != nil {
		return nil, fmt.Errorf("insert tweet: %w", err)
	}
	s.log.WithField("tweet_id", tweet.ID.Hex()).WithField("type", tweet.Type.String()).Debug("tweet created")
	return tweet, nil
}
