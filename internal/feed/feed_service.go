package feed

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"gotweet/internal/common"
	"gotweet/internal/config"
	"gotweet/internal/dbmongo"
	"gotweet/internal/observability"
)

const (
	modeNewsFeed    = "news_feed"
	modeChildTweets = "child_tweets"
	modeSearch      = "search"
	modeTweet       = "tweet"
	modeCreateTweet = "create_tweet"
	modeBookmark    = "bookmark"
)

//go:generate mockgen -source=feed_service.go -destination=mock_feed_usecase_test.go -package=feed

// FeedUsecase is what the HTTP handlers depend on.
type FeedUsecase interface {
	NewsFeed(ctx context.Context, viewer Viewer, q PageQuery) (*Page, error)
	ChildTweets(ctx context.Context, viewer Viewer, parentID primitive.ObjectID, kind common.TweetKind, q PageQuery) (*Page, error)
	Search(ctx context.Context, viewer Viewer, q SearchQuery) (*Page, error)
	Tweet(ctx context.Context, viewer Viewer, id primitive.ObjectID) (*dbmongo.TweetView, error)
	CreateTweet(ctx context.Context, viewer Viewer, in NewTweet) (*dbmongo.Tweet, error)
	Bookmark(ctx context.Context, viewer Viewer, tweetID primitive.ObjectID) (*dbmongo.Bookmark, error)
	Unbookmark(ctx context.Context, viewer Viewer, tweetID primitive.ObjectID) error
}

// Page is one window of a listing.
//
// Total is counted concurrently with the fetch and without a shared snapshot, so under
// concurrent writes TotalPages may disagree with the returned tweets by one page.
type Page struct {
	Tweets     []dbmongo.TweetView `json:"tweets"`
	Limit      int64               `json:"limit"`
	Page       int64               `json:"page"`
	Total      int64               `json:"total"`
	TotalPages int64               `json:"total_pages"`
}

func (p *Page) size() int {
	if p == nil {
		return 0
	}
	return len(p.Tweets)
}

// SearchQuery selects tweets whose content matches Content.
type SearchQuery struct {
	Content string
	// Media narrows to tweets with at least one media item of this type; video includes HLS.
	Media *common.MediaType
	// FollowedPeople narrows to the viewer and the people they follow.
	FollowedPeople bool
	PageQuery
}

// FeedService is the feed query engine: news feed, child tweets and search, plus the
// single-tweet operations that share its visibility rules.
type FeedService struct {
	tweets     Tweets
	users      Users
	follows    Follows
	bookmarks  Bookmarks
	engagement *EngagementAggregator
	views      *ViewRecorder
	hashtags   *HashtagResolver
	cfg        config.FeedConfig
	log        log.FieldLogger
	metrics    *observability.FeedMetrics
	now        func() time.Time
}

func NewFeedService(
	tweets Tweets,
	users Users,
	follows Follows,
	engagements Engagements,
	hashtags Hashtags,
	bookmarks Bookmarks,
	cfg *config.Config,
	logger log.FieldLogger,
	metrics *observability.FeedMetrics,
) *FeedService {
	logger = logger.WithField("component", "feed")
	return &FeedService{
		tweets:     tweets,
		users:      users,
		follows:    follows,
		bookmarks:  bookmarks,
		engagement: NewEngagementAggregator(engagements),
		views:      NewViewRecorder(tweets, logger, metrics, cfg.Feed.ViewWriteTimeout),
		hashtags:   NewHashtagResolver(hashtags, metrics),
		cfg:        cfg.Feed,
		log:        logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// NewsFeed lists tweets by the viewer and everyone they follow that the viewer may see.
func (s *FeedService) NewsFeed(ctx context.Context, viewer Viewer, q PageQuery) (page *Page, err error) {
	ctx, done := s.instrument(ctx, modeNewsFeed, q)
	defer func() { done(page.size(), err) }()

	if viewer.IsAnonymous() {
		return nil, common.Unauthorized("access token is required")
	}
	if err := q.validate(s.cfg.MaxLimit); err != nil {
		return nil, err
	}

	authors, err := s.audience(ctx, viewer)
	if err != nil {
		return nil, err
	}
	// following someone is not circle membership, so the audience check still applies
	filter := filterStages(MatchSpec{AuthorIn: authors}, &viewer)
	return s.listPage(ctx, viewer, filter, q, true)
}

// ChildTweets lists the children of one kind under parentID. The viewer must be
// allowed to see the parent; children are not filtered again.
func (s *FeedService) ChildTweets(ctx context.Context, viewer Viewer, parentID primitive.ObjectID, kind common.TweetKind, q PageQuery) (page *Page, err error) {
	ctx, done := s.instrument(ctx, modeChildTweets, q)
	defer func() { done(page.size(), err) }()

	if !kind.IsChild() {
		return nil, common.InvalidArgument("tweet_type must be retweet, comment or quote tweet")
	}
	if err := q.validate(s.cfg.MaxLimit); err != nil {
		return nil, err
	}
	if err := s.AuthorizeTweet(ctx, viewer, parentID); err != nil {
		return nil, err
	}

	filter := filterStages(MatchSpec{ParentID: &parentID, Kind: &kind}, nil)
	return s.listPage(ctx, viewer, filter, q, true)
}

// Search runs a full-text match over tweet content. Views are only counted for
// signed-in viewers.
func (s *FeedService) Search(ctx context.Context, viewer Viewer, q SearchQuery) (page *Page, err error) {
	ctx, done := s.instrument(ctx, modeSearch, q.PageQuery)
	defer func() { done(page.size(), err) }()

	content := strings.TrimSpace(q.Content)
	if content == "" {
		return nil, common.InvalidArgument("content is required")
	}
	if err := q.validate(s.cfg.MaxLimit); err != nil {
		return nil, err
	}

	match := MatchSpec{TextSearch: content}
	if q.Media != nil {
		match.MediaTypes = q.Media.SearchVariants()
	}
	if q.FollowedPeople {
		if viewer.IsAnonymous() {
			return nil, common.Unauthorized("access token is required to search followed people")
		}
		if match.AuthorIn, err = s.audience(ctx, viewer); err != nil {
			return nil, err
		}
	}

	filter := filterStages(match, &viewer)
	return s.listPage(ctx, viewer, filter, q.PageQuery, !viewer.IsAnonymous())
}

// Tweet loads one tweet with its counters and records the view.
func (s *FeedService) Tweet(ctx context.Context, viewer Viewer, id primitive.ObjectID) (tweet *dbmongo.TweetView, err error) {
	ctx, done := s.instrument(ctx, modeTweet, PageQuery{Page: 1, Limit: 1})
	defer func() {
		n := 0
		if tweet != nil {
			n = 1
		}
		done(n, err)
	}()

	if err := s.AuthorizeTweet(ctx, viewer, id); err != nil {
		return nil, err
	}

	rows, err := s.tweets.AggregateTweets(ctx, Pipeline{Match(MatchSpec{IDs: []primitive.ObjectID{id}})}.Then(hydrate()...))
	if err != nil {
		return nil, common.Internal("load tweet "+id.Hex(), err)
	}
	if len(rows) == 0 {
		return nil, common.NotFound("tweet not found")
	}

	rows, err = s.engagement.Enrich(ctx, rows)
	if err != nil {
		return nil, err
	}
	rows = s.views.Record(ctx, rows, viewer)
	return &rows[0], nil
}

// AuthorizeTweet fails with NotFound when the tweet does not exist and otherwise
// applies CheckAccess.
func (s *FeedService) AuthorizeTweet(ctx context.Context, viewer Viewer, id primitive.ObjectID) error {
	tweet, err := s.tweets.TweetByID(ctx, id)
	if err != nil {
		return err
	}
	return CheckAccess(ctx, s.users, tweet, viewer)
}

// audience is the viewer plus everyone they follow.
func (s *FeedService) audience(ctx context.Context, viewer Viewer) ([]primitive.ObjectID, error) {
	followed, err := s.follows.FollowedIDs(ctx, viewer.ID)
	if err != nil {
		return nil, common.Internal("load followed users", err)
	}
	return lo.Uniq(append([]primitive.ObjectID{viewer.ID}, followed...)), nil
}

// listPage counts and fetches concurrently, then enriches and records views.
func (s *FeedService) listPage(ctx context.Context, viewer Viewer, filter Pipeline, q PageQuery, recordViews bool) (*Page, error) {
	var (
		total int64
		rows  []dbmongo.TweetView
	)
	offset := Resolve(q.Page, q.Limit, 0).Offset

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.tweets.CountTweets(gctx, filter)
		if err != nil {
			return common.Internal("count tweets", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		page, err := s.tweets.AggregateTweets(gctx, pageStages(filter, offset, q.Limit))
		if err != nil {
			return common.Internal("fetch tweets", err)
		}
		rows = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows, err := s.engagement.Enrich(ctx, rows)
	if err != nil {
		return nil, err
	}
	if recordViews {
		rows = s.views.Record(ctx, rows, viewer)
	}
	if rows == nil {
		rows = []dbmongo.TweetView{}
	}

	w := Resolve(q.Page, q.Limit, total)
	return &Page{
		Tweets:     rows,
		Limit:      q.Limit,
		Page:       q.Page,
		Total:      total,
		TotalPages: w.TotalPages,
	}, nil
}

// instrument bounds the call by the query timeout and records span and metrics when done.
func (s *FeedService) instrument(ctx context.Context, mode string, q PageQuery) (context.Context, func(n int, err error)) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, "feed."+mode,
		attribute.String("feed.mode", mode),
		attribute.Int64("feed.page", q.Page),
		attribute.Int64("feed.limit", q.Limit),
	)
	cancel := context.CancelFunc(func() {})
	if s.cfg.QueryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.cfg.QueryTimeout)
	}

	return ctx, func(n int, err error) {
		cancel()
		outcome := observability.OutcomeOK
		if err != nil {
			outcome = common.KindOf(err).String()
		}
		s.metrics.ObserveQuery(mode, outcome, started, n)
		observability.EndSpan(span, err)
	}
}
