package feed

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"gotweet/internal/dbmongo"
)

// ChildCounts are the children of one tweet, by kind.
type ChildCounts struct {
	Retweets int64
	Comments int64
	Quotes   int64
}

// EngagementAggregator attaches derived counters to a fetched page.
// It issues one query per counter type regardless of page size.
type EngagementAggregator struct {
	store Engagements
}

func NewEngagementAggregator(store Engagements) *EngagementAggregator {
	return &EngagementAggregator{store: store}
}

// Enrich returns a copy of page with bookmark and child counts set.
// Either every tweet is enriched or an error is returned.
func (a *EngagementAggregator) Enrich(ctx context.Context, page []dbmongo.TweetView) ([]dbmongo.TweetView, error) {
	if len(page) == 0 {
		return page, nil
	}
	ids := lo.Map(page, func(t dbmongo.TweetView, _ int) primitive.ObjectID { return t.ID })

	var (
		bookmarks map[primitive.ObjectID]int64
		children  map[primitive.ObjectID]ChildCounts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := a.store.BookmarkCounts(gctx, ids)
		if err != nil {
			return fmt.Errorf("count bookmarks: %w", err)
		}
		bookmarks = counts
		return nil
	})
	g.Go(func() error {
		counts, err := a.store.ChildCounts(gctx, ids)
		if err != nil {
			return fmt.Errorf("count child tweets: %w", err)
		}
		children = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]dbmongo.TweetView, len(page))
	for i, t := range page {
		c := children[t.ID]
		t.Bookmarks = bookmarks[t.ID]
		t.RetweetCount = c.Retweets
		t.CommentCount = c.Comments
		t.QuoteCount = c.Quotes
		out[i] = t
	}
	return out, nil
}
