package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"gotweet/internal/observability"
)

// HashtagResolver turns hashtag names into ids, creating missing hashtags.
type HashtagResolver struct {
	store   Hashtags
	metrics *observability.FeedMetrics
	now     func() time.Time
}

func NewHashtagResolver(store Hashtags, metrics *observability.FeedMetrics) *HashtagResolver {
	return &HashtagResolver{store: store, metrics: metrics, now: time.Now}
}

// Resolve returns one id per distinct name, in first-occurrence order.
// Names are trimmed, a leading '#' is dropped, and blanks are ignored.
func (r *HashtagResolver) Resolve(ctx context.Context, names []string) ([]primitive.ObjectID, error) {
	cleaned := lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = strings.TrimPrefix(strings.TrimSpace(n), "#")
		return n, n != ""
	}))
	if len(cleaned) == 0 {
		return []primitive.ObjectID{}, nil
	}

	at := r.now().UTC()
	ids := make([]primitive.ObjectID, len(cleaned))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range cleaned {
		i, name := i, name
		g.Go(func() error {
			id, err := r.store.FindOrCreateHashtag(gctx, name, at)
			if err != nil {
				return fmt.Errorf("resolve hashtag %q: %w", name, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.metrics.HashtagsResolved.Add(float64(len(ids)))
	return ids, nil
}
