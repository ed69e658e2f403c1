package feed

import (
	"context"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
	"gotweet/internal/dbmongo"
	"gotweet/internal/observability"
)

// ViewField is the counter a view increments.
type ViewField string

const (
	ViewFieldUser  ViewField = "user_views"
	ViewFieldGuest ViewField = "guest_views"
)

func viewFieldFor(v Viewer) ViewField {
	if v.IsAnonymous() {
		return ViewFieldGuest
	}
	return ViewFieldUser
}

// ViewRecorder counts a view on every tweet of a returned page.
type ViewRecorder struct {
	tweets  Tweets
	log     log.FieldLogger
	metrics *observability.FeedMetrics
	timeout time.Duration
	now     func() time.Time
}

func NewViewRecorder(tweets Tweets, logger log.FieldLogger, metrics *observability.FeedMetrics, timeout time.Duration) *ViewRecorder {
	return &ViewRecorder{tweets: tweets, log: logger, metrics: metrics, timeout: timeout, now: time.Now}
}

// Record increments the viewer's counter on every tweet in page with one batched
// update and returns a new page carrying the incremented values. The write is
// best-effort: on failure it is logged and counted, and page comes back unchanged.
func (r *ViewRecorder) Record(ctx context.Context, page []dbmongo.TweetView, viewer Viewer) []dbmongo.TweetView {
	if len(page) == 0 {
		return page
	}
	field := viewFieldFor(viewer)
	at := r.now().UTC()
	ids := lo.Map(page, func(t dbmongo.TweetView, _ int) primitive.ObjectID { return t.ID })

	// the read already succeeded, so the write gets its own deadline; zero means none
	wctx := context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(wctx, r.timeout)
		defer cancel()
	}

	if err := r.tweets.IncrementViews(wctx, ids, field, at); err != nil {
		err = common.PartialFailure("record tweet views", err)
		r.metrics.ViewWriteFailures.Inc()
		r.log.WithError(err).WithFields(log.Fields{
			"field":  string(field),
			"tweets": len(ids),
		}).Warn("view count update failed, returning page without it")
		return page
	}
	return applyView(page, field, at)
}

// applyView mirrors the stored increment onto copies of the page.
func applyView(page []dbmongo.TweetView, field ViewField, at time.Time) []dbmongo.TweetView {
	return lo.Map(page, func(t dbmongo.TweetView, _ int) dbmongo.TweetView {
		if field == ViewFieldUser {
			t.UserViews++
		} else {
			t.GuestViews++
		}
		t.UpdatedAt = at
		return t
	})
}
