package feed

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus/hooks/test"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
	"gotweet/internal/config"
	"gotweet/internal/dbmongo"
	"gotweet/internal/observability"
)

// ---- In-memory store interpreting pipelines ----

type memStore struct {
	mu        sync.Mutex
	tweets    map[primitive.ObjectID]dbmongo.Tweet
	users     map[primitive.ObjectID]dbmongo.User
	follows   []dbmongo.Follower
	hashtags  map[string]dbmongo.Hashtag
	bookmarks []dbmongo.Bookmark
	clock     time.Time

	ViewErr   error
	CountErr  error
	Pipelines []Pipeline

	ViewCalls     int
	HashtagCreate int
}

func newMemStore() *memStore {
	return &memStore{
		tweets:   map[primitive.ObjectID]dbmongo.Tweet{},
		users:    map[primitive.ObjectID]dbmongo.User{},
		hashtags: map[string]dbmongo.Hashtag{},
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addUser(username string, verify common.VerifyStatus, circle ...primitive.ObjectID) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.users[id] = dbmongo.User{
		ID: id, Name: username, Username: username, Email: username + "@example.com",
		Verify: verify, RestrictedCircle: circle,
	}
	return id
}

func (m *memStore) setCircle(userID primitive.ObjectID, circle ...primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.RestrictedCircle = circle
	m.users[userID] = u
}

func (m *memStore) follow(userID, followed primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.follows = append(m.follows, dbmongo.Follower{
		ID: primitive.NewObjectID(), UserID: userID, FollowedUserID: followed,
	})
}

// addTweet stores t one second after the previous tweet so ordering is deterministic.
func (m *memStore) addTweet(t dbmongo.Tweet) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	t.ID = primitive.NewObjectID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = m.clock
		t.UpdatedAt = m.clock
	}
	m.tweets[t.ID] = t
	return t.ID
}

func (m *memStore) original(author primitive.ObjectID, audience common.Audience, content string) primitive.ObjectID {
	return m.addTweet(dbmongo.Tweet{
		UserID: author, Type: common.TweetKindOriginal, Audience: audience, Content: content,
	})
}

func (m *memStore) child(author, parent primitive.ObjectID, kind common.TweetKind) primitive.ObjectID {
	return m.addTweet(dbmongo.Tweet{
		UserID: author, Type: kind, Audience: common.AudienceEveryone, ParentID: &parent,
	})
}

func (m *memStore) bookmark(userID, tweetID primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookmarks = append(m.bookmarks, dbmongo.Bookmark{ID: primitive.NewObjectID(), UserID: userID, TweetID: tweetID})
}

func (m *memStore) tweet(id primitive.ObjectID) dbmongo.Tweet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tweets[id]
}

type memRow struct {
	tweet    dbmongo.Tweet
	owner    *dbmongo.User
	hashtags []dbmongo.Hashtag
	mentions []dbmongo.Mention
}

func (m *memStore) run(p Pipeline) ([]memRow, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rows := make([]memRow, 0, len(m.tweets))
	for _, t := range m.tweets {
		rows = append(rows, memRow{tweet: t})
	}

	for _, s := range p {
		switch s.Kind {
		case StageMatch:
			rows = lo.Filter(rows, func(r memRow, _ int) bool { return memMatch(*s.Match, r) })
		case StageJoin:
			rows = m.join(*s.Join, rows)
		case StageComputeField:
			// mentions are already reduced to the public projection by join
		case StageProject:
			for i := range rows {
				if lo.Contains(s.Project.Exclude, fieldOwner) {
					rows[i].owner = nil
				}
			}
		case StageSort:
			sort.SliceStable(rows, func(i, j int) bool { return memLess(s.Sort, rows[i].tweet, rows[j].tweet) })
		case StageSkip:
			if s.N >= int64(len(rows)) {
				rows = rows[:0]
			} else {
				rows = rows[s.N:]
			}
		case StageLimit:
			if s.N < int64(len(rows)) {
				rows = rows[:s.N]
			}
		}
	}
	return rows, nil
}

func (m *memStore) join(j JoinSpec, rows []memRow) []memRow {
	out := rows[:0:0]
	for _, r := range rows {
		switch j.As {
		case fieldOwner:
			u, ok := m.users[r.tweet.UserID]
			if !ok && j.Unwind {
				continue
			}
			if ok {
				r.owner = &u
			}
		case fieldHashtags:
			r.hashtags = []dbmongo.Hashtag{}
			for _, id := range r.tweet.Hashtags {
				for _, h := range m.hashtags {
					if h.ID == id {
						r.hashtags = append(r.hashtags, h)
					}
				}
			}
		case fieldMentions:
			r.mentions = []dbmongo.Mention{}
			for _, id := range r.tweet.Mentions {
				if u, ok := m.users[id]; ok {
					r.mentions = append(r.mentions, dbmongo.Mention{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email})
				}
			}
		}
		out = append(out, r)
	}
	return out
}

func memMatch(spec MatchSpec, r memRow) bool {
	t := r.tweet
	if len(spec.IDs) > 0 && !lo.Contains(spec.IDs, t.ID) {
		return false
	}
	if spec.TextSearch != "" && !strings.Contains(strings.ToLower(t.Content), strings.ToLower(spec.TextSearch)) {
		return false
	}
	if len(spec.AuthorIn) > 0 && !lo.Contains(spec.AuthorIn, t.UserID) {
		return false
	}
	if spec.ParentID != nil && (t.ParentID == nil || *t.ParentID != *spec.ParentID) {
		return false
	}
	if spec.Kind != nil && t.Type != *spec.Kind {
		return false
	}
	if len(spec.MediaTypes) > 0 && !lo.SomeBy(t.Medias, func(md dbmongo.Media) bool { return lo.Contains(spec.MediaTypes, md.Type) }) {
		return false
	}
	if spec.VisibleTo != nil {
		if r.owner == nil {
			return false
		}
		return CanView(t.Audience, t.UserID, r.owner.RestrictedCircle, *spec.VisibleTo)
	}
	return true
}

func memLess(keys []SortKey, a, b dbmongo.Tweet) bool {
	for _, k := range keys {
		var c int
		switch k.Field {
		case fieldCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		case fieldID:
			c = strings.Compare(a.ID.Hex(), b.ID.Hex())
		}
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func (m *memStore) AggregateTweets(ctx context.Context, p Pipeline) ([]dbmongo.TweetView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pipelines = append(m.Pipelines, p)
	rows, err := m.run(p)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r memRow, _ int) dbmongo.TweetView {
		t := r.tweet
		return dbmongo.TweetView{
			ID: t.ID, UserID: t.UserID, Type: t.Type, Audience: t.Audience, Content: t.Content,
			ParentID: t.ParentID, Hashtags: r.hashtags, Mentions: r.mentions, Medias: t.Medias,
			GuestViews: t.GuestViews, UserViews: t.UserViews, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
		}
	}), nil
}

func (m *memStore) CountTweets(ctx context.Context, p Pipeline) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	rows, err := m.run(p)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (m *memStore) TweetByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.Tweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tweets[id]
	if !ok {
		return nil, common.NotFound("tweet not found")
	}
	return &t, nil
}

func (m *memStore) InsertTweet(ctx context.Context, t *dbmongo.Tweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID()
	m.tweets[t.ID] = *t
	return nil
}

func (m *memStore) IncrementViews(ctx context.Context, ids []primitive.ObjectID, field ViewField, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ViewCalls++
	if m.ViewErr != nil {
		return m.ViewErr
	}
	for _, id := range ids {
		t, ok := m.tweets[id]
		if !ok {
			continue
		}
		if field == ViewFieldUser {
			t.UserViews++
		} else {
			t.GuestViews++
		}
		t.UpdatedAt = at
		m.tweets[id] = t
	}
	return nil
}

func (m *memStore) UserByID(ctx context.Context, id primitive.ObjectID) (*dbmongo.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, common.NotFound("user not found")
	}
	return &u, nil
}

func (m *memStore) FollowedIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.FilterMap(m.follows, func(f dbmongo.Follower, _ int) (primitive.ObjectID, bool) {
		return f.FollowedUserID, f.UserID == userID
	}), nil
}

func (m *memStore) BookmarkCounts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[primitive.ObjectID]int64{}
	for _, b := range m.bookmarks {
		if lo.Contains(ids, b.TweetID) {
			out[b.TweetID]++
		}
	}
	return out, nil
}

func (m *memStore) ChildCounts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]ChildCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[primitive.ObjectID]ChildCounts{}
	for _, t := range m.tweets {
		if t.ParentID == nil || !lo.Contains(ids, *t.ParentID) {
			continue
		}
		c := out[*t.ParentID]
		switch t.Type {
		case common.TweetKindRetweet:
			c.Retweets++
		case common.TweetKindComment:
			c.Comments++
		case common.TweetKindQuoteTweet:
			c.Quotes++
		}
		out[*t.ParentID] = c
	}
	return out, nil
}

func (m *memStore) FindOrCreateHashtag(ctx context.Context, name string, at time.Time) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.hashtags[name]; ok {
		return h.ID, nil
	}
	h := dbmongo.Hashtag{ID: primitive.NewObjectID(), Name: name, CreatedAt: at}
	m.hashtags[name] = h
	m.HashtagCreate++
	return h.ID, nil
}

func (m *memStore) UpsertBookmark(ctx context.Context, userID, tweetID primitive.ObjectID, at time.Time) (*dbmongo.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookmarks {
		if b.UserID == userID && b.TweetID == tweetID {
			return &b, nil
		}
	}
	b := dbmongo.Bookmark{ID: primitive.NewObjectID(), UserID: userID, TweetID: tweetID, CreatedAt: at}
	m.bookmarks = append(m.bookmarks, b)
	return &b, nil
}

func (m *memStore) DeleteBookmark(ctx context.Context, userID, tweetID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookmarks = lo.Reject(m.bookmarks, func(b dbmongo.Bookmark, _ int) bool {
		return b.UserID == userID && b.TweetID == tweetID
	})
	return nil
}

// ---- Service wiring ----

var errStoreDown = errors.New("store unavailable")

func testConfig() *config.Config {
	return &config.Config{Feed: config.FeedConfig{
		DefaultLimit:     20,
		MaxLimit:         100,
		QueryTimeout:     5 * time.Second,
		ViewWriteTimeout: time.Second,
	}}
}

func newTestService(t *testing.T, store *memStore) (*FeedService, *test.Hook, *observability.FeedMetrics) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	metrics := observability.NewFeedMetrics(prometheus.NewRegistry())
	svc := NewFeedService(store, store, store, store, store, store, testConfig(), logger, metrics)
	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.views.now = svc.now
	svc.hashtags.now = svc.now
	return svc, hook, metrics
}

func ids(views []dbmongo.TweetView) []primitive.ObjectID {
	return lo.Map(views, func(v dbmongo.TweetView, _ int) primitive.ObjectID { return v.ID })
}
