package feed

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
	"gotweet/internal/config"
	"gotweet/internal/dbmongo"
)

type FeedHandlers struct {
	FeedSvc FeedUsecase
	log     log.FieldLogger
	cfg     config.FeedConfig
}

func NewFeedHandlers(svc FeedUsecase, cfg *config.Config, logger log.FieldLogger) *FeedHandlers {
	return &FeedHandlers{
		FeedSvc: svc,
		log:     logger.WithField("component", "feed_http"),
		cfg:     cfg.Feed,
	}
}

// RegisterRoutes mounts the feed API under /api/v1.
func (h *FeedHandlers) RegisterRoutes(router *mux.Router, auth *common.Authenticator) {
	verified := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireAuth(common.RequireVerified(fn))
	}
	optional := func(fn http.HandlerFunc) http.Handler {
		return auth.OptionalAuth(fn)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	tweets := api.PathPrefix("/tweets").Subrouter()
	// news-feed must be registered before the {tweet_id} routes
	tweets.Handle("/news-feed", verified(h.NewsFeed)).Methods(http.MethodGet)
	tweets.Handle("/{tweet_id}/children", optional(h.ChildTweets)).Methods(http.MethodGet)
	tweets.Handle("/{tweet_id}", optional(h.GetTweet)).Methods(http.MethodGet)
	tweets.Handle("", verified(h.CreateTweet)).Methods(http.MethodPost)

	api.Handle("/search", optional(h.Search)).Methods(http.MethodGet)

	bookmarks := api.PathPrefix("/bookmarks").Subrouter()
	bookmarks.Handle("", verified(h.Bookmark)).Methods(http.MethodPost)
	bookmarks.Handle("/tweets/{tweet_id}", verified(h.Unbookmark)).Methods(http.MethodDelete)
}

type pageParams struct {
	Page  int64 `json:"page" validate:"min=1"`
	Limit int64 `json:"limit" validate:"min=1"`
}

type childrenParams struct {
	TweetID   string `json:"tweet_id" validate:"required,objectid"`
	TweetType string `json:"tweet_type" validate:"required,oneof=1 2 3"`
}

type searchParams struct {
	Content        string `json:"content" validate:"required"`
	MediaType      string `json:"media_type" validate:"omitempty,oneof=image video"`
	FollowedPeople string `json:"followed_people" validate:"omitempty,oneof=true false"`
}

type mediaRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Type *int   `json:"type" validate:"required,min=0,max=2"`
}

type createTweetRequest struct {
	Type     *int           `json:"type" validate:"required,min=0,max=3"`
	Audience *int           `json:"audience" validate:"required,min=0,max=1"`
	Content  string         `json:"content"`
	ParentID *string        `json:"parent_id" validate:"omitempty,objectid"`
	Hashtags []string       `json:"hashtags" validate:"dive,max=100"`
	Mentions []string       `json:"mentions" validate:"dive,objectid"`
	Medias   []mediaRequest `json:"medias" validate:"dive"`
}

type bookmarkRequest struct {
	TweetID string `json:"tweet_id" validate:"required,objectid"`
}

// childrenResult is a page of children tagged with the kind that was asked for.
type childrenResult struct {
	*Page
	TweetType common.TweetKind `json:"tweet_type"`
}

func (h *FeedHandlers) NewsFeed(w http.ResponseWriter, r *http.Request) {
	q, err := h.pageQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.FeedSvc.NewsFeed(r.Context(), viewerFrom(r), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.Response{Message: "Get news feed successfully", Result: page})
}

func (h *FeedHandlers) ChildTweets(w http.ResponseWriter, r *http.Request) {
	params := childrenParams{
		TweetID:   mux.Vars(r)["tweet_id"],
		TweetType: r.URL.Query().Get("tweet_type"),
	}
	if err := common.ValidateStruct(params); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.pageQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	parentID, _ := primitive.ObjectIDFromHex(params.TweetID)
	n, _ := strconv.Atoi(params.TweetType)
	kind := common.TweetKind(n)

	page, err := h.FeedSvc.ChildTweets(r.Context(), viewerFrom(r), parentID, kind, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.Response{
		Message: "Get tweet children successfully",
		Result:  childrenResult{Page: page, TweetType: kind},
	})
}

func (h *FeedHandlers) GetTweet(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseObjectID("tweet_id", mux.Vars(r)["tweet_id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tweet, err := h.FeedSvc.Tweet(r.Context(), viewerFrom(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.Response{Message: "Get tweet successfully", Result: tweet})
}

func (h *FeedHandlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := searchParams{
		Content:        query.Get("content"),
		MediaType:      query.Get("media_type"),
		FollowedPeople: query.Get("followed_people"),
	}
	if err := common.ValidateStruct(params); err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.pageQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sq := SearchQuery{
		Content:        params.Content,
		FollowedPeople: params.FollowedPeople == "true",
		PageQuery:      q,
	}
	if params.MediaType != "" {
		mt, err := common.ParseMediaFilter(params.MediaType)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		sq.Media = &mt
	}

	page, err := h.FeedSvc.Search(r.Context(), viewerFrom(r), sq)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.Response{Message: "Search successfully", Result: page})
}

func (h *FeedHandlers) CreateTweet(w http.ResponseWriter, r *http.Request) {
	var req createTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, common.InvalidArgument("request body must be valid JSON"))
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		h.fail(w, r, err)
		return
	}

	in := NewTweet{
		Type:     common.TweetKind(*req.Type),
		Audience: common.Audience(*req.Audience),
		Content:  req.Content,
		Hashtags: req.Hashtags,
		Mentions: lo.Map(req.Mentions, func(hex string, _ int) primitive.ObjectID {
			id, _ := primitive.ObjectIDFromHex(hex)
			return id
		}),
		Medias: lo.Map(req.Medias, func(m mediaRequest, _ int) dbmongo.Media {
			return dbmongo.Media{URL: m.URL, Type: common.MediaType(*m.Type)}
		}),
	}
	if req.ParentID != nil {
		id, _ := primitive.ObjectIDFromHex(*req.ParentID)
		in.ParentID = &id
	}

	tweet, err := h.FeedSvc.CreateTweet(r.Context(), viewerFrom(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, common.Response{Message: "Create tweet successfully", Result: tweet})
}

func (h *FeedHandlers) Bookmark(w http.ResponseWriter, r *http.Request) {
	var req bookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, common.InvalidArgument("request body must be valid JSON"))
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		h.fail(w, r, err)
		return
	}
	tweetID, _ := primitive.ObjectIDFromHex(req.TweetID)

	mark, err := h.FeedSvc.Bookmark(r.Context(), viewerFrom(r), tweetID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.Response{Message: "Bookmark successfully", Result: mark})
}

func (h *FeedHandlers) Unbookmark(w http.ResponseWriter, r *http.Request) {
	tweetID, err := common.ParseObjectID("tweet_id", mux.Vars(r)["tweet_id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.FeedSvc.Unbookmark(r.Context(), viewerFrom(r), tweetID); err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, common.Response{Message: "Unbookmark successfully"})
}

// pageQuery reads page and limit, defaulting to the first page of the configured size.
func (h *FeedHandlers) pageQuery(r *http.Request) (PageQuery, error) {
	query := r.URL.Query()
	params := pageParams{Page: 1, Limit: h.cfg.DefaultLimit}

	for _, p := range []struct {
		name string
		dst  *int64
	}{
		{"page", &params.Page},
		{"limit", &params.Limit},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return PageQuery{}, common.InvalidArgument(p.name + " must be a number")
		}
		*p.dst = n
	}

	if err := common.ValidateStruct(params); err != nil {
		return PageQuery{}, err
	}
	return PageQuery{Page: params.Page, Limit: params.Limit}, nil
}

// fail writes err to the client. Internal causes are logged here and hidden from the response.
func (h *FeedHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatus(common.KindOf(err)) >= http.StatusInternalServerError {
		h.log.WithError(err).WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": common.RequestIDFromContext(r.Context()),
		}).Error("feed request failed")
	}
	common.WriteError(w, err)
}

func viewerFrom(r *http.Request) Viewer {
	id, ok := common.IdentityFromContext(r.Context())
	if !ok {
		return AnonymousViewer()
	}
	return Viewer{ID: id.UserID}
}
