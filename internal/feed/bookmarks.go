package feed

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
	"gotweet/internal/dbmongo"
)

// Bookmark saves tweetID for the viewer. Bookmarking twice returns the existing bookmark.
func (s *FeedService) Bookmark(ctx context.Context, viewer Viewer, tweetID primitive.ObjectID) (mark *dbmongo.Bookmark, err error) {
	ctx, done := s.instrument(ctx, modeBookmark, PageQuery{})
	defer func() { done(0, err) }()

	if viewer.IsAnonymous() {
		return nil, common.Unauthorized("access token is required")
	}
	if err := s.AuthorizeTweet(ctx, viewer, tweetID); err != nil {
		return nil, err
	}

	mark, err = s.bookmarks.UpsertBookmark(ctx, viewer.ID, tweetID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("save bookmark: %w", err)
	}
	return mark, nil
}

// Unbookmark removes the viewer's bookmark. Removing a missing bookmark is not an error.
func (s *FeedService) Unbookmark(ctx context.Context, viewer Viewer, tweetID primitive.ObjectID) (err error) {
	ctx, done := s.instrument(ctx, modeBookmark, PageQuery{})
	defer func() { done(0, err) }()

	if viewer.IsAnonymous() {
		return common.Unauthorized("access token is required")
	}
	if err := s.bookmarks.DeleteBookmark(ctx, viewer.ID, tweetID); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}
