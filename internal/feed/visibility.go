package feed

import (
	"context"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
	"gotweet/internal/dbmongo"
)

// Viewer is who is asking. The zero Viewer is anonymous.
type Viewer struct {
	ID primitive.ObjectID
}

func AnonymousViewer() Viewer { return Viewer{} }

func (v Viewer) IsAnonymous() bool { return v.ID.IsZero() }

// CanView reports whether viewer may see a tweet with the given audience, written by
// author whose restricted circle is circle.
func CanView(audience common.Audience, author primitive.ObjectID, circle []primitive.ObjectID, viewer Viewer) bool {
	if audience == common.AudienceEveryone {
		return true
	}
	if viewer.IsAnonymous() {
		return false
	}
	return viewer.ID == author || lo.Contains(circle, viewer.ID)
}

// CheckAccess guards single-tweet endpoints. Unlike CanView it distinguishes why access is denied.
func CheckAccess(ctx context.Context, users Users, tweet *dbmongo.Tweet, viewer Viewer) error {
	if tweet.Audience == common.AudienceEveryone {
		return nil
	}
	if viewer.IsAnonymous() {
		return common.Unauthorized("access token is required")
	}

	author, err := users.UserByID(ctx, tweet.UserID)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return common.NotFound("tweet not found")
		}
		return err
	}
	if author.Verify == common.VerifyStatusBanned {
		return common.NotFound("tweet not found")
	}

	if !CanView(tweet.Audience, author.ID, author.RestrictedCircle, viewer) {
		return common.Forbidden("tweet is not public")
	}
	return nil
}
