package common

import (
	"fmt"
	"strings"
)

// TweetKind is stored as an int in the tweet document's "type" field.
type TweetKind int

const (
	TweetKindOriginal TweetKind = iota
	TweetKindRetweet
	TweetKindComment
	TweetKindQuoteTweet
)

var tweetKindNames = [...]string{"original", "retweet", "comment", "quote_tweet"}

func (k TweetKind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("tweet_kind(%d)", int(k))
	}
	return tweetKindNames[k]
}

func (k TweetKind) IsValid() bool {
	return k >= TweetKindOriginal && k <= TweetKindQuoteTweet
}

// IsChild reports whether tweets of this kind must reference a parent.
func (k TweetKind) IsChild() bool {
	return k.IsValid() && k != TweetKindOriginal
}

// Audience is the visibility scope of a tweet.
type Audience int

const (
	AudienceEveryone Audience = iota
	AudienceRestrictedCircle
)

func (a Audience) String() string {
	switch a {
	case AudienceEveryone:
		return "everyone"
	case AudienceRestrictedCircle:
		return "restricted_circle"
	}
	return fmt.Sprintf("audience(%d)", int(a))
}

func (a Audience) IsValid() bool {
	return a == AudienceEveryone || a == AudienceRestrictedCircle
}

// MediaType represents the kind of a media item attached to a tweet.
type MediaType int

const (
	MediaTypeImage MediaType = iota
	MediaTypeVideo
	MediaTypeHLS
)

func (mt MediaType) String() string {
	switch mt {
	case MediaTypeImage:
		return "image"
	case MediaTypeVideo:
		return "video"
	case MediaTypeHLS:
		return "hls"
	}
	return fmt.Sprintf("media_type(%d)", int(mt))
}

func (mt MediaType) IsValid() bool {
	return mt >= MediaTypeImage && mt <= MediaTypeHLS
}

// SearchVariants lists the stored media types a search filter on mt must match.
// HLS is a video variant, so a video filter matches both.
func (mt MediaType) SearchVariants() []MediaType {
	if mt == MediaTypeVideo || mt == MediaTypeHLS {
		return []MediaType{MediaTypeVideo, MediaTypeHLS}
	}
	return []MediaType{mt}
}

// ParseMediaFilter maps the search query value to a media type.
func ParseMediaFilter(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image":
		return MediaTypeImage, nil
	case "video":
		return MediaTypeVideo, nil
	}
	return 0, InvalidArgument(fmt.Sprintf("media_type must be one of image, video; got %q", s))
}

// VerifyStatus mirrors the account state carried in access tokens.
type VerifyStatus int

const (
	VerifyStatusUnverified VerifyStatus = iota
	VerifyStatusVerified
	VerifyStatusBanned
)

func (v VerifyStatus) String() string {
	switch v {
	case VerifyStatusUnverified:
		return "unverified"
	case VerifyStatusVerified:
		return "verified"
	case VerifyStatusBanned:
		return "banned"
	}
	return fmt.Sprintf("verify_status(%d)", int(v))
}

// TokenType distinguishes access tokens from the other tokens the auth service issues.
type TokenType int

const (
	TokenTypeAccess TokenType = iota
	TokenTypeRefresh
	TokenTypeForgotPassword
	TokenTypeEmailVerify
)
