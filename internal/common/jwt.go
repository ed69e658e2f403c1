package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrMissingSecret  = errors.New("jwt secret is not configured")
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("token is not an access token")
)

// Claims represents the data stored in an access token issued by the auth service
type Claims struct {
	UserID    string       `json:"user_id"`
	TokenType TokenType    `json:"token_type"`
	Verify    VerifyStatus `json:"verify"`
	jwt.RegisteredClaims
}

// TokenVerifier only verifies; issuing tokens belongs to the auth service.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenVerifier{secret: []byte(secret)}, nil
}

func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// Identity converts verified claims into the request identity.
func (c *Claims) Identity() (Identity, error) {
	id, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: malformed user_id", ErrInvalidToken)
	}
	return Identity{UserID: id, Verify: c.Verify}, nil
}

// SignAccessToken issues an HS256 access token. Used by tests and local tooling.
func SignAccessToken(secret string, userID primitive.ObjectID, verify VerifyStatus, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID.Hex(),
		TokenType: TokenTypeAccess,
		Verify:    verify,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "gotweet",
			Subject:   userID.Hex(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
