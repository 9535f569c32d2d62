// Package token signs and verifies the compact expiring tokens that
// carry a user id. Access and refresh tokens use the same codec with
// different secrets and lifetimes.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every rejection reason: malformed encoding,
// signature mismatch and expiry. Callers must not distinguish them in
// client-visible behavior.
var ErrInvalidToken = errors.New("invalid token")

// Claims embeds the registered claims and the user id the token was
// issued for.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Issue mints an HS256 token for userID expiring after ttl.
func Issue(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps two tokens minted within the same second
			// distinct, so rotation always produces a new value.
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	return t.SignedString(secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Any failure is reported as ErrInvalidToken.
func Verify(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
