// Package auth issues and validates the signed session tokens that gate
// access to the chat backend. Tokens are self-contained HS256 JWTs carrying
// the user's email as subject; validation needs no server-side state.
package auth

import (
	"errors"
	"time"

	"github.com/Lg0ma/MessagesVS/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is the fixed lifetime of a session token. The 24 hour
// offset between issued-at and expiry is part of the wire contract, not a
// tunable default.
const TokenValidity = 24 * time.Hour

// GenerateToken signs a token for subject with issued-at = now and
// expiry = now + validityDuration.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken verifies the signature and expiry of tokenString and
// returns its subject. Expired tokens yield common.ErrTokenExpired; any other
// parse or signature failure yields common.ErrInvalidToken.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
