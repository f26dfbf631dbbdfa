package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "habitloop"

// Tokens issues and validates the bearer tokens the API runs on. Tokens are
// HS256-signed and stateless; the user id travels in the subject claim.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token service. The secret must be long enough that
// brute-forcing the HMAC key is not the easiest way in.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

// Generate signs a token for the user.
func (t *Tokens) Generate(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token string and returns the user id it was issued
// for. Signature, expiry, issuer, and signing method are all checked.
func (t *Tokens) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("token has no valid subject")
	}
	return userID, nil
}
