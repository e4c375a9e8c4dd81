// Package authtoken defines the access token claims shared by the backend,
// which signs and verifies them, and the client, which only reads them.
package authtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("token is malformed")
	ErrNoExpiry   = errors.New("token has no expiry claim")
	ErrSignMethod = errors.New("unexpected signing method")
)

type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// User rebuilds the identity carried by the token.
func (c *Claims) User() *domain.User {
	return &domain.User{ID: c.Subject, Email: c.Email, Role: c.Role}
}

// Sign issues an HS256 token for user, valid for ttl.
func Sign(key []byte, user *domain.User, jti string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and standard claims of raw.
func Verify(key []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSignMethod
		}
		return key, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// Decode reads the claims of raw without checking its signature or
// expiry. The client never holds the signing key.
func Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// ExpiresAt decodes raw and returns its exp claim.
func ExpiresAt(raw string) (time.Time, error) {
	claims, err := Decode(raw)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether raw is past its expiry at now. Tokens that
// cannot be decoded, or carry no expiry, are reported with an error.
func Expired(raw string, now time.Time) (bool, error) {
	exp, err := ExpiresAt(raw)
	if err != nil {
		return true, err
	}
	return !now.Before(exp), nil
}
