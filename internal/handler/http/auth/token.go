// Package auth issues and verifies bearer tokens, carries the caller's
// Principal through request contexts, and serves the account endpoints.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"brazucas-cork/internal/domain/entity"
)

// Claims is the JWT payload. Subject holds the decimal user id.
type Claims struct {
	Role     string `json:"role"`
	Nickname string `json:"nick"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer. secret must already be validated.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for u and its expiry.
func (t *TokenIssuer) Issue(u *entity.User) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Role:     string(u.Role),
		Nickname: u.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies token and returns the caller it names.
func (t *TokenIssuer) Parse(token string) (entity.Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return entity.Principal{}, fmt.Errorf("token expired: %w", entity.ErrUnauthorized)
		}
		return entity.Principal{}, fmt.Errorf("invalid token: %w", entity.ErrUnauthorized)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return entity.Principal{}, fmt.Errorf("invalid sub claim: %w", entity.ErrUnauthorized)
	}
	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("invalid role claim: %w", entity.ErrUnauthorized)
	}
	return entity.Principal{ID: id, Role: role, Nickname: claims.Nickname}, nil
}
