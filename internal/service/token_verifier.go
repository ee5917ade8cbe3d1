package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"edubatch/internal/domain"
)

// Claims are the verified attributes asserted by a validated token.
type Claims struct {
	UserID int64
	Name   string
	Role   domain.Role
}

// TokenVerifier validates HS256 bearer tokens issued elsewhere. This service
// only verifies; it never issues or refreshes tokens.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

type tokenClaims struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role int    `json:"role"`
	jwt.RegisteredClaims
}

// Verify parses and validates token and returns its identity claims.
// Any failure, including expiry, maps to domain.ErrNotAuthenticated.
func (v *TokenVerifier) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrNotAuthenticated
	}
	if claims.ID == 0 {
		return nil, fmt.Errorf("%w: token carries no user id", domain.ErrNotAuthenticated)
	}

	return &Claims{
		UserID: claims.ID,
		Name:   claims.Name,
		Role:   domain.Role(claims.Role),
	}, nil
}

// Issue creates a signed token for the given claims. Only tests use this;
// token issuance in production belongs to the identity service.
func (v *TokenVerifier) Issue(claims *Claims, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		ID:   claims.UserID,
		Name: claims.Name,
		Role: int(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString(v.secret)
}
