// Package auth resolves the requester identity from a bearer token.
// Authentication is delegated to an upstream identity provider; this
// package only verifies and unpacks its HS256 tokens.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
)

// TokenVerifier validates HS256 access tokens issued by the identity
// provider and maps their claims onto a requester.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier. secret must be at least 32
// characters for HS256 security.
func NewTokenVerifier(secret string, issuer string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// accessClaims extends the standard claims with the username and the
// editorial access groups.
type accessClaims struct {
	jwt.RegisteredClaims
	Username     string   `json:"username,omitempty"`
	AccessGroups []string `json:"accessGroups,omitempty"`
}

// Verify parses and validates an access token and returns the
// requester it identifies.
func (v *TokenVerifier) Verify(tokenString string) (domain.Requester, error) {
	if tokenString == "" {
		return domain.Anonymous, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		return domain.Anonymous, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return domain.Anonymous, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != v.issuer {
		return domain.Anonymous, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Anonymous, fmt.Errorf("invalid subject UUID: %w", err)
	}

	return domain.Requester{
		ID:           userID,
		Username:     claims.Username,
		AccessGroups: claims.AccessGroups,
	}, nil
}

// IssueToken creates a signed token for the requester. Used by tests
// and local tooling; production tokens come from the identity provider.
func (v *TokenVerifier) IssueToken(r domain.Requester, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   r.ID.String(),
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username:     r.Username,
		AccessGroups: r.AccessGroups,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
