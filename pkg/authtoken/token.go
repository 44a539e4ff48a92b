// Package authtoken signs and verifies storefront customer session tokens (HS256 JWT).
package authtoken

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type VerifiedSession struct {
	CustomerID string
	Email      string
	Name       string
	ExpiresAt  time.Time
}

// Verify checks signature, expiry and audience and returns the customer the
// token was issued for.
func Verify(tokenString, audience, secret string, now time.Time) (*VerifiedSession, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing token secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, fmt.Errorf("token expired")
	}
	if audience != "" && !slices.Contains([]string(claims.Audience), audience) {
		return nil, fmt.Errorf("audience mismatch")
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return nil, fmt.Errorf("missing subject in token")
	}

	return &VerifiedSession{
		CustomerID: sub,
		Email:      claims.Email,
		Name:       claims.Name,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// Issue signs a token for a customer. The API only issues tokens in dev; in
// production the storefront's auth provider does.
func Issue(customerID, email, name, audience, secret string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing token secret")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Name:  name,
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
