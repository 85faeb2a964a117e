package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrExpiredSessionToken = errors.New("session token expired")
)

// Flash is a one-shot message shown on the next page the browser loads.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// SessionData is everything the browser session carries between requests.
type SessionData struct {
	CustomerID uint    `json:"cid,omitempty"`
	Name       string  `json:"name,omitempty"`
	Email      string  `json:"email,omitempty"`
	CartToken  string  `json:"cart,omitempty"`
	Permanent  bool    `json:"perm,omitempty"`
	Flashes    []Flash `json:"flash,omitempty"`
}

type SessionClaims struct {
	SessionData
	jwt.RegisteredClaims
}

// NewSessionID returns a fresh identifier used as the token's jti.
func NewSessionID() string {
	return uuid.NewString()
}

// GenerateSessionToken signs data under sessionID. The returned time is the
// token's expiry.
func GenerateSessionToken(sessionID string, data SessionData, secret string, lifetime time.Duration) (string, time.Time, error) {
	if sessionID == "" {
		return "", time.Time{}, fmt.Errorf("session id is required")
	}

	now := time.Now()
	expiresAt := now.Add(lifetime)
	claims := SessionClaims{
		SessionData: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateSessionToken verifies the signature and expiry of tokenString.
func ValidateSessionToken(tokenString, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSessionToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
