package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	// DefaultTokenTTL is 7 days
	DefaultTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidPayload   = errors.New("invalid token payload")
	ErrTokenExpired     = errors.New("token expired")
)

// TokenClaims is the signed token payload. ExpiresAt is in epoch milliseconds.
type TokenClaims struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService issues and verifies stateless session tokens of the form
//
//	base64url(JSON{sub, exp}) "." base64url(HMAC-SHA256(secret, encodedPayload))
//
// Nothing is stored server-side; a token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. A non-positive ttl issues tokens
// that are already expired.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a token for subjectID expiring TTL from now.
func (s *TokenService) Issue(subjectID string) (string, error) {
	claims := TokenClaims{
		Subject:   subjectID,
		ExpiresAt: s.now().Add(s.ttl).UnixMilli(),
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + s.sign(encoded), nil
}

// Verify checks the token's signature and expiry and returns its subject.
func (s *TokenService) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ErrInvalidToken
	}
	encoded, signature := parts[0], parts[1]

	if !hmac.Equal([]byte(signature), []byte(s.sign(encoded))) {
		return "", ErrInvalidSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidPayload
	}

	var payload struct {
		Sub string   `json:"sub"`
		Exp *float64 `json:"exp"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", ErrInvalidPayload
	}
	if payload.Sub == "" || payload.Exp == nil {
		return "", ErrInvalidPayload
	}

	// a token is dead from its expiry instant onwards
	if int64(*payload.Exp) <= s.now().UnixMilli() {
		return "", ErrTokenExpired
	}

	return payload.Sub, nil
}

func (s *TokenService) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
