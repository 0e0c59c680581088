// internal/app/system/tokens/tokens.go

// Package tokens issues and caches the short-lived bearer tokens used for
// outbound calls (graph photo fetch) and accepted by the JSON API.
//
// The service is an explicit singleton: constructed once at startup and
// passed by reference to consumers, so tests can build and reset their
// own instances. A token is reused until MinRefreshInterval has elapsed
// since it was minted; after that the next Token call mints a fresh one.
// Concurrent refreshes are coalesced through a singleflight group so two
// callers never trigger two parallel mints.
package tokens

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/facultyhub/internal/app/system/errs"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MinRefreshInterval is the minimum time between token refreshes.
const MinRefreshInterval = 5 * time.Minute

// DefaultTTL is the lifetime stamped into minted tokens. It is
// deliberately longer than MinRefreshInterval so a cached token is never
// handed out expired.
const DefaultTTL = 15 * time.Minute

const refreshKey = "refresh"

// Service mints, caches, and validates HS256 tokens.
type Service struct {
	key     []byte
	issuer  string
	subject string
	ttl     time.Duration
	log     *zap.Logger

	now func() time.Time // injectable clock

	mu          sync.Mutex
	current     string
	lastRefresh time.Time

	group singleflight.Group
}

// NewService builds a token Service signing with key. The subject is the
// identity the service acts as (the service's own client identity for
// outbound calls).
func NewService(key []byte, issuer, subject string, logger *zap.Logger) (*Service, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("token signing key too short; provide at least 32 bytes")
	}
	return &Service{
		key:     key,
		issuer:  issuer,
		subject: subject,
		ttl:     DefaultTTL,
		log:     logger,
		now:     time.Now,
	}, nil
}

// SetNowFunc overrides the clock. Test hook.
func (s *Service) SetNowFunc(now func() time.Time) { s.now = now }

// Token returns the cached token when it is still fresh (minted within
// MinRefreshInterval), otherwise mints a new one.
func (s *Service) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.current != "" && s.now().Sub(s.lastRefresh) < MinRefreshInterval {
		tok := s.current
		s.mu.Unlock()
		return tok, nil
	}
	s.mu.Unlock()
	return s.ForceRefresh(ctx)
}

// ForceRefresh mints a new token regardless of age. Concurrent callers
// share a single in-flight mint; all receive the same token.
func (s *Service) ForceRefresh(ctx context.Context) (string, error) {
	v, err, _ := s.group.Do(refreshKey, func() (any, error) {
		tok, err := s.mint()
		if err != nil {
			s.log.Error("token refresh failed", zap.Error(err))
			return "", fmt.Errorf("%w: %v", errs.ErrTokenRefreshFailed, err)
		}
		s.mu.Lock()
		s.current = tok
		s.lastRefresh = s.now()
		s.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// LastRefresh returns when the current token was minted (zero if never).
func (s *Service) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

// Reset clears the cached token. Test hook.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	s.lastRefresh = time.Time{}
}

func (s *Service) mint() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   s.subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// MintFor mints a token for an arbitrary subject (used when handing API
// tokens to signed-in users).
func (s *Service) MintFor(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Validate parses and verifies a token, returning its subject.
func (s *Service) Validate(tokenString string) (string, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || !tok.Valid {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}
