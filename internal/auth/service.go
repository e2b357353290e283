package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:v1:"

// ErrSessionNotFound indicates the session token is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is a server-side login session referenced by an opaque token.
type Session struct {
	Token     string
	Account   string
	ExpiresAt time.Time
}

// Service stores login sessions in Redis with a bounded lifetime.
type Service struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewService builds a session service.
func NewService(cache *redis.Client, ttl time.Duration) *Service {
	return &Service{cache: cache, ttl: ttl}
}

// Create opens a session for the account and returns its opaque token.
func (s *Service) Create(ctx context.Context, account string) (Session, error) {
	token := uuid.NewString()
	if err := s.cache.Set(ctx, sessionPrefix+token, account, s.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return Session{
		Token:     token,
		Account:   account,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}, nil
}

// Resolve maps a session token back to its account name.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}
	account, err := s.cache.Get(ctx, sessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return account, nil
}

// Destroy removes the session. Unknown tokens are not an error.
func (s *Service) Destroy(ctx context.Context, token string) error {
	return s.cache.Del(ctx, sessionPrefix+token).Err()
}
