package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/ptflow/internal/domain"
)

// sessionStore is the subset of the Redis client used for session lookups.
type sessionStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisVerifier resolves opaque session tokens stored by the session provider
// as JSON documents under prefix+token.
type RedisVerifier struct {
	store  sessionStore
	prefix string
	now    func() time.Time
}

// NewRedisClient creates a Redis client from the configured URL.
func NewRedisClient(config Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisVerifier creates a verifier backed by store.
func NewRedisVerifier(store sessionStore, prefix string) *RedisVerifier {
	return &RedisVerifier{
		store:  store,
		prefix: prefix,
		now:    time.Now,
	}
}

// Verify looks up the session for token. A missing or expired session is unauthenticated.
func (v *RedisVerifier) Verify(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	raw, err := v.store.Get(ctx, v.prefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: session not found", domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("%w: malformed session: %w", domain.ErrUnauthenticated, err)
	}

	if session.Subject == "" {
		return nil, fmt.Errorf("%w: session has no subject", domain.ErrUnauthenticated)
	}

	if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(v.now()) {
		return nil, fmt.Errorf("%w: session expired", domain.ErrUnauthenticated)
	}

	return &session, nil
}
