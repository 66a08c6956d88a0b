package auth

import (
	"context"
	"fmt"

	"github.com/davidbz/ptflow/internal/domain"
)

// DevSubject identifies the fixed session used when verification is disabled.
const DevSubject = "dev-user"

// DisabledVerifier accepts every request. Development only.
type DisabledVerifier struct{}

// Verify returns the development session regardless of token.
func (DisabledVerifier) Verify(context.Context, string) (*domain.Session, error) {
	return &domain.Session{Subject: DevSubject, Name: "Development User"}, nil
}

// NewVerifier selects the session verifier for the configured mode.
func NewVerifier(config Config) (domain.SessionVerifier, error) {
	switch config.Mode {
	case ModeJWT, "":
		verifier, err := NewJWTVerifier(config)
		if err != nil {
			return nil, err
		}
		return verifier, nil
	case ModeRedis:
		client, err := NewRedisClient(config)
		if err != nil {
			return nil, err
		}
		return NewRedisVerifier(client, config.RedisPrefix), nil
	case ModeDisabled:
		return DisabledVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q: expected jwt, redis or disabled", config.Mode)
	}
}
