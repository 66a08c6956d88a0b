package domain

import (
	"context"
	"errors"
)

// ErrUnauthenticated indicates that a request carries no valid session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Generator produces completion text for a prompt pair.
type Generator interface {
	// Generate performs one generation round trip. It never returns a Go error:
	// every failure is reported through GenerationResult.Error.
	Generate(ctx context.Context, req *GenerationRequest) GenerationResult

	// Name returns the generator identifier.
	Name() string
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// SessionVerifier resolves a session token issued by the external session provider.
type SessionVerifier interface {
	// Verify returns the session for token, or an error wrapping ErrUnauthenticated.
	Verify(ctx context.Context, token string) (*Session, error)
}
