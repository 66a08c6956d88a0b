package auth

import (
	"context"

	"github.com/davidbz/ptflow/internal/domain"
)

type sessionKey struct{}

// WithSession stores the verified session in ctx.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the verified session, or nil.
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return session
}
