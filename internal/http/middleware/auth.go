package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/davidbz/ptflow/internal/auth"
	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/observability"
)

// Auth rejects requests without a valid session with 401 {"error":"Unauthorized"}
// before the wrapped handler runs. The resolved session is stored in the
// request context.
func Auth(verifier domain.SessionVerifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := observability.FromContext(ctx)

			session, err := verifier.Verify(ctx, auth.TokenFromRequest(r, cookieName))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					logger.Info("request rejected: unauthenticated", observability.String("path", r.URL.Path))
				} else {
					logger.Error("session verification failed", observability.Error(err))
				}
				writeUnauthorized(w)
				return
			}

			ctx = auth.WithSession(ctx, session)
			ctx = observability.WithUserID(ctx, session.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
