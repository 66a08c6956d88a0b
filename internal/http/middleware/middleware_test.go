package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/ptflow/internal/auth"
	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/http/middleware"
	"github.com/davidbz/ptflow/internal/mocks"
	"github.com/davidbz/ptflow/internal/observability"
)

func TestChain_OrderIsOutermostFirst(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := middleware.Chain(tag("first"), tag("second"), tag("third"))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "third", "handler"}, order)
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		verifyErr  error
		wantStatus int
	}{
		{name: "valid session", wantStatus: http.StatusOK},
		{name: "unauthenticated", verifyErr: domain.ErrUnauthenticated, wantStatus: http.StatusUnauthorized},
		{name: "verifier failure", verifyErr: errors.New("redis down"), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := mocks.NewMockSessionVerifier(t)
			if tt.verifyErr != nil {
				verifier.EXPECT().Verify(mock.Anything, "tok").Return(nil, tt.verifyErr).Once()
			} else {
				verifier.EXPECT().Verify(mock.Anything, "tok").Return(&domain.Session{Subject: "pt-9"}, nil).Once()
			}

			var seenSubject, seenUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenSubject = auth.SessionFromContext(r.Context()).Subject
				seenUserID = observability.GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/ai/home-plan", nil)
			req.Header.Set("Authorization", "Bearer tok")
			rec := httptest.NewRecorder()
			middleware.Auth(verifier, "session")(next).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.Equal(t, "pt-9", seenSubject)
				require.Equal(t, "pt-9", seenUserID)
				return
			}
			require.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 16)))
	middleware.BodyLimit(8)(next).ServeHTTP(httptest.NewRecorder(), req)

	var tooLarge *http.MaxBytesError
	require.ErrorAs(t, readErr, &tooLarge)
}

func TestTrace_SetsHeadersAndContext(t *testing.T) {
	var requestID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = observability.GetRequestID(r.Context())
		require.NotEmpty(t, observability.GetTraceID(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	middleware.Trace()(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "req-123", requestID)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
	require.Len(t, rec.Header().Get("X-Trace-Id"), 32)
}
