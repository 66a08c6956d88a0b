package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davidbz/ptflow/internal/auth"
	"github.com/davidbz/ptflow/internal/config"
	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/http/middleware"
	"github.com/davidbz/ptflow/internal/observability"
)

// RoutePrefix is the path prefix of every feature endpoint.
const RoutePrefix = "/api/ai/"

// Server represents the HTTP server.
type Server struct {
	config       config.ServerConfig
	handler      *Handler
	middlewares  middleware.Middleware
	authenticate middleware.Middleware
	srv          *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(
	serverConfig *config.ServerConfig,
	authConfig *auth.Config,
	verifier domain.SessionVerifier,
	handler *Handler,
	middlewares middleware.Middleware,
) *Server {
	s := &Server{
		config:       *serverConfig,
		handler:      handler,
		middlewares:  middlewares,
		authenticate: middleware.Auth(verifier, authConfig.CookieName),
	}

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Routes(),
		ReadTimeout:       time.Duration(s.config.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.config.WriteTimeout) * time.Second,
	}

	return s
}

// Routes returns the fully wrapped request handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	for name, handler := range s.handler.Routes() {
		mux.Handle(RoutePrefix+name, s.authenticate(handler))
	}
	mux.HandleFunc("/health", s.handler.HandleHealth)

	return s.middlewares(mux)
}

// Start starts the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
