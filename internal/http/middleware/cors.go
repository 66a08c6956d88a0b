package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/davidbz/ptflow/internal/config"
)

// CORS handles Cross-Origin Resource Sharing for the practice web app.
// Preflight requests are answered here and never reach authentication.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{headerTraceID, headerRequestID},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}
