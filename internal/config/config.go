package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/ptflow/internal/auth"
	"github.com/davidbz/ptflow/internal/provider/echo"
	"github.com/davidbz/ptflow/internal/provider/openrouter"
)

// Generator backends selectable with AI_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderEcho       = "echo"
)

// Config represents the service configuration.
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Provider   ProviderConfig
	OpenRouter openrouter.Config
	Echo       echo.Config
	Auth       auth.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int   `env:"SERVER_PORT"           envDefault:"8080"`
	ReadTimeout  int   `env:"SERVER_READ_TIMEOUT"   envDefault:"30"`
	WriteTimeout int   `env:"SERVER_WRITE_TIMEOUT"  envDefault:"90"`
	MaxBodyBytes int64 `env:"SERVER_MAX_BODY_BYTES" envDefault:"1048576"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"http://localhost:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// ProviderConfig selects the generator backend.
type ProviderConfig struct {
	Name string `env:"AI_PROVIDER" envDefault:"openrouter"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*ProviderConfig
	OpenRouter *openrouter.Config
	Echo       *echo.Config
	Auth       *auth.Config
}

// Load loads environment files and parses configuration.
// It is called once at startup; the result is never mutated.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	switch cfg.Provider.Name {
	case ProviderOpenRouter, ProviderEcho:
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q: expected %s or %s",
			cfg.Provider.Name, ProviderOpenRouter, ProviderEcho)
	}

	return &cfg, nil
}

// Warnings reports settings that load but are likely to misbehave at runtime.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.Provider.Name == ProviderOpenRouter && c.Server.WriteTimeout > 0 {
		budget := c.OpenRouter.WorstCaseDuration()
		writeTimeout := time.Duration(c.Server.WriteTimeout) * time.Second
		if budget >= writeTimeout {
			warnings = append(warnings, fmt.Sprintf(
				"SERVER_WRITE_TIMEOUT (%s) does not cover OPENROUTER_TIMEOUT with %d retries (up to %s): "+
					"slow generations will be cut off before the response is written",
				writeTimeout, max(c.OpenRouter.MaxRetries, 0), budget))
		}
	}

	return warnings
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		ServerConfig:   &cfg.Server,
		CORSConfig:     &cfg.CORS,
		ProviderConfig: &cfg.Provider,
		OpenRouter:     &cfg.OpenRouter,
		Echo:           &cfg.Echo,
		Auth:           &cfg.Auth,
	}
}
