package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/davidbz/ptflow/internal/auth"
	"github.com/davidbz/ptflow/internal/config"
	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/feature"
	"github.com/davidbz/ptflow/internal/http"
	"github.com/davidbz/ptflow/internal/http/middleware"
	"github.com/davidbz/ptflow/internal/observability"
	"github.com/davidbz/ptflow/internal/provider/echo"
	"github.com/davidbz/ptflow/internal/provider/openrouter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "ptflow",
		Short:         "Clinical text-generation gateway for the PT Flow practice app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}

			return container.Invoke(func(server *http.Server, cfg *config.Config, logger *zap.Logger) error {
				for _, warning := range cfg.Warnings() {
					logger.Warn(warning)
				}
				return run(cmd.Context(), server)
			})
		},
	}
}

// run serves until SIGINT/SIGTERM, then drains in-flight requests.
func run(parent context.Context, server *http.Server) error {
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor interface{}
	}{
		// Configuration
		{name: "config", constructor: config.Load},
		{name: "config dependencies", constructor: config.ParseDependenciesConfig},

		// Observability
		{name: "logger", constructor: observability.InitLogger},
		{name: "event bus", constructor: func(logger *zap.Logger) domain.EventPublisher {
			return observability.NewEventBus(logger)
		}},

		// Generator and session verification
		{name: "generator", constructor: newGenerator},
		{name: "session verifier", constructor: func(cfg *auth.Config) (domain.SessionVerifier, error) {
			return auth.NewVerifier(*cfg)
		}},

		// Domain Services
		{name: "feature service", constructor: feature.NewService},

		// HTTP Layer
		{name: "middleware chain", constructor: middleware.BuildMiddlewareChain},
		{name: "HTTP handler", constructor: http.NewHandler},
		{name: "HTTP server", constructor: http.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	return container, nil
}

// newGenerator selects the generator backend named by AI_PROVIDER.
// A missing OpenRouter key is not fatal: every generation reports it instead.
func newGenerator(
	providerConfig *config.ProviderConfig,
	openrouterConfig *openrouter.Config,
	echoConfig *echo.Config,
	events domain.EventPublisher,
	logger *zap.Logger,
) domain.Generator {
	if providerConfig.Name == config.ProviderEcho {
		logger.Warn("using echo generator: responses are not model generated")
		return echo.NewProvider(*echoConfig)
	}

	if !openrouterConfig.Configured() {
		logger.Warn("OPENROUTER_API_KEY is not set: every AI feature will return an error")
	}

	logger.Info("using OpenRouter generator",
		observability.String("model", openrouterConfig.Model),
		observability.String("base_url", openrouterConfig.BaseURL),
		observability.Int("max_retries", openrouterConfig.MaxRetries),
	)

	return openrouter.NewProvider(*openrouterConfig, events)
}
