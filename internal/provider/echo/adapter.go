// Package echo provides a development generator that answers without calling
// any external API. It implements domain.Generator with deterministic output
// so adapters and handlers can be exercised offline.
package echo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/observability"
)

const (
	providerName = "echo"
	modelName    = "echo4"
)

// Provider implements the domain.Generator interface for echo testing.
type Provider struct {
	name   string
	config Config
}

// NewProvider creates a new echo provider.
// No network configuration is required as this provider operates entirely in-memory.
func NewProvider(config Config) *Provider {
	return &Provider{
		name:   providerName,
		config: config,
	}
}

// Generate returns the configured response, or the prompts echoed back.
func (p *Provider) Generate(ctx context.Context, req *domain.GenerationRequest) domain.GenerationResult {
	if req == nil {
		return domain.Failure("generation request cannot be nil")
	}

	start := time.Now()
	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	if p.config.Error != "" {
		return domain.GenerationResult{Error: p.config.Error, Model: modelName, Duration: time.Since(start)}
	}

	content := p.config.Response
	if content == "" {
		content = buildEchoContent(req)
	}

	// Count tokens (simple word-based counting)
	promptTokens := countTokens(req.SystemPrompt) + countTokens(req.UserPrompt)
	completionTokens := countTokens(content)

	logger.Debug("echo completed",
		observability.Int("prompt_tokens", promptTokens),
		observability.Int("completion_tokens", completionTokens),
	)

	return domain.GenerationResult{
		Text:  content,
		Model: modelName,
		Usage: domain.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
		Duration: time.Since(start),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// buildEchoContent constructs the echo response from the prompt pair.
func buildEchoContent(req *domain.GenerationRequest) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("[system]: %s\n", req.SystemPrompt))
	builder.WriteString(fmt.Sprintf("[user]: %s\n", req.UserPrompt))
	return builder.String()
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(content))
}
