// Package openrouter provides the gateway client for the OpenRouter
// chat-completion API using the official OpenAI SDK against OpenRouter's
// OpenAI-compatible endpoint. It implements domain.Generator and reports every
// failure as data in domain.GenerationResult.
package openrouter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/observability"
	"github.com/davidbz/ptflow/internal/retry"
)

const (
	providerName   = "openrouter"
	defaultTimeout = 60 * time.Second
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second

	// EventGeneration is published once per Generate call.
	EventGeneration = "ai.generation"
)

// Provider implements domain.Generator for OpenRouter.
type Provider struct {
	client  openai.Client
	config  Config
	timeout time.Duration
	policy  retry.Policy
	events  domain.EventPublisher
}

// NewProvider creates a new OpenRouter provider (DI constructor).
// A missing API key is not an error: Generate reports it on every call.
func NewProvider(config Config, events domain.EventPublisher) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		// Retries are owned by retry.Do so 4xx and 5xx are classified in one place.
		option.WithMaxRetries(0),
		option.WithMiddleware(captureStatus),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(withTrailingSlash(config.BaseURL)))
	}

	if config.AppURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", config.AppURL))
	}

	if config.AppTitle != "" {
		opts = append(opts, option.WithHeader("X-Title", config.AppTitle))
	}

	return &Provider{
		client:  openai.NewClient(opts...),
		config:  config,
		timeout: config.attemptTimeout(),
		policy:  config.retryPolicy(),
		events:  events,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// Generate sends the prompt pair as a system+user conversation and returns the
// first completion's content.
func (p *Provider) Generate(ctx context.Context, req *domain.GenerationRequest) domain.GenerationResult {
	if req == nil {
		return domain.Failure("generation request cannot be nil")
	}

	if !p.config.Configured() {
		return domain.Failure(ErrAPIKeyNotConfigured.Error())
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenRouter API",
		observability.Int("system_prompt_length", len(req.SystemPrompt)),
		observability.Int("user_prompt_length", len(req.UserPrompt)),
		observability.Float64("temperature", req.EffectiveTemperature()),
		observability.Int("max_tokens", req.EffectiveMaxTokens()),
	)

	params := toSDKParams(req, model)
	start := time.Now()

	var completion *openai.ChatCompletion
	callErr := retry.Do(ctx, p.policy, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		resp, err := p.client.Chat.Completions.New(attemptCtx, params)
		if err != nil {
			classified := classify(ctx, err, p.timeout)
			logAttemptFailure(ctx, classified)
			if !classified.retryable {
				return retry.Permanent(classified)
			}
			return classified
		}

		completion = resp
		return nil
	})

	var result domain.GenerationResult
	if callErr != nil {
		var ae *attemptError
		if errors.As(callErr, &ae) {
			result = domain.Failure(ae.message)
		} else {
			result = domain.Failure(callErr.Error())
		}
		result.Model = model
	} else {
		result = toDomainResult(completion, model)
	}
	result.Duration = time.Since(start)

	p.publish(ctx, result)

	return result
}

// toSDKParams converts the domain request to SDK ChatCompletionNewParams.
func toSDKParams(req *domain.GenerationRequest, model string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Temperature: openai.Float(req.EffectiveTemperature()),
		MaxTokens:   openai.Int(int64(req.EffectiveMaxTokens())),
	}
}

// toDomainResult converts the SDK response; a response without choices yields empty text.
func toDomainResult(resp *openai.ChatCompletion, model string) domain.GenerationResult {
	if resp == nil {
		return domain.GenerationResult{Model: model}
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	if resp.Model != "" {
		model = resp.Model
	}

	return domain.GenerationResult{
		Text:  content,
		Model: model,
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
}

func (p *Provider) publish(ctx context.Context, result domain.GenerationResult) {
	if p.events == nil {
		return
	}

	data := map[string]interface{}{
		"provider":          providerName,
		"feature":           observability.GetFeature(ctx),
		"model":             result.Model,
		"duration_ms":       result.Duration.Milliseconds(),
		"prompt_tokens":     result.Usage.PromptTokens,
		"completion_tokens": result.Usage.CompletionTokens,
		"completion_length": len(result.Text),
		"failed":            result.Failed(),
	}
	if result.Failed() {
		data["error"] = result.Error
	}

	p.events.Publish(ctx, EventGeneration, data)
}

func logAttemptFailure(ctx context.Context, ae *attemptError) {
	logger := observability.FromContext(ctx)

	var se *statusError
	if errors.As(ae.cause, &se) {
		logger.Warn("OpenRouter API returned an error",
			observability.Int("status", se.StatusCode),
			observability.String("body", se.Body),
			observability.Bool("retryable", ae.retryable),
		)
		return
	}

	logger.Warn("OpenRouter API call failed",
		observability.Error(ae.cause),
		observability.Bool("retryable", ae.retryable),
	)
}

func withTrailingSlash(url string) string {
	if strings.HasSuffix(url, "/") {
		return url
	}
	return url + "/"
}
