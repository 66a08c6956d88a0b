// Package feature implements the clinical text-generation adapters. Each
// adapter validates its structured input, renders a fixed prompt, calls the
// generator, and derives structured output from the completion text.
package feature

import (
	"context"

	"github.com/davidbz/ptflow/internal/domain"
	"github.com/davidbz/ptflow/internal/observability"
)

// Feature names, also used as endpoint path segments.
const (
	FeatureSOAPNote           = "soap-note"
	FeatureCodeSuggestions    = "code-suggestions"
	FeatureClaimJustification = "claim-justification"
	FeatureHomePlan           = "home-plan"
	FeatureMessageResponse    = "message-response"
	FeatureProgressAnalysis   = "progress-analysis"
	FeatureProgressSummary    = "progress-summary"
	FeatureSessionSummary     = "session-summary"
	FeatureTreatmentPlan      = "treatment-plan"
)

// Service hosts the feature adapters. It holds no per-request state.
type Service struct {
	generator domain.Generator
}

// NewService creates a new feature service (DI constructor).
func NewService(generator domain.Generator) *Service {
	return &Service{
		generator: generator,
	}
}

// generate runs one generation for feature and converts a failed result into a GenerationError.
func (s *Service) generate(ctx context.Context, feature string, req *domain.GenerationRequest) (string, error) {
	result := s.call(ctx, feature, req)
	if result.Failed() {
		return "", &GenerationError{Message: result.Error}
	}
	return result.Text, nil
}

func (s *Service) call(ctx context.Context, feature string, req *domain.GenerationRequest) domain.GenerationResult {
	ctx = observability.WithFeature(ctx, feature)
	logger := observability.FromContext(ctx)

	result := s.generator.Generate(ctx, req)
	if result.Failed() {
		logger.Error("generation failed", observability.String("error", result.Error))
		return result
	}

	logger.Info("generation succeeded",
		observability.Int("completion_length", len(result.Text)),
		observability.Int("total_tokens", result.Usage.TotalTokens),
		observability.Duration("duration", result.Duration),
	)
	return result
}
