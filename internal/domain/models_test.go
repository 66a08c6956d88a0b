package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ptflow/internal/domain"
)

func TestGenerationRequest_Defaults(t *testing.T) {
	t.Run("unset values use defaults", func(t *testing.T) {
		req := &domain.GenerationRequest{}

		require.InDelta(t, domain.DefaultTemperature, req.EffectiveTemperature(), 1e-9)
		require.Equal(t, domain.DefaultMaxTokens, req.EffectiveMaxTokens())
	})

	t.Run("explicit zero temperature is kept", func(t *testing.T) {
		req := &domain.GenerationRequest{Temperature: domain.Temperature(0), MaxTokens: 800}

		require.InDelta(t, 0.0, req.EffectiveTemperature(), 1e-9)
		require.Equal(t, 800, req.EffectiveMaxTokens())
	})

	t.Run("negative max tokens use default", func(t *testing.T) {
		req := &domain.GenerationRequest{MaxTokens: -1}

		require.Equal(t, domain.DefaultMaxTokens, req.EffectiveMaxTokens())
	})
}

func TestGenerationResult_Failed(t *testing.T) {
	require.False(t, domain.GenerationResult{Text: "ok"}.Failed())
	require.False(t, domain.GenerationResult{}.Failed())

	failure := domain.Failure("OpenRouter API key not configured")
	require.True(t, failure.Failed())
	require.Empty(t, failure.Text)
}
