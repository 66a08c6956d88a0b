package openrouter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ptflow/internal/provider/openrouter"
)

func TestConfig_WorstCaseDuration(t *testing.T) {
	tests := []struct {
		name     string
		config   openrouter.Config
		expected time.Duration
	}{
		{
			name:     "no retries",
			config:   openrouter.Config{Timeout: 60},
			expected: 60 * time.Second,
		},
		{
			name:     "unset timeout uses the default deadline",
			config:   openrouter.Config{},
			expected: 60 * time.Second,
		},
		{
			name:     "one retry adds a deadline and one backoff",
			config:   openrouter.Config{Timeout: 60, MaxRetries: 1},
			expected: 121 * time.Second,
		},
		{
			name:     "backoff is capped",
			config:   openrouter.Config{Timeout: 10, MaxRetries: 6},
			expected: 70*time.Second + 25500*time.Millisecond,
		},
		{
			name:     "negative retries behave like zero",
			config:   openrouter.Config{Timeout: 5, MaxRetries: -3},
			expected: 5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.config.WorstCaseDuration())
		})
	}
}
