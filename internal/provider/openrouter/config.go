package openrouter

import (
	"time"

	"github.com/davidbz/ptflow/internal/retry"
)

// Config contains OpenRouter gateway configuration.
// Fields map to openai-go request options and attribution headers:
//   - APIKey: option.WithAPIKey(), sent as a bearer token
//   - BaseURL: option.WithBaseURL()
//   - Timeout: per-attempt deadline (in seconds)
//   - MaxRetries: additional attempts for 5xx and transport failures
//   - AppURL / AppTitle: HTTP-Referer and X-Title headers
type Config struct {
	APIKey     string `env:"OPENROUTER_API_KEY"`
	Model      string `env:"OPENROUTER_MODEL"       envDefault:"anthropic/claude-3-haiku"`
	BaseURL    string `env:"OPENROUTER_BASE_URL"    envDefault:"https://openrouter.ai/api/v1"`
	Timeout    int    `env:"OPENROUTER_TIMEOUT"     envDefault:"60"`
	MaxRetries int    `env:"OPENROUTER_MAX_RETRIES" envDefault:"0"`
	AppURL     string `env:"APP_URL"                envDefault:"http://localhost:3000"`
	AppTitle   string `env:"APP_TITLE"              envDefault:"PT Flow AI"`
}

// Configured reports whether an API key is present.
func (c Config) Configured() bool {
	return c.APIKey != ""
}

// WorstCaseDuration is the longest a single Generate call can take with every
// attempt hitting its deadline.
func (c Config) WorstCaseDuration() time.Duration {
	return c.retryPolicy().Budget(c.attemptTimeout())
}

func (c Config) attemptTimeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) retryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: max(c.MaxRetries, 0) + 1,
		BaseDelay:   retryBaseDelay,
		MaxDelay:    retryMaxDelay,
	}
}
