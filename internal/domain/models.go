package domain

import "time"

const (
	// DefaultTemperature is used when a request leaves Temperature unset.
	DefaultTemperature = 0.7

	// DefaultMaxTokens is used when a request leaves MaxTokens unset.
	DefaultMaxTokens = 2000
)

// GenerationRequest is a single system+user prompt exchange with a chat-completion model.
type GenerationRequest struct {
	SystemPrompt string   `json:"system_prompt"`
	UserPrompt   string   `json:"user_prompt"`
	Model        string   `json:"model,omitempty"`       // empty selects the configured default
	Temperature  *float64 `json:"temperature,omitempty"` // nil selects DefaultTemperature
	MaxTokens    int      `json:"max_tokens,omitempty"`  // <= 0 selects DefaultMaxTokens
}

// EffectiveTemperature returns the temperature to send upstream.
func (r *GenerationRequest) EffectiveTemperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// EffectiveMaxTokens returns the completion token bound to send upstream.
func (r *GenerationRequest) EffectiveMaxTokens() int {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}

// Temperature returns a pointer to t for use in GenerationRequest literals.
func Temperature(t float64) *float64 {
	return &t
}

// GenerationResult is the outcome of a generation call.
// Exactly one of Text or Error carries the meaningful payload; Text is empty when Error is set.
// An empty Text with no Error means the model produced no content.
type GenerationResult struct {
	Text     string        `json:"text"`
	Error    string        `json:"error,omitempty"`
	Model    string        `json:"model,omitempty"`
	Usage    Usage         `json:"usage"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the result carries an error.
func (r GenerationResult) Failed() bool {
	return r.Error != ""
}

// Failure builds a result carrying only an error message.
func Failure(message string) GenerationResult {
	return GenerationResult{Error: message}
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Session is the authenticated principal issued by the external session provider.
type Session struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expires,omitempty"`
}
