package openrouter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/option"
)

const maxErrorBodyBytes = 64 << 10

// ErrAPIKeyNotConfigured is reported when no API key is configured.
var ErrAPIKeyNotConfigured = errors.New("OpenRouter API key not configured")

const providersDisabledMessage = "OpenRouter account configuration error: All AI providers are disabled. " +
	"Please visit https://openrouter.ai/settings/preferences to enable at least one provider (e.g., Anthropic/Claude)."

const invalidModelMessage = "OpenRouter rejected the requested model id. " +
	"Check OPENROUTER_MODEL against https://openrouter.ai/models."

// actionableErrors maps substrings of upstream error bodies to operator guidance.
// Order matters: the first match wins regardless of status code.
//
//nolint:gochecknoglobals // Read-only lookup table
var actionableErrors = []struct {
	marker  string
	message string
}{
	{marker: "All providers have been ignored", message: providersDisabledMessage},
	{marker: "is not a valid model ID", message: invalidModelMessage},
}

// statusError is a non-2xx upstream response captured before the SDK decodes it.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// userMessage translates the upstream failure into the message surfaced to callers.
// Raw bodies are only returned through the recognized actionable cases.
func (e *statusError) userMessage() string {
	for _, known := range actionableErrors {
		if strings.Contains(e.Body, known.marker) {
			return known.message
		}
	}
	return fmt.Sprintf("API request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *statusError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// captureStatus is an openai-go middleware that turns non-2xx responses into a
// statusError carrying the body, so classification does not depend on the
// shape of the provider's error payload.
func captureStatus(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	res, err := next(req)
	if err != nil || res == nil {
		return res, err
	}

	if res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices {
		return res, nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
	_ = res.Body.Close()

	return nil, &statusError{StatusCode: res.StatusCode, Body: string(body)}
}

// attemptError is the classified outcome of a failed attempt.
type attemptError struct {
	message   string
	retryable bool
	cause     error
}

func (e *attemptError) Error() string { return e.message }
func (e *attemptError) Unwrap() error { return e.cause }

// classify maps an SDK error to the caller-facing message and its retry class.
// parent is the caller context; timeout is the per-attempt deadline.
func classify(parent context.Context, err error, timeout time.Duration) *attemptError {
	if parentErr := parent.Err(); parentErr != nil {
		return &attemptError{message: fmt.Sprintf("request cancelled: %v", parentErr), cause: err}
	}

	var se *statusError
	if errors.As(err, &se) {
		return &attemptError{message: se.userMessage(), retryable: se.retryable(), cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &attemptError{
			message:   fmt.Sprintf("OpenRouter request timed out after %s", timeout),
			retryable: true,
			cause:     err,
		}
	}

	return &attemptError{message: err.Error(), retryable: true, cause: err}
}
