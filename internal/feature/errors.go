package feature

import (
	"fmt"
	"strings"
)

// ValidationError reports a request the caller must fix. It is returned
// before any generation call is made.
type ValidationError struct {
	Message  string
	Received map[string]interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// GenerationError carries a generator failure message verbatim.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	return e.Message
}

// field is a named required input value.
type field struct {
	name  string
	value string
}

// requireFields returns a ValidationError naming every blank field, or nil.
// received is echoed back to the caller as what was parsed.
func requireFields(received map[string]interface{}, fields ...field) *ValidationError {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	if received == nil {
		received = make(map[string]interface{}, len(fields))
		for _, f := range fields {
			received[f.name] = f.value
		}
	}

	return &ValidationError{
		Message:  fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
		Received: received,
	}
}
