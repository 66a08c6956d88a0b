package feature

import (
	"context"
	"fmt"

	"github.com/davidbz/ptflow/internal/domain"
)

// ResponseType selects the kind of patient message reply to draft.
type ResponseType string

// Supported response types. The empty value drafts a generic response.
const (
	ResponseTypeGeneral     ResponseType = "general"
	ResponseTypeAppointment ResponseType = "appointment"
	ResponseTypeBilling     ResponseType = "billing"
	ResponseTypeClinical    ResponseType = "clinical"
)

// responseTypeDescriptions completes "Draft <description> to the following patient message".
//
//nolint:gochecknoglobals // Read-only lookup table
var responseTypeDescriptions = map[ResponseType]string{
	ResponseTypeGeneral:     "a general informational response",
	ResponseTypeAppointment: "a response regarding appointment scheduling or changes",
	ResponseTypeBilling:     "a response regarding billing or insurance questions",
	ResponseTypeClinical:    "a response that acknowledges their concern and suggests contacting their therapist",
}

// description returns the prompt phrase for the response type.
func (r ResponseType) description() (string, bool) {
	if r == "" {
		return "a response", true
	}
	d, ok := responseTypeDescriptions[r]
	return d, ok
}

// MessageResponseInput is the input of the patient message drafting adapter.
type MessageResponseInput struct {
	PatientMessage Text         `json:"patientMessage"`
	PatientContext Text         `json:"patientContext"`
	MessageHistory Text         `json:"messageHistory,omitempty"`
	ResponseType   ResponseType `json:"responseType,omitempty"`
}

// MessageResponse holds the drafted reply options.
type MessageResponse struct {
	Suggestions string `json:"suggestions"`
}

// MessageResponse drafts reply options for a patient message.
func (s *Service) MessageResponse(ctx context.Context, in MessageResponseInput) (*MessageResponse, error) {
	if err := requireFields(nil,
		field{name: "patientMessage", value: in.PatientMessage.String()},
		field{name: "patientContext", value: in.PatientContext.String()},
	); err != nil {
		return nil, err
	}

	description, ok := in.ResponseType.description()
	if !ok {
		return nil, &ValidationError{
			Message:  fmt.Sprintf("Invalid responseType %q: expected one of general, appointment, billing, clinical", in.ResponseType),
			Received: map[string]interface{}{"responseType": string(in.ResponseType)},
		}
	}

	prompt := (&promptBuilder{}).
		Line(fmt.Sprintf("Draft %s to the following patient message:", description)).
		Section("Patient Name/Context", in.PatientContext.String()).
		Section("Patient Message", in.PatientMessage.String()).
		OptionalSection("Previous Message History", in.MessageHistory.String()).
		Line(`Please provide 2-3 response options with different tones:
1. Professional and brief
2. Warm and detailed
3. Concise with action items

Format each response clearly labeled.`)

	text, err := s.generate(ctx, FeatureMessageResponse, &domain.GenerationRequest{
		SystemPrompt: messageResponsePrompt,
		UserPrompt:   prompt.String(),
		Temperature:  domain.Temperature(0.8),
		MaxTokens:    1200,
	})
	if err != nil {
		return nil, err
	}

	return &MessageResponse{Suggestions: text}, nil
}
