package feature

import (
	"context"
	"regexp"

	"github.com/davidbz/ptflow/internal/domain"
)

var (
	// icdPattern matches ICD-10-CM shaped tokens: letter, two digits, optional
	// dotted extension of up to four alphanumerics (M54.5, S83.511A).
	icdPattern = regexp.MustCompile(`\b[A-Z]\d{2}(?:\.[0-9A-Z]{1,4})?\b`)
	// cptPattern matches five-digit CPT codes in the 9xxxx range used by PT services.
	cptPattern = regexp.MustCompile(`\b9[0-9]{4}\b`)
)

// CodeSuggestionsInput is the input of the billing code suggestion adapter.
type CodeSuggestionsInput struct {
	Diagnosis    Text `json:"diagnosis"`
	Procedures   Text `json:"procedures"`
	SessionNotes Text `json:"sessionNotes,omitempty"`
}

// CodeSuggestions holds codes extracted from the generated suggestion text.
type CodeSuggestions struct {
	ICDCodes []string `json:"icdCodes"`
	CPTCodes []string `json:"cptCodes"`
	FullText string   `json:"fullText"`
}

// CodeSuggestions asks for ICD-10 and CPT codes and extracts them from the answer.
func (s *Service) CodeSuggestions(ctx context.Context, in CodeSuggestionsInput) (*CodeSuggestions, error) {
	if err := requireFields(nil,
		field{name: "diagnosis", value: in.Diagnosis.String()},
		field{name: "procedures", value: in.Procedures.String()},
	); err != nil {
		return nil, err
	}

	prompt := (&promptBuilder{}).
		Line("Suggest appropriate medical billing codes for:").
		Section("Diagnosis/Condition", in.Diagnosis.String()).
		Section("Procedures/Services Performed", in.Procedures.String()).
		OptionalSection("Session Documentation", in.SessionNotes.String()).
		Line(`Please provide:
1. Recommended ICD-10 codes (with descriptions)
2. Recommended CPT codes (with descriptions)
3. Brief justification for each code
4. Any documentation tips for medical necessity`)

	text, err := s.generate(ctx, FeatureCodeSuggestions, &domain.GenerationRequest{
		SystemPrompt: codeSuggestionsPrompt,
		UserPrompt:   prompt.String(),
		Temperature:  domain.Temperature(0.3),
		MaxTokens:    1500,
	})
	if err != nil {
		return nil, err
	}

	return &CodeSuggestions{
		ICDCodes: ExtractICDCodes(text),
		CPTCodes: ExtractCPTCodes(text),
		FullText: text,
	}, nil
}

// ExtractICDCodes returns the distinct ICD-10 shaped tokens in text, in first-seen order.
func ExtractICDCodes(text string) []string {
	return extractCodes(text, icdPattern)
}

// ExtractCPTCodes returns the distinct CPT shaped tokens in text, in first-seen order.
func ExtractCPTCodes(text string) []string {
	return extractCodes(text, cptPattern)
}

func extractCodes(text string, pattern *regexp.Regexp) []string {
	matches := pattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	codes := make([]string, 0, len(matches))
	for _, code := range matches {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}
