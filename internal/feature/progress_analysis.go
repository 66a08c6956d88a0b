package feature

import (
	"context"
	"fmt"

	"github.com/davidbz/ptflow/internal/domain"
)

// ProgressAnalysisInput is the input of the progress analysis adapter.
type ProgressAnalysisInput struct {
	PatientName    Text `json:"patientName"`
	Diagnosis      Text `json:"diagnosis"`
	SessionHistory Text `json:"sessionHistory"`
	InitialEval    Text `json:"initialEval"`
	CurrentStatus  Text `json:"currentStatus"`
}

// ProgressAnalysis is the generated progress interpretation.
type ProgressAnalysis struct {
	Analysis string `json:"analysis"`
}

// ProgressAnalysis compares current status against the initial evaluation.
func (s *Service) ProgressAnalysis(ctx context.Context, in ProgressAnalysisInput) (*ProgressAnalysis, error) {
	if err := requireFields(nil,
		field{name: "patientName", value: in.PatientName.String()},
		field{name: "diagnosis", value: in.Diagnosis.String()},
		field{name: "sessionHistory", value: in.SessionHistory.String()},
		field{name: "initialEval", value: in.InitialEval.String()},
		field{name: "currentStatus", value: in.CurrentStatus.String()},
	); err != nil {
		return nil, err
	}

	prompt := (&promptBuilder{}).
		Line("Analyze progress for:").
		Line(fmt.Sprintf("Patient: %s\nDiagnosis: %s", in.PatientName, in.Diagnosis)).
		Section("Initial Evaluation Findings", in.InitialEval.String()).
		Section("Current Status", in.CurrentStatus.String()).
		Section("Session History Data", in.SessionHistory.String()).
		Line(`Please provide:
1. Overall progress summary
2. Key improvements noted
3. Areas requiring continued focus
4. Trends in measurable outcomes
5. Functional gains achieved`)

	text, err := s.generate(ctx, FeatureProgressAnalysis, &domain.GenerationRequest{
		SystemPrompt: progressAnalysisPrompt,
		UserPrompt:   prompt.String(),
		Temperature:  domain.Temperature(0.6),
		MaxTokens:    1500,
	})
	if err != nil {
		return nil, err
	}

	return &ProgressAnalysis{Analysis: text}, nil
}
