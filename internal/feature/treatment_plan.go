package feature

import (
	"context"

	"github.com/davidbz/ptflow/internal/domain"
)

// TreatmentPlanInput is the input of the treatment plan adapter.
type TreatmentPlanInput struct {
	Diagnosis      Text `json:"diagnosis"`
	CurrentStatus  Text `json:"currentStatus"`
	Goals          Text `json:"goals"`
	Limitations    Text `json:"limitations"`
	SessionHistory Text `json:"sessionHistory,omitempty"`
}

// TreatmentPlan is the generated plan recommendation.
type TreatmentPlan struct {
	Recommendation string `json:"recommendation"`
}

// TreatmentPlan recommends an evidence-based plan of care.
func (s *Service) TreatmentPlan(ctx context.Context, in TreatmentPlanInput) (*TreatmentPlan, error) {
	if err := requireFields(nil,
		field{name: "diagnosis", value: in.Diagnosis.String()},
		field{name: "currentStatus", value: in.CurrentStatus.String()},
		field{name: "goals", value: in.Goals.String()},
		field{name: "limitations", value: in.Limitations.String()},
	); err != nil {
		return nil, err
	}

	prompt := (&promptBuilder{}).
		Line("Create a treatment plan recommendation for:").
		Section("Diagnosis/Primary Condition", in.Diagnosis.String()).
		Section("Current Status", in.CurrentStatus.String()).
		Section("Patient Goals", in.Goals.String()).
		Section("Limitations/Precautions", in.Limitations.String()).
		OptionalSection("Recent Session History", in.SessionHistory.String()).
		Line(`Please provide:
1. Short-term goals (2-4 weeks)
2. Long-term goals (6-12 weeks)
3. Recommended interventions and exercises
4. Home exercise program
5. Frequency and duration of treatment
6. Special considerations or precautions`)

	text, err := s.generate(ctx, FeatureTreatmentPlan, &domain.GenerationRequest{
		SystemPrompt: treatmentPlanPrompt,
		UserPrompt:   prompt.String(),
		Temperature:  domain.Temperature(0.7),
		MaxTokens:    2500,
	})
	if err != nil {
		return nil, err
	}

	return &TreatmentPlan{Recommendation: text}, nil
}
