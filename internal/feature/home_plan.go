package feature

import (
	"context"
	"fmt"

	"github.com/davidbz/ptflow/internal/domain"
)

const (
	defaultExerciseGoals     = "Improve strength, ROM, and function"
	defaultExerciseEquipment = "Minimal equipment (resistance bands, household items)"
)

// HomePlanInput is the input of the home exercise plan adapter.
type HomePlanInput struct {
	Diagnosis  Text `json:"diagnosis"`
	BodyRegion Text `json:"bodyRegion"`
	Goals      Text `json:"goals,omitempty"`
	Equipment  Text `json:"equipment,omitempty"`
}

// HomePlan is the generated home exercise program.
type HomePlan struct {
	ExercisePlan string `json:"exercisePlan"`
}

// HomePlan drafts a home exercise program.
func (s *Service) HomePlan(ctx context.Context, in HomePlanInput) (*HomePlan, error) {
	if err := requireFields(nil,
		field{name: "diagnosis", value: in.Diagnosis.String()},
		field{name: "bodyRegion", value: in.BodyRegion.String()},
	); err != nil {
		return nil, err
	}

	prompt := (&promptBuilder{}).
		Line("Create a home exercise program for a patient with the following:").
		Line(fmt.Sprintf("Diagnosis: %s\nBody Region: %s\nGoals: %s\nAvailable Equipment: %s",
			in.Diagnosis,
			in.BodyRegion,
			orDefault(in.Goals.String(), defaultExerciseGoals),
			orDefault(in.Equipment.String(), defaultExerciseEquipment),
		)).
		Line(`Provide 5-7 exercises with:
- Exercise name
- Clear instructions
- Sets and reps
- Frequency (days per week)
- Any safety precautions

Format as a structured list.`)

	text, err := s.generate(ctx, FeatureHomePlan, &domain.GenerationRequest{
		SystemPrompt: exercisePlanPrompt,
		UserPrompt:   prompt.String(),
		MaxTokens:    1500,
	})
	if err != nil {
		return nil, err
	}

	return &HomePlan{ExercisePlan: text}, nil
}
