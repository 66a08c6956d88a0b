package feature

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/ptflow/internal/domain"
)

// SessionNote is the documented SOAP note of a completed session.
type SessionNote struct {
	Subjective Text `json:"subjective"`
	Objective  Text `json:"objective"`
	Assessment Text `json:"assessment"`
	Plan       Text `json:"plan"`
}

// SessionExercise is one exercise performed during the session.
type SessionExercise struct {
	Exercise struct {
		Name string `json:"name"`
	} `json:"exercise"`
	Sets      int    `json:"sets"`
	Reps      int    `json:"reps"`
	PainScore int    `json:"painScore"`
	Comments  string `json:"comments,omitempty"`
}

// String renders "- name: S sets x R reps, Pain: P/10 (comments)".
func (e SessionExercise) String() string {
	line := fmt.Sprintf("- %s: %d sets x %d reps, Pain: %d/10", e.Exercise.Name, e.Sets, e.Reps, e.PainScore)
	if e.Comments != "" {
		line += fmt.Sprintf(" (%s)", e.Comments)
	}
	return line
}

// SessionSummaryInput is the input of the session summary adapter.
type SessionSummaryInput struct {
	SessionNote *SessionNote      `json:"sessionNote"`
	Patient     *Patient          `json:"patient"`
	Exercises   []SessionExercise `json:"exercises,omitempty"`
}

// SessionSummary holds the clinical and patient-friendly summaries. A failed
// half leaves its text empty and reports the failure in its error field.
type SessionSummary struct {
	ClinicalSummary        string `json:"clinicalSummary"`
	PatientFriendlySummary string `json:"patientFriendlySummary"`
	ClinicalError          string `json:"clinicalError,omitempty"`
	PatientFriendlyError   string `json:"patientFriendlyError,omitempty"`
}

// SessionSummary produces clinical and patient-friendly summaries of one
// session. Both generations run concurrently; the call fails only when both do.
func (s *Service) SessionSummary(ctx context.Context, in SessionSummaryInput) (*SessionSummary, error) {
	if err := requireFields(map[string]interface{}{
		"sessionNote": in.SessionNote,
		"patient":     in.Patient,
	}, sessionSummaryFields(in)...); err != nil {
		return nil, err
	}

	sessionContext := renderSessionContext(in)

	var clinical, friendly domain.GenerationResult
	var g errgroup.Group

	g.Go(func() error {
		clinical = s.call(ctx, FeatureSessionSummary, &domain.GenerationRequest{
			SystemPrompt: sessionSummaryPrompt,
			UserPrompt:   "Summarize this PT session in 2-3 concise paragraphs for clinical documentation:\n\n" + sessionContext,
		})
		return nil
	})

	g.Go(func() error {
		friendly = s.call(ctx, FeatureSessionSummary, &domain.GenerationRequest{
			SystemPrompt: sessionSummaryPatientFriendlyPrompt,
			UserPrompt:   "Explain this PT session in simple language for the patient:\n\n" + sessionContext,
		})
		return nil
	})

	_ = g.Wait()

	if clinical.Failed() && friendly.Failed() {
		return nil, &GenerationError{Message: clinical.Error}
	}

	return &SessionSummary{
		ClinicalSummary:        clinical.Text,
		PatientFriendlySummary: friendly.Text,
		ClinicalError:          clinical.Error,
		PatientFriendlyError:   friendly.Error,
	}, nil
}

func sessionSummaryFields(in SessionSummaryInput) []field {
	var fields []field
	if in.SessionNote == nil {
		fields = append(fields, field{name: "sessionNote"})
	} else {
		fields = append(fields,
			field{name: "sessionNote.subjective", value: in.SessionNote.Subjective.String()},
			field{name: "sessionNote.objective", value: in.SessionNote.Objective.String()},
			field{name: "sessionNote.assessment", value: in.SessionNote.Assessment.String()},
			field{name: "sessionNote.plan", value: in.SessionNote.Plan.String()},
		)
	}
	return append(fields, in.Patient.fields("patient")...)
}

// renderSessionContext builds the shared context block of both summary prompts.
func renderSessionContext(in SessionSummaryInput) string {
	exercises := "None documented"
	if len(in.Exercises) > 0 {
		lines := make([]string, 0, len(in.Exercises))
		for _, e := range in.Exercises {
			lines = append(lines, e.String())
		}
		exercises = strings.Join(lines, "\n")
	}

	note := in.SessionNote
	return (&promptBuilder{}).
		Line(fmt.Sprintf("Patient: %s, %s", in.Patient.FullName(), in.Patient.PrimaryDiagnosis)).
		Section("SOAP Note", fmt.Sprintf("Subjective: %s\nObjective: %s\nAssessment: %s\nPlan: %s",
			note.Subjective, note.Objective, note.Assessment, note.Plan)).
		Section("Exercises Performed", exercises).
		String()
}
