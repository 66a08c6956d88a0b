package feature

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/davidbz/ptflow/internal/domain"
)

const notSpecified = "Not specified"

// ClaimShape identifies which request body shape a claim justification arrived in.
type ClaimShape string

const (
	// ClaimShapeCurrent is {diagnosis, cptCodes, icdCodes, functionalLimitations, sessionNotes}.
	ClaimShapeCurrent ClaimShape = "current"
	// ClaimShapeLegacy is {claim{cptCodes, icdCodes}, patient{primaryDiagnosis, medicalHistory}, sessionNotes}.
	ClaimShapeLegacy ClaimShape = "legacy"
)

// ClaimDetails is the current claim justification request shape.
type ClaimDetails struct {
	Diagnosis             Text     `json:"diagnosis"`
	CPTCodes              CodeList `json:"cptCodes"`
	ICDCodes              CodeList `json:"icdCodes"`
	FunctionalLimitations Text     `json:"functionalLimitations,omitempty"`
	SessionNotes          Text     `json:"sessionNotes,omitempty"`
}

// LegacyClaimRequest is the claim+patient shape sent by older billing screens.
type LegacyClaimRequest struct {
	Claim struct {
		CPTCodes CodeList `json:"cptCodes"`
		ICDCodes CodeList `json:"icdCodes"`
	} `json:"claim"`
	Patient struct {
		PrimaryDiagnosis Text `json:"primaryDiagnosis"`
		MedicalHistory   Text `json:"medicalHistory"`
	} `json:"patient"`
	SessionNotes Text `json:"sessionNotes,omitempty"`
}

// ClaimJustificationInput holds exactly one of the two accepted shapes.
type ClaimJustificationInput struct {
	Shape   ClaimShape
	Current *ClaimDetails
	Legacy  *LegacyClaimRequest
}

// UnmarshalJSON selects the legacy shape when the body carries both a claim
// and a patient object, and the current shape otherwise.
func (in *ClaimJustificationInput) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Claim   json.RawMessage `json:"claim"`
		Patient json.RawMessage `json:"patient"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	if isJSONObject(envelope.Claim) && isJSONObject(envelope.Patient) {
		var legacy LegacyClaimRequest
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("legacy claim body: %w", err)
		}
		*in = ClaimJustificationInput{Shape: ClaimShapeLegacy, Legacy: &legacy}
		return nil
	}

	var current ClaimDetails
	if err := json.Unmarshal(data, &current); err != nil {
		return fmt.Errorf("claim body: %w", err)
	}
	*in = ClaimJustificationInput{Shape: ClaimShapeCurrent, Current: &current}
	return nil
}

// Details normalizes either shape into ClaimDetails.
func (in ClaimJustificationInput) Details() ClaimDetails {
	switch {
	case in.Shape == ClaimShapeLegacy && in.Legacy != nil:
		return ClaimDetails{
			Diagnosis:             in.Legacy.Patient.PrimaryDiagnosis,
			CPTCodes:              in.Legacy.Claim.CPTCodes,
			ICDCodes:              in.Legacy.Claim.ICDCodes,
			FunctionalLimitations: in.Legacy.Patient.MedicalHistory,
			SessionNotes:          in.Legacy.SessionNotes,
		}
	case in.Current != nil:
		return *in.Current
	default:
		return ClaimDetails{}
	}
}

// fieldNames returns the diagnosis, CPT and ICD field paths as the caller sent them.
func (shape ClaimShape) fieldNames() [3]string {
	if shape == ClaimShapeLegacy {
		return [3]string{"patient.primaryDiagnosis", "claim.cptCodes", "claim.icdCodes"}
	}
	return [3]string{"diagnosis", "cptCodes", "icdCodes"}
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// ClaimJustification is the generated medical necessity text.
type ClaimJustification struct {
	Justification string `json:"justification"`
}

// ClaimJustification writes a medical necessity justification for an insurance claim.
func (s *Service) ClaimJustification(ctx context.Context, in ClaimJustificationInput) (*ClaimJustification, error) {
	details := in.Details()
	diagnosis := details.Diagnosis.String()
	cptCodes := details.CPTCodes.String()
	icdCodes := details.ICDCodes.String()

	names := in.Shape.fieldNames()
	if err := requireFields(nil,
		field{name: names[0], value: diagnosis},
		field{name: names[1], value: cptCodes},
		field{name: names[2], value: icdCodes},
	); err != nil {
		return nil, err
	}

	prompt := (&promptBuilder{}).
		Line("Create a medical necessity justification for this insurance claim:").
		Line(fmt.Sprintf("Diagnosis: %s\nCPT Codes: %s\nICD-10 Codes: %s\nFunctional Limitations: %s",
			diagnosis, cptCodes, icdCodes, orDefault(details.FunctionalLimitations.String(), notSpecified))).
		OptionalSection("Session Documentation", details.SessionNotes.String()).
		Line(`Write a professional 2-3 paragraph justification explaining:
1. Medical necessity of skilled PT services
2. Functional limitations requiring intervention
3. Expected outcomes from treatment

Use professional billing language suitable for insurance review.`)

	text, err := s.generate(ctx, FeatureClaimJustification, &domain.GenerationRequest{
		SystemPrompt: claimJustificationPrompt,
		UserPrompt:   prompt.String(),
		Temperature:  domain.Temperature(0.5),
		MaxTokens:    800,
	})
	if err != nil {
		return nil, err
	}

	return &ClaimJustification{Justification: text}, nil
}
