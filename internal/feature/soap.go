package feature

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/davidbz/ptflow/internal/domain"
)

// SOAPNoteInput is the input of the SOAP note drafting adapter.
type SOAPNoteInput struct {
	PatientInfo    Text `json:"patientInfo"`
	ChiefComplaint Text `json:"chiefComplaint"`
	Observations   Text `json:"observations"`
	PreviousNotes  Text `json:"previousNotes,omitempty"`
}

// Section is one extracted SOAP section. Parsed is false when the
// placeholder was substituted because the model output had no such section.
type Section struct {
	Name   string
	Text   string
	Parsed bool
}

// MarshalJSON renders a section as its text.
func (s Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// SOAPNote is a drafted note split into its four sections.
type SOAPNote struct {
	Subjective   Section  `json:"subjective"`
	Objective    Section  `json:"objective"`
	Assessment   Section  `json:"assessment"`
	Plan         Section  `json:"plan"`
	FullText     string   `json:"fullText"`
	Placeholders []string `json:"placeholders,omitempty"`
}

// SOAPNote drafts a SOAP note and splits it into sections.
func (s *Service) SOAPNote(ctx context.Context, in SOAPNoteInput) (*SOAPNote, error) {
	if err := requireFields(nil,
		field{name: "patientInfo", value: in.PatientInfo.String()},
		field{name: "chiefComplaint", value: in.ChiefComplaint.String()},
		field{name: "observations", value: in.Observations.String()},
	); err != nil {
		return nil, err
	}

	prompt := (&promptBuilder{}).
		Line("Generate a SOAP note for the following patient session:").
		Section("Patient Information", in.PatientInfo.String()).
		Section("Chief Complaint/Reason for Visit", in.ChiefComplaint.String()).
		Section("Observations/Findings", in.Observations.String()).
		OptionalSection("Previous Session Notes", in.PreviousNotes.String()).
		Line(`Please generate a complete SOAP note with the following sections:
1. Subjective (S): Patient's reported symptoms, complaints, and functional limitations
2. Objective (O): Measurable findings, ROM, strength, pain levels, functional tests
3. Assessment (A): Clinical interpretation of progress and current status
4. Plan (P): Treatment plan, home exercise program, next session goals`)

	text, err := s.generate(ctx, FeatureSOAPNote, &domain.GenerationRequest{
		SystemPrompt: soapNotePrompt,
		UserPrompt:   prompt.String(),
		Temperature:  domain.Temperature(0.7),
		MaxTokens:    2000,
	})
	if err != nil {
		return nil, err
	}

	note := ExtractSOAPSections(text)
	return &note, nil
}

// soapSections lists each section name with its markers, in SOAP order.
//
//nolint:gochecknoglobals // Read-only lookup table
var soapSections = []struct {
	name    string
	markers []string
}{
	{name: "Subjective", markers: []string{"S:", "Subjective:"}},
	{name: "Objective", markers: []string{"O:", "Objective:"}},
	{name: "Assessment", markers: []string{"A:", "Assessment:"}},
	{name: "Plan", markers: []string{"P:", "Plan:"}},
}

var (
	// nextSectionPattern terminates a marker capture.
	nextSectionPattern = regexp.MustCompile(`(?i)\n\s*[SOAP]:`)
	// bareMarkerLine stops the fallback line scan.
	bareMarkerLine = regexp.MustCompile(`(?i)^[SOAP]:`)
	// markerPatterns holds one compiled pattern per marker.
	markerPatterns = compileMarkers()
)

func compileMarkers() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, section := range soapSections {
		for _, marker := range section.markers {
			patterns[marker] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker))
		}
	}
	return patterns
}

// ExtractSOAPSections splits generated text into the four SOAP sections.
// Every section is always populated: when neither the marker pattern nor
// the line scan finds content, the section holds "[Generated <Name> section]".
func ExtractSOAPSections(text string) SOAPNote {
	sections := make([]Section, len(soapSections))
	var placeholders []string

	for i, section := range soapSections {
		sections[i] = extractSection(text, section.name, section.markers)
		if !sections[i].Parsed {
			placeholders = append(placeholders, strings.ToLower(section.name))
		}
	}

	return SOAPNote{
		Subjective:   sections[0],
		Objective:    sections[1],
		Assessment:   sections[2],
		Plan:         sections[3],
		FullText:     text,
		Placeholders: placeholders,
	}
}

func extractSection(text, name string, markers []string) Section {
	for _, marker := range markers {
		if body, ok := captureAfterMarker(text, markerPatterns[marker]); ok {
			return Section{Name: name, Text: body, Parsed: true}
		}
	}

	if body, ok := scanLinesAfterHeading(text, name); ok {
		return Section{Name: name, Text: body, Parsed: true}
	}

	return Section{Name: name, Text: fmt.Sprintf("[Generated %s section]", name), Parsed: false}
}

// captureAfterMarker returns the text following the first marker match up to
// the next section marker on a new line, or the end of text.
func captureAfterMarker(text string, marker *regexp.Regexp) (string, bool) {
	loc := marker.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[1]:]
	if next := nextSectionPattern.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}

	body := strings.TrimSpace(rest)
	return body, body != ""
}

// scanLinesAfterHeading captures lines after a line mentioning the section
// name until a line beginning with a bare section letter marker.
func scanLinesAfterHeading(text, name string) (string, bool) {
	lowerName := strings.ToLower(name)
	capturing := false

	var builder strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), lowerName) {
			capturing = true
			continue
		}
		if capturing && bareMarkerLine.MatchString(line) {
			break
		}
		if capturing {
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	body := strings.TrimSpace(builder.String())
	return body, body != ""
}
