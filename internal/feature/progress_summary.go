package feature

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/davidbz/ptflow/internal/domain"
)

// Metric is one recorded outcome measurement.
type Metric struct {
	Type         string    `json:"type"`
	Label        string    `json:"label"`
	ValueNumeric float64   `json:"valueNumeric"`
	Unit         string    `json:"unit"`
	MeasuredAt   Timestamp `json:"measuredAt"`
}

// ProgressSummaryInput is the input of the patient-facing progress summary adapter.
type ProgressSummaryInput struct {
	Patient *Patient `json:"patient"`
	Metrics []Metric `json:"metrics"`
}

// ProgressSummary is the generated patient-friendly progress narrative.
type ProgressSummary struct {
	ProgressSummary string `json:"progressSummary"`
}

// ProgressSummary explains recorded outcome metrics to the patient.
func (s *Service) ProgressSummary(ctx context.Context, in ProgressSummaryInput) (*ProgressSummary, error) {
	metricCount := ""
	if len(in.Metrics) > 0 {
		metricCount = strconv.Itoa(len(in.Metrics))
	}

	fields := append(in.Patient.fields("patient"), field{name: "metrics", value: metricCount})
	for i, m := range in.Metrics {
		fields = append(fields, m.fields(fmt.Sprintf("metrics[%d]", i))...)
	}
	if err := requireFields(map[string]interface{}{
		"patient": in.Patient,
		"metrics": in.Metrics,
	}, fields...); err != nil {
		return nil, err
	}

	prompt := (&promptBuilder{}).
		Line("Analyze the progress for this patient:").
		Line(fmt.Sprintf("Patient: %s\nDiagnosis: %s", in.Patient.FullName(), in.Patient.PrimaryDiagnosis)).
		Section("Progress Data", RenderMetrics(in.Metrics)).
		Line(`Provide a patient-friendly summary (2-3 paragraphs) that:
1. Highlights key trends and improvements
2. Explains what the data means for their recovery
3. Is encouraging while being honest about progress`)

	text, err := s.generate(ctx, FeatureProgressSummary, &domain.GenerationRequest{
		SystemPrompt: progressSummaryPrompt,
		UserPrompt:   prompt.String(),
		MaxTokens:    1000,
	})
	if err != nil {
		return nil, err
	}

	return &ProgressSummary{ProgressSummary: text}, nil
}

func (m Metric) fields(prefix string) []field {
	measuredAt := ""
	if !m.MeasuredAt.IsZero() {
		measuredAt = m.MeasuredAt.shortDate()
	}
	return []field{
		{name: prefix + ".type", value: m.Type},
		{name: prefix + ".label", value: m.Label},
		{name: prefix + ".measuredAt", value: measuredAt},
	}
}

// RenderMetrics groups metrics by "type: label" in first-seen order and lists
// each group's measurements oldest first as "M/D/YYYY: value unit".
func RenderMetrics(metrics []Metric) string {
	var order []string
	groups := make(map[string][]Metric)
	for _, m := range metrics {
		key := m.Type + ": " + m.Label
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], m)
	}

	blocks := make([]string, 0, len(order))
	for _, key := range order {
		values := groups[key]
		sort.SliceStable(values, func(i, j int) bool {
			return values[i].MeasuredAt.Before(values[j].MeasuredAt.Time)
		})

		lines := make([]string, 0, len(values))
		for _, m := range values {
			value := strconv.FormatFloat(m.ValueNumeric, 'f', -1, 64)
			lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s: %s %s", m.MeasuredAt.shortDate(), value, m.Unit)))
		}
		blocks = append(blocks, key+":\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}
