package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Patient is the patient header shared by the summary adapters.
type Patient struct {
	FirstName        Text `json:"firstName"`
	LastName         Text `json:"lastName"`
	PrimaryDiagnosis Text `json:"primaryDiagnosis"`
}

// FullName returns "First Last".
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName.String() + " " + p.LastName.String())
}

func (p *Patient) fields(prefix string) []field {
	if p == nil {
		return []field{{name: prefix}}
	}
	return []field{
		{name: prefix + ".firstName", value: p.FirstName.String()},
		{name: prefix + ".lastName", value: p.LastName.String()},
		{name: prefix + ".primaryDiagnosis", value: p.PrimaryDiagnosis.String()},
	}
}

// timestampLayouts are tried in order when decoding a Timestamp.
//
//nolint:gochecknoglobals // Read-only lookup table
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Timestamp is a measurement time. It accepts RFC 3339 and bare dates.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected timestamp string: %w", err)
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = Timestamp{Time: parsed}
			return nil
		}
	}

	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// shortDate renders M/D/YYYY in UTC.
func (t Timestamp) shortDate() string {
	return t.UTC().Format("1/2/2006")
}
