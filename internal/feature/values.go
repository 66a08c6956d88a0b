package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a free-text input that also accepts a JSON array of strings,
// which is joined with newlines. null and [] decode to the empty string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	lines, err := decodeStringOrList(data)
	if err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*t = Text(strings.Join(lines, "\n"))
	return nil
}

// String returns the text.
func (t Text) String() string {
	return string(t)
}

// CodeList is a list of billing codes that also accepts a single
// comma-separated string.
type CodeList []string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CodeList) UnmarshalJSON(data []byte) error {
	codes, err := decodeStringOrList(data)
	if err != nil {
		return fmt.Errorf("expected string or array of codes: %w", err)
	}
	*c = codes
	return nil
}

// String joins the codes with ", ".
func (c CodeList) String() string {
	parts := make([]string, 0, len(c))
	for _, code := range c {
		if code = strings.TrimSpace(code); code != "" {
			parts = append(parts, code)
		}
	}
	return strings.Join(parts, ", ")
}

func decodeStringOrList(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	if single == "" {
		return nil, nil
	}
	return []string{single}, nil
}

// promptBuilder renders a prompt as blocks separated by blank lines.
// Optional blocks with blank bodies are omitted entirely.
type promptBuilder struct {
	blocks []string
}

// Line appends a literal block.
func (b *promptBuilder) Line(text string) *promptBuilder {
	b.blocks = append(b.blocks, text)
	return b
}

// Section appends "header:\nbody".
func (b *promptBuilder) Section(header, body string) *promptBuilder {
	b.blocks = append(b.blocks, header+":\n"+body)
	return b
}

// OptionalSection appends "header:\nbody" only when body is not blank.
func (b *promptBuilder) OptionalSection(header, body string) *promptBuilder {
	if strings.TrimSpace(body) == "" {
		return b
	}
	return b.Section(header, body)
}

// String returns the rendered prompt.
func (b *promptBuilder) String() string {
	return strings.Join(b.blocks, "\n\n")
}

// orDefault returns value, or fallback when value is blank.
func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
