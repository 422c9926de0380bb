package llm

import (
	"encoding/json"
	"strings"
)

// Schema types, in JSON-schema spelling.
const (
	TypeObject = "object"
	TypeArray  = "array"
	TypeString = "string"
	TypeNumber = "number"
)

// Schema is the subset of JSON schema the providers understand.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// StringArray is shorthand for an array of strings.
func StringArray() *Schema {
	return &Schema{Type: TypeArray, Items: &Schema{Type: TypeString}}
}

// Describe renders the schema as indented JSON for prompt embedding.
func (s *Schema) Describe() string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

// withSchemaInstruction appends the schema to a system prompt for providers
// that cannot enforce it natively.
func withSchemaInstruction(system string, s *Schema) string {
	if s == nil {
		return system
	}
	var b strings.Builder
	if system != "" {
		b.WriteString(system)
		b.WriteString("\n\n")
	}
	b.WriteString("Respond with a single JSON object matching this JSON schema:\n")
	b.WriteString(s.Describe())
	b.WriteString("\nOnly respond with the JSON object, no other text.")
	return b.String()
}
