package report

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var schemaYAML []byte

// FieldDef describes one report field as presented on the form.
type FieldDef struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Section groups related fields on the report form.
type Section struct {
	ID     string     `yaml:"id" json:"id"`
	Title  string     `yaml:"title" json:"title"`
	Fields []FieldDef `yaml:"fields" json:"fields"`
}

// Schema is the ordered set of form sections.
type Schema struct {
	Sections []Section `yaml:"sections" json:"sections"`

	index map[string]string // field id -> section id
}

// SectionView is a section populated with a session's values.
type SectionView struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Values []FieldValue `json:"values"`
}

// FieldValue is one populated field.
type FieldValue struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// LoadSchema parses the embedded form schema.
func LoadSchema() (*Schema, error) {
	return ParseSchema(schemaYAML)
}

// ParseSchema parses a YAML form schema and rejects duplicate field ids.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	s.index = make(map[string]string)
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if prev, dup := s.index[f.ID]; dup {
				return nil, fmt.Errorf("field %q declared in both %q and %q", f.ID, prev, sec.ID)
			}
			s.index[f.ID] = sec.ID
		}
	}
	return &s, nil
}

// Known reports whether id is a field declared in the schema.
func (s *Schema) Known(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Group arranges populated fields into their sections, in schema order.
// Sections with no values are omitted; unknown fields are dropped.
func (s *Schema) Group(f Fields) []SectionView {
	var out []SectionView
	for _, sec := range s.Sections {
		view := SectionView{ID: sec.ID, Title: sec.Title}
		for _, def := range sec.Fields {
			if v := f[def.ID]; v != "" {
				view.Values = append(view.Values, FieldValue{ID: def.ID, Label: def.Label, Value: v})
			}
		}
		if len(view.Values) > 0 {
			out = append(out, view)
		}
	}
	return out
}
