// Package forms declares the site's forms and binds them to the services
// that handle their submissions.
package forms

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/justsurfingit/jobs-in-germany/internal/formflow"
)

//go:embed forms.yaml
var definitionsYAML []byte

// Field kinds.
const (
	KindText     = "text"
	KindEmail    = "email"
	KindPassword = "password"
	KindFile     = "file"
)

// FieldDef declares one input of a form.
type FieldDef struct {
	Name     string   `yaml:"name" json:"name"`
	Label    string   `yaml:"label" json:"label"`
	Kind     string   `yaml:"kind" json:"kind"`
	Required bool     `yaml:"required" json:"required"`
	Message  string   `yaml:"message" json:"-"`
	Accept   []string `yaml:"accept" json:"accept,omitempty"`
}

// Definition declares a form and names the task its submission runs.
type Definition struct {
	Name           string     `yaml:"name" json:"name"`
	Title          string     `yaml:"title" json:"title"`
	Protected      bool       `yaml:"protected" json:"protected"`
	SuccessRoute   string     `yaml:"success_route" json:"successRoute"`
	SuccessMessage string     `yaml:"success_message" json:"-"`
	Task           string     `yaml:"task" json:"-"`
	Fields         []FieldDef `yaml:"fields" json:"fields"`
}

// Load parses the embedded definitions.
func Load() ([]Definition, error) {
	return Parse(definitionsYAML)
}

// Parse decodes and checks a YAML list of definitions.
func Parse(data []byte) ([]Definition, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse form definitions: %w", err)
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("form definition without name")
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate form %q", d.Name)
		}
		seen[d.Name] = true
		for _, f := range d.Fields {
			switch f.Kind {
			case KindText, KindEmail, KindPassword, KindFile:
			default:
				return nil, fmt.Errorf("form %s: field %s has unknown kind %q", d.Name, f.Name, f.Kind)
			}
			if len(f.Accept) > 0 && f.Kind != KindFile {
				return nil, fmt.Errorf("form %s: accept set on non-file field %s", d.Name, f.Name)
			}
		}
	}
	return defs, nil
}

// Validator derives the rules of d: for each field in order, value kind,
// presence, then e-mail format, then accepted media types.
func (d Definition) Validator() formflow.Validator {
	var rules []formflow.Rule
	for _, f := range d.Fields {
		if f.Kind == KindFile {
			rules = append(rules, formflow.FileField(f.Name, f.Message))
		} else {
			rules = append(rules, formflow.TextField(f.Name, ""))
		}
		if f.Required {
			rules = append(rules, formflow.Required(f.Name, f.Message))
		}
		if f.Kind == KindEmail {
			rules = append(rules, formflow.Email(f.Name))
		}
		if len(f.Accept) > 0 {
			rules = append(rules, formflow.FileType(f.Name, f.Accept...))
		}
	}
	return formflow.Rules(rules...)
}

// Field returns the named field declaration.
func (d Definition) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}
