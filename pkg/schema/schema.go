package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Reserved column names, server-maintained on every materialized table.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// Declaration describes one data shape: its fields, its optional owner field
// and the access policy gating its records. The name is the unique key under
// which the declaration is stored and the basis for the derived table name
// and API path segment.
type Declaration struct {
	Name         string       `json:"name" yaml:"name"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	PhysicalName string       `json:"physicalName,omitempty" yaml:"physicalName,omitempty"`
	Fields       []Field      `json:"fields" yaml:"fields"`
	OwnerField   string       `json:"ownerField,omitempty" yaml:"ownerField,omitempty"`
	Policy       AccessPolicy `json:"policy" yaml:"policy"`
}

// Field declares one column. Default, when present, must be a literal of the
// declared type. Relation is accepted but carries no behavior.
type Field struct {
	Name     string      `json:"name" yaml:"name"`
	Type     FieldType   `json:"type" yaml:"type"`
	Required bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Unique   bool        `json:"unique,omitempty" yaml:"unique,omitempty"`
	Default  interface{} `json:"default,omitempty" yaml:"default,omitempty"`
	Relation string      `json:"relation,omitempty" yaml:"relation,omitempty"`
}

// AccessPolicy maps a role name to the operations granted to it. Roles are
// opaque strings. A role with no entry has no permissions.
type AccessPolicy map[string][]Operation

// Grants reports whether the role's entry contains op. It performs no
// expansion of OpAll; that is the evaluator's job.
func (p AccessPolicy) Grants(role string, op Operation) bool {
	for _, granted := range p[role] {
		if granted == op {
			return true
		}
	}
	return false
}

// Field returns the declared field with the given name.
func (d *Declaration) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ParseYAML decodes and validates a single declaration document.
func ParseYAML(data []byte) (*Declaration, error) {
	var decl Declaration
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("parse declaration: %w", err)
	}
	if err := decl.Validate(); err != nil {
		return nil, err
	}
	return &decl, nil
}

// ParseJSON decodes and validates a declaration from its JSON form, as stored
// by the model store and accepted by the admin API.
func ParseJSON(data []byte) (*Declaration, error) {
	var decl Declaration
	if err := json.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("parse declaration: %w", err)
	}
	if err := decl.Validate(); err != nil {
		return nil, err
	}
	return &decl, nil
}

// ToYAML renders the declaration in its file form, used by model export.
func (d *Declaration) ToYAML() ([]byte, error) {
	return yaml.Marshal(d)
}
