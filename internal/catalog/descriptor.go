// Package catalog defines the descriptor model every tool publishes:
// identity, input schema, and output kind. Descriptors are immutable
// once registered and drive both validation and client form rendering.
package catalog

import (
	"fmt"
)

// FieldKind is the declared primitive type of one schema field.
type FieldKind string

const (
	KindString  FieldKind = "string"
	KindNumber  FieldKind = "number"
	KindInteger FieldKind = "integer"
	KindFile    FieldKind = "file"
)

// OutputKind declares how a tool's result crosses the wire.
type OutputKind string

const (
	OutputStructured OutputKind = "structured"
	OutputAttachment OutputKind = "attachment"
)

// FieldSpec describes one input parameter of a tool.
type FieldSpec struct {
	Name        string    `json:"name"`
	Kind        FieldKind `json:"kind"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
	Enum        []string  `json:"enum,omitempty"`    // string fields only
	Minimum     *float64  `json:"minimum,omitempty"` // number/integer fields only
	Maximum     *float64  `json:"maximum,omitempty"` // number/integer fields only
	Default     any       `json:"default,omitempty"`
	Example     string    `json:"example,omitempty"` // UI hinting only
}

// InputSchema is an ordered list of field specs. Order is the declaration
// order and is preserved through validation and client form rendering.
type InputSchema []FieldSpec

// Field returns the spec with the given name, if declared.
func (s InputSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// HasFileField reports whether any field is of kind file. The client uses
// this to pick the transport shape (multipart vs JSON body).
func (s InputSchema) HasFileField() bool {
	for _, f := range s {
		if f.Kind == KindFile {
			return true
		}
	}
	return false
}

// ToolDescriptor is the declarative metadata a tool publishes.
type ToolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	OutputKind  OutputKind  `json:"output_kind"`
	InputSchema InputSchema `json:"input_schema"`
}

// validKinds is the closed set of field kinds.
var validKinds = map[FieldKind]bool{
	KindString: true, KindNumber: true, KindInteger: true, KindFile: true,
}

// Validate checks a descriptor for structural defects. Tool names double as
// URL segments, so the charset is restricted to lowercase alphanumerics and
// hyphens.
func (d ToolDescriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if !safeName(d.Name) {
		return fmt.Errorf("tool %q has invalid name (allowed: a-z, 0-9, hyphen)", d.Name)
	}
	if d.Description == "" {
		return fmt.Errorf("tool %q has empty description", d.Name)
	}
	if d.OutputKind != OutputStructured && d.OutputKind != OutputAttachment {
		return fmt.Errorf("tool %q has unsupported output kind %q", d.Name, d.OutputKind)
	}
	seen := make(map[string]bool, len(d.InputSchema))
	for _, f := range d.InputSchema {
		if f.Name == "" {
			return fmt.Errorf("tool %q has a field with empty name", d.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("tool %q declares field %q twice", d.Name, f.Name)
		}
		seen[f.Name] = true
		if !validKinds[f.Kind] {
			return fmt.Errorf("tool %q field %q has unsupported kind %q", d.Name, f.Name, f.Kind)
		}
		if len(f.Enum) > 0 && f.Kind != KindString {
			return fmt.Errorf("tool %q field %q declares enum values on non-string kind %q", d.Name, f.Name, f.Kind)
		}
		if (f.Minimum != nil || f.Maximum != nil) && f.Kind != KindNumber && f.Kind != KindInteger {
			return fmt.Errorf("tool %q field %q declares bounds on non-numeric kind %q", d.Name, f.Name, f.Kind)
		}
		if f.Minimum != nil && f.Maximum != nil && *f.Minimum > *f.Maximum {
			return fmt.Errorf("tool %q field %q has minimum above maximum", d.Name, f.Name)
		}
	}
	return nil
}

func safeName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// FloatPtr is a convenience for declaring Minimum/Maximum bounds inline.
func FloatPtr(v float64) *float64 { return &v }
