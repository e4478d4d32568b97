// Package schema turns raw transport parameter bags into typed, validated
// values against a tool's input schema.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/ingest"
)

// RawBag is the normalized payload of one invocation before validation.
// Values holds scalar fields (JSON values or multipart form strings);
// Files holds ingested uploads keyed by field name.
type RawBag struct {
	Values map[string]any
	Files  map[string]*ingest.Handle
}

// ReleaseFiles releases every file handle in the bag. Called by the
// dispatcher on all exit paths.
func (b *RawBag) ReleaseFiles() {
	for _, h := range b.Files {
		h.Release()
	}
}

// Params is the validator's output: field name to a value whose runtime type
// matches the field's kind. string -> string, number -> float64,
// integer -> int64, file -> *ingest.Handle. Absent optional fields have no
// entry; absence is semantic.
type Params map[string]any

// String returns the string value of a field, or the fallback when absent.
func (p Params) String(name, fallback string) string {
	if v, ok := p[name].(string); ok {
		return v
	}
	return fallback
}

// Int returns the integer value of a field, or the fallback when absent.
func (p Params) Int(name string, fallback int64) int64 {
	if v, ok := p[name].(int64); ok {
		return v
	}
	return fallback
}

// Float returns the number value of a field, or the fallback when absent.
func (p Params) Float(name string, fallback float64) float64 {
	if v, ok := p[name].(float64); ok {
		return v
	}
	return fallback
}

// File returns the file handle bound to a field, or nil when absent.
func (p Params) File(name string) *ingest.Handle {
	if v, ok := p[name].(*ingest.Handle); ok {
		return v
	}
	return nil
}

// Validate walks the schema in declared order and coerces raw values to
// typed ones. The pass is atomic: the first failure aborts it. Keys in the
// bag that the schema does not declare are rejected outright, for both
// transport shapes, so parameter injection cannot hide in either.
func Validate(s catalog.InputSchema, raw RawBag) (Params, error) {
	params := make(Params, len(s))

	for _, f := range s {
		if f.Kind == catalog.KindFile {
			h, ok := raw.Files[f.Name]
			if !ok {
				if f.Required {
					return nil, missingFile(f.Name)
				}
				continue
			}
			params[f.Name] = h
			continue
		}

		v, ok := raw.Values[f.Name]
		if !ok {
			if f.Required {
				return nil, missingField(f.Name)
			}
			if f.Default != nil {
				coerced, err := coerce(f, f.Default)
				if err != nil {
					return nil, err
				}
				params[f.Name] = coerced
			}
			continue
		}

		coerced, err := coerce(f, v)
		if err != nil {
			return nil, err
		}
		params[f.Name] = coerced
	}

	// Unknown keys are rejected after the declared walk so a missing
	// required field wins when both defects are present.
	for name := range raw.Values {
		if _, ok := s.Field(name); !ok {
			return nil, unknownField(name)
		}
	}
	for name := range raw.Files {
		f, ok := s.Field(name)
		if !ok || f.Kind != catalog.KindFile {
			return nil, unknownField(name)
		}
	}

	return params, nil
}

// coerce converts one raw value to the runtime type of its field kind.
func coerce(f catalog.FieldSpec, v any) (any, error) {
	switch f.Kind {
	case catalog.KindString:
		// Multipart fields arrive as strings already; JSON scalars are
		// accepted as their textual form. Enum membership is checked on
		// the final string.
		s, ok := v.(string)
		if !ok {
			if n, isNum := v.(json.Number); isNum {
				s = n.String()
			} else {
				s = fmt.Sprint(v)
			}
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return nil, invalidEnum(f.Name, f.Enum)
		}
		return s, nil

	case catalog.KindNumber:
		n, err := toFloat(f.Name, v)
		if err != nil {
			return nil, err
		}
		if err := checkBounds(f, n); err != nil {
			return nil, err
		}
		return n, nil

	case catalog.KindInteger:
		n, err := toFloat(f.Name, v)
		if err != nil {
			return nil, err
		}
		if n != math.Trunc(n) {
			return nil, invalidNumber(f.Name, "expected an integer, got a fractional value")
		}
		if err := checkBounds(f, n); err != nil {
			return nil, err
		}
		return int64(n), nil

	case catalog.KindFile:
		// Defaults never apply to file kinds; reaching here means a raw
		// scalar value arrived for a file field.
		return nil, invalidNumber(f.Name, "expected an uploaded file")
	}
	return nil, invalidNumber(f.Name, "unsupported field kind")
}

// toFloat parses a numeric wire value: JSON numbers, form strings, or
// already-typed Go numerics (defaults).
func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, invalidNumber(name, "value is not a number")
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, invalidNumber(name, "value is not a number")
		}
		return f, nil
	default:
		return 0, invalidNumber(name, "value is not a number")
	}
}

func checkBounds(f catalog.FieldSpec, n float64) error {
	if f.Minimum != nil && n < *f.Minimum {
		return outOfRange(f.Name, *f.Minimum, false)
	}
	if f.Maximum != nil && n > *f.Maximum {
		return outOfRange(f.Name, *f.Maximum, true)
	}
	return nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
