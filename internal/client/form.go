package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"github.com/toolbench/toolbench/internal/catalog"
)

// Field is one editable form control, selected by its spec's kind:
// closed choice for enum strings, free text otherwise, numeric input with
// bounds for numbers/integers, and a file picker for file kinds.
type Field struct {
	Spec     catalog.FieldSpec
	value    string
	filePath string
	set      bool
}

// Value returns the field's current textual value and whether it was set.
func (f *Field) Value() (string, bool) { return f.value, f.set }

// Form is a live, editable set of fields compiled from an input schema.
type Form struct {
	schema catalog.InputSchema
	fields []*Field
	byName map[string]*Field
}

// Compile turns a descriptor's input schema into a form with one control per
// field, in declaration order. String/number fields with defaults start
// populated with their default's textual form.
func Compile(schema catalog.InputSchema) *Form {
	form := &Form{
		schema: schema,
		byName: make(map[string]*Field, len(schema)),
	}
	for _, spec := range schema {
		field := &Field{Spec: spec}
		if spec.Default != nil && spec.Kind != catalog.KindFile {
			field.value = fmt.Sprint(spec.Default)
			field.set = true
		}
		form.fields = append(form.fields, field)
		form.byName[spec.Name] = field
	}
	return form
}

// Fields returns the form's controls in schema order.
func (f *Form) Fields() []*Field { return f.fields }

// Set assigns a textual value to a scalar field, applying the control's own
// constraints: enum membership for closed choices, parseability and bounds
// for numeric inputs. The server revalidates; these checks only catch
// mistakes before a round-trip.
func (f *Form) Set(name, value string) error {
	field, ok := f.byName[name]
	if !ok {
		return fmt.Errorf("form has no field %q", name)
	}

	switch field.Spec.Kind {
	case catalog.KindFile:
		return fmt.Errorf("field %q is a file field; use SetFile", name)
	case catalog.KindString:
		if len(field.Spec.Enum) > 0 && !enumHas(field.Spec.Enum, value) {
			return fmt.Errorf("field %q must be one of %v", name, field.Spec.Enum)
		}
	case catalog.KindNumber, catalog.KindInteger:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("field %q requires a numeric value", name)
		}
		if field.Spec.Kind == catalog.KindInteger {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				return fmt.Errorf("field %q requires an integer value", name)
			}
		}
		if field.Spec.Minimum != nil && n < *field.Spec.Minimum {
			return fmt.Errorf("field %q must be at least %v", name, *field.Spec.Minimum)
		}
		if field.Spec.Maximum != nil && n > *field.Spec.Maximum {
			return fmt.Errorf("field %q must be at most %v", name, *field.Spec.Maximum)
		}
	}

	field.value = value
	field.set = true
	return nil
}

// SetFile attaches a local file to a file field.
func (f *Form) SetFile(name, path string) error {
	field, ok := f.byName[name]
	if !ok {
		return fmt.Errorf("form has no field %q", name)
	}
	if field.Spec.Kind != catalog.KindFile {
		return fmt.Errorf("field %q is not a file field", name)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot attach %q: %w", path, err)
	}
	field.filePath = path
	field.set = true
	return nil
}

// Payload serializes the form for submission. The transport shape is decided
// here, exactly once: multipart when the schema declares any file field,
// otherwise a JSON body with numeric wire values. Fields whose value is
// absent or empty are omitted entirely; absence is semantic, mirroring the
// server-side validator.
func (f *Form) Payload() (io.Reader, string, error) {
	if f.schema.HasFileField() {
		return f.multipartPayload()
	}
	return f.jsonPayload()
}

func (f *Form) jsonPayload() (io.Reader, string, error) {
	payload := make(map[string]any, len(f.fields))
	for _, field := range f.fields {
		if !field.set || field.value == "" {
			continue
		}
		switch field.Spec.Kind {
		case catalog.KindNumber, catalog.KindInteger:
			payload[field.Spec.Name] = json.Number(field.value)
		default:
			payload[field.Spec.Name] = field.value
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("serialize form: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (f *Form) multipartPayload() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if !field.set {
			continue
		}
		if field.Spec.Kind == catalog.KindFile {
			if field.filePath == "" {
				continue
			}
			src, err := os.Open(field.filePath)
			if err != nil {
				return nil, "", fmt.Errorf("open attachment %q: %w", field.filePath, err)
			}
			part, err := w.CreateFormFile(field.Spec.Name, filepath.Base(field.filePath))
			if err == nil {
				_, err = io.Copy(part, src)
			}
			src.Close()
			if err != nil {
				return nil, "", fmt.Errorf("write attachment %q: %w", field.filePath, err)
			}
			continue
		}
		if field.value == "" {
			continue
		}
		if err := w.WriteField(field.Spec.Name, field.value); err != nil {
			return nil, "", fmt.Errorf("write form field %q: %w", field.Spec.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart payload: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func enumHas(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
