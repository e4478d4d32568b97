package schema

import "fmt"

// Failure codes for validation errors. Each carries the offending field so
// clients can correct input without guessing.
const (
	CodeMissingField     = "missing_field"
	CodeUnknownField     = "unknown_field"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeInvalidNumber    = "invalid_number"
	CodeOutOfRange       = "out_of_range"
	CodeMissingFile      = "missing_file"
)

// ValidationError describes a single-field validation failure. Validation is
// fail-fast: the first failing field aborts the pass.
type ValidationError struct {
	Field   string   `json:"field"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed,omitempty"` // enum failures
	Bound   *float64 `json:"bound,omitempty"`   // range failures
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Message)
}

func missingField(name string) *ValidationError {
	return &ValidationError{Field: name, Code: CodeMissingField, Message: "required field is missing"}
}

func unknownField(name string) *ValidationError {
	return &ValidationError{Field: name, Code: CodeUnknownField, Message: "field is not declared by this tool"}
}

func invalidEnum(name string, allowed []string) *ValidationError {
	return &ValidationError{
		Field: name, Code: CodeInvalidEnumValue,
		Message: fmt.Sprintf("value must be one of %v", allowed),
		Allowed: allowed,
	}
}

func invalidNumber(name string, detail string) *ValidationError {
	return &ValidationError{Field: name, Code: CodeInvalidNumber, Message: detail}
}

func outOfRange(name string, bound float64, above bool) *ValidationError {
	word := "below minimum"
	if above {
		word = "above maximum"
	}
	return &ValidationError{
		Field: name, Code: CodeOutOfRange,
		Message: fmt.Sprintf("value is %s %v", word, bound),
		Bound:   &bound,
	}
}

func missingFile(name string) *ValidationError {
	return &ValidationError{Field: name, Code: CodeMissingFile, Message: "required file is missing"}
}
