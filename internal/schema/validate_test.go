package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/common"
	"github.com/toolbench/toolbench/internal/ingest"
)

func testSchema() catalog.InputSchema {
	return catalog.InputSchema{
		{Name: "text", Kind: catalog.KindString, Required: true},
		{Name: "format", Kind: catalog.KindString, Enum: []string{"plain", "html"}, Default: "plain"},
		{Name: "ratio", Kind: catalog.KindNumber, Minimum: catalog.FloatPtr(0), Maximum: catalog.FloatPtr(1)},
		{Name: "count", Kind: catalog.KindInteger, Minimum: catalog.FloatPtr(1), Maximum: catalog.FloatPtr(100), Default: 10},
	}
}

func bag(values map[string]any) RawBag {
	return RawBag{Values: values, Files: map[string]*ingest.Handle{}}
}

func fieldError(t *testing.T, err error, field, code string) {
	t.Helper()
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if valErr.Field != field {
		t.Errorf("expected failing field %q, got %q", field, valErr.Field)
	}
	if valErr.Code != code {
		t.Errorf("expected code %q, got %q", code, valErr.Code)
	}
}

// TestValidate_HappyPath verifies valid input coerces to typed params with
// defaults filled in for absent optionals.
func TestValidate_HappyPath(t *testing.T) {
	params, err := Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"ratio": json.Number("0.5"),
	}))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if got := params.String("text", ""); got != "hello" {
		t.Errorf("expected text 'hello', got %q", got)
	}
	if got := params.String("format", ""); got != "plain" {
		t.Errorf("expected default format 'plain', got %q", got)
	}
	if got := params.Float("ratio", -1); got != 0.5 {
		t.Errorf("expected ratio 0.5, got %v", got)
	}
	if got := params.Int("count", -1); got != 10 {
		t.Errorf("expected default count 10, got %d", got)
	}
}

// TestValidate_RuntimeTypes verifies each kind's coerced runtime type.
func TestValidate_RuntimeTypes(t *testing.T) {
	params, err := Validate(testSchema(), bag(map[string]any{
		"text":  "x",
		"ratio": json.Number("0.25"),
		"count": json.Number("3"),
	}))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if _, ok := params["text"].(string); !ok {
		t.Errorf("expected string for text, got %T", params["text"])
	}
	if _, ok := params["ratio"].(float64); !ok {
		t.Errorf("expected float64 for ratio, got %T", params["ratio"])
	}
	if _, ok := params["count"].(int64); !ok {
		t.Errorf("expected int64 for count, got %T", params["count"])
	}
}

// TestValidate_MissingRequired verifies a missing required field fails.
func TestValidate_MissingRequired(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{}))
	fieldError(t, err, "text", CodeMissingField)
}

// TestValidate_MissingRequiredWinsOverUnknown verifies the declared-field
// walk runs before unknown key rejection.
func TestValidate_MissingRequiredWinsOverUnknown(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{"bogus": "x"}))
	fieldError(t, err, "text", CodeMissingField)
}

// TestValidate_UnknownField verifies undeclared keys are rejected.
func TestValidate_UnknownField(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"bogus": "x",
	}))
	fieldError(t, err, "bogus", CodeUnknownField)
}

// TestValidate_EnumViolation verifies closed-set membership is enforced and
// the error carries the allowed values.
func TestValidate_EnumViolation(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{
		"text":   "hello",
		"format": "xml",
	}))
	fieldError(t, err, "format", CodeInvalidEnumValue)

	var valErr *ValidationError
	errors.As(err, &valErr)
	if len(valErr.Allowed) != 2 {
		t.Errorf("expected 2 allowed values in error, got %v", valErr.Allowed)
	}
}

// TestValidate_FractionalInteger verifies a fractional value fails an
// integer field.
func TestValidate_FractionalInteger(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"count": json.Number("2.5"),
	}))
	fieldError(t, err, "count", CodeInvalidNumber)
}

// TestValidate_NotANumber verifies non-numeric input fails a number field.
func TestValidate_NotANumber(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"ratio": "fast",
	}))
	fieldError(t, err, "ratio", CodeInvalidNumber)
}

// TestValidate_OutOfRange verifies bound checks and the bound carried in the
// error.
func TestValidate_OutOfRange(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"count": json.Number("101"),
	}))
	fieldError(t, err, "count", CodeOutOfRange)

	var valErr *ValidationError
	errors.As(err, &valErr)
	if valErr.Bound == nil || *valErr.Bound != 100 {
		t.Errorf("expected bound 100 in error, got %v", valErr.Bound)
	}

	_, err = Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"ratio": json.Number("-0.1"),
	}))
	fieldError(t, err, "ratio", CodeOutOfRange)
}

// TestValidate_BoundaryValues verifies values exactly at the bounds pass.
func TestValidate_BoundaryValues(t *testing.T) {
	_, err := Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"ratio": json.Number("1"),
		"count": json.Number("100"),
	}))
	if err != nil {
		t.Errorf("expected boundary values to pass, got %v", err)
	}
}

// TestValidate_FormStrings verifies multipart-style string values coerce to
// numeric kinds.
func TestValidate_FormStrings(t *testing.T) {
	params, err := Validate(testSchema(), bag(map[string]any{
		"text":  "hello",
		"ratio": "0.75",
		"count": "42",
	}))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got := params.Float("ratio", -1); got != 0.75 {
		t.Errorf("expected ratio 0.75, got %v", got)
	}
	if got := params.Int("count", -1); got != 42 {
		t.Errorf("expected count 42, got %d", got)
	}
}

// TestValidate_NumberAsString verifies a JSON number arriving for a string
// field is accepted in textual form.
func TestValidate_NumberAsString(t *testing.T) {
	params, err := Validate(catalog.InputSchema{
		{Name: "text", Kind: catalog.KindString, Required: true},
	}, bag(map[string]any{"text": json.Number("12.5")}))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got := params.String("text", ""); got != "12.5" {
		t.Errorf("expected '12.5', got %q", got)
	}
}

// TestValidate_AbsentOptionalWithoutDefault verifies absence stays absent.
func TestValidate_AbsentOptionalWithoutDefault(t *testing.T) {
	params, err := Validate(testSchema(), bag(map[string]any{"text": "hello"}))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, ok := params["ratio"]; ok {
		t.Error("expected no entry for absent optional without default")
	}
}

// TestValidate_Idempotent verifies validating the same bag twice yields the
// same params.
func TestValidate_Idempotent(t *testing.T) {
	b := bag(map[string]any{"text": "hello", "count": json.Number("7")})

	first, err := Validate(testSchema(), b)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	second, err := Validate(testSchema(), b)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("pass sizes differ: %d vs %d", len(first), len(second))
	}
	for k, v := range first {
		if second[k] != v {
			t.Errorf("field %q differs between passes: %v vs %v", k, v, second[k])
		}
	}
}

// TestValidate_MissingFile verifies a required file field fails without an
// upload.
func TestValidate_MissingFile(t *testing.T) {
	s := catalog.InputSchema{
		{Name: "image", Kind: catalog.KindFile, Required: true},
	}
	_, err := Validate(s, bag(map[string]any{}))
	fieldError(t, err, "image", CodeMissingFile)
}

// TestValidate_FilePassthrough verifies an ingested handle is bound to its
// file field and unknown file keys are rejected.
func TestValidate_FilePassthrough(t *testing.T) {
	files, err := ingest.NewService(t.TempDir(), 1024, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("ingest service: %v", err)
	}
	handle, err := files.Ingest(strings.NewReader("content"), "doc.txt", "text/plain")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	defer handle.Release()

	s := catalog.InputSchema{
		{Name: "doc", Kind: catalog.KindFile, Required: true},
	}

	params, err := Validate(s, RawBag{
		Values: map[string]any{},
		Files:  map[string]*ingest.Handle{"doc": handle},
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if params.File("doc") != handle {
		t.Error("expected the same handle bound to the field")
	}

	_, err = Validate(s, RawBag{
		Values: map[string]any{},
		Files:  map[string]*ingest.Handle{"doc": handle, "extra": handle},
	})
	fieldError(t, err, "extra", CodeUnknownField)
}

// TestValidate_FileKeyOnScalarField verifies an upload keyed to a non-file
// field is rejected as unknown.
func TestValidate_FileKeyOnScalarField(t *testing.T) {
	files, err := ingest.NewService(t.TempDir(), 1024, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("ingest service: %v", err)
	}
	handle, err := files.Ingest(strings.NewReader("content"), "doc.txt", "text/plain")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	defer handle.Release()

	_, err = Validate(testSchema(), RawBag{
		Values: map[string]any{"text": "hello"},
		Files:  map[string]*ingest.Handle{"text": handle},
	})
	fieldError(t, err, "text", CodeUnknownField)
}

// TestParamsAccessors verifies fallbacks for absent fields.
func TestParamsAccessors(t *testing.T) {
	p := Params{"s": "v", "i": int64(5), "f": 2.5}

	if p.String("s", "x") != "v" || p.String("missing", "x") != "x" {
		t.Error("String accessor fallback wrong")
	}
	if p.Int("i", -1) != 5 || p.Int("missing", -1) != -1 {
		t.Error("Int accessor fallback wrong")
	}
	if p.Float("f", -1) != 2.5 || p.Float("missing", -1) != -1 {
		t.Error("Float accessor fallback wrong")
	}
	if p.File("missing") != nil {
		t.Error("File accessor should return nil for absent field")
	}
}
