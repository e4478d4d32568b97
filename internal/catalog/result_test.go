package catalog

import "testing"

// TestExtensionForMediaType verifies media type to extension mapping.
func TestExtensionForMediaType(t *testing.T) {
	cases := []struct {
		mediaType string
		want      string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"application/pdf", ".pdf"},
		{"text/plain", ".txt"},
		{"IMAGE/PNG", ".png"},
		{"image/png; charset=binary", ".png"},
		{"application/x-nonexistent-type", ".bin"},
	}
	for _, c := range cases {
		if got := ExtensionForMediaType(c.mediaType); got != c.want {
			t.Errorf("ExtensionForMediaType(%q) = %q, want %q", c.mediaType, got, c.want)
		}
	}
}

// TestSuggestedFilename_ExplicitName verifies the tool-provided name wins.
func TestSuggestedFilename_ExplicitName(t *testing.T) {
	r := Attachment([]byte{1}, "image/png", "qr_code_42.png")
	if got := r.SuggestedFilename("qr-code"); got != "qr_code_42.png" {
		t.Errorf("expected explicit filename, got %q", got)
	}
}

// TestSuggestedFilename_Fallback verifies the generic name when the tool
// provided none.
func TestSuggestedFilename_Fallback(t *testing.T) {
	r := Attachment([]byte{1}, "image/jpeg", "")
	if got := r.SuggestedFilename("image-compress"); got != "image-compress_result.jpg" {
		t.Errorf("expected fallback filename, got %q", got)
	}
}

// TestResultExtension verifies the extension marker tracks the filename.
func TestResultExtension(t *testing.T) {
	r := Attachment([]byte{1}, "application/octet-stream", "report.csv")
	if got := r.Extension("some-tool"); got != ".csv" {
		t.Errorf("expected .csv from filename, got %q", got)
	}

	r = Attachment([]byte{1}, "image/png", "")
	if got := r.Extension("some-tool"); got != ".png" {
		t.Errorf("expected .png from media type, got %q", got)
	}
}

// TestResultConstructors verifies the kind tags set by the constructors.
func TestResultConstructors(t *testing.T) {
	s := Structured(map[string]int{"n": 1})
	if s.Kind != OutputStructured {
		t.Errorf("expected structured kind, got %q", s.Kind)
	}

	a := Attachment([]byte("x"), "text/plain", "out.txt")
	if a.Kind != OutputAttachment {
		t.Errorf("expected attachment kind, got %q", a.Kind)
	}
	if a.MediaType != "text/plain" || a.Filename != "out.txt" {
		t.Error("attachment metadata not carried through")
	}
}
