package catalog

import (
	"mime"
	"path"
	"strings"
)

// Result is the tagged outcome of running a tool. Kind must match the owning
// descriptor's OutputKind; the dispatcher treats a mismatch as an internal
// error rather than coercing it.
type Result struct {
	Kind OutputKind

	// Structured results
	Data any

	// Attachment results
	Bytes     []byte
	MediaType string
	Filename  string
}

// Structured builds a structured result.
func Structured(data any) *Result {
	return &Result{Kind: OutputStructured, Data: data}
}

// Attachment builds an attachment result.
func Attachment(b []byte, mediaType, filename string) *Result {
	return &Result{Kind: OutputAttachment, Bytes: b, MediaType: mediaType, Filename: filename}
}

// extByMediaType covers the media types the built-in tools produce.
// mime.ExtensionsByType is consulted for anything else.
var extByMediaType = map[string]string{
	"image/png":        ".png",
	"image/jpeg":       ".jpg",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"image/bmp":        ".bmp",
	"application/pdf":  ".pdf",
	"application/json": ".json",
	"text/plain":       ".txt",
	"text/csv":         ".csv",
	"application/zip":  ".zip",
}

// ExtensionForMediaType maps a media type to a file extension (with dot),
// falling back to ".bin" when nothing matches.
func ExtensionForMediaType(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if ext, ok := extByMediaType[mt]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// SuggestedFilename resolves the filename an attachment should carry:
// the tool-provided name when set, else "<tool>_result.<ext>" derived
// from the media type.
func (r *Result) SuggestedFilename(toolName string) string {
	if r.Filename != "" {
		return r.Filename
	}
	return toolName + "_result" + ExtensionForMediaType(r.MediaType)
}

// Extension returns the attachment's extension marker (with dot), preferring
// the suggested filename's own extension over the media-type mapping.
func (r *Result) Extension(toolName string) string {
	if ext := path.Ext(r.SuggestedFilename(toolName)); ext != "" {
		return ext
	}
	return ExtensionForMediaType(r.MediaType)
}
