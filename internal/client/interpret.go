package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/dispatch"
)

// maxAttachmentBody bounds attachment responses read into memory.
const maxAttachmentBody = 64 << 20

// Rendered is an interpreted tool response: structured data or an
// attachment, decided by the response's declared content kind alone.
type Rendered struct {
	Kind       catalog.OutputKind
	Data       any         // structured results
	Attachment *Attachment // attachment results
}

// Pretty returns a human-readable rendering of structured data.
func (r *Rendered) Pretty() string {
	if r.Kind != catalog.OutputStructured {
		return ""
	}
	out, err := json.MarshalIndent(r.Data, "", "  ")
	if err != nil {
		return fmt.Sprint(r.Data)
	}
	return string(out)
}

// Attachment is an opaque binary payload plus its naming metadata.
type Attachment struct {
	Filename  string
	MediaType string
	Bytes     []byte
}

// Save writes the attachment into dir under its resolved filename and
// returns the created path. This is the download action: the local file is
// the transient reference, owned by the caller once created.
func (a *Attachment) Save(dir string) (string, error) {
	path := filepath.Join(dir, filepath.Base(a.Filename))
	if err := os.WriteFile(path, a.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("save attachment: %w", err)
	}
	return path, nil
}

// Interpret reads a run response. JSON responses are parsed as the
// structured envelope (or an API error); anything else is treated as an
// opaque attachment named from the out-of-band metadata headers, falling
// back to Content-Disposition, then to "<tool>_result.<ext>".
func Interpret(toolName string, resp *http.Response) (*Rendered, error) {
	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	if mediaType == "application/json" {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxStructuredBody))
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, decodeAPIError(resp.StatusCode, body)
		}

		var envelope struct {
			Status string `json:"status"`
			Data   any    `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		return &Rendered{Kind: catalog.OutputStructured, Data: envelope.Data}, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxStructuredBody))
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	return &Rendered{
		Kind: catalog.OutputAttachment,
		Attachment: &Attachment{
			Filename:  attachmentFilename(toolName, resp, mediaType),
			MediaType: mediaType,
			Bytes:     data,
		},
	}, nil
}

// attachmentFilename resolves a download name without parsing the body:
// the explicit filename header first, then Content-Disposition, then a
// generic name from the extension marker or media type.
func attachmentFilename(toolName string, resp *http.Response, mediaType string) string {
	if name := resp.Header.Get(dispatch.HeaderFilename); name != "" {
		return name
	}

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}

	ext := resp.Header.Get(dispatch.HeaderExtension)
	if ext == "" {
		ext = catalog.ExtensionForMediaType(mediaType)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return toolName + "_result" + ext
}
