package dispatch

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/toolbench/toolbench/internal/ingest"
	"github.com/toolbench/toolbench/internal/schema"
)

// maxScalarPartBytes bounds one non-file multipart field. Large values
// belong in file parts.
const maxScalarPartBytes = 1 << 20

// parsePayload turns the request body into a raw parameter bag. The payload
// shape is a two-way choice keyed on Content-Type: a JSON body, or a
// multipart form whose file parts are routed through ingestion. The returned
// bag may hold file handles even when err != nil; the caller releases them.
func (d *Dispatcher) parsePayload(req *http.Request) (schema.RawBag, error) {
	bag := schema.RawBag{
		Values: make(map[string]any),
		Files:  make(map[string]*ingest.Handle),
	}

	contentType := req.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return bag, &PayloadError{Message: "missing or malformed Content-Type header", cause: err}
	}

	switch {
	case mediaType == "application/json":
		return bag, d.parseJSON(req.Body, &bag)
	case mediaType == "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return bag, &PayloadError{Message: "multipart payload has no boundary"}
		}
		return bag, d.parseMultipart(multipart.NewReader(req.Body, boundary), &bag)
	default:
		return bag, &PayloadError{Message: "Content-Type must be application/json or multipart/form-data"}
	}
}

// parseJSON decodes a structured body into the bag. Numbers stay as
// json.Number so integer checks see the exact wire value; explicit nulls are
// dropped because absence is semantic.
func (d *Dispatcher) parseJSON(body io.Reader, bag *schema.RawBag) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return &PayloadError{Message: "request body is not a JSON object", cause: err}
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		bag.Values[k] = v
	}
	return nil
}

// parseMultipart walks the form parts in order. File parts (those carrying a
// filename) stream straight into ingestion keyed by field name; everything
// else is read as a scalar string field.
func (d *Dispatcher) parseMultipart(mr *multipart.Reader, bag *schema.RawBag) error {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &PayloadError{Message: "malformed multipart payload", cause: err}
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			return &PayloadError{Message: "multipart part has no field name"}
		}

		if part.FileName() != "" {
			mediaType := part.Header.Get("Content-Type")
			if mediaType == "" {
				mediaType = "application/octet-stream"
			}
			handle, ingestErr := d.files.Ingest(part, part.FileName(), mediaType)
			part.Close()
			if ingestErr != nil {
				return ingestErr
			}
			if prev, dup := bag.Files[name]; dup {
				prev.Release()
			}
			bag.Files[name] = handle
			continue
		}

		value, readErr := io.ReadAll(io.LimitReader(part, maxScalarPartBytes))
		part.Close()
		if readErr != nil {
			return &PayloadError{Message: "failed to read multipart field", cause: readErr}
		}
		bag.Values[name] = strings.ToValidUTF8(string(value), "")
	}
}
