package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/common"
	"github.com/toolbench/toolbench/internal/ingest"
	"github.com/toolbench/toolbench/internal/schema"
)

// Out-of-band attachment metadata headers. Content-Type alone under-specifies
// filenames for blob-oriented clients, so both travel as headers readable
// without parsing the body.
const (
	HeaderFilename  = "X-Output-Filename"
	HeaderExtension = "X-Output-Extension"
)

// WriteResult renders an invocation result onto the wire: structured data as
// a JSON envelope, attachments as raw bytes plus filename metadata.
func WriteResult(w http.ResponseWriter, toolName string, result *catalog.Result) {
	switch result.Kind {
	case catalog.OutputStructured:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"data":   result.Data,
		})
	case catalog.OutputAttachment:
		filename := result.SuggestedFilename(toolName)
		w.Header().Set("Content-Type", result.MediaType)
		w.Header().Set("Content-Length", strconv.Itoa(len(result.Bytes)))
		w.Header().Set(HeaderFilename, filename)
		w.Header().Set(HeaderExtension, result.Extension(toolName))
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(result.Bytes)
	}
}

// WriteDispatchError maps the error taxonomy onto HTTP status classes.
// Validation and ingestion failures carry field-level structure so the
// client can correct input; execution failures carry a generic message only.
func WriteDispatchError(w http.ResponseWriter, logger *common.Logger, toolName string, err error) {
	var (
		notFound *NotFoundError
		valErr   *schema.ValidationError
		ingErr   *ingest.Error
		payErr   *PayloadError
		execErr  *ExecError
	)

	switch {
	case errors.As(err, &notFound):
		writeErrorBody(w, http.StatusNotFound, map[string]any{
			"status": "error",
			"error":  "tool_not_found",
			"tool":   notFound.Name,
		})
	case errors.As(err, &valErr):
		writeErrorBody(w, http.StatusBadRequest, map[string]any{
			"status":     "error",
			"error":      "validation_failed",
			"validation": valErr,
		})
	case errors.As(err, &ingErr):
		writeErrorBody(w, http.StatusBadRequest, map[string]any{
			"status":  "error",
			"error":   ingErr.Code,
			"message": ingErr.Message,
		})
	case errors.As(err, &payErr):
		writeErrorBody(w, http.StatusBadRequest, map[string]any{
			"status":  "error",
			"error":   "malformed_payload",
			"message": payErr.Message,
		})
	case errors.As(err, &execErr):
		writeErrorBody(w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"error":   "tool_execution_failed",
			"message": "tool execution failed",
		})
	default:
		logger.Error().
			Str("tool", toolName).
			Str("error", err.Error()).
			Msg("unclassified dispatch error")
		writeErrorBody(w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"error":   "internal_error",
			"message": "internal error",
		})
	}
}

func writeErrorBody(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
