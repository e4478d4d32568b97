package handlers

import (
	"net/http"
	"strings"

	"github.com/toolbench/toolbench/internal/common"
	"github.com/toolbench/toolbench/internal/dispatch"
)

// ToolsHandler serves the tool catalog and runs tool invocations.
type ToolsHandler struct {
	logger     *common.Logger
	dispatcher *dispatch.Dispatcher
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(logger *common.Logger, dispatcher *dispatch.Dispatcher) *ToolsHandler {
	return &ToolsHandler{logger: logger, dispatcher: dispatcher}
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	descriptors := h.dispatcher.Registry().Descriptors()
	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"count":  len(descriptors),
		"tools":  descriptors,
	})
}

// Route dispatches /api/tools/{name} and /api/tools/{name}/run.
func (h *ToolsHandler) Route(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tools/"), "/")
	if rest == "" {
		h.List(w, r)
		return
	}

	name, action, hasAction := strings.Cut(rest, "/")
	switch {
	case !hasAction:
		h.metadata(w, r, name)
	case action == "run":
		h.run(w, r, name)
	default:
		WriteError(w, http.StatusNotFound, "unknown tool endpoint")
	}
}

// metadata handles GET /api/tools/{name}.
func (h *ToolsHandler) metadata(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	tool, ok := h.dispatcher.Registry().Get(name)
	if !ok {
		h.logger.Warn().Str("tool", name).Msg("metadata requested for unknown tool")
		WriteJSON(w, http.StatusNotFound, map[string]any{
			"status": "error",
			"error":  "tool_not_found",
			"tool":   name,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tool":   tool.Descriptor,
	})
}

// run handles POST /api/tools/{name}/run. The dispatcher owns payload
// parsing, validation, execution, and file handle release; this handler only
// maps its outcome onto the wire.
func (h *ToolsHandler) run(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.logger.Info().Str("tool", name).Msg("tool invocation requested")

	result, err := h.dispatcher.Dispatch(r.Context(), name, r)
	if err != nil {
		dispatch.WriteDispatchError(w, h.logger, name, err)
		return
	}

	h.logger.Info().Str("tool", name).Msg("tool invocation succeeded")
	dispatch.WriteResult(w, name, result)
}
