package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/toolbench/toolbench/internal/app"
	"github.com/toolbench/toolbench/internal/common"
	"github.com/toolbench/toolbench/internal/config"
)

func testServer(t *testing.T, mcpEnabled bool) *Server {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Upload.TempDir = t.TempDir()
	cfg.MCP.Enabled = mcpEnabled

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return New(application)
}

// TestRoutes_Health verifies the health endpoint through the full handler
// chain.
func TestRoutes_Health(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

// TestRoutes_Version verifies the version endpoint is wired.
func TestRoutes_Version(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// TestRoutes_ToolsWired verifies the catalog endpoints reach the built-in
// tools.
func TestRoutes_ToolsWired(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("GET", "/api/tools", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if body.Count != 4 {
		t.Errorf("expected 4 built-in tools, got %d", body.Count)
	}
}

// TestRoutes_RunThroughChain verifies an invocation through the middleware
// chain end to end.
func TestRoutes_RunThroughChain(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("POST", "/api/tools/text-stats/run", strings.NewReader(`{"text":"one two"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data struct {
			Words int `json:"words"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if body.Data.Words != 2 {
		t.Errorf("expected 2 words, got %d", body.Data.Words)
	}
}

// TestRoutes_NotFound verifies unmatched paths return the JSON 404.
func TestRoutes_NotFound(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("GET", "/bogus", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON 404, got %q", ct)
	}
}

// TestRoutes_MCPDisabled verifies /mcp falls through to 404 when disabled.
func TestRoutes_MCPDisabled(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 with MCP disabled, got %d", w.Code)
	}
}

// TestRoutes_MCPEnabled verifies /mcp is served when enabled.
func TestRoutes_MCPEnabled(t *testing.T) {
	s := testServer(t, true)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.0.0"}}}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code == http.StatusNotFound {
		t.Fatalf("expected /mcp to be routed, got 404: %s", w.Body.String())
	}
	data, _ := io.ReadAll(w.Result().Body)
	if !strings.Contains(string(data), "jsonrpc") {
		t.Errorf("expected a JSON-RPC response, got: %s", data)
	}
}

// TestMiddleware_CorrelationID verifies an incoming request ID is echoed
// back and a missing one is generated.
func TestMiddleware_CorrelationID(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("X-Correlation-ID"); got != "req-123" {
		t.Errorf("expected echoed correlation ID, got %q", got)
	}

	req = httptest.NewRequest("GET", "/api/health", nil)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("X-Correlation-ID"); got == "" {
		t.Error("expected a generated correlation ID")
	}
}

// TestMiddleware_SecurityHeaders verifies standard headers on every
// response.
func TestMiddleware_SecurityHeaders(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("expected DENY, got %q", got)
	}
}

// TestMiddleware_CORSPreflight verifies OPTIONS requests short-circuit with
// the CORS headers, exposing the attachment metadata headers.
func TestMiddleware_CORSPreflight(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest("OPTIONS", "/api/tools", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", w.Code)
	}
	exposed := w.Header().Get("Access-Control-Expose-Headers")
	if !strings.Contains(exposed, "X-Output-Filename") {
		t.Errorf("expected attachment headers exposed, got %q", exposed)
	}
}

// TestMiddleware_Recovery verifies a panicking handler yields 500 instead of
// crashing.
func TestMiddleware_Recovery(t *testing.T) {
	s := testServer(t, false)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	wrapped := s.recoveryMiddleware(panicking)

	req := httptest.NewRequest("GET", "/api/anything", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", w.Code)
	}
}
