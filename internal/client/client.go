// Package client is the generic counterpart of the tool server: it fetches
// descriptors, compiles them into editable forms, and interprets responses
// without knowing which tool produced them.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/toolbench/toolbench/internal/catalog"
)

// maxStructuredBody bounds JSON responses read into memory.
const maxStructuredBody = 1 << 20

// APIError is a non-success response from the tool server.
type APIError struct {
	StatusCode int
	Code       string          `json:"error"`
	Message    string          `json:"message"`
	Validation json.RawMessage `json:"validation"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Code)
}

// Client talks to a toolbench server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting the given server URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// ListTools fetches every registered tool descriptor.
// GET /api/tools -> { status: "ok", count, tools: [...] }
func (c *Client) ListTools() ([]catalog.ToolDescriptor, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/tools")
	if err != nil {
		return nil, fmt.Errorf("failed to reach tool server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStructuredBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var result struct {
		Status string                   `json:"status"`
		Count  int                      `json:"count"`
		Tools  []catalog.ToolDescriptor `json:"tools"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Tools, nil
}

// GetTool fetches one tool descriptor by name.
// GET /api/tools/{name} -> { status: "ok", tool: {...} }
func (c *Client) GetTool(name string) (*catalog.ToolDescriptor, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/tools/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to reach tool server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStructuredBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var result struct {
		Status string                 `json:"status"`
		Tool   catalog.ToolDescriptor `json:"tool"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result.Tool, nil
}

// Run submits a compiled form to POST /api/tools/{name}/run and interprets
// the response by its declared content kind.
func (c *Client) Run(name string, form *Form) (*Rendered, error) {
	body, contentType, err := form.Payload()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/tools/"+name+"/run", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach tool server: %w", err)
	}
	defer resp.Body.Close()

	return Interpret(name, resp)
}

// decodeAPIError turns an error response body into an APIError, falling back
// to the raw body when it is not the standard envelope.
func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "error"
		apiErr.Message = string(body)
	}
	return apiErr
}
