// Package mcp exposes the tool registry as an MCP tool server, so MCP
// clients share the same invocation surface as HTTP callers.
package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/dispatch"
	"github.com/toolbench/toolbench/internal/ingest"
	"github.com/toolbench/toolbench/internal/schema"
)

// RegisterTools registers every descriptor in the dispatcher's registry as
// an MCP tool.
func RegisterTools(s *server.MCPServer, d *dispatch.Dispatcher, files *ingest.Service) int {
	descriptors := d.Registry().Descriptors()
	for _, desc := range descriptors {
		s.AddTool(BuildMCPTool(desc), ToolHandler(d, files, desc))
	}
	return len(descriptors)
}

// BuildMCPTool converts a ToolDescriptor into an mcp.Tool with the
// appropriate JSON schema.
func BuildMCPTool(desc catalog.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}
	for _, f := range desc.InputSchema {
		opts = append(opts, buildFieldOption(f))
	}
	return mcp.NewTool(desc.Name, opts...)
}

// buildFieldOption maps a FieldSpec to the appropriate mcp-go tool option.
// File fields become base64-encoded string parameters, since MCP transports
// carry no multipart equivalent.
func buildFieldOption(f catalog.FieldSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if f.Description != "" {
		opts = append(opts, mcp.Description(f.Description))
	}
	if f.Required {
		opts = append(opts, mcp.Required())
	}

	switch f.Kind {
	case catalog.KindNumber, catalog.KindInteger:
		if f.Minimum != nil {
			opts = append(opts, mcp.Min(*f.Minimum))
		}
		if f.Maximum != nil {
			opts = append(opts, mcp.Max(*f.Maximum))
		}
		return mcp.WithNumber(f.Name, opts...)
	case catalog.KindFile:
		opts = append(opts, mcp.Description(strings.TrimSpace(f.Description+" (base64-encoded file content)")))
		return mcp.WithString(f.Name, opts...)
	default:
		if len(f.Enum) > 0 {
			opts = append(opts, mcp.Enum(f.Enum...))
		}
		return mcp.WithString(f.Name, opts...)
	}
}

// ToolHandler creates a handler that routes an MCP tool call through the
// dispatcher. File parameters arrive base64-encoded and are ingested under
// the same size limit as HTTP uploads; handles are released when the call
// finishes, on every path.
func ToolHandler(d *dispatch.Dispatcher, files *ingest.Service, desc catalog.ToolDescriptor) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bag := schema.RawBag{
			Values: make(map[string]any),
			Files:  make(map[string]*ingest.Handle),
		}
		defer bag.ReleaseFiles()

		args := r.GetArguments()
		for _, f := range desc.InputSchema {
			v, ok := args[f.Name]
			if !ok || v == nil {
				continue
			}
			if f.Kind != catalog.KindFile {
				bag.Values[f.Name] = v
				continue
			}

			encoded, isStr := v.(string)
			if !isStr {
				return errorResult("Error: " + f.Name + " must be a base64-encoded string"), nil
			}
			raw, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return errorResult("Error: " + f.Name + " is not valid base64"), nil
			}
			handle, err := files.Ingest(bytes.NewReader(raw), f.Name+".bin", "application/octet-stream")
			if err != nil {
				return errorResult("Error: " + err.Error()), nil
			}
			bag.Files[f.Name] = handle
		}

		result, err := d.Invoke(ctx, desc.Name, bag)
		if err != nil {
			return errorResult("Error: " + clientMessage(err)), nil
		}

		return renderResult(desc.Name, result), nil
	}
}

// clientMessage picks the wording that may cross the boundary: validation
// and ingestion detail is client-correctable, execution detail is not.
func clientMessage(err error) string {
	switch err.(type) {
	case *schema.ValidationError, *ingest.Error, *dispatch.NotFoundError:
		return err.Error()
	default:
		return "tool execution failed"
	}
}

// renderResult converts an invocation result into MCP content: structured
// data as JSON text, attachments as image or base64 text content.
func renderResult(toolName string, result *catalog.Result) *mcp.CallToolResult {
	if result.Kind == catalog.OutputStructured {
		data, err := json.Marshal(result.Data)
		if err != nil {
			return errorResult("Error: result could not be serialized")
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(data))}}
	}

	encoded := base64.StdEncoding.EncodeToString(result.Bytes)
	if strings.HasPrefix(result.MediaType, "image/") {
		return &mcp.CallToolResult{Content: []mcp.Content{
			mcp.NewImageContent(encoded, result.MediaType),
		}}
	}
	return &mcp.CallToolResult{Content: []mcp.Content{
		mcp.NewTextContent(result.SuggestedFilename(toolName) + " (base64): " + encoded),
	}}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
