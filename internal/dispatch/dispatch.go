// Package dispatch runs the end-to-end handling of one tool invocation:
// payload normalization, validation, execution, and output negotiation.
package dispatch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/common"
	"github.com/toolbench/toolbench/internal/ingest"
	"github.com/toolbench/toolbench/internal/registry"
	"github.com/toolbench/toolbench/internal/schema"
)

// NotFoundError reports a tool name with no registry entry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("tool %q not found", e.Name) }

// PayloadError reports a transport payload that could not be parsed into a
// raw parameter bag (bad content type, malformed JSON, broken multipart).
type PayloadError struct {
	Message string
	cause   error
}

func (e *PayloadError) Error() string { return e.Message }
func (e *PayloadError) Unwrap() error { return e.cause }

// ExecError reports a tool unit that failed or returned an inconsistent
// result. The detail stays server-side; callers see a generic message.
type ExecError struct {
	Tool   string
	Detail string
}

func (e *ExecError) Error() string { return "tool execution failed" }

// Dispatcher wires the registry, validator, and file ingestion into one
// invocation pipeline.
type Dispatcher struct {
	reg    *registry.Registry
	files  *ingest.Service
	logger *common.Logger
}

// New creates a dispatcher.
func New(reg *registry.Registry, files *ingest.Service, logger *common.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, files: files, logger: logger}
}

// Registry exposes the read-only tool table.
func (d *Dispatcher) Registry() *registry.Registry { return d.reg }

// Dispatch handles one HTTP invocation of the named tool. File handles
// created while parsing are released before it returns, on every path.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, req *http.Request) (*catalog.Result, error) {
	if _, ok := d.reg.Get(name); !ok {
		return nil, &NotFoundError{Name: name}
	}

	bag, err := d.parsePayload(req)
	defer bag.ReleaseFiles()
	if err != nil {
		return nil, err
	}

	return d.Invoke(ctx, name, bag)
}

// Invoke validates the bag against the named tool's schema, runs the tool,
// and asserts the result kind. The caller owns the bag's file handles.
func (d *Dispatcher) Invoke(ctx context.Context, name string, bag schema.RawBag) (*catalog.Result, error) {
	tool, ok := d.reg.Get(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	params, err := schema.Validate(tool.Descriptor.InputSchema, bag)
	if err != nil {
		return nil, err
	}

	result, err := d.run(ctx, tool, params)
	if err != nil {
		return nil, err
	}

	if result == nil || result.Kind != tool.Descriptor.OutputKind {
		got := "nil"
		if result != nil {
			got = string(result.Kind)
		}
		d.logger.Error().
			Str("tool", name).
			Str("declared", string(tool.Descriptor.OutputKind)).
			Str("returned", got).
			Msg("tool returned a result kind that contradicts its descriptor")
		return nil, &ExecError{Tool: name, Detail: fmt.Sprintf("result kind %s does not match descriptor %s", got, tool.Descriptor.OutputKind)}
	}

	return result, nil
}

// run invokes the tool unit with panic containment. Whatever escapes tool
// logic is caught here and reported as an internal error; internal detail
// never crosses the dispatch boundary.
func (d *Dispatcher) run(ctx context.Context, tool registry.Tool, params schema.Params) (result *catalog.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error().
				Str("tool", tool.Descriptor.Name).
				Str("panic", fmt.Sprintf("%v", rec)).
				Msg("tool panicked during execution")
			result = nil
			err = &ExecError{Tool: tool.Descriptor.Name, Detail: fmt.Sprintf("panic: %v", rec)}
		}
	}()

	result, runErr := tool.Run(ctx, params)
	if runErr != nil {
		d.logger.Error().
			Str("tool", tool.Descriptor.Name).
			Str("error", runErr.Error()).
			Msg("tool execution failed")
		return nil, &ExecError{Tool: tool.Descriptor.Name, Detail: runErr.Error()}
	}
	return result, nil
}
