// Package registry holds the immutable lookup table from tool name to its
// descriptor and invocable unit. Built once at startup; concurrent readers
// never race because there are no writers afterwards.
package registry

import (
	"context"
	"fmt"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/schema"
)

// RunFunc is the invocable unit of one tool: a function from validated
// parameters to a result. Tools differ only in this computation, never in
// invocation shape.
type RunFunc func(ctx context.Context, params schema.Params) (*catalog.Result, error)

// Tool pairs one descriptor with one invocable unit.
type Tool struct {
	Descriptor catalog.ToolDescriptor
	Run        RunFunc
}

// Registry is the write-once tool table.
type Registry struct {
	byName map[string]Tool
	order  []string
}

// New builds a registry from the given tools. Invalid descriptors, duplicate
// names, and nil run functions are rejected at construction so defects
// surface at startup rather than on first dispatch.
func New(tools ...Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := t.Descriptor.Validate(); err != nil {
			return nil, err
		}
		if t.Run == nil {
			return nil, fmt.Errorf("tool %q has no run function", t.Descriptor.Name)
		}
		if _, dup := r.byName[t.Descriptor.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Descriptor.Name)
		}
		r.byName[t.Descriptor.Name] = t
		r.order = append(r.order, t.Descriptor.Name)
	}
	return r, nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Descriptors returns all descriptors in registration order.
func (r *Registry) Descriptors() []catalog.ToolDescriptor {
	out := make([]catalog.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Descriptor)
	}
	return out
}

// Count returns the number of registered tools.
func (r *Registry) Count() int { return len(r.order) }
