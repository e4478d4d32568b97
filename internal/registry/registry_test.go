package registry

import (
	"context"
	"testing"

	"github.com/toolbench/toolbench/internal/catalog"
	"github.com/toolbench/toolbench/internal/schema"
)

func stubTool(name string) Tool {
	return Tool{
		Descriptor: catalog.ToolDescriptor{
			Name:        name,
			Description: "stub tool for registry tests",
			Version:     "1.0.0",
			OutputKind:  catalog.OutputStructured,
		},
		Run: func(context.Context, schema.Params) (*catalog.Result, error) {
			return catalog.Structured(nil), nil
		},
	}
}

// TestNew_RegistersTools verifies lookup and count after construction.
func TestNew_RegistersTools(t *testing.T) {
	r, err := New(stubTool("alpha"), stubTool("beta"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if r.Count() != 2 {
		t.Errorf("expected 2 tools, got %d", r.Count())
	}
	if _, ok := r.Get("alpha"); !ok {
		t.Error("expected to find tool 'alpha'")
	}
	if _, ok := r.Get("gamma"); ok {
		t.Error("expected lookup miss for unregistered tool")
	}
}

// TestNew_DuplicateName verifies duplicate registrations are rejected.
func TestNew_DuplicateName(t *testing.T) {
	if _, err := New(stubTool("alpha"), stubTool("alpha")); err == nil {
		t.Error("expected error for duplicate tool name")
	}
}

// TestNew_InvalidDescriptor verifies descriptor validation runs at
// construction.
func TestNew_InvalidDescriptor(t *testing.T) {
	bad := stubTool("Bad Name")
	if _, err := New(bad); err == nil {
		t.Error("expected error for invalid descriptor")
	}
}

// TestNew_NilRun verifies a tool without a run function is rejected.
func TestNew_NilRun(t *testing.T) {
	tool := stubTool("alpha")
	tool.Run = nil
	if _, err := New(tool); err == nil {
		t.Error("expected error for nil run function")
	}
}

// TestDescriptors_Order verifies descriptors come back in registration
// order.
func TestDescriptors_Order(t *testing.T) {
	r, err := New(stubTool("zeta"), stubTool("alpha"), stubTool("mid"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	descriptors := r.Descriptors()
	want := []string{"zeta", "alpha", "mid"}
	if len(descriptors) != len(want) {
		t.Fatalf("expected %d descriptors, got %d", len(want), len(descriptors))
	}
	for i, name := range want {
		if descriptors[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, descriptors[i].Name)
		}
	}
}
