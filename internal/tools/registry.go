// Package tools implements the tool catalogue the model may invoke, plus the
// registry that maps tool names to implementations.
package tools

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/copperotter/copperotter/internal/schema"
)

// Registry holds a set of named tools and exposes them for execution.
// It is built once at startup and read-only thereafter.
type Registry struct {
	tools map[string]schema.Tool
}

// Get returns the tool with the given name, or nil if no such tool is
// registered.
func (r *Registry) Get(name string) schema.Tool {
	return r.tools[name]
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.tools))
	for name := range r.tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Definitions returns all tool definitions in OpenAI function-calling format.
// Providers that speak another wire format convert from this shape.
func (r *Registry) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  params,
			},
		})
	}
	return list
}

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools []schema.Tool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithTool adds a tool and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	b.tools = append(b.tools, tool)
	return b
}

// Build produces an immutable Registry from the accumulated tools.
// Registering two tools under the same name is a construction error.
func (b *RegistryBuilder) Build() (*Registry, error) {
	tools := make(map[string]schema.Tool, len(b.tools))
	for _, t := range b.tools {
		if _, exists := tools[t.Name()]; exists {
			return nil, fmt.Errorf("tool %q already registered", t.Name())
		}
		tools[t.Name()] = t
	}
	return &Registry{tools: tools}, nil
}
