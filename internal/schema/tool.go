// Package schema contains the core contracts shared across copperotter
// packages. Concrete implementations live in their respective packages; this
// package is the single canonical source of truth for every shared type.
package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface all LLM-callable tools must satisfy.
//
// Execute returns the result the model sees as a tool-role turn. Input
// validation failures and runtime failures are reported in-band as
// "Error: …" strings; the error return is reserved for context cancellation
// and is never allowed to crash the dispatch loop.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	Execute(ctx context.Context, params map[string]any) (string, error)
}
