package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const processListCap = 50

// ---------------------------------------------------------------------------
// ListProcessesTool
// ---------------------------------------------------------------------------

// ListProcessesTool lists running processes via ps, optionally filtered by name.
type ListProcessesTool struct{}

func NewListProcessesTool() *ListProcessesTool { return &ListProcessesTool{} }

func (t *ListProcessesTool) Name() string { return "list_processes" }
func (t *ListProcessesTool) Description() string {
	return "List running processes, optionally filtered by name."
}
func (t *ListProcessesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"filter": {
				"type": "string",
				"description": "Optional substring to filter process names."
			}
		}
	}`)
}

func (t *ListProcessesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "ps", "aux")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return fmt.Sprintf("Error: Unable to list processes: %v", err), nil
	}

	filter := strings.ToLower(stringParam(params, "filter"))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) == 0 {
		return "No processes found", nil
	}

	header := lines[0]
	var matched []string
	truncated := false
	for _, line := range lines[1:] {
		if filter != "" && !strings.Contains(strings.ToLower(line), filter) {
			continue
		}
		if len(matched) >= processListCap {
			truncated = true
			break
		}
		matched = append(matched, line)
	}

	if len(matched) == 0 {
		if filter != "" {
			return fmt.Sprintf("No processes matching '%s'", filter), nil
		}
		return "No processes found", nil
	}

	result := fmt.Sprintf("%d process(es):\n%s\n%s", len(matched), header, strings.Join(matched, "\n"))
	if truncated {
		result += fmt.Sprintf("\n... (stopped after %d processes)", processListCap)
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// SystemStatsTool
// ---------------------------------------------------------------------------

// SystemStatsTool reports uptime, disk, and memory usage. Each probe is
// best-effort: a missing command degrades to "unavailable" rather than
// failing the whole tool.
type SystemStatsTool struct{}

func NewSystemStatsTool() *SystemStatsTool { return &SystemStatsTool{} }

func (t *SystemStatsTool) Name() string { return "get_system_stats" }
func (t *SystemStatsTool) Description() string {
	return "Get system statistics: uptime, disk usage, and memory."
}
func (t *SystemStatsTool) Parameters() json.RawMessage { return noParams() }

func (t *SystemStatsTool) Execute(ctx context.Context, _ map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString("System statistics:\n")

	fmt.Fprintf(&b, "Uptime:\n%s\n", probe(ctx, "uptime"))
	fmt.Fprintf(&b, "Disk usage:\n%s\n", probe(ctx, "df", "-h", "/"))
	fmt.Fprintf(&b, "Memory:\n%s", probe(ctx, "free", "-h"))
	return b.String(), nil
}

func probe(ctx context.Context, name string, args ...string) string {
	cmdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return fmt.Sprintf("  (%s unavailable)", name)
	}
	result := strings.TrimRight(out.String(), "\n")
	if result == "" {
		return fmt.Sprintf("  (%s unavailable)", name)
	}
	return result
}
