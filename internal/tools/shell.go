package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// denyPatterns blocks commands that could destroy data or the host.
var denyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\brm\s+-[rf]{1,2}\b`),            // rm -r, rm -rf, rm -fr
	regexp.MustCompile(`(?i)\bdel\s+/[fq]\b`),                // del /f, del /q
	regexp.MustCompile(`(?i)\brmdir\s+/s\b`),                 // rmdir /s
	regexp.MustCompile(`(?i)(?:^|[;&|]\s*)format\b`),         // format (standalone)
	regexp.MustCompile(`(?i)\b(mkfs|diskpart)\b`),            // disk ops
	regexp.MustCompile(`(?i)\bdd\s+if=`),                     // dd
	regexp.MustCompile(`(?i)>\s*/dev/sd`),                    // write to disk
	regexp.MustCompile(`(?i)\b(shutdown|reboot|poweroff)\b`), // power control
	regexp.MustCompile(`:\(\)\s*\{.*\};\s*:`),                // fork bomb
}

const execOutputCap = 10000

// ExecuteCommandTool executes shell commands with safety guards.
type ExecuteCommandTool struct {
	timeout time.Duration
}

// NewExecuteCommandTool creates an ExecuteCommandTool.
// timeoutSeconds defaults to 30 when non-positive.
func NewExecuteCommandTool(timeoutSeconds int) *ExecuteCommandTool {
	t := 30
	if timeoutSeconds > 0 {
		t = timeoutSeconds
	}
	return &ExecuteCommandTool{timeout: time.Duration(t) * time.Second}
}

func (e *ExecuteCommandTool) Name() string { return "execute_command" }
func (e *ExecuteCommandTool) Description() string {
	return "Execute a shell command and return its output. Use with caution."
}
func (e *ExecuteCommandTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"command": {
				"type": "string",
				"description": "The shell command to execute"
			},
			"working_dir": {
				"type": "string",
				"description": "Optional working directory for the command"
			}
		},
		"required": ["command"]
	}`)
}

func (e *ExecuteCommandTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	command := stringParam(params, "command")
	if command == "" {
		return "Error: command is required", nil
	}

	if blocked(command) {
		return "Error: Command blocked by safety guard (dangerous pattern detected)", nil
	}

	cwd := stringParam(params, "working_dir")
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	cmdCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
	cmd.Dir = cwd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if cmdCtx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("Error: Command timed out after %v", e.timeout), nil
	}

	var parts []string
	if out := stdout.String(); out != "" {
		parts = append(parts, out)
	}
	if errOut := stderr.String(); strings.TrimSpace(errOut) != "" {
		parts = append(parts, "STDERR:\n"+errOut)
	}
	if runErr != nil && cmd.ProcessState != nil && cmd.ProcessState.ExitCode() != 0 {
		parts = append(parts, fmt.Sprintf("\nExit code: %d", cmd.ProcessState.ExitCode()))
	}

	result := strings.Join(parts, "\n")
	if result == "" {
		result = "(no output)"
	}
	if len(result) > execOutputCap {
		result = result[:execOutputCap] + fmt.Sprintf("\n... (truncated, %d more chars)", len(result)-execOutputCap)
	}
	return result, nil
}

func blocked(command string) bool {
	lower := strings.ToLower(strings.TrimSpace(command))
	for _, p := range denyPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// CurrentDirectoryTool
// ---------------------------------------------------------------------------

type CurrentDirectoryTool struct{}

func NewCurrentDirectoryTool() *CurrentDirectoryTool { return &CurrentDirectoryTool{} }

func (t *CurrentDirectoryTool) Name() string                { return "get_current_directory" }
func (t *CurrentDirectoryTool) Description() string         { return "Get the current working directory." }
func (t *CurrentDirectoryTool) Parameters() json.RawMessage { return noParams() }

func (t *CurrentDirectoryTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return fmt.Sprintf("Current directory: %s", wd), nil
}
