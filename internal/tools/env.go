package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const installTimeout = 2 * time.Minute

// ---------------------------------------------------------------------------
// EnvironmentInfoTool
// ---------------------------------------------------------------------------

// EnvironmentInfoTool reports the runtime environment: OS, architecture,
// working directory, and which common developer tools are on PATH.
type EnvironmentInfoTool struct{}

func NewEnvironmentInfoTool() *EnvironmentInfoTool { return &EnvironmentInfoTool{} }

func (t *EnvironmentInfoTool) Name() string { return "get_environment_info" }
func (t *EnvironmentInfoTool) Description() string {
	return "Get information about the runtime environment and available developer tools."
}
func (t *EnvironmentInfoTool) Parameters() json.RawMessage { return noParams() }

var probedTools = []string{"git", "go", "python3", "pip", "node", "npm", "docker", "make", "curl"}

func (t *EnvironmentInfoTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	wd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	hostname, _ := os.Hostname()

	var b strings.Builder
	b.WriteString("Environment information:\n")
	fmt.Fprintf(&b, "  OS: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "  Go runtime: %s\n", runtime.Version())
	fmt.Fprintf(&b, "  CPUs: %d\n", runtime.NumCPU())
	fmt.Fprintf(&b, "  Hostname: %s\n", hostname)
	fmt.Fprintf(&b, "  Working directory: %s\n", wd)
	fmt.Fprintf(&b, "  Home directory: %s\n", home)
	fmt.Fprintf(&b, "  Shell: %s\n", os.Getenv("SHELL"))

	b.WriteString("  Available tools:\n")
	for _, name := range probedTools {
		if path, err := exec.LookPath(name); err == nil {
			fmt.Fprintf(&b, "    %s: %s\n", name, path)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// ---------------------------------------------------------------------------
// InstallPackageTool
// ---------------------------------------------------------------------------

// InstallPackageTool installs a package with pip or `go install`.
type InstallPackageTool struct{}

func NewInstallPackageTool() *InstallPackageTool { return &InstallPackageTool{} }

func (t *InstallPackageTool) Name() string { return "install_package" }
func (t *InstallPackageTool) Description() string {
	return "Install a package using pip or go install."
}
func (t *InstallPackageTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"package_name": {
				"type": "string",
				"description": "Name of the package to install."
			},
			"manager": {
				"type": "string",
				"description": "Package manager: 'pip' (default) or 'go'."
			}
		},
		"required": ["package_name"]
	}`)
}

// validPackageName rejects names that could smuggle shell arguments.
func validPackageName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == '/', r == '@', r == '=':
		default:
			return false
		}
	}
	return true
}

func (t *InstallPackageTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	pkg := stringParam(params, "package_name")
	if !validPackageName(pkg) {
		return fmt.Sprintf("Error: Invalid package name '%s'", pkg), nil
	}
	manager := stringParam(params, "manager")
	if manager == "" {
		manager = "pip"
	}

	var args []string
	switch manager {
	case "pip":
		args = []string{"pip", "install", pkg}
	case "go":
		target := pkg
		if !strings.Contains(target, "@") {
			target += "@latest"
		}
		args = []string{"go", "install", target}
	default:
		return fmt.Sprintf("Error: Unsupported manager '%s'. Use: pip or go", manager), nil
	}

	cmdCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cmdCtx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("Error: Installation timed out after %v", installTimeout), nil
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Sprintf("Error: Installation of '%s' failed:\n%s", pkg, detail), nil
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return fmt.Sprintf("Successfully installed '%s' with %s.", pkg, manager), nil
	}
	return fmt.Sprintf("Successfully installed '%s' with %s:\n%s", pkg, manager, out), nil
}
