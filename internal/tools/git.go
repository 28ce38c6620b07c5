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

const (
	gitTimeout       = 15 * time.Second
	gitRemoteTimeout = 60 * time.Second // pull/push hit the network
	gitDiffMaxLines  = 200
)

// runGit executes a git command and returns (stdout, stderr, err).
// err is non-nil for spawn failures, timeouts, and non-zero exit codes.
func runGit(ctx context.Context, timeout time.Duration, args ...string) (string, string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cmdCtx.Err() == context.DeadlineExceeded {
		return "", "", fmt.Errorf("git %s timed out after %v", args[0], timeout)
	}
	return stdout.String(), stderr.String(), err
}

// noParams is the schema for tools that take no arguments.
func noParams() json.RawMessage {
	return json.RawMessage(`{"type": "object", "properties": {}}`)
}

// ---------------------------------------------------------------------------
// GitStatusTool
// ---------------------------------------------------------------------------

type GitStatusTool struct{}

func NewGitStatusTool() *GitStatusTool { return &GitStatusTool{} }

func (t *GitStatusTool) Name() string                { return "git_status" }
func (t *GitStatusTool) Description() string         { return "Get the current git repository status." }
func (t *GitStatusTool) Parameters() json.RawMessage { return noParams() }

func (t *GitStatusTool) Execute(ctx context.Context, _ map[string]any) (string, error) {
	out, errOut, err := runGit(ctx, gitTimeout, "status", "--short")
	if err != nil {
		return fmt.Sprintf("Error: Not a git repository or git not available.\n%s", errOut), nil
	}
	if strings.TrimSpace(out) == "" {
		return "Working tree clean (no changes)", nil
	}
	return "Git status:\n" + out, nil
}

// ---------------------------------------------------------------------------
// GitDiffTool
// ---------------------------------------------------------------------------

type GitDiffTool struct{}

func NewGitDiffTool() *GitDiffTool { return &GitDiffTool{} }

func (t *GitDiffTool) Name() string        { return "git_diff" }
func (t *GitDiffTool) Description() string { return "Show git diff for a specific file or all files." }
func (t *GitDiffTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Optional file path to show diff for. If empty, shows diff for all files."
			}
		}
	}`)
}

func (t *GitDiffTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	args := []string{"diff"}
	if fp := stringParam(params, "file_path"); fp != "" {
		args = append(args, fp)
	}
	out, errOut, err := runGit(ctx, gitTimeout, args...)
	if err != nil {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	if strings.TrimSpace(out) == "" {
		return "No changes to show", nil
	}
	lines := strings.Split(out, "\n")
	if len(lines) > gitDiffMaxLines {
		head := strings.Join(lines[:gitDiffMaxLines], "\n")
		return fmt.Sprintf("%s\n\n... (showing first %d lines of %d total)", head, gitDiffMaxLines, len(lines)), nil
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// GitLogTool
// ---------------------------------------------------------------------------

type GitLogTool struct{}

func NewGitLogTool() *GitLogTool { return &GitLogTool{} }

func (t *GitLogTool) Name() string        { return "git_log" }
func (t *GitLogTool) Description() string { return "Show git commit history." }
func (t *GitLogTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"num_commits": {
				"type": "integer",
				"description": "Number of commits to show (default 10)."
			}
		}
	}`)
}

func (t *GitLogTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	n := intParam(params, "num_commits", 10)
	if n <= 0 {
		n = 10
	}
	out, errOut, err := runGit(ctx, gitTimeout, "log", fmt.Sprintf("-%d", n), "--oneline", "--decorate")
	if err != nil {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	if strings.TrimSpace(out) == "" {
		return "No commits found", nil
	}
	return fmt.Sprintf("Last %d commits:\n%s", n, out), nil
}

// ---------------------------------------------------------------------------
// GitAddTool
// ---------------------------------------------------------------------------

type GitAddTool struct{}

func NewGitAddTool() *GitAddTool { return &GitAddTool{} }

func (t *GitAddTool) Name() string        { return "git_add" }
func (t *GitAddTool) Description() string { return "Stage a file for commit." }
func (t *GitAddTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to stage."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *GitAddTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	_, errOut, err := runGit(ctx, gitTimeout, "add", fp)
	if err != nil {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	return fmt.Sprintf("Successfully staged '%s'", fp), nil
}

// ---------------------------------------------------------------------------
// GitCommitTool
// ---------------------------------------------------------------------------

type GitCommitTool struct{}

func NewGitCommitTool() *GitCommitTool { return &GitCommitTool{} }

func (t *GitCommitTool) Name() string        { return "git_commit" }
func (t *GitCommitTool) Description() string { return "Create a git commit with the given message." }
func (t *GitCommitTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"message": {
				"type": "string",
				"description": "Commit message."
			}
		},
		"required": ["message"]
	}`)
}

func (t *GitCommitTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	message := stringParam(params, "message")
	if strings.TrimSpace(message) == "" {
		return "Error: Commit message cannot be empty", nil
	}
	out, errOut, err := runGit(ctx, gitTimeout, "commit", "-m", message)
	if err != nil {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	return "Successfully created commit:\n" + out, nil
}

// ---------------------------------------------------------------------------
// GitBranchTool
// ---------------------------------------------------------------------------

type GitBranchTool struct{}

func NewGitBranchTool() *GitBranchTool { return &GitBranchTool{} }

func (t *GitBranchTool) Name() string { return "git_branch" }
func (t *GitBranchTool) Description() string {
	return "Git branch operations: list, create, or switch branches."
}
func (t *GitBranchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"operation": {
				"type": "string",
				"description": "Operation to perform: 'list', 'create', or 'switch'."
			},
			"branch_name": {
				"type": "string",
				"description": "Branch name for create/switch operations."
			}
		}
	}`)
}

func (t *GitBranchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	op := stringParam(params, "operation")
	if op == "" {
		op = "list"
	}
	branch := stringParam(params, "branch_name")

	var args []string
	switch op {
	case "list":
		args = []string{"branch", "-a"}
	case "create":
		if branch == "" {
			return "Error: Branch name required for create operation", nil
		}
		args = []string{"branch", branch}
	case "switch":
		if branch == "" {
			return "Error: Branch name required for switch operation", nil
		}
		args = []string{"checkout", branch}
	default:
		return fmt.Sprintf("Error: Unknown operation '%s'. Use: list, create, or switch", op), nil
	}

	out, errOut, err := runGit(ctx, gitTimeout, args...)
	if err != nil {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	result := out
	if strings.TrimSpace(result) == "" {
		result = errOut // git checkout reports on stderr
	}
	if strings.TrimSpace(result) == "" {
		return fmt.Sprintf("Operation '%s' completed successfully", op), nil
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// GitPullTool / GitPushTool
// ---------------------------------------------------------------------------

type GitPullTool struct{}

func NewGitPullTool() *GitPullTool { return &GitPullTool{} }

func (t *GitPullTool) Name() string        { return "git_pull" }
func (t *GitPullTool) Description() string { return "Pull latest changes from a remote repository." }
func (t *GitPullTool) Parameters() json.RawMessage {
	return remoteParams()
}

func (t *GitPullTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	remote, args := remoteArgs("pull", params)
	out, errOut, err := runGit(ctx, gitRemoteTimeout, args...)
	if err != nil {
		if strings.Contains(err.Error(), "timed out") {
			return "Error: Pull operation timed out after 60 seconds", nil
		}
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	return fmt.Sprintf("Pull from '%s' successful:\n%s", remote, out), nil
}

type GitPushTool struct{}

func NewGitPushTool() *GitPushTool { return &GitPushTool{} }

func (t *GitPushTool) Name() string        { return "git_push" }
func (t *GitPushTool) Description() string { return "Push commits to a remote repository." }
func (t *GitPushTool) Parameters() json.RawMessage {
	return remoteParams()
}

func (t *GitPushTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	remote, args := remoteArgs("push", params)
	out, errOut, err := runGit(ctx, gitRemoteTimeout, args...)
	if err != nil {
		if strings.Contains(err.Error(), "timed out") {
			return "Error: Push operation timed out after 60 seconds", nil
		}
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	if strings.TrimSpace(out) == "" {
		out = errOut // git push reports progress on stderr
	}
	return fmt.Sprintf("Push to '%s' successful:\n%s", remote, out), nil
}

func remoteParams() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"remote": {
				"type": "string",
				"description": "Remote name (default: origin)."
			},
			"branch": {
				"type": "string",
				"description": "Branch name (optional)."
			}
		}
	}`)
}

func remoteArgs(verb string, params map[string]any) (remote string, args []string) {
	remote = stringParam(params, "remote")
	if remote == "" {
		remote = "origin"
	}
	args = []string{verb, remote}
	if branch := stringParam(params, "branch"); branch != "" {
		args = append(args, branch)
	}
	return remote, args
}

// ---------------------------------------------------------------------------
// GitStashTool
// ---------------------------------------------------------------------------

type GitStashTool struct{}

func NewGitStashTool() *GitStashTool { return &GitStashTool{} }

func (t *GitStashTool) Name() string { return "git_stash" }
func (t *GitStashTool) Description() string {
	return "Stash operations: save, pop, list, or show stashed changes."
}
func (t *GitStashTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"operation": {
				"type": "string",
				"description": "Operation: 'save', 'pop', 'list', or 'show' (default: save)."
			}
		}
	}`)
}

func (t *GitStashTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	op := stringParam(params, "operation")
	if op == "" {
		op = "save"
	}

	var args []string
	switch op {
	case "save":
		args = []string{"stash", "save"}
	case "pop":
		args = []string{"stash", "pop"}
	case "list":
		args = []string{"stash", "list"}
	case "show":
		args = []string{"stash", "show", "-p"}
	default:
		return fmt.Sprintf("Error: Unknown operation '%s'. Use: save, pop, list, or show", op), nil
	}

	out, errOut, err := runGit(ctx, gitTimeout, args...)
	if err != nil && strings.TrimSpace(errOut) != "" {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}

	result := out
	if strings.TrimSpace(result) == "" {
		result = errOut
	}
	if strings.TrimSpace(result) == "" {
		switch op {
		case "list":
			return "No stashed changes", nil
		case "save":
			return "No local changes to save", nil
		default:
			return fmt.Sprintf("Stash %s completed", op), nil
		}
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// GitRemoteTool
// ---------------------------------------------------------------------------

type GitRemoteTool struct{}

func NewGitRemoteTool() *GitRemoteTool { return &GitRemoteTool{} }

func (t *GitRemoteTool) Name() string        { return "git_remote" }
func (t *GitRemoteTool) Description() string { return "List remote repositories with their URLs." }
func (t *GitRemoteTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"operation": {
				"type": "string",
				"description": "Operation: 'list' (default)."
			}
		}
	}`)
}

func (t *GitRemoteTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	op := stringParam(params, "operation")
	if op != "" && op != "list" {
		return fmt.Sprintf("Error: Unknown operation '%s'. Currently only 'list' is supported", op), nil
	}
	out, errOut, err := runGit(ctx, gitTimeout, "remote", "-v")
	if err != nil {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(errOut)), nil
	}
	if strings.TrimSpace(out) == "" {
		return "No remotes configured", nil
	}
	return "Remote repositories:\n" + out, nil
}
