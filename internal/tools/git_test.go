package tools

import (
	"context"
	"strings"
	"testing"
)

// These tests only exercise argument validation; they never spawn git.

func TestGitCommit_EmptyMessage(t *testing.T) {
	tool := NewGitCommitTool()
	for _, msg := range []string{"", "   ", "\n"} {
		out, err := tool.Execute(context.Background(), map[string]any{"message": msg})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Commit message cannot be empty") {
			t.Errorf("message %q: expected rejection, got %q", msg, out)
		}
	}
}

func TestGitAdd_MissingPath(t *testing.T) {
	tool := NewGitAddTool()
	out, err := tool.Execute(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "file_path is required") {
		t.Errorf("expected missing-path error, got %q", out)
	}
}

func TestGitBranch_Validation(t *testing.T) {
	tool := NewGitBranchTool()

	out, _ := tool.Execute(context.Background(), map[string]any{"operation": "create"})
	if !strings.Contains(out, "Branch name required") {
		t.Errorf("create without name: got %q", out)
	}

	out, _ = tool.Execute(context.Background(), map[string]any{"operation": "switch"})
	if !strings.Contains(out, "Branch name required") {
		t.Errorf("switch without name: got %q", out)
	}

	out, _ = tool.Execute(context.Background(), map[string]any{"operation": "bogus"})
	if !strings.Contains(out, "Unknown operation") {
		t.Errorf("bogus operation: got %q", out)
	}
}

func TestGitStash_UnknownOperation(t *testing.T) {
	tool := NewGitStashTool()
	out, _ := tool.Execute(context.Background(), map[string]any{"operation": "drop-all"})
	if !strings.Contains(out, "Unknown operation") {
		t.Errorf("expected unknown-operation error, got %q", out)
	}
}

func TestGitRemote_UnknownOperation(t *testing.T) {
	tool := NewGitRemoteTool()
	out, _ := tool.Execute(context.Background(), map[string]any{"operation": "add"})
	if !strings.Contains(out, "only 'list' is supported") {
		t.Errorf("expected unsupported-operation error, got %q", out)
	}
}

func TestRemoteArgs(t *testing.T) {
	remote, args := remoteArgs("push", map[string]any{})
	if remote != "origin" {
		t.Errorf("default remote should be origin, got %q", remote)
	}
	if len(args) != 2 || args[0] != "push" || args[1] != "origin" {
		t.Errorf("unexpected args: %v", args)
	}

	remote, args = remoteArgs("pull", map[string]any{"remote": "upstream", "branch": "main"})
	if remote != "upstream" {
		t.Errorf("got remote %q", remote)
	}
	if len(args) != 3 || args[2] != "main" {
		t.Errorf("unexpected args: %v", args)
	}
}
