package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644)
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	tool := NewListDirTool()
	out, err := tool.Execute(context.Background(), map[string]any{"directory_path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	aIdx := strings.Index(out, "a.txt")
	bIdx := strings.Index(out, "b.txt")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Errorf("expected sorted listing, got %q", out)
	}
	if !strings.Contains(out, "sub") {
		t.Errorf("expected subdirectory in listing: %q", out)
	}
}

func TestListDir_Empty(t *testing.T) {
	tool := NewListDirTool()
	out, err := tool.Execute(context.Background(), map[string]any{"directory_path": t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "(empty directory)" {
		t.Errorf("unexpected result: %q", out)
	}
}

func TestCreateDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deep")

	tool := NewCreateDirTool()
	out, err := tool.Execute(context.Background(), map[string]any{"directory_path": target})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Successfully created directory") {
		t.Errorf("unexpected result: %q", out)
	}
	info, statErr := os.Stat(target)
	if statErr != nil || !info.IsDir() {
		t.Error("directory should exist")
	}

	out, _ = tool.Execute(context.Background(), map[string]any{"directory_path": target})
	if !strings.Contains(out, "already exists") {
		t.Errorf("expected already-exists error, got %q", out)
	}
}

func TestSearchInFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "one.txt"), []byte("needle here\nand needle again"), 0o644)
	os.WriteFile(filepath.Join(dir, "two.txt"), []byte("nothing"), 0o644)
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)
	os.WriteFile(filepath.Join(dir, "sub", "three.txt"), []byte("one needle"), 0o644)

	tool := NewSearchFilesTool()
	out, err := tool.Execute(context.Background(), map[string]any{
		"directory_path": dir,
		"pattern":        "needle",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "one.txt: 2 match(es)") {
		t.Errorf("expected match count for one.txt: %q", out)
	}
	if !strings.Contains(out, "three.txt: 1 match(es)") {
		t.Errorf("expected recursive match: %q", out)
	}
	if strings.Contains(out, "two.txt") {
		t.Errorf("file without matches should not appear: %q", out)
	}
}

func TestSearchInFiles_NoMatch(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "f.txt"), []byte("abc"), 0o644)

	tool := NewSearchFilesTool()
	out, err := tool.Execute(context.Background(), map[string]any{
		"directory_path": dir,
		"pattern":        "zzz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No matches found") {
		t.Errorf("unexpected result: %q", out)
	}
}

func TestFileInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "info.txt")
	os.WriteFile(path, []byte("12345"), 0o644)

	tool := NewFileInfoTool()
	out, err := tool.Execute(context.Background(), map[string]any{"file_path": path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Size: 5 bytes") {
		t.Errorf("expected size line: %q", out)
	}
	if !strings.Contains(out, "Type: File") {
		t.Errorf("expected type line: %q", out)
	}

	out, err = tool.Execute(context.Background(), map[string]any{"file_path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Items: 1") {
		t.Errorf("expected item count for directory: %q", out)
	}
}
