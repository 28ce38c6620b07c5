package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteThenReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")

	write := NewWriteFileTool()
	out, err := write.Execute(context.Background(), map[string]any{
		"file_path": path,
		"contents":  "hello world",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Successfully wrote 11 characters") {
		t.Errorf("unexpected write result: %q", out)
	}

	read := NewReadFileTool(10)
	got, err := read.Execute(context.Background(), map[string]any{"file_path": path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("round trip mismatch: %q", got)
	}
}

func TestReadFile_NotFound(t *testing.T) {
	read := NewReadFileTool(10)
	out, err := read.Execute(context.Background(), map[string]any{
		"file_path": filepath.Join(t.TempDir(), "missing.txt"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Error:") || !strings.Contains(out, "does not exist") {
		t.Errorf("expected not-found error string, got %q", out)
	}
}

func TestReadFile_SizeCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	// 1MB cap, write just over it.
	data := make([]byte, 1<<20+1)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	read := NewReadFileTool(1)
	out, err := read.Execute(context.Background(), map[string]any{"file_path": path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "File too large") {
		t.Errorf("expected size cap error, got %q", out)
	}
}

func TestAppendFile_CreatesThenAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	tool := NewAppendFileTool()

	out, err := tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"contents":  "first",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Created new file") {
		t.Errorf("expected creation message, got %q", out)
	}

	out, err = tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"contents":  " second",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Appended 7 characters") {
		t.Errorf("expected append message, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first second" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewDeleteFileTool()
	out, err := tool.Execute(context.Background(), map[string]any{"file_path": path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Successfully deleted") {
		t.Errorf("unexpected result: %q", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}

	// Second delete reports a friendly error, not a crash.
	out, _ = tool.Execute(context.Background(), map[string]any{"file_path": path})
	if !strings.Contains(out, "does not exist") {
		t.Errorf("expected not-found message, got %q", out)
	}
}

func TestFindReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("cat and cat and dog"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewFindReplaceTool()
	out, err := tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"find":      "cat",
		"replace":   "bird",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Replaced 2 occurrence(s)") {
		t.Errorf("unexpected result: %q", out)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "bird and bird and dog" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestFindReplace_NoMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("nothing here"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewFindReplaceTool()
	out, err := tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"find":      "absent",
		"replace":   "x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No occurrences") {
		t.Errorf("expected no-occurrences message, got %q", out)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "nothing here" {
		t.Error("file should be unchanged")
	}
}
