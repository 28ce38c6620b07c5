package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.go")
	src := `package sample

import "fmt"

// Greeter holds a name.
type Greeter struct {
	name string
}

func Hello() {
	fmt.Println("hi")
}

func Bye() {
	fmt.Println("bye")
}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewAnalyzeCodeTool()
	out, err := tool.Execute(context.Background(), map[string]any{"file_path": path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "(Go)") {
		t.Errorf("expected language detection: %q", out)
	}
	if !strings.Contains(out, "Functions: 2") {
		t.Errorf("expected 2 functions: %q", out)
	}
	if !strings.Contains(out, "Classes/types: 1") {
		t.Errorf("expected 1 struct: %q", out)
	}
	if !strings.Contains(out, "Imports: 1") {
		t.Errorf("expected 1 import: %q", out)
	}
}

func TestFindTodos(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n// TODO: fix this\nvar X = 1 // FIXME broken\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("TODO: not a source file\n"), 0o644)

	tool := NewFindTodosTool()
	out, err := tool.Execute(context.Background(), map[string]any{"directory_path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Found 2 TODO/FIXME comment(s)") {
		t.Errorf("unexpected result: %q", out)
	}
	if !strings.Contains(out, "[TODO] fix this") {
		t.Errorf("expected TODO entry: %q", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("non-source files should be skipped: %q", out)
	}
}

func TestFindTodos_None(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "clean.go"), []byte("package clean\n"), 0o644)

	tool := NewFindTodosTool()
	out, err := tool.Execute(context.Background(), map[string]any{"directory_path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No TODO/FIXME comments found") {
		t.Errorf("unexpected result: %q", out)
	}
}

func TestCountCodeLines(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nvar X = 1\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.py"), []byte("x = 1\n"), 0o644)
	os.Mkdir(filepath.Join(dir, "node_modules"), 0o755)
	os.WriteFile(filepath.Join(dir, "node_modules", "dep.js"), []byte("ignored\n"), 0o644)

	tool := NewCountCodeLinesTool()
	out, err := tool.Execute(context.Background(), map[string]any{"directory_path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Go") || !strings.Contains(out, "Python") {
		t.Errorf("expected per-language stats: %q", out)
	}
	if strings.Contains(out, "JavaScript") {
		t.Errorf("node_modules should be skipped: %q", out)
	}
	if !strings.Contains(out, "2 file(s)") {
		t.Errorf("expected total of 2 files: %q", out)
	}
}

func TestQueryJSONPathHelper(t *testing.T) {
	doc := map[string]any{
		"a": []any{map[string]any{"b": "deep"}},
	}
	got, err := queryJSONPath(doc, "a.0.b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "deep" {
		t.Errorf("got %v", got)
	}

	whole, err := queryJSONPath(doc, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := whole.(map[string]any); !ok {
		t.Error("empty query should return the whole document")
	}
}
