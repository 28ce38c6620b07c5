package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegexSearch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	content := "INFO start\nERROR boom\nINFO continue\nERROR again\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewRegexSearchTool()
	out, err := tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"pattern":   "^ERROR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Found 2 matching line(s)") {
		t.Errorf("unexpected result: %q", out)
	}
	if !strings.Contains(out, "line 2") || !strings.Contains(out, "line 4") {
		t.Errorf("expected line numbers in output: %q", out)
	}
}

func TestRegexSearch_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	os.WriteFile(path, []byte("x"), 0o644)

	tool := NewRegexSearchTool()
	out, _ := tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"pattern":   "([unclosed",
	})
	if !strings.Contains(out, "Invalid regex") {
		t.Errorf("expected invalid-regex error, got %q", out)
	}
}

func TestRegexReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.txt")
	if err := os.WriteFile(path, []byte("port=80\nport=8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := NewRegexReplaceTool()
	out, err := tool.Execute(context.Background(), map[string]any{
		"file_path":   path,
		"pattern":     `port=\d+`,
		"replacement": "port=9090",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Replaced 2 occurrence(s)") {
		t.Errorf("unexpected result: %q", out)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "port=9090\nport=9090\n" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestFormatText(t *testing.T) {
	tool := NewFormatTextTool()
	cases := []struct {
		op   string
		text string
		want string
	}{
		{"upper", "hello", "HELLO"},
		{"lower", "HeLLo", "hello"},
		{"title", "hello big world", "Hello Big World"},
		{"capitalize", "hELLO", "Hello"},
		{"reverse", "abc", "cba"},
		{"strip", "  padded  ", "padded"},
		{"snake_case", "Hello Big World", "hello_big_world"},
		{"kebab-case", "helloBigWorld", "hello-big-world"},
		{"camelCase", "hello_big_world", "helloBigWorld"},
		{"PascalCase", "hello-big world", "HelloBigWorld"},
		{"word_count", "one two three", "Word count: 3"},
		{"line_count", "a\nb\nc", "Line count: 3"},
	}
	for _, tc := range cases {
		got, err := tool.Execute(context.Background(), map[string]any{
			"text":      tc.text,
			"operation": tc.op,
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.op, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.op, got, tc.want)
		}
	}
}

func TestFormatText_UnknownOperation(t *testing.T) {
	tool := NewFormatTextTool()
	out, _ := tool.Execute(context.Background(), map[string]any{
		"text":      "x",
		"operation": "rot13",
	})
	if !strings.Contains(out, "Unknown operation") {
		t.Errorf("expected unknown-operation error, got %q", out)
	}
}

func TestBase64RoundTrip(t *testing.T) {
	enc := NewEncodeBase64Tool()
	dec := NewDecodeBase64Tool()

	encoded, err := enc.Execute(context.Background(), map[string]any{"text": "copper otter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := dec.Execute(context.Background(), map[string]any{"encoded_text": encoded})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != "copper otter" {
		t.Errorf("round trip mismatch: %q", decoded)
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	dec := NewDecodeBase64Tool()
	out, _ := dec.Execute(context.Background(), map[string]any{"encoded_text": "!!!not base64!!!"})
	if !strings.Contains(out, "Invalid base64") {
		t.Errorf("expected invalid-base64 error, got %q", out)
	}
}
