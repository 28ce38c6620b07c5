package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// ReadFileTool
// ---------------------------------------------------------------------------

// ReadFileTool reads a file and returns its contents, guarded by a size cap.
type ReadFileTool struct {
	maxBytes int64
}

// NewReadFileTool creates a ReadFileTool. maxFileMB <= 0 defaults to 10.
func NewReadFileTool(maxFileMB int) *ReadFileTool {
	if maxFileMB <= 0 {
		maxFileMB = 10
	}
	return &ReadFileTool{maxBytes: int64(maxFileMB) * 1024 * 1024}
}

func (t *ReadFileTool) Name() string { return "read_file" }
func (t *ReadFileTool) Description() string {
	return fmt.Sprintf("Reads a file and returns its contents. Maximum file size is %dMB.", t.maxBytes/(1024*1024))
}
func (t *ReadFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to read."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *ReadFileTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "file_path")
	if path == "" {
		return "Error: file_path is required", nil
	}
	fp := expandPath(path)
	info, err := os.Stat(fp)
	if err != nil {
		return fmt.Sprintf("Error: File '%s' does not exist.", path), nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Sprintf("Error: '%s' is not a file.", path), nil
	}
	if info.Size() > t.maxBytes {
		return fmt.Sprintf("Error: File too large (%.2fMB). Maximum size is %dMB.",
			float64(info.Size())/1024/1024, t.maxBytes/(1024*1024)), nil
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return fmt.Sprintf("Error reading file: %s", err), nil
	}
	return string(data), nil
}

// ---------------------------------------------------------------------------
// WriteFileTool
// ---------------------------------------------------------------------------

// WriteFileTool writes content to a file, creating parent directories as needed.
type WriteFileTool struct{}

func NewWriteFileTool() *WriteFileTool { return &WriteFileTool{} }

func (t *WriteFileTool) Name() string { return "write_file" }
func (t *WriteFileTool) Description() string {
	return "Writes a file with the given contents. Creates parent directories if needed."
}
func (t *WriteFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to write."
			},
			"contents": {
				"type": "string",
				"description": "Contents to write to the file."
			}
		},
		"required": ["file_path", "contents"]
	}`)
}

func (t *WriteFileTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "file_path")
	contents := stringParam(params, "contents")
	if path == "" {
		return "Error: file_path is required", nil
	}
	fp := expandPath(path)
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return fmt.Sprintf("Error writing file: %s", err), nil
	}
	if err := os.WriteFile(fp, []byte(contents), 0o644); err != nil {
		return fmt.Sprintf("Error writing file: %s", err), nil
	}
	return fmt.Sprintf("Successfully wrote %d characters to '%s'.", len(contents), path), nil
}

// ---------------------------------------------------------------------------
// AppendFileTool
// ---------------------------------------------------------------------------

// AppendFileTool appends content to a file, creating it when missing.
type AppendFileTool struct{}

func NewAppendFileTool() *AppendFileTool { return &AppendFileTool{} }

func (t *AppendFileTool) Name() string { return "append_to_file" }
func (t *AppendFileTool) Description() string {
	return "Append content to a file without overwriting existing content."
}
func (t *AppendFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file."
			},
			"contents": {
				"type": "string",
				"description": "Content to append."
			}
		},
		"required": ["file_path", "contents"]
	}`)
}

func (t *AppendFileTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "file_path")
	contents := stringParam(params, "contents")
	if path == "" {
		return "Error: file_path is required", nil
	}
	fp := expandPath(path)

	if _, err := os.Stat(fp); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
			return fmt.Sprintf("Error appending to file: %s", err), nil
		}
		if err := os.WriteFile(fp, []byte(contents), 0o644); err != nil {
			return fmt.Sprintf("Error appending to file: %s", err), nil
		}
		return fmt.Sprintf("Created new file '%s' with %d characters.", path, len(contents)), nil
	}

	f, err := os.OpenFile(fp, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Sprintf("Error appending to file: %s", err), nil
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		return fmt.Sprintf("Error appending to file: %s", err), nil
	}
	return fmt.Sprintf("Appended %d characters to '%s'", len(contents), path), nil
}

// ---------------------------------------------------------------------------
// DeleteFileTool
// ---------------------------------------------------------------------------

// DeleteFileTool deletes a single regular file.
type DeleteFileTool struct{}

func NewDeleteFileTool() *DeleteFileTool { return &DeleteFileTool{} }

func (t *DeleteFileTool) Name() string        { return "delete_file" }
func (t *DeleteFileTool) Description() string { return "Deletes a file from the filesystem." }
func (t *DeleteFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to delete."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *DeleteFileTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "file_path")
	if path == "" {
		return "Error: file_path is required", nil
	}
	fp := expandPath(path)
	info, err := os.Stat(fp)
	if err != nil {
		return fmt.Sprintf("Error: File '%s' does not exist.", path), nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Sprintf("Error: '%s' is not a file.", path), nil
	}
	if err := os.Remove(fp); err != nil {
		return fmt.Sprintf("Error deleting file: %s", err), nil
	}
	return fmt.Sprintf("Successfully deleted '%s'.", path), nil
}

// ---------------------------------------------------------------------------
// FindReplaceTool
// ---------------------------------------------------------------------------

// FindReplaceTool replaces every occurrence of a literal string in a file.
type FindReplaceTool struct{}

func NewFindReplaceTool() *FindReplaceTool { return &FindReplaceTool{} }

func (t *FindReplaceTool) Name() string        { return "find_replace_in_file" }
func (t *FindReplaceTool) Description() string { return "Find and replace text in a file." }
func (t *FindReplaceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file."
			},
			"find": {
				"type": "string",
				"description": "Text to find."
			},
			"replace": {
				"type": "string",
				"description": "Text to replace with."
			}
		},
		"required": ["file_path", "find", "replace"]
	}`)
}

func (t *FindReplaceTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "file_path")
	find := stringParam(params, "find")
	replace := stringParam(params, "replace")
	if path == "" || find == "" {
		return "Error: file_path and find are required", nil
	}
	fp := expandPath(path)
	info, err := os.Stat(fp)
	if err != nil {
		return fmt.Sprintf("Error: File '%s' does not exist.", path), nil
	}
	if !info.Mode().IsRegular() {
		return fmt.Sprintf("Error: '%s' is not a file.", path), nil
	}
	data, err := os.ReadFile(fp)
	if err != nil {
		return fmt.Sprintf("Error with find/replace: %s", err), nil
	}
	content := string(data)

	count := strings.Count(content, find)
	if count == 0 {
		return fmt.Sprintf("No occurrences of '%s' found in '%s'", find, path), nil
	}

	newContent := strings.ReplaceAll(content, find, replace)
	if err := os.WriteFile(fp, []byte(newContent), info.Mode().Perm()); err != nil {
		return fmt.Sprintf("Error with find/replace: %s", err), nil
	}
	return fmt.Sprintf("Replaced %d occurrence(s) of '%s' with '%s' in '%s'", count, find, replace, path), nil
}
