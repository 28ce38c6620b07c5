package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// ---------------------------------------------------------------------------
// ListDirTool
// ---------------------------------------------------------------------------

// ListDirTool lists directory entries sorted for deterministic tool outputs.
type ListDirTool struct{}

func NewListDirTool() *ListDirTool { return &ListDirTool{} }

func (t *ListDirTool) Name() string        { return "list_dir" }
func (t *ListDirTool) Description() string { return "Lists the contents of a directory." }
func (t *ListDirTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"directory_path": {
				"type": "string",
				"description": "Path to the directory to list."
			}
		},
		"required": ["directory_path"]
	}`)
}

func (t *ListDirTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "directory_path")
	if path == "" {
		return "Error: directory_path is required", nil
	}
	dp := expandPath(path)
	info, err := os.Stat(dp)
	if err != nil {
		return fmt.Sprintf("Error: Directory '%s' does not exist.", path), nil
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: '%s' is not a directory.", path), nil
	}
	entries, err := os.ReadDir(dp)
	if err != nil {
		return fmt.Sprintf("Error listing directory: %s", err), nil
	}
	if len(entries) == 0 {
		return "(empty directory)", nil
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

// ---------------------------------------------------------------------------
// CreateDirTool
// ---------------------------------------------------------------------------

// CreateDirTool creates a new directory, parents included.
type CreateDirTool struct{}

func NewCreateDirTool() *CreateDirTool { return &CreateDirTool{} }

func (t *CreateDirTool) Name() string { return "create_directory" }
func (t *CreateDirTool) Description() string {
	return "Creates a new directory. Creates parent directories if needed."
}
func (t *CreateDirTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"directory_path": {
				"type": "string",
				"description": "Path to the directory to create."
			}
		},
		"required": ["directory_path"]
	}`)
}

func (t *CreateDirTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "directory_path")
	if path == "" {
		return "Error: directory_path is required", nil
	}
	dp := expandPath(path)
	if _, err := os.Stat(dp); err == nil {
		return fmt.Sprintf("Error: '%s' already exists.", path), nil
	}
	if err := os.MkdirAll(dp, 0o755); err != nil {
		return fmt.Sprintf("Error creating directory: %s", err), nil
	}
	return fmt.Sprintf("Successfully created directory '%s'.", path), nil
}

// ---------------------------------------------------------------------------
// SearchFilesTool
// ---------------------------------------------------------------------------

const searchFileSizeCap = 1024 * 1024 // skip files larger than 1MB

// SearchFilesTool searches for a literal text pattern in all files under a
// directory. Files are scanned concurrently; results are reported in sorted
// path order so output stays deterministic.
type SearchFilesTool struct{}

func NewSearchFilesTool() *SearchFilesTool { return &SearchFilesTool{} }

func (t *SearchFilesTool) Name() string { return "search_in_files" }
func (t *SearchFilesTool) Description() string {
	return "Searches for a text pattern in all files within a directory (recursively)."
}
func (t *SearchFilesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"directory_path": {
				"type": "string",
				"description": "Path to the directory to search in."
			},
			"pattern": {
				"type": "string",
				"description": "Text pattern to search for."
			}
		},
		"required": ["directory_path", "pattern"]
	}`)
}

func (t *SearchFilesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "directory_path")
	pattern := stringParam(params, "pattern")
	if path == "" || pattern == "" {
		return "Error: directory_path and pattern are required", nil
	}
	dp := expandPath(path)
	info, err := os.Stat(dp)
	if err != nil {
		return fmt.Sprintf("Error: Directory '%s' does not exist.", path), nil
	}
	if !info.IsDir() {
		return fmt.Sprintf("Error: '%s' is not a directory.", path), nil
	}

	var candidates []string
	walkErr := filepath.WalkDir(dp, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil && fi.Size() <= searchFileSizeCap {
				candidates = append(candidates, p)
			}
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Sprintf("Error searching files: %s", walkErr), nil
	}

	var (
		mu      sync.Mutex
		matches = map[string]int{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, p := range candidates {
		p := p
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			data, err := os.ReadFile(p)
			if err != nil || !utf8.Valid(data) {
				return nil // binary or unreadable
			}
			if n := strings.Count(string(data), pattern); n > 0 {
				rel, relErr := filepath.Rel(dp, p)
				if relErr != nil {
					rel = p
				}
				mu.Lock()
				matches[rel] = n
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Sprintf("Error searching files: %s", err), nil
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for '%s' in '%s'.", pattern, path), nil
	}
	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = fmt.Sprintf("%s: %d match(es)", p, matches[p])
	}
	return strings.Join(lines, "\n"), nil
}

// ---------------------------------------------------------------------------
// FileInfoTool
// ---------------------------------------------------------------------------

// FileInfoTool reports size, modification time, and permissions.
type FileInfoTool struct{}

func NewFileInfoTool() *FileInfoTool { return &FileInfoTool{} }

func (t *FileInfoTool) Name() string { return "get_file_info" }
func (t *FileInfoTool) Description() string {
	return "Gets information about a file or directory (size, modified time, permissions)."
}
func (t *FileInfoTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file or directory."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *FileInfoTool) Execute(_ context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "file_path")
	if path == "" {
		return "Error: file_path is required", nil
	}
	fp := expandPath(path)
	info, err := os.Stat(fp)
	if err != nil {
		return fmt.Sprintf("Error: '%s' does not exist.", path), nil
	}

	kind := "File"
	if info.IsDir() {
		kind = "Directory"
	}
	lines := []string{
		fmt.Sprintf("Path: %s", path),
		fmt.Sprintf("Type: %s", kind),
		fmt.Sprintf("Size: %d bytes (%.2f KB)", info.Size(), float64(info.Size())/1024),
		fmt.Sprintf("Modified: %s", info.ModTime().Format(time.DateTime)),
		fmt.Sprintf("Permissions: %o", info.Mode().Perm()),
	}
	if info.IsDir() {
		if entries, err := os.ReadDir(fp); err == nil {
			lines = append(lines, fmt.Sprintf("Items: %d", len(entries)))
		} else {
			lines = append(lines, "Items: (permission denied)")
		}
	}
	return strings.Join(lines, "\n"), nil
}
