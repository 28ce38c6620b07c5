package tools

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const archiveListCap = 50

// ---------------------------------------------------------------------------
// CreateZipTool
// ---------------------------------------------------------------------------

// CreateZipTool zips a file or directory into an archive.
type CreateZipTool struct{}

func NewCreateZipTool() *CreateZipTool { return &CreateZipTool{} }

func (t *CreateZipTool) Name() string { return "create_zip" }
func (t *CreateZipTool) Description() string {
	return "Create a zip archive from a file or directory."
}
func (t *CreateZipTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"source_path": {
				"type": "string",
				"description": "File or directory to archive."
			},
			"zip_path": {
				"type": "string",
				"description": "Path of the zip file to create."
			}
		},
		"required": ["source_path", "zip_path"]
	}`)
}

func (t *CreateZipTool) Execute(_ context.Context, params map[string]any) (string, error) {
	source := stringParam(params, "source_path")
	target := stringParam(params, "zip_path")
	if source == "" || target == "" {
		return "Error: source_path and zip_path are required", nil
	}
	srcPath := expandPath(source)
	info, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Sprintf("Error: Source '%s' not found.", source), nil
	}

	out, err := os.Create(expandPath(target))
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	count := 0
	addFile := func(path, name string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, f); err != nil {
			return err
		}
		count++
		return nil
	}

	if info.IsDir() {
		base := filepath.Base(srcPath)
		err = filepath.WalkDir(srcPath, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return walkErr
			}
			rel, err := filepath.Rel(srcPath, path)
			if err != nil {
				return err
			}
			return addFile(path, filepath.ToSlash(filepath.Join(base, rel)))
		})
	} else {
		err = addFile(srcPath, filepath.Base(srcPath))
	}
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if err := zw.Close(); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return fmt.Sprintf("Successfully created '%s' with %d file(s).", target, count), nil
}

// ---------------------------------------------------------------------------
// ExtractZipTool
// ---------------------------------------------------------------------------

// ExtractZipTool extracts a zip archive, rejecting entries that would
// escape the destination directory.
type ExtractZipTool struct{}

func NewExtractZipTool() *ExtractZipTool { return &ExtractZipTool{} }

func (t *ExtractZipTool) Name() string { return "extract_zip" }
func (t *ExtractZipTool) Description() string {
	return "Extract a zip archive into a directory."
}
func (t *ExtractZipTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"zip_path": {
				"type": "string",
				"description": "Path to the zip archive."
			},
			"destination_path": {
				"type": "string",
				"description": "Directory to extract into (default: current directory)."
			}
		},
		"required": ["zip_path"]
	}`)
}

func (t *ExtractZipTool) Execute(_ context.Context, params map[string]any) (string, error) {
	zipPath := stringParam(params, "zip_path")
	if zipPath == "" {
		return "Error: zip_path is required", nil
	}
	dest := stringParam(params, "destination_path")
	if dest == "" {
		dest = "."
	}
	destDir := expandPath(dest)

	r, err := zip.OpenReader(expandPath(zipPath))
	if err != nil {
		return fmt.Sprintf("Error: Cannot open '%s': %v", zipPath, err), nil
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	count := 0
	for _, f := range r.File {
		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		// Reject zip-slip paths before touching the filesystem.
		if rel, err := filepath.Rel(destDir, target); err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Sprintf("Error: Archive entry '%s' would extract outside the destination directory.", f.Name), nil
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Sprintf("Error: %v", err), nil
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Sprintf("Error: %v", err), nil
		}
		if err := extractEntry(f, target); err != nil {
			return fmt.Sprintf("Error: %v", err), nil
		}
		count++
	}
	return fmt.Sprintf("Successfully extracted %d file(s) to '%s'.", count, dest), nil
}

func extractEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, rc)
	return err
}

// ---------------------------------------------------------------------------
// ListArchiveTool
// ---------------------------------------------------------------------------

type ListArchiveTool struct{}

func NewListArchiveTool() *ListArchiveTool { return &ListArchiveTool{} }

func (t *ListArchiveTool) Name() string { return "list_archive" }
func (t *ListArchiveTool) Description() string {
	return "List the contents of a zip archive without extracting it."
}
func (t *ListArchiveTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"zip_path": {
				"type": "string",
				"description": "Path to the zip archive."
			}
		},
		"required": ["zip_path"]
	}`)
}

func (t *ListArchiveTool) Execute(_ context.Context, params map[string]any) (string, error) {
	zipPath := stringParam(params, "zip_path")
	if zipPath == "" {
		return "Error: zip_path is required", nil
	}
	r, err := zip.OpenReader(expandPath(zipPath))
	if err != nil {
		return fmt.Sprintf("Error: Cannot open '%s': %v", zipPath, err), nil
	}
	defer r.Close()

	if len(r.File) == 0 {
		return fmt.Sprintf("Archive '%s' is empty.", zipPath), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Archive '%s' contains %d entr(ies):\n", zipPath, len(r.File))
	var total, compressed uint64
	for i, f := range r.File {
		if i >= archiveListCap {
			fmt.Fprintf(&b, "... (%d more entr(ies) not shown)\n", len(r.File)-archiveListCap)
			break
		}
		fmt.Fprintf(&b, "  %s (%d bytes)\n", f.Name, f.UncompressedSize64)
	}
	for _, f := range r.File {
		total += f.UncompressedSize64
		compressed += f.CompressedSize64
	}
	fmt.Fprintf(&b, "Total uncompressed size: %d bytes\n", total)
	if total > 0 {
		fmt.Fprintf(&b, "Compressed size: %d bytes (%.1f%% of original)", compressed, float64(compressed)/float64(total)*100)
	} else {
		fmt.Fprintf(&b, "Compressed size: %d bytes", compressed)
	}
	return b.String(), nil
}
