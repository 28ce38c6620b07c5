package tools

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const csvPreviewRows = 20

// ---------------------------------------------------------------------------
// ReadJSONTool
// ---------------------------------------------------------------------------

type ReadJSONTool struct{}

func NewReadJSONTool() *ReadJSONTool { return &ReadJSONTool{} }

func (t *ReadJSONTool) Name() string { return "read_json" }
func (t *ReadJSONTool) Description() string {
	return "Read and pretty-print a JSON file, validating its syntax."
}
func (t *ReadJSONTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the JSON file."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *ReadJSONTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	data, err := os.ReadFile(expandPath(fp))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: File '%s' not found.", fp), nil
		}
		return fmt.Sprintf("Error: %v", err), nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Sprintf("Error: Invalid JSON in '%s': %v", fp, err), nil
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return string(pretty), nil
}

// ---------------------------------------------------------------------------
// WriteJSONTool
// ---------------------------------------------------------------------------

type WriteJSONTool struct{}

func NewWriteJSONTool() *WriteJSONTool { return &WriteJSONTool{} }

func (t *WriteJSONTool) Name() string { return "write_json" }
func (t *WriteJSONTool) Description() string {
	return "Validate a JSON string and write it to a file, pretty-printed."
}
func (t *WriteJSONTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to write."
			},
			"json_content": {
				"type": "string",
				"description": "JSON content as a string."
			}
		},
		"required": ["file_path", "json_content"]
	}`)
}

func (t *WriteJSONTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	content := stringParam(params, "json_content")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	var value any
	if err := json.Unmarshal([]byte(content), &value); err != nil {
		return fmt.Sprintf("Error: Invalid JSON content: %v", err), nil
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if err := os.WriteFile(expandPath(fp), append(pretty, '\n'), 0o644); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return fmt.Sprintf("Successfully wrote JSON to '%s'.", fp), nil
}

// ---------------------------------------------------------------------------
// QueryJSONTool
// ---------------------------------------------------------------------------

// QueryJSONTool extracts a value from a JSON file using a dot-separated path.
// Array elements are addressed by numeric index, e.g. "users.0.name".
type QueryJSONTool struct{}

func NewQueryJSONTool() *QueryJSONTool { return &QueryJSONTool{} }

func (t *QueryJSONTool) Name() string { return "query_json" }
func (t *QueryJSONTool) Description() string {
	return "Query a JSON file with a dot-separated path like 'users.0.name'."
}
func (t *QueryJSONTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the JSON file."
			},
			"query_path": {
				"type": "string",
				"description": "Dot-separated path, e.g. 'users.0.name'. Empty returns the whole document."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *QueryJSONTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	data, err := os.ReadFile(expandPath(fp))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: File '%s' not found.", fp), nil
		}
		return fmt.Sprintf("Error: %v", err), nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Sprintf("Error: Invalid JSON in '%s': %v", fp, err), nil
	}

	query := stringParam(params, "query_path")
	result, err := queryJSONPath(value, query)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return string(out), nil
}

func queryJSONPath(value any, query string) (any, error) {
	if strings.TrimSpace(query) == "" {
		return value, nil
	}
	current := value
	for _, part := range strings.Split(query, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("key '%s' not found", part)
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("expected numeric index for array, got '%s'", part)
			}
			if idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("index %d out of range (length %d)", idx, len(node))
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("cannot descend into '%s': not an object or array", part)
		}
	}
	return current, nil
}

// ---------------------------------------------------------------------------
// ReadCSVTool
// ---------------------------------------------------------------------------

type ReadCSVTool struct{}

func NewReadCSVTool() *ReadCSVTool { return &ReadCSVTool{} }

func (t *ReadCSVTool) Name() string { return "read_csv" }
func (t *ReadCSVTool) Description() string {
	return "Read a CSV file and show its structure with a preview of the first rows."
}
func (t *ReadCSVTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the CSV file."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *ReadCSVTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	f, err := os.Open(expandPath(fp))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: File '%s' not found.", fp), nil
		}
		return fmt.Sprintf("Error: %v", err), nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Sprintf("Error: Invalid CSV in '%s': %v", fp, err), nil
	}
	if len(rows) == 0 {
		return fmt.Sprintf("CSV file '%s' is empty.", fp), nil
	}

	header := rows[0]
	dataRows := rows[1:]

	var b strings.Builder
	fmt.Fprintf(&b, "CSV file '%s': %d column(s), %d data row(s)\n", fp, len(header), len(dataRows))
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(header, ", "))

	preview := dataRows
	if len(preview) > csvPreviewRows {
		preview = preview[:csvPreviewRows]
	}
	if len(preview) > 0 {
		b.WriteString("\nPreview:\n")
		for i, row := range preview {
			fmt.Fprintf(&b, "  %d: %s\n", i+1, strings.Join(row, " | "))
		}
	}
	if len(dataRows) > csvPreviewRows {
		fmt.Fprintf(&b, "... (%d more row(s) not shown)", len(dataRows)-csvPreviewRows)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// ---------------------------------------------------------------------------
// WriteCSVTool
// ---------------------------------------------------------------------------

// WriteCSVTool writes CSV content given as a JSON array of arrays.
type WriteCSVTool struct{}

func NewWriteCSVTool() *WriteCSVTool { return &WriteCSVTool{} }

func (t *WriteCSVTool) Name() string { return "write_csv" }
func (t *WriteCSVTool) Description() string {
	return "Write a CSV file from a JSON array of row arrays, e.g. [[\"name\",\"age\"],[\"alice\",\"30\"]]."
}
func (t *WriteCSVTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to write."
			},
			"rows_json": {
				"type": "string",
				"description": "Rows as a JSON array of string arrays."
			}
		},
		"required": ["file_path", "rows_json"]
	}`)
}

func (t *WriteCSVTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	var raw [][]any
	if err := json.Unmarshal([]byte(stringParam(params, "rows_json")), &raw); err != nil {
		return fmt.Sprintf("Error: rows_json must be a JSON array of arrays: %v", err), nil
	}
	records := make([][]string, len(raw))
	for i, row := range raw {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		records[i] = cells
	}

	f, err := os.Create(expandPath(fp))
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return fmt.Sprintf("Successfully wrote %d row(s) to '%s'.", len(records), fp), nil
}

// ---------------------------------------------------------------------------
// ReadYAMLTool
// ---------------------------------------------------------------------------

type ReadYAMLTool struct{}

func NewReadYAMLTool() *ReadYAMLTool { return &ReadYAMLTool{} }

func (t *ReadYAMLTool) Name() string { return "read_yaml" }
func (t *ReadYAMLTool) Description() string {
	return "Read a YAML file, validate it, and show its contents as JSON."
}
func (t *ReadYAMLTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the YAML file."
			}
		},
		"required": ["file_path"]
	}`)
}

func (t *ReadYAMLTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	data, err := os.ReadFile(expandPath(fp))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: File '%s' not found.", fp), nil
		}
		return fmt.Sprintf("Error: %v", err), nil
	}
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return fmt.Sprintf("Error: Invalid YAML in '%s': %v", fp, err), nil
	}
	out, err := json.MarshalIndent(normalizeYAML(value), "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return string(out), nil
}

// normalizeYAML converts map[any]any nodes into map[string]any for JSON output.
func normalizeYAML(value any) any {
	switch node := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(node))
		for k, v := range node {
			out[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, v := range node {
			out[k] = normalizeYAML(v)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, v := range node {
			out[i] = normalizeYAML(v)
		}
		return out
	default:
		return value
	}
}
