package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const todoMatchCap = 50

var codeExtensions = map[string]string{
	".go":   "Go",
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".jsx":  "JavaScript",
	".tsx":  "TypeScript",
	".java": "Java",
	".c":    "C",
	".h":    "C",
	".cpp":  "C++",
	".hpp":  "C++",
	".rs":   "Rust",
	".rb":   "Ruby",
	".php":  "PHP",
	".sh":   "Shell",
	".sql":  "SQL",
	".html": "HTML",
	".css":  "CSS",
	".yaml": "YAML",
	".yml":  "YAML",
	".json": "JSON",
	".md":   "Markdown",
}

var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
}

// ---------------------------------------------------------------------------
// AnalyzeCodeTool
// ---------------------------------------------------------------------------

// AnalyzeCodeTool reports simple structural metrics for a single source file.
type AnalyzeCodeTool struct{}

func NewAnalyzeCodeTool() *AnalyzeCodeTool { return &AnalyzeCodeTool{} }

func (t *AnalyzeCodeTool) Name() string { return "analyze_code" }
func (t *AnalyzeCodeTool) Description() string {
	return "Analyze a source file: line counts, functions, classes, and imports."
}
func (t *AnalyzeCodeTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the source file to analyze."
			}
		},
		"required": ["file_path"]
	}`)
}

var (
	funcPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*func\s+(\(\s*\w+\s+\*?\w+\s*\)\s*)?\w+`),
		regexp.MustCompile(`(?m)^\s*def\s+\w+`),
		regexp.MustCompile(`(?m)^\s*(async\s+)?function\s+\w+`),
		regexp.MustCompile(`(?m)^\s*(public|private|protected)\s+(static\s+)?\w+[\w<>\[\]]*\s+\w+\s*\(`),
	}
	classPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*type\s+\w+\s+struct`),
		regexp.MustCompile(`(?m)^\s*class\s+\w+`),
		regexp.MustCompile(`(?m)^\s*(public\s+|abstract\s+)*class\s+\w+`),
	}
	importPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*import\s`),
		regexp.MustCompile(`(?m)^\s*from\s+\S+\s+import\s`),
		regexp.MustCompile(`(?m)^\s*#include\s`),
		regexp.MustCompile(`(?m)^\s*require\s*\(`),
	}
)

func (t *AnalyzeCodeTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	if fp == "" {
		return "Error: file_path is required", nil
	}
	path := expandPath(fp)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: File '%s' not found.", fp), nil
		}
		return fmt.Sprintf("Error: %v", err), nil
	}
	content := string(data)
	lines := strings.Split(content, "\n")

	total := len(lines)
	blank := 0
	comment := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			blank++
		case strings.HasPrefix(trimmed, "//"), strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "/*"), strings.HasPrefix(trimmed, "*"):
			comment++
		}
	}

	functions := countMatches(content, funcPatterns)
	classes := countMatches(content, classPatterns)
	imports := countMatches(content, importPatterns)

	lang := codeExtensions[strings.ToLower(filepath.Ext(path))]
	if lang == "" {
		lang = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Code analysis for '%s' (%s):\n", fp, lang)
	fmt.Fprintf(&b, "  Total lines: %d\n", total)
	fmt.Fprintf(&b, "  Code lines: %d\n", total-blank-comment)
	fmt.Fprintf(&b, "  Blank lines: %d\n", blank)
	fmt.Fprintf(&b, "  Comment lines: %d\n", comment)
	fmt.Fprintf(&b, "  Functions: %d\n", functions)
	fmt.Fprintf(&b, "  Classes/types: %d\n", classes)
	fmt.Fprintf(&b, "  Imports: %d", imports)
	return b.String(), nil
}

func countMatches(content string, patterns []*regexp.Regexp) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllString(content, -1))
	}
	return n
}

// ---------------------------------------------------------------------------
// FindTodosTool
// ---------------------------------------------------------------------------

// FindTodosTool scans a directory tree for TODO-style markers.
type FindTodosTool struct{}

func NewFindTodosTool() *FindTodosTool { return &FindTodosTool{} }

func (t *FindTodosTool) Name() string { return "find_todos" }
func (t *FindTodosTool) Description() string {
	return "Find TODO, FIXME, HACK, XXX, and NOTE comments in source files under a directory."
}
func (t *FindTodosTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"directory_path": {
				"type": "string",
				"description": "Directory to scan (default: current directory)."
			}
		}
	}`)
}

var todoPattern = regexp.MustCompile(`(?i)\b(TODO|FIXME|HACK|XXX|NOTE)\b[:\s]?(.*)`)

func (t *FindTodosTool) Execute(_ context.Context, params map[string]any) (string, error) {
	dir := stringParam(params, "directory_path")
	if dir == "" {
		dir = "."
	}
	root := expandPath(dir)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: Directory '%s' not found.", dir), nil
	}

	var results []string
	truncated := false
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := codeExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		for i, line := range strings.Split(string(data), "\n") {
			m := todoPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if len(results) >= todoMatchCap {
				truncated = true
				return filepath.SkipAll
			}
			text := strings.TrimSpace(m[2])
			if len(text) > 80 {
				text = text[:80] + "..."
			}
			results = append(results, fmt.Sprintf("%s:%d [%s] %s", rel, i+1, strings.ToUpper(m[1]), text))
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Sprintf("Error: %v", walkErr), nil
	}

	if len(results) == 0 {
		return fmt.Sprintf("No TODO/FIXME comments found in '%s'", dir), nil
	}
	out := fmt.Sprintf("Found %d TODO/FIXME comment(s) in '%s':\n%s", len(results), dir, strings.Join(results, "\n"))
	if truncated {
		out += fmt.Sprintf("\n... (stopped after %d matches)", todoMatchCap)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// CountCodeLinesTool
// ---------------------------------------------------------------------------

// CountCodeLinesTool aggregates line counts per language under a directory.
type CountCodeLinesTool struct{}

func NewCountCodeLinesTool() *CountCodeLinesTool { return &CountCodeLinesTool{} }

func (t *CountCodeLinesTool) Name() string { return "count_code_lines" }
func (t *CountCodeLinesTool) Description() string {
	return "Count lines of code per language in a directory tree."
}
func (t *CountCodeLinesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"directory_path": {
				"type": "string",
				"description": "Directory to scan (default: current directory)."
			}
		}
	}`)
}

func (t *CountCodeLinesTool) Execute(_ context.Context, params map[string]any) (string, error) {
	dir := stringParam(params, "directory_path")
	if dir == "" {
		dir = "."
	}
	root := expandPath(dir)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: Directory '%s' not found.", dir), nil
	}

	type langStat struct {
		files int
		lines int
	}
	stats := map[string]*langStat{}
	totalFiles, totalLines := 0, 0

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		lang, ok := codeExtensions[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		n := strings.Count(string(data), "\n") + 1
		s := stats[lang]
		if s == nil {
			s = &langStat{}
			stats[lang] = s
		}
		s.files++
		s.lines += n
		totalFiles++
		totalLines += n
		return nil
	})

	if totalFiles == 0 {
		return fmt.Sprintf("No source files found in '%s'", dir), nil
	}

	langs := make([]string, 0, len(stats))
	for lang := range stats {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return stats[langs[i]].lines > stats[langs[j]].lines })

	var b strings.Builder
	fmt.Fprintf(&b, "Code statistics for '%s':\n", dir)
	for _, lang := range langs {
		s := stats[lang]
		fmt.Fprintf(&b, "  %-12s %5d file(s) %8d lines\n", lang, s.files, s.lines)
	}
	fmt.Fprintf(&b, "  %-12s %5d file(s) %8d lines", "Total:", totalFiles, totalLines)
	return b.String(), nil
}
