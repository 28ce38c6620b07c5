package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const regexMatchCap = 50

// ---------------------------------------------------------------------------
// RegexSearchTool
// ---------------------------------------------------------------------------

type RegexSearchTool struct{}

func NewRegexSearchTool() *RegexSearchTool { return &RegexSearchTool{} }

func (t *RegexSearchTool) Name() string { return "regex_search" }
func (t *RegexSearchTool) Description() string {
	return "Search a file for lines matching a regular expression."
}
func (t *RegexSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to search."
			},
			"pattern": {
				"type": "string",
				"description": "Regular expression pattern."
			}
		},
		"required": ["file_path", "pattern"]
	}`)
}

func (t *RegexSearchTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	pattern := stringParam(params, "pattern")
	if fp == "" || pattern == "" {
		return "Error: file_path and pattern are required", nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Sprintf("Error: Invalid regex pattern: %v", err), nil
	}
	data, err := os.ReadFile(expandPath(fp))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: File '%s' not found.", fp), nil
		}
		return fmt.Sprintf("Error: %v", err), nil
	}

	var matches []string
	truncated := false
	for i, line := range strings.Split(string(data), "\n") {
		if !re.MatchString(line) {
			continue
		}
		if len(matches) >= regexMatchCap {
			truncated = true
			break
		}
		shown := line
		if len(shown) > 200 {
			shown = shown[:200] + "..."
		}
		matches = append(matches, fmt.Sprintf("  line %d: %s", i+1, shown))
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches for pattern '%s' in '%s'", pattern, fp), nil
	}
	out := fmt.Sprintf("Found %d matching line(s) in '%s':\n%s", len(matches), fp, strings.Join(matches, "\n"))
	if truncated {
		out += fmt.Sprintf("\n... (stopped after %d matches)", regexMatchCap)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// RegexReplaceTool
// ---------------------------------------------------------------------------

type RegexReplaceTool struct{}

func NewRegexReplaceTool() *RegexReplaceTool { return &RegexReplaceTool{} }

func (t *RegexReplaceTool) Name() string { return "regex_replace" }
func (t *RegexReplaceTool) Description() string {
	return "Replace all regex matches in a file with a replacement string."
}
func (t *RegexReplaceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_path": {
				"type": "string",
				"description": "Path to the file to modify."
			},
			"pattern": {
				"type": "string",
				"description": "Regular expression pattern."
			},
			"replacement": {
				"type": "string",
				"description": "Replacement text. Supports $1-style group references."
			}
		},
		"required": ["file_path", "pattern", "replacement"]
	}`)
}

func (t *RegexReplaceTool) Execute(_ context.Context, params map[string]any) (string, error) {
	fp := stringParam(params, "file_path")
	pattern := stringParam(params, "pattern")
	if fp == "" || pattern == "" {
		return "Error: file_path and pattern are required", nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Sprintf("Error: Invalid regex pattern: %v", err), nil
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
	count := len(re.FindAllString(content, -1))
	if count == 0 {
		return fmt.Sprintf("No matches for pattern '%s' in '%s'. File unchanged.", pattern, fp), nil
	}
	updated := re.ReplaceAllString(content, stringParam(params, "replacement"))
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return fmt.Sprintf("Replaced %d occurrence(s) in '%s'.", count, fp), nil
}

// ---------------------------------------------------------------------------
// FormatTextTool
// ---------------------------------------------------------------------------

// FormatTextTool applies a named transformation to a text snippet.
type FormatTextTool struct{}

func NewFormatTextTool() *FormatTextTool { return &FormatTextTool{} }

func (t *FormatTextTool) Name() string { return "format_text" }
func (t *FormatTextTool) Description() string {
	return "Transform text: case conversions (upper, lower, title, capitalize, snake_case, camelCase, PascalCase, kebab-case), reverse, strip, word_count, or line_count."
}
func (t *FormatTextTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {
				"type": "string",
				"description": "Text to transform."
			},
			"operation": {
				"type": "string",
				"description": "One of: upper, lower, title, capitalize, snake_case, camelCase, PascalCase, kebab-case, reverse, strip, word_count, line_count."
			}
		},
		"required": ["text", "operation"]
	}`)
}

func (t *FormatTextTool) Execute(_ context.Context, params map[string]any) (string, error) {
	text := stringParam(params, "text")
	op := stringParam(params, "operation")

	switch op {
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	case "title":
		return titleCase(text), nil
	case "capitalize":
		if text == "" {
			return "", nil
		}
		return strings.ToUpper(text[:1]) + strings.ToLower(text[1:]), nil
	case "reverse":
		runes := []rune(text)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	case "strip":
		return strings.TrimSpace(text), nil
	case "snake_case":
		return strings.Join(splitWords(text), "_"), nil
	case "kebab-case":
		return strings.Join(splitWords(text), "-"), nil
	case "camelCase":
		words := splitWords(text)
		for i := 1; i < len(words); i++ {
			words[i] = strings.ToUpper(words[i][:1]) + words[i][1:]
		}
		return strings.Join(words, ""), nil
	case "PascalCase":
		words := splitWords(text)
		for i := range words {
			words[i] = strings.ToUpper(words[i][:1]) + words[i][1:]
		}
		return strings.Join(words, ""), nil
	case "word_count":
		return fmt.Sprintf("Word count: %d", len(strings.Fields(text))), nil
	case "line_count":
		return fmt.Sprintf("Line count: %d", len(strings.Split(text, "\n"))), nil
	default:
		return fmt.Sprintf("Error: Unknown operation '%s'. Use: upper, lower, title, capitalize, snake_case, camelCase, PascalCase, kebab-case, reverse, strip, word_count, or line_count", op), nil
	}
}

// splitWords tokenizes text into lowercase words, breaking on whitespace,
// underscores, hyphens, and camelCase boundaries.
func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '_' || r == '-':
			flush()
		case r >= 'A' && r <= 'Z' && prev >= 'a' && prev <= 'z':
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return words
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// ---------------------------------------------------------------------------
// EncodeBase64Tool / DecodeBase64Tool
// ---------------------------------------------------------------------------

type EncodeBase64Tool struct{}

func NewEncodeBase64Tool() *EncodeBase64Tool { return &EncodeBase64Tool{} }

func (t *EncodeBase64Tool) Name() string        { return "encode_base64" }
func (t *EncodeBase64Tool) Description() string { return "Encode text to base64." }
func (t *EncodeBase64Tool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {
				"type": "string",
				"description": "Text to encode."
			}
		},
		"required": ["text"]
	}`)
}

func (t *EncodeBase64Tool) Execute(_ context.Context, params map[string]any) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(stringParam(params, "text"))), nil
}

type DecodeBase64Tool struct{}

func NewDecodeBase64Tool() *DecodeBase64Tool { return &DecodeBase64Tool{} }

func (t *DecodeBase64Tool) Name() string        { return "decode_base64" }
func (t *DecodeBase64Tool) Description() string { return "Decode a base64 string to text." }
func (t *DecodeBase64Tool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"encoded_text": {
				"type": "string",
				"description": "Base64 string to decode."
			}
		},
		"required": ["encoded_text"]
	}`)
}

func (t *DecodeBase64Tool) Execute(_ context.Context, params map[string]any) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(stringParam(params, "encoded_text")))
	if err != nil {
		return fmt.Sprintf("Error: Invalid base64 input: %v", err), nil
	}
	return string(decoded), nil
}
