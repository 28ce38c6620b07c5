package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/copperotter/copperotter/internal/schema"
)

const defaultGeminiBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider talks to the Gemini generateContent API natively.
// Gemini's wire format differs from OpenAI's in three ways that matter here:
// system prompts travel in systemInstruction, tool schemas travel as
// functionDeclarations, and function calls carry no IDs so results are
// correlated by function name.
type GeminiProvider struct {
	apiKey       string
	apiBase      string
	defaultModel string
	httpClient   *http.Client
}

// NewGeminiProvider constructs a provider for the Gemini API.
func NewGeminiProvider(apiKey, apiBase, defaultModel string) *GeminiProvider {
	base := strings.TrimRight(apiBase, "/")
	if base == "" {
		base = defaultGeminiBase
	}
	return &GeminiProvider{
		apiKey:       apiKey,
		apiBase:      base,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *GeminiProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider.
func (p *GeminiProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	system, contents := convertMessagesToGemini(messages)

	body := map[string]any{
		"contents": contents,
		"generationConfig": map[string]any{
			"temperature":     opts.Temperature,
			"maxOutputTokens": maxTokens,
		},
	}
	if system != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []any{map[string]any{"text": system}},
		}
	}
	if len(tools) > 0 {
		body["tools"] = []map[string]any{
			{"functionDeclarations": convertToolsToGemini(tools)},
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.apiBase, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("gemini HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return schema.LLMResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw))
	}

	return parseGeminiResponse(raw)
}

// ---------------------------------------------------------------------------
// Gemini format helpers
// ---------------------------------------------------------------------------

// convertMessagesToGemini converts typed messages to Gemini's contents format.
// Returns (system_prompt, contents).
func convertMessagesToGemini(messages schema.Messages) (string, []map[string]any) {
	var system string
	var out []map[string]any

	for _, msg := range messages.Messages {
		switch msg.Role {
		case "system":
			if s, ok := msg.Content.(string); ok {
				if system != "" {
					system += "\n\n"
				}
				system += s
			}

		case "user":
			out = append(out, map[string]any{
				"role":  "user",
				"parts": []any{map[string]any{"text": msg.Text()}},
			})

		case "tool":
			part := map[string]any{
				"functionResponse": map[string]any{
					"name":     msg.ToolName,
					"response": map[string]any{"result": msg.Text()},
				},
			}
			// Results for parallel calls merge into one user turn.
			if len(out) > 0 && out[len(out)-1]["role"] == "user" {
				if parts, ok := out[len(out)-1]["parts"].([]any); ok && isFunctionResponse(parts) {
					out[len(out)-1]["parts"] = append(parts, part)
					continue
				}
			}
			out = append(out, map[string]any{"role": "user", "parts": []any{part}})

		case "assistant":
			var parts []any
			if text := msg.Text(); text != "" {
				parts = append(parts, map[string]any{"text": text})
			}
			for _, tc := range msg.ToolCalls {
				args := tc.Arguments
				if args == nil {
					args = map[string]any{}
				}
				parts = append(parts, map[string]any{
					"functionCall": map[string]any{"name": tc.Name, "args": args},
				})
			}
			if len(parts) == 0 {
				parts = []any{map[string]any{"text": ""}}
			}
			out = append(out, map[string]any{"role": "model", "parts": parts})
		}
	}
	return system, out
}

func isFunctionResponse(parts []any) bool {
	if len(parts) == 0 {
		return false
	}
	m, ok := parts[0].(map[string]any)
	if !ok {
		return false
	}
	_, has := m["functionResponse"]
	return has
}

// convertToolsToGemini converts OpenAI function schemas to Gemini
// functionDeclarations, dropping schema keywords Gemini rejects.
func convertToolsToGemini(tools []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		fn, _ := t["function"].(map[string]any)
		if fn == nil {
			continue
		}
		decl := map[string]any{
			"name":        fn["name"],
			"description": fn["description"],
		}
		if params, ok := fn["parameters"].(map[string]any); ok {
			decl["parameters"] = sanitizeGeminiSchema(params)
		}
		out = append(out, decl)
	}
	return out
}

// geminiSchemaKeys is the subset of JSON Schema the Gemini API accepts.
var geminiSchemaKeys = map[string]bool{
	"type":        true,
	"description": true,
	"properties":  true,
	"required":    true,
	"items":       true,
	"enum":        true,
	"format":      true,
	"nullable":    true,
}

func sanitizeGeminiSchema(node map[string]any) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		if !geminiSchemaKeys[k] {
			continue
		}
		switch k {
		case "properties":
			if props, ok := v.(map[string]any); ok {
				clean := make(map[string]any, len(props))
				for name, sub := range props {
					if m, ok := sub.(map[string]any); ok {
						clean[name] = sanitizeGeminiSchema(m)
					}
				}
				out[k] = clean
			}
		case "items":
			if m, ok := v.(map[string]any); ok {
				out[k] = sanitizeGeminiSchema(m)
			}
		default:
			out[k] = v
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Response parsing
// ---------------------------------------------------------------------------

// geminiRespBody models the generateContent response.
type geminiRespBody struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text         string `json:"text"`
				FunctionCall *struct {
					Name string         `json:"name"`
					Args map[string]any `json:"args"`
				} `json:"functionCall"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func parseGeminiResponse(raw []byte) (schema.LLMResponse, error) {
	var body geminiRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.LLMResponse{}, fmt.Errorf("parse gemini response: %w", err)
	}
	if len(body.Candidates) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("empty candidates in response")
	}

	var contentStr string
	var toolCalls []schema.ToolCallRequest

	for i, part := range body.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			args := part.FunctionCall.Args
			if args == nil {
				args = map[string]any{}
			}
			// Gemini calls carry no IDs; synthesize one per call.
			toolCalls = append(toolCalls, schema.ToolCallRequest{
				Id:        fmt.Sprintf("%s-%d", part.FunctionCall.Name, i),
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
			continue
		}
		contentStr += part.Text
	}

	var content *string
	if contentStr != "" {
		content = &contentStr
	}

	finish := "stop"
	switch {
	case len(toolCalls) > 0:
		finish = "tool_calls"
	case body.Candidates[0].FinishReason == "MAX_TOKENS":
		finish = "length"
	}

	usage := map[string]int{
		"prompt_tokens":     body.UsageMetadata.PromptTokenCount,
		"completion_tokens": body.UsageMetadata.CandidatesTokenCount,
		"total_tokens":      body.UsageMetadata.TotalTokenCount,
	}

	return schema.LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage:        usage,
	}, nil
}
