package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/copperotter/copperotter/internal/schema"
)

func TestOpenAIProvider_Chat(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"choices": [{
				"message": {
					"content": null,
					"tool_calls": [{"id": "call_1", "function": {"name": "list_dir", "arguments": "{\"directory_path\": \".\"}"}}]
				},
				"finish_reason": "tool_calls"
			}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 4, "total_tokens": 24}
		}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("secret", srv.URL, "gpt-4o-mini", map[string]string{"X-Custom": "1"})

	msgs := schema.NewMessages()
	msgs.AddSystem("sys")
	msgs.AddUser("list the cwd")

	resp, err := p.Chat(context.Background(), msgs, []map[string]any{{
		"type":     "function",
		"function": map[string]any{"name": "list_dir", "parameters": map[string]any{"type": "object"}},
	}}, schema.ChatOptions{Temperature: 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("unexpected model: %v", gotBody["model"])
	}
	if gotBody["tool_choice"] != "auto" {
		t.Error("tool_choice should be auto when tools are present")
	}

	if !resp.HasToolCalls() {
		t.Fatal("expected tool calls")
	}
	tc := resp.ToolCalls[0]
	if tc.Id != "call_1" || tc.Name != "list_dir" {
		t.Errorf("unexpected call: %+v", tc)
	}
	if tc.Arguments["directory_path"] != "." {
		t.Errorf("unexpected arguments: %v", tc.Arguments)
	}
	if resp.Content != nil {
		t.Error("content should be nil for tool-call-only response")
	}
}

func TestOpenAIProvider_TextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"choices": [{"message": {"content": "hello there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
		}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", srv.URL, "gpt-4o-mini", nil)
	msgs := schema.NewMessages()
	msgs.AddUser("hi")

	resp, err := p.Chat(context.Background(), msgs, nil, schema.ChatOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content == nil || *resp.Content != "hello there" {
		t.Errorf("unexpected content: %v", resp.Content)
	}
	if resp.HasToolCalls() {
		t.Error("no tool calls expected")
	}
}

func TestOpenAIProvider_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": {"message": "bad key"}}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("wrong", srv.URL, "gpt-4o-mini", nil)
	msgs := schema.NewMessages()
	msgs.AddUser("hi")

	_, err := p.Chat(context.Background(), msgs, nil, schema.ChatOptions{})
	if err == nil {
		t.Fatal("expected error for HTTP 401")
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		in   string
		key  string
		want any
	}{
		{`{"a": 1}`, "a", float64(1)},
		{`{"a": "x"}trailing`, "a", "x"},
		{``, "", nil},
	}
	for _, tc := range cases {
		out, err := repairJSON(tc.in)
		if err != nil {
			t.Fatalf("repairJSON(%q): %v", tc.in, err)
		}
		if tc.key != "" && out[tc.key] != tc.want {
			t.Errorf("repairJSON(%q) = %v", tc.in, out)
		}
	}

	if _, err := repairJSON(`[1,2,3`); err == nil {
		t.Error("unrepairable input should error")
	}
}

func TestMessageToWireMap(t *testing.T) {
	content := "done"
	m := schema.NewAssistantMessage(&content, []schema.ToolCall{
		{ID: "c1", Name: "read_file", Arguments: map[string]any{"file_path": "x"}},
	})
	wire := messageToWireMap(m)
	if wire["role"] != "assistant" {
		t.Errorf("unexpected role: %v", wire["role"])
	}
	calls, ok := wire["tool_calls"].([]map[string]any)
	if !ok || len(calls) != 1 {
		t.Fatalf("unexpected tool_calls: %v", wire["tool_calls"])
	}
	fn, _ := calls[0]["function"].(map[string]any)
	if fn["name"] != "read_file" {
		t.Errorf("unexpected function: %v", fn)
	}

	tool := schema.NewToolResultMessage("c1", "read_file", "contents")
	wire = messageToWireMap(tool)
	if wire["tool_call_id"] != "c1" || wire["name"] != "read_file" {
		t.Errorf("unexpected tool wire map: %v", wire)
	}
}
