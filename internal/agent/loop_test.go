package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/copperotter/copperotter/internal/schema"
	"github.com/copperotter/copperotter/internal/session"
	"github.com/copperotter/copperotter/internal/tools"
)

// scriptedProvider returns canned responses in order and records the
// conversations it was called with.
type scriptedProvider struct {
	responses []schema.LLMResponse
	errs      []error
	calls     []schema.Messages
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }

func (p *scriptedProvider) Chat(_ context.Context, messages schema.Messages, _ []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	i := len(p.calls)
	p.calls = append(p.calls, messages.Clone())
	if i < len(p.errs) && p.errs[i] != nil {
		return schema.LLMResponse{}, p.errs[i]
	}
	if i >= len(p.responses) {
		return schema.LLMResponse{}, errors.New("no more scripted responses")
	}
	return p.responses[i], nil
}

func textResponse(s string) schema.LLMResponse {
	return schema.LLMResponse{Content: &s, FinishReason: "stop"}
}

func callResponse(calls ...schema.ToolCallRequest) schema.LLMResponse {
	return schema.LLMResponse{ToolCalls: calls, FinishReason: "tool_calls"}
}

func newTestLoop(t *testing.T, p schema.LLMProvider, maxIter int) (*Loop, *session.Manager) {
	t.Helper()
	reg, err := tools.BuildCatalogue(tools.CatalogueOptions{MaxFileMB: 10, ExecTimeoutSeconds: 5})
	if err != nil {
		t.Fatalf("build catalogue: %v", err)
	}
	sessions := session.NewManager()
	settings := schema.NewAgentSettings("test-model", maxIter, 0, 1024, 50)
	return NewLoop(p, reg, sessions, settings), sessions
}

func TestProcessDirect_PlainAnswer(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{textResponse("just an answer")}}
	loop, sessions := newTestLoop(t, p, 5)

	got := loop.ProcessDirect(context.Background(), "hello", "s1")
	if got != "just an answer" {
		t.Errorf("unexpected answer: %q", got)
	}
	// user + assistant
	if n := sessions.GetOrCreate("s1").Len(); n != 2 {
		t.Errorf("expected 2 session messages, got %d", n)
	}
	// First call carries system prompt then user message.
	first := p.calls[0]
	if first.Messages[0].Role != "system" {
		t.Error("conversation should start with a system message")
	}
	if first.Messages[1].Text() != "hello" {
		t.Errorf("unexpected user message: %q", first.Messages[1].Text())
	}
}

func TestProcessDirect_ToolRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	p := &scriptedProvider{responses: []schema.LLMResponse{
		callResponse(schema.ToolCallRequest{
			Id:   "w-0",
			Name: "write_file",
			Arguments: map[string]any{
				"file_path": path,
				"contents":  "saved by the loop",
			},
		}),
		textResponse("file written"),
	}}
	loop, _ := newTestLoop(t, p, 5)

	got := loop.ProcessDirect(context.Background(), "write the note", "s1")
	if got != "file written" {
		t.Errorf("unexpected answer: %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("tool should have written the file: %v", err)
	}
	if string(data) != "saved by the loop" {
		t.Errorf("unexpected contents: %q", data)
	}

	// Second call must include the assistant tool-call turn and the result.
	second := p.calls[1]
	var sawCall, sawResult bool
	for _, m := range second.Messages {
		if m.Role == "assistant" && len(m.ToolCalls) > 0 {
			sawCall = true
		}
		if m.Role == "tool" && m.ToolCallID == "w-0" {
			sawResult = true
			if !strings.Contains(m.Text(), "Successfully wrote") {
				t.Errorf("unexpected tool result: %q", m.Text())
			}
		}
	}
	if !sawCall || !sawResult {
		t.Error("tool call and result must both appear in the follow-up conversation")
	}
}

func TestProcessDirect_UnknownToolRecovers(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callResponse(schema.ToolCallRequest{Id: "x", Name: "nonexistent_tool", Arguments: map[string]any{}}),
		textResponse("recovered"),
	}}
	loop, _ := newTestLoop(t, p, 5)

	got := loop.ProcessDirect(context.Background(), "try it", "s1")
	if got != "recovered" {
		t.Errorf("loop should continue past an unknown tool, got %q", got)
	}

	second := p.calls[1]
	last := second.Messages[second.Len()-1]
	if last.Role != "tool" || !strings.Contains(last.Text(), "Error: Tool 'nonexistent_tool' not found") {
		t.Errorf("expected error turn for unknown tool, got %+v", last)
	}
}

func TestProcessDirect_IterationCap(t *testing.T) {
	// Every response requests another tool call; the loop must stop at MaxIter.
	call := callResponse(schema.ToolCallRequest{Id: "c", Name: "get_current_directory", Arguments: map[string]any{}})
	p := &scriptedProvider{responses: []schema.LLMResponse{call, call, call, call, call}}
	loop, _ := newTestLoop(t, p, 3)

	got := loop.ProcessDirect(context.Background(), "loop forever", "s1")
	if got != maxIterMessage {
		t.Errorf("unexpected answer: %q", got)
	}
	if len(p.calls) != 3 {
		t.Errorf("expected exactly 3 provider calls, got %d", len(p.calls))
	}
}

func TestProcessDirect_ProviderErrorPreservesSession(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("connection refused")}}
	loop, sessions := newTestLoop(t, p, 5)

	got := loop.ProcessDirect(context.Background(), "hello", "s1")
	if !strings.Contains(got, "couldn't reach the model") {
		t.Errorf("expected user-visible failure message, got %q", got)
	}
	// The user message survives for the next attempt.
	sess := sessions.GetOrCreate("s1")
	if sess.Len() != 1 {
		t.Fatalf("expected 1 preserved message, got %d", sess.Len())
	}
	if sess.History().Messages[0].Text() != "hello" {
		t.Error("user message should be preserved after a provider error")
	}
}

func TestProcessDirect_SessionCarriesAcrossTurns(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		textResponse("first answer"),
		textResponse("second answer"),
	}}
	loop, _ := newTestLoop(t, p, 5)

	loop.ProcessDirect(context.Background(), "first", "s1")
	loop.ProcessDirect(context.Background(), "second", "s1")

	second := p.calls[1]
	var texts []string
	for _, m := range second.Messages {
		texts = append(texts, m.Text())
	}
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "first") || !strings.Contains(joined, "first answer") {
		t.Errorf("second turn should see the first turn's history: %v", texts)
	}
}

// gatedProvider parks its first Chat call until released so a test can
// hold one turn open while another arrives.
type gatedProvider struct {
	release chan struct{}

	mu    sync.Mutex
	calls []schema.Messages
}

func (p *gatedProvider) DefaultModel() string { return "test-model" }

func (p *gatedProvider) Chat(_ context.Context, messages schema.Messages, _ []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	p.mu.Lock()
	i := len(p.calls)
	p.calls = append(p.calls, messages.Clone())
	p.mu.Unlock()
	if i == 0 {
		<-p.release
		return textResponse("first answer"), nil
	}
	return textResponse("second answer"), nil
}

func (p *gatedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestProcessDirect_SameSessionTurnsRunOneAtATime(t *testing.T) {
	p := &gatedProvider{release: make(chan struct{})}
	loop, _ := newTestLoop(t, p, 5)

	done := make(chan struct{}, 2)
	go func() {
		loop.ProcessDirect(context.Background(), "first", "s1")
		done <- struct{}{}
	}()

	deadline := time.Now().Add(time.Second)
	for p.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if p.callCount() != 1 {
		t.Fatal("first turn never reached the provider")
	}

	go func() {
		loop.ProcessDirect(context.Background(), "second", "s1")
		done <- struct{}{}
	}()

	// The second turn must wait for the first to commit, not race it.
	time.Sleep(100 * time.Millisecond)
	if got := p.callCount(); got != 1 {
		t.Fatalf("second turn ran before the first finished: %d provider calls", got)
	}

	close(p.release)
	<-done
	<-done

	p.mu.Lock()
	second := p.calls[1]
	p.mu.Unlock()
	var texts []string
	for _, m := range second.Messages {
		texts = append(texts, m.Text())
	}
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "first answer") || !strings.Contains(joined, "second") {
		t.Errorf("second turn should start from the first turn's committed history: %v", texts)
	}
}
