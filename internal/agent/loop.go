// Package agent runs the LLM ↔ tool dispatch loop.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/copperotter/copperotter/internal/schema"
	"github.com/copperotter/copperotter/internal/session"
	"github.com/copperotter/copperotter/internal/tools"
)

const maxIterMessage = "I've reached the maximum number of tool iterations without a final answer."

// Loop resolves user turns: it sends the conversation and tool schemas to the
// provider, executes requested tools sequentially, feeds results back, and
// repeats until the model answers in plain text or MaxIter is hit.
type Loop struct {
	provider schema.LLMProvider
	registry *tools.Registry
	sessions *session.Manager
	settings schema.AgentSettings

	// One mutex per session key. Turns on the same session run one at a
	// time, so a later turn always sees the earlier turn's committed reply.
	turnLocks sync.Map
}

var _ schema.Agent = (*Loop)(nil)

func NewLoop(provider schema.LLMProvider, registry *tools.Registry, sessions *session.Manager, settings schema.AgentSettings) *Loop {
	return &Loop{
		provider: provider,
		registry: registry,
		sessions: sessions,
		settings: settings,
	}
}

// ProcessDirect resolves one user turn and returns the final answer text.
//
// The turn's messages (user input, assistant tool calls, tool results, final
// answer) are committed to the session as they happen, so a provider failure
// mid-turn aborts the turn but keeps everything already exchanged.
func (l *Loop) ProcessDirect(ctx context.Context, content, sessionKey string) string {
	lockAny, _ := l.turnLocks.LoadOrStore(sessionKey, &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	sess := l.sessions.GetOrCreate(sessionKey)
	sess.Append(schema.NewUserMessage(content))

	conversation := schema.NewMessages(schema.NewSystemMessage(buildSystemPrompt(l.registry.Names())))
	conversation.Append(sess.History())

	opts := schema.NewChatOptions(l.settings.Model, l.settings.MaxTokens, l.settings.Temperature)
	defs := l.registry.Definitions()

	for i := 0; i < l.settings.MaxIter; i++ {
		resp, err := l.provider.Chat(ctx, conversation, defs, opts)
		if err != nil {
			slog.Error("model request failed", "session", sessionKey, "iteration", i, "err", err)
			return fmt.Sprintf("Sorry, I couldn't reach the model: %v", err)
		}

		if !resp.HasToolCalls() {
			answer := ""
			if resp.Content != nil {
				answer = *resp.Content
			}
			sess.Append(schema.NewAssistantMessage(resp.Content, nil))
			sess.Trim(l.settings.MemoryWindow)
			return answer
		}

		toolCalls := make([]schema.ToolCall, len(resp.ToolCalls))
		for j, tc := range resp.ToolCalls {
			toolCalls[j] = schema.ToolCall{ID: tc.Id, Name: tc.Name, Arguments: tc.Arguments}
		}
		assistant := schema.NewAssistantMessage(resp.Content, toolCalls)
		conversation.Add(assistant)
		sess.Append(assistant)

		for _, tc := range resp.ToolCalls {
			result := l.executeTool(ctx, tc)
			toolMsg := schema.NewToolResultMessage(tc.Id, tc.Name, result)
			conversation.Add(toolMsg)
			sess.Append(toolMsg)
		}
	}

	slog.Warn("iteration cap reached", "session", sessionKey, "max_iter", l.settings.MaxIter)
	sess.Append(schema.NewAssistantMessage(ptr(maxIterMessage), nil))
	sess.Trim(l.settings.MemoryWindow)
	return maxIterMessage
}

// executeTool runs one requested tool. Unknown tools and tool failures become
// in-band "Error: …" results so the model can recover; they never abort the turn.
func (l *Loop) executeTool(ctx context.Context, tc schema.ToolCallRequest) string {
	argsJSON, _ := json.Marshal(tc.Arguments)
	slog.Info("tool call", "name", tc.Name, "args", truncate(string(argsJSON), 200))

	tool := l.registry.Get(tc.Name)
	if tool == nil {
		slog.Warn("unknown tool requested", "name", tc.Name)
		return fmt.Sprintf("Error: Tool '%s' not found", tc.Name)
	}

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		slog.Error("tool execution failed", "name", tc.Name, "err", err)
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

func ptr(s string) *string { return &s }
