package session

import (
	"testing"

	"github.com/copperotter/copperotter/internal/schema"
)

func TestGetOrCreate_SameInstance(t *testing.T) {
	m := NewManager()
	a := m.GetOrCreate("chat:1")
	b := m.GetOrCreate("chat:1")
	if a != b {
		t.Error("same key should return the same session")
	}
	if m.GetOrCreate("chat:2") == a {
		t.Error("different keys should return different sessions")
	}
}

func TestSession_AppendAndHistory(t *testing.T) {
	m := NewManager()
	s := m.GetOrCreate("k")
	s.Append(schema.NewUserMessage("hi"))
	s.Append(schema.NewAssistantMessage(ptr("hello"), nil))

	hist := s.History()
	if hist.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", hist.Len())
	}

	// History is a copy; mutating it must not affect the session.
	hist.AddUser("extra")
	if s.Len() != 2 {
		t.Error("session history should be isolated from returned copy")
	}
}

func TestSession_Trim(t *testing.T) {
	s := &Session{messages: schema.NewMessages()}
	s.Append(
		schema.NewUserMessage("one"),
		schema.NewAssistantMessage(nil, []schema.ToolCall{{ID: "c", Name: "t"}}),
		schema.NewToolResultMessage("c", "t", "result"),
		schema.NewUserMessage("two"),
		schema.NewAssistantMessage(ptr("done"), nil),
	)

	// Window of 3 would start at the tool result; it must be dropped.
	s.Trim(3)
	hist := s.History()
	if hist.Len() != 2 {
		t.Fatalf("expected 2 messages after trim, got %d", hist.Len())
	}
	if hist.Messages[0].Role != "user" {
		t.Errorf("trimmed history must not start with a tool turn, got %q", hist.Messages[0].Role)
	}
}

func TestSession_Reset(t *testing.T) {
	m := NewManager()
	s := m.GetOrCreate("k")
	s.Append(schema.NewUserMessage("hi"))
	m.Reset("k")
	if s.Len() != 0 {
		t.Error("reset should clear history")
	}
	// Resetting an unknown key is a no-op, not a panic.
	m.Reset("missing")
}

func TestManager_Keys(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("b")
	m.GetOrCreate("a")
	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func ptr(s string) *string { return &s }
