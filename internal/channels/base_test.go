package channels

import (
	"context"
	"strings"
	"testing"

	"github.com/copperotter/copperotter/internal/config"
)

type echoAgent struct {
	lastKey string
}

func (e *echoAgent) ProcessDirect(_ context.Context, content, sessionKey string) string {
	e.lastKey = sessionKey
	return "echo: " + content
}

func TestIsAllowed(t *testing.T) {
	open := NewBase("test", nil, nil)
	if !open.IsAllowed("anyone") {
		t.Fatal("empty allowlist should allow everyone")
	}

	restricted := NewBase("test", nil, []string{"42", "alice"})
	if !restricted.IsAllowed("42") {
		t.Fatal("expected listed ID to be allowed")
	}
	if restricted.IsAllowed("99") {
		t.Fatal("expected unlisted ID to be denied")
	}
	// Telegram-style composite sender.
	if !restricted.IsAllowed("99|alice") {
		t.Fatal("expected username part to match allowlist")
	}
	if restricted.IsAllowed("99|bob") {
		t.Fatal("expected unlisted composite to be denied")
	}
}

func TestRespondSessionKey(t *testing.T) {
	agent := &echoAgent{}
	b := NewBase("telegram", agent, nil)

	got := b.Respond(context.Background(), "12345", "hello")
	if got != "echo: hello" {
		t.Fatalf("unexpected reply: %q", got)
	}
	if agent.lastKey != "telegram:12345" {
		t.Fatalf("expected session key telegram:12345, got %q", agent.lastKey)
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("short", 100); len(got) != 1 || got[0] != "short" {
		t.Fatalf("short message should be a single chunk, got %v", got)
	}

	long := strings.Repeat("word ", 100) // 500 chars
	chunks := splitMessage(long, 120)
	if len(chunks) < 4 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if len(c) > 120 {
			t.Fatalf("chunk exceeds limit: %d chars", len(c))
		}
	}

	// Prefer newline breaks.
	two := splitMessage("first line\nsecond line", 15)
	if two[0] != "first line" {
		t.Fatalf("expected split at newline, got %q", two[0])
	}
}

func TestMarkdownToTelegramHTML(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"**bold**", "<b>bold</b>"},
		{"`a < b`", "<code>a &lt; b</code>"},
		{"# Title", "Title"},
		{"[site](https://example.com)", `<a href="https://example.com">site</a>`},
		{"- item", "• item"},
		{"1 < 2", "1 &lt; 2"},
	}
	for _, c := range cases {
		if got := markdownToTelegramHTML(c.in); got != c.want {
			t.Errorf("markdownToTelegramHTML(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	// Code block content survives untouched apart from escaping.
	got := markdownToTelegramHTML("```go\nx := **not bold**\n```")
	if !strings.Contains(got, "<pre><code>") || !strings.Contains(got, "**not bold**") {
		t.Fatalf("code block mangled: %q", got)
	}
}

func TestManagerEnabledChannels(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewManager(&cfg, &echoAgent{})
	if got := m.EnabledChannels(); len(got) != 0 {
		t.Fatalf("expected no channels by default, got %v", got)
	}

	cfg.Channels.Telegram.Enabled = true
	cfg.Channels.Telegram.Token = "x"
	m = NewManager(&cfg, &echoAgent{})
	if got := m.EnabledChannels(); len(got) != 1 || got[0] != "telegram" {
		t.Fatalf("expected [telegram], got %v", got)
	}
}
