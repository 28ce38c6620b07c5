// Package channels bridges chat platforms to the agent loop.
package channels

import (
	"context"
	"strings"

	"github.com/copperotter/copperotter/internal/schema"
)

// Channel is a long-running bridge to one chat platform.
type Channel interface {
	Name() string
	// Start connects and processes messages until ctx is cancelled.
	Start(ctx context.Context) error
}

// Base holds state shared by all channels.
type Base struct {
	channelName string
	agent       schema.Agent
	allowFrom   []string // empty = allow all
}

func NewBase(name string, agent schema.Agent, allowFrom []string) Base {
	return Base{channelName: name, agent: agent, allowFrom: allowFrom}
}

// IsAllowed checks whether senderID is on the allowlist.
// senderID may be "id|username" (Telegram) or a plain string.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, allowed := range b.allowFrom {
		if allowed == senderID {
			return true
		}
	}
	if strings.Contains(senderID, "|") {
		for _, part := range strings.Split(senderID, "|") {
			if part == "" {
				continue
			}
			for _, allowed := range b.allowFrom {
				if allowed == part {
					return true
				}
			}
		}
	}
	return false
}

// Respond runs one user turn through the agent. Each chat gets its own
// session, keyed "<channel>:<chatID>".
func (b *Base) Respond(ctx context.Context, chatID, content string) string {
	return b.agent.ProcessDirect(ctx, content, b.channelName+":"+chatID)
}

// splitMessage splits content into chunks that fit within maxLen,
// preferring newline breaks, then space breaks, then a hard cut.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t")
	}
	return chunks
}
