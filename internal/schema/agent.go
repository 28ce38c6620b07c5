package schema

import "context"

// AgentSettings holds the tuning knobs for the dispatch loop.
type AgentSettings struct {
	Model        string
	MaxIter      int
	Temperature  float64
	MaxTokens    int
	MemoryWindow int
}

func NewAgentSettings(model string, maxIter int, temperature float64, maxTokens int, memoryWindow int) AgentSettings {
	return AgentSettings{
		Model:        model,
		MaxIter:      maxIter,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		MemoryWindow: memoryWindow,
	}
}

// Agent resolves one user turn, tool calls included, and returns the final
// answer text. Implemented by agent.Loop; channels and the gateway depend on
// this interface rather than the concrete loop.
type Agent interface {
	ProcessDirect(ctx context.Context, content, sessionKey string) string
}
