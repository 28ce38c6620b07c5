package providers

import (
	"strings"

	"github.com/copperotter/copperotter/internal/schema"
)

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
}

// New creates the appropriate schema.LLMProvider for the given params.
//
// Models named "gemini*" use the native generateContent API; everything else
// goes through the OpenAI-compatible chat/completions path.
func New(p Params) schema.LLMProvider {
	if strings.HasPrefix(strings.ToLower(p.DefaultModel), "gemini") {
		return NewGeminiProvider(p.APIKey, p.APIBase, p.DefaultModel)
	}
	return NewOpenAIProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ExtraHeaders)
}
