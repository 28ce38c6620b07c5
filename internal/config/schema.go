// Package config defines the configuration schema for copperotter.
//
// The file lives at ~/.copperotter/config.json. Missing keys fall back to
// DefaultConfig(); environment variables override file values (see loader.go).
package config

import "os"

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

// ProvidersConfig holds credentials for the supported LLM backends.
// Gemini is the default; Custom targets any OpenAI-compatible endpoint.
type ProvidersConfig struct {
	Gemini ProviderConfig `json:"gemini"`
	Custom ProviderConfig `json:"custom"`
}

// AgentDefaults holds default values for dispatch-loop behaviour.
type AgentDefaults struct {
	Model        string  `json:"model"`
	MaxTokens    int     `json:"maxTokens"`
	Temperature  float64 `json:"temperature"`
	MaxToolIter  int     `json:"maxToolIterations"`
	MemoryWindow int     `json:"memoryWindow"`
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Model:        "gemini-2.5-flash",
		MaxTokens:    8192,
		Temperature:  0.7,
		MaxToolIter:  20,
		MemoryWindow: 50,
	}
}

// AgentsConfig wraps agent defaults.
type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
}

// ExecConfig configures the execute_command tool.
type ExecConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
}

// FilesConfig configures the file tools.
type FilesConfig struct {
	MaxFileMB int `json:"maxFileMb"`
}

// WebConfig configures the network tools.
type WebConfig struct {
	SearchMaxResults int `json:"searchMaxResults"`
	FetchMaxChars    int `json:"fetchMaxChars"`
}

// ToolsConfig groups all tool settings.
type ToolsConfig struct {
	Exec  ExecConfig  `json:"exec"`
	Files FilesConfig `json:"files"`
	Web   WebConfig   `json:"web"`
}

func defaultToolsConfig() ToolsConfig {
	return ToolsConfig{
		Exec:  ExecConfig{TimeoutSeconds: 30},
		Files: FilesConfig{MaxFileMB: 10},
		Web:   WebConfig{SearchMaxResults: 5, FetchMaxChars: 50000},
	}
}

// TelegramConfig configures the optional Telegram channel.
type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
}

// SlackConfig configures the optional Slack channel (Socket Mode).
type SlackConfig struct {
	Enabled   bool     `json:"enabled"`
	BotToken  string   `json:"botToken"`
	AppToken  string   `json:"appToken"`
	AllowFrom []string `json:"allowFrom"`
}

// ChannelsConfig groups the chat-platform bridges used by gateway mode.
type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
	Slack    SlackConfig    `json:"slack"`
}

// GatewayConfig configures the long-lived gateway server.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Config is the root configuration object.
type Config struct {
	Providers ProvidersConfig `json:"providers"`
	Agents    AgentsConfig    `json:"agents"`
	Tools     ToolsConfig     `json:"tools"`
	Channels  ChannelsConfig  `json:"channels"`
	Gateway   GatewayConfig   `json:"gateway"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Agents:  AgentsConfig{Defaults: defaultAgentDefaults()},
		Tools:   defaultToolsConfig(),
		Gateway: GatewayConfig{Host: "127.0.0.1", Port: 8791},
		Channels: ChannelsConfig{
			Telegram: TelegramConfig{AllowFrom: []string{}},
			Slack:    SlackConfig{AllowFrom: []string{}},
		},
	}
}

// ActiveProvider returns the provider credentials matching the configured
// model: gemini-prefixed models use the Gemini block, everything else the
// Custom (OpenAI-compatible) block. The bool reports whether an API key is
// available.
func (c *Config) ActiveProvider() (name string, p ProviderConfig, ok bool) {
	if isGeminiModel(c.Agents.Defaults.Model) {
		return "gemini", c.Providers.Gemini, c.Providers.Gemini.APIKey != ""
	}
	return "custom", c.Providers.Custom, c.Providers.Custom.APIKey != ""
}

func isGeminiModel(model string) bool {
	return len(model) >= 6 && model[:6] == "gemini"
}

// HomeDir is overridable in tests.
var HomeDir = os.UserHomeDir
