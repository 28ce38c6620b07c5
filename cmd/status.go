package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/copperotter/copperotter/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show copperotter status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s copperotter Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:  %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Model:   %s\n", cfg.Agents.Defaults.Model)
	fmt.Printf("Gateway: %s:%d\n\n", cfg.Gateway.Host, cfg.Gateway.Port)

	fmt.Println("Providers:")
	printProviderLine("Gemini", cfg.Providers.Gemini.APIKey != "", cfg.Providers.Gemini.APIBase)
	printProviderLine("Custom (OpenAI-compatible)", cfg.Providers.Custom.APIKey != "", cfg.Providers.Custom.APIBase)

	fmt.Println("\nChannels:")
	printChannelLine("Telegram", cfg.Channels.Telegram.Enabled)
	printChannelLine("Slack", cfg.Channels.Slack.Enabled)
	return nil
}

func printProviderLine(label string, hasKey bool, base string) {
	switch {
	case hasKey && base != "":
		fmt.Printf("  %-28s ✓ %s\n", label, base)
	case hasKey:
		fmt.Printf("  %-28s ✓\n", label)
	default:
		fmt.Printf("  %-28s (not set)\n", label)
	}
}

func printChannelLine(label string, enabled bool) {
	if enabled {
		fmt.Printf("  %-28s ✓\n", label)
	} else {
		fmt.Printf("  %-28s (disabled)\n", label)
	}
}
