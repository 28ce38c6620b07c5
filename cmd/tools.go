package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/copperotter/copperotter/internal/config"
	"github.com/copperotter/copperotter/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools",
	RunE:  runTools,
}

func runTools(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Build the catalogue directly; listing tools needs no API key.
	registry, err := tools.BuildCatalogue(tools.CatalogueOptions{
		MaxFileMB:          cfg.Tools.Files.MaxFileMB,
		ExecTimeoutSeconds: cfg.Tools.Exec.TimeoutSeconds,
		SearchMaxResults:   cfg.Tools.Web.SearchMaxResults,
		FetchMaxChars:      cfg.Tools.Web.FetchMaxChars,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s Available tools (%d):\n\n", logo, registry.Len())
	for _, name := range registry.Names() {
		t := registry.Get(name)
		fmt.Printf("  %-24s %s\n", name, t.Description())
	}
	return nil
}
