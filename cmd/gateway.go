package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/copperotter/copperotter/internal/channels"
	"github.com/copperotter/copperotter/internal/config"
	"github.com/copperotter/copperotter/internal/dependency"
	"github.com/copperotter/copperotter/internal/web"
)

var gatewayPort int

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the copperotter gateway server",
	Long:  "Runs the long-lived gateway: chat channels, the scheduler, and the HTTP/WebSocket API.",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().IntVarP(&gatewayPort, "port", "p", 0, "Gateway port (overrides config)")
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if gatewayPort > 0 {
		cfg.Gateway.Port = gatewayPort
	}

	container, err := dependency.New(cfg, dependency.Options{WithScheduler: true})
	if err != nil {
		return err
	}

	fmt.Printf("%s Starting copperotter gateway on %s:%d...\n", logo, cfg.Gateway.Host, cfg.Gateway.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	channelMgr := channels.NewManager(cfg, container.Loop())
	if enabled := channelMgr.EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("Warning: no channels enabled")
	}

	srv := web.New(container.Loop(), cfg.Gateway.Host, cfg.Gateway.Port, func() map[string]any {
		return map[string]any{
			"model":    cfg.Agents.Defaults.Model,
			"tools":    container.Registry().Len(),
			"sessions": len(container.Sessions().Keys()),
			"channels": channelMgr.EnabledChannels(),
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return container.CronService().Start(gctx) })
	g.Go(func() error { return channelMgr.StartAll(gctx) })
	g.Go(func() error { return srv.Start(gctx) })

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
