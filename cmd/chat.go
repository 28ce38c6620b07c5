package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/copperotter/copperotter/internal/config"
	"github.com/copperotter/copperotter/internal/dependency"
)

var (
	chatMessage string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "cli:direct", "Session key")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	container, err := dependency.New(cfg, dependency.Options{})
	if err != nil {
		return err
	}

	if chatMessage != "" {
		return runSingleMessage(container)
	}
	return runInteractive(container)
}

// runSingleMessage sends one message to the agent and prints the response.
func runSingleMessage(c *dependency.Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Fprintln(os.Stderr, "  ↳ thinking...")
	printResponse(c.Loop().ProcessDirect(ctx, chatMessage, chatSession))
	return nil
}

// runInteractive reads lines from stdin and resolves each through the agent.
// "/reset" clears the current session; "exit" or Ctrl+C quits.
func runInteractive(c *dependency.Container) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}
		if ctx.Err() != nil {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}
		if line == "reset" || line == "/reset" {
			c.Sessions().Reset(chatSession)
			fmt.Println("Session cleared.")
			continue
		}

		printResponse(c.Loop().ProcessDirect(ctx, line, chatSession))
	}
}

func printResponse(text string) {
	fmt.Printf("\n%s copperotter\n%s\n\n", logo, text)
}
