package channels

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/copperotter/copperotter/internal/config"
	"github.com/copperotter/copperotter/internal/schema"
)

// Manager owns all enabled channels and supervises their lifecycles.
type Manager struct {
	channels map[string]Channel
}

// NewManager creates a Manager with every enabled channel wired to the agent.
func NewManager(cfg *config.Config, agent schema.Agent) *Manager {
	m := &Manager{channels: make(map[string]Channel)}

	if cfg.Channels.Telegram.Enabled {
		ch := NewTelegramChannel(&cfg.Channels.Telegram, agent)
		m.channels[ch.Name()] = ch
		slog.Info("channel enabled", "name", ch.Name())
	}
	if cfg.Channels.Slack.Enabled {
		ch := NewSlackChannel(&cfg.Channels.Slack, agent)
		m.channels[ch.Name()] = ch
		slog.Info("channel enabled", "name", ch.Name())
	}

	return m
}

// EnabledChannels returns the names of all enabled channels, sorted.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StartAll runs every channel until ctx is cancelled or one fails.
func (m *Manager) StartAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, ch := range m.channels {
		name, ch := name, ch
		g.Go(func() error {
			slog.Info("starting channel", "name", name)
			if err := ch.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("channel exited with error", "name", name, "err", err)
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})
	return g.Wait()
}
