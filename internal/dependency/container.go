// Package dependency wires core copperotter services using go.uber.org/dig.
package dependency

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/dig"

	"github.com/copperotter/copperotter/internal/agent"
	"github.com/copperotter/copperotter/internal/config"
	"github.com/copperotter/copperotter/internal/cron"
	"github.com/copperotter/copperotter/internal/providers"
	"github.com/copperotter/copperotter/internal/schema"
	"github.com/copperotter/copperotter/internal/session"
	"github.com/copperotter/copperotter/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider schema.LLMProvider
	registry *tools.Registry
	sessions *session.Manager
	loop     *agent.Loop
	cronSvc  *cron.Service
}

func (c *Container) Provider() schema.LLMProvider { return c.provider }
func (c *Container) Registry() *tools.Registry    { return c.registry }
func (c *Container) Sessions() *session.Manager   { return c.sessions }
func (c *Container) Loop() *agent.Loop            { return c.loop }
func (c *Container) CronService() *cron.Service   { return c.cronSvc }

// Options tweak container construction.
type Options struct {
	// WithScheduler controls whether the cron service and schedule_task tool
	// are wired in. The one-shot chat command leaves it off.
	WithScheduler bool
}

// New builds and wires all core services from cfg.
func New(cfg *config.Config, opts Options) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() Options { return opts }); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(newCronService); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newSessionManager); err != nil {
		return nil, err
	}
	if err := d.Provide(newLoop); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		registry *tools.Registry,
		sessions *session.Manager,
		loop *agent.Loop,
		cronSvc *cron.Service,
	) {
		result = &Container{
			provider: provider,
			registry: registry,
			sessions: sessions,
			loop:     loop,
			cronSvc:  cronSvc,
		}
	})
	if err != nil {
		return nil, err
	}

	// Cron jobs run their prompt through the agent loop with a dedicated
	// session per job.
	result.cronSvc.SetOnJob(func(ctx context.Context, job cron.Job) (string, error) {
		return result.loop.ProcessDirect(ctx, job.Prompt, "cron:"+job.ID), nil
	})

	return result, nil
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	model := cfg.Agents.Defaults.Model
	name, pc, ok := cfg.ActiveProvider()
	if !ok {
		return nil, fmt.Errorf("no API key configured for provider %q — edit %s", name, config.ConfigPath())
	}
	return providers.New(providers.Params{
		APIKey:       pc.APIKey,
		APIBase:      pc.APIBase,
		ExtraHeaders: pc.ExtraHeaders,
		DefaultModel: model,
	}), nil
}

func newCronService() *cron.Service {
	return cron.NewService(filepath.Join(config.DataDir(), "cron", "jobs.json"))
}

func newRegistry(cfg *config.Config, opts Options, cronSvc *cron.Service) (*tools.Registry, error) {
	catOpts := tools.CatalogueOptions{
		MaxFileMB:          cfg.Tools.Files.MaxFileMB,
		ExecTimeoutSeconds: cfg.Tools.Exec.TimeoutSeconds,
		SearchMaxResults:   cfg.Tools.Web.SearchMaxResults,
		FetchMaxChars:      cfg.Tools.Web.FetchMaxChars,
	}
	if opts.WithScheduler {
		catOpts.Cron = cronSvc
	}
	return tools.BuildCatalogue(catOpts)
}

func newSessionManager() *session.Manager {
	return session.NewManager()
}

func newLoop(
	p schema.LLMProvider,
	reg *tools.Registry,
	sessions *session.Manager,
	cfg *config.Config,
) *agent.Loop {
	d := cfg.Agents.Defaults
	settings := schema.NewAgentSettings(d.Model, d.MaxToolIter, d.Temperature, d.MaxTokens, d.MemoryWindow)
	return agent.NewLoop(p, reg, sessions, settings)
}
