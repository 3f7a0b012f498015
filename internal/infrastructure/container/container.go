// Package container wires the stores, clients and services shared by the server and the CLI.
package container

import (
	"context"
	"fmt"

	"github.com/classdash/core/internal/adapters/github"
	"github.com/classdash/core/internal/adapters/repository"
	"github.com/classdash/core/internal/application/localstore"
	"github.com/classdash/core/internal/application/services"
	"github.com/classdash/core/internal/application/state"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/infrastructure/metrics"
	"github.com/classdash/core/internal/ports"
)

// Container holds one instance of every component
type Container struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	Store  ports.KeyValueStore
	Local  *localstore.Store
	State  *state.Store
	Remote *github.Client

	Fetch     *services.FetchService
	Publish   *services.PublishService
	Settings  *services.SettingsService
	Todos     *services.TodoService
	Pomodoro  *services.PomodoroService
	Dashboard *services.DashboardService
	Auth      *services.AuthService
	Admin     *services.AdminService
}

// New opens the configured store and builds every service on top of it
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	kv, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Driver, err)
	}
	return NewWithStore(cfg, kv, log), nil
}

// NewWithStore builds every service on top of kv
func NewWithStore(cfg *config.Config, kv ports.KeyValueStore, log *logger.Logger) *Container {
	m := metrics.New()
	local := localstore.New(kv, log)
	st := state.New()
	remote := github.NewClient(cfg.Remote, nil, log)

	fetch := services.NewFetchService(local, remote, nil, cfg.Remote, m, log)
	publish := services.NewPublishService(local, remote, cfg.Remote, m, log)
	pomodoro := services.NewPomodoroService(cfg.Pomodoro.WorkMinutes, cfg.Pomodoro.BreakMinutes, m, log)

	return &Container{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		Store:     kv,
		Local:     local,
		State:     st,
		Remote:    remote,
		Fetch:     fetch,
		Publish:   publish,
		Settings:  services.NewSettingsService(local, st, log),
		Todos:     services.NewTodoService(local, log),
		Pomodoro:  pomodoro,
		Dashboard: services.NewDashboardService(st, fetch, pomodoro, cfg.Dashboard, log),
		Auth:      services.NewAuthService(cfg.Admin, log),
		Admin:     services.NewAdminService(st, publish, log),
	}
}

// Load reads the user settings and fetches the shared dataset into the state
func (c *Container) Load(ctx context.Context) *ports.FetchResult {
	c.Settings.LoadUserSettings(ctx)
	return c.Dashboard.Refresh(ctx)
}

// Close stops the timer and releases the store
func (c *Container) Close() error {
	c.Pomodoro.Close()
	return c.Store.Close()
}
