package app

import (
	"github.com/factordynamics/paracas/internal/fetch"
	"github.com/factordynamics/paracas/internal/state"
	"github.com/factordynamics/paracas/internal/supervisor"
)

// ProvideConfig loads config from the environment and an optional file (for Wire).
func ProvideConfig(configPath string) (*Config, error) {
	return LoadConfig(configPath)
}

// ProvideClient builds the pooled HTTP Fetcher from cfg (for Wire).
func ProvideClient(cfg *Config) *fetch.Client {
	return fetch.NewClient(cfg.ClientConfig())
}

// ProvideStore opens the State Store rooted at cfg.StateRoot (for Wire).
func ProvideStore(cfg *Config) (*state.Store, error) {
	return state.Open(cfg.StateRoot)
}

// ProvideSupervisor wires a Supervisor over store and client (for Wire).
func ProvideSupervisor(cfg *Config, store *state.Store, client *fetch.Client) *supervisor.Supervisor {
	return supervisor.New(store, client, supervisor.Config{
		BaseURL:           cfg.BaseURL,
		StreamConcurrency: cfg.StreamConcurrency,
		OuterLimit:        cfg.OuterLimit,
	})
}

// App bundles every wired component the CLI needs.
type App struct {
	Config     *Config
	Store      *state.Store
	Client     *fetch.Client
	Supervisor *supervisor.Supervisor
}
