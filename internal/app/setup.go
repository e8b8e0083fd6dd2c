package app

// NewApp constructs every wired component in dependency order: Config,
// then the HTTP Client and State Store (both depend only on Config), then
// the Supervisor (depends on Store and Client). This is the straight-line
// equivalent of what `wire.Build` in cmd/paracas/wire.go would generate.
func NewApp(configPath string) (*App, error) {
	cfg, err := ProvideConfig(configPath)
	if err != nil {
		return nil, err
	}
	store, err := ProvideStore(cfg)
	if err != nil {
		return nil, err
	}
	client := ProvideClient(cfg)
	sup := ProvideSupervisor(cfg, store, client)

	return &App{
		Config:     cfg,
		Store:      store,
		Client:     client,
		Supervisor: sup,
	}, nil
}
