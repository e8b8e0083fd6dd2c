//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/factordynamics/paracas/internal/app"
)

// newApp builds an *app.App (Config, Store, Client, Supervisor) via Wire.
// Run `go generate ./...` (wire) against this file to regenerate wire_gen.go.
func newApp(configPath string) (*app.App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideClient,
		app.ProvideStore,
		app.ProvideSupervisor,
		wire.Struct(new(app.App), "Config", "Store", "Client", "Supervisor"),
	)
	return nil, nil
}
