//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/mudstate/internal/core/config"
)

func InitializeApp(cfg *config.Config) *App {
	wire.Build(ProviderSet)
	return nil
}
