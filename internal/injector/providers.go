package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/mudstate/internal/core/config"
	"github.com/zeusync/mudstate/internal/core/events/triggers"
	"github.com/zeusync/mudstate/internal/core/loader"
	"github.com/zeusync/mudstate/internal/core/migrator"
	"github.com/zeusync/mudstate/internal/core/objid"
	"github.com/zeusync/mudstate/internal/core/observability/log"
	"github.com/zeusync/mudstate/internal/core/world"
)

// App is everything a command needs to load, run and save a world.
type App struct {
	Config     *config.Config
	Logger     *log.Logger
	Allocator  *objid.Allocator
	Dispatcher *triggers.Dispatcher
	Migrator   *migrator.Migrator
	World      *world.World
	Loader     *loader.Loader
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideAllocator,
	ProvideDispatcher,
	ProvideMigrator,
	ProvideWorld,
	ProvideLoader,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.Level())
}

func ProvideAllocator() *objid.Allocator {
	return objid.NewAllocator()
}

func ProvideDispatcher() *triggers.Dispatcher {
	return triggers.NewDispatcher()
}

func ProvideMigrator(logger *log.Logger) *migrator.Migrator {
	return migrator.New(logger)
}

func ProvideWorld(logger *log.Logger, alloc *objid.Allocator, d *triggers.Dispatcher) *world.World {
	return world.New(
		world.WithLogger(logger),
		world.WithAllocator(alloc),
		world.WithDispatcher(d),
	)
}

func ProvideLoader(cfg *config.Config, w *world.World, m *migrator.Migrator, logger *log.Logger) *loader.Loader {
	return loader.New(w.Registry(),
		loader.WithLogger(logger),
		loader.WithWorkers(cfg.ParseWorkers),
		loader.WithMigrator(m),
	)
}
