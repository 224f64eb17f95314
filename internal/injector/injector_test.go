package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mudstate/internal/core/config"
)

func TestInitializeApp(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{config.EnvLogLevel: "error"})
	require.NoError(t, err)

	app := InitializeApp(cfg)
	require.NotNil(t, app.World)
	require.NotNil(t, app.Loader)
	assert.Same(t, cfg, app.Config)
	assert.Same(t, app.Allocator, app.World.Allocator())
	assert.Same(t, app.Dispatcher, app.World.Dispatcher())
	assert.Same(t, app.Migrator, app.Loader.Migrator())
	assert.Equal(t, app.World.Registry().Names(), []string{
		"craft", "label", "memory", "planet", "price",
		"sector", "surface", "surface_object", "zone",
	})
}
