package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mudstate/internal/core/observability/log"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, &Config{
		DataDir:      "data",
		SaveFile:     "save.json",
		LogLevel:     "info",
		ParseWorkers: 4,
	}, cfg)
	assert.Equal(t, log.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		EnvDataDir:      "/srv/world",
		EnvLogLevel:     "debug",
		EnvParseWorkers: "8",
	})
	require.NoError(t, err)
	assert.Equal(t, "/srv/world", cfg.DataDir)
	assert.Equal(t, 8, cfg.ParseWorkers)
	assert.Equal(t, log.LevelDebug, cfg.Level())
}

func TestLoadProcessEnv(t *testing.T) {
	t.Setenv(EnvSaveFile, "autosave.json")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "autosave.json", cfg.SaveFile)
}

func TestFileOverlayYieldsToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mud.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: content\nparse_workers: 2\nlog_level: warn\n"), 0o644))

	cfg, err := LoadFrom(map[string]string{
		EnvConfigFile: path,
		EnvLogLevel:   "error",
	})
	require.NoError(t, err)
	assert.Equal(t, "content", cfg.DataDir)
	assert.Equal(t, 2, cfg.ParseWorkers)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "save.json", cfg.SaveFile)
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	tests := []struct {
		name    string
		environ map[string]string
		invalid bool
	}{
		{"workers not a number", map[string]string{EnvParseWorkers: "many"}, false},
		{"zero workers", map[string]string{EnvParseWorkers: "0"}, true},
		{"unknown level", map[string]string{EnvLogLevel: "loud"}, true},
		{"missing config file", map[string]string{EnvConfigFile: missing}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid))
		})
	}
}
