// Package config loads process settings from the environment and an optional
// YAML file. Environment variables win over the file, the file wins over
// defaults.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/mudstate/internal/core/observability/log"
)

const (
	EnvDataDir      = "MUD_DATA_DIR"
	EnvSaveFile     = "MUD_SAVE_FILE"
	EnvLogLevel     = "MUD_LOG_LEVEL"
	EnvParseWorkers = "MUD_PARSE_WORKERS"
	EnvConfigFile   = "MUD_CONFIG_FILE"
)

var ErrInvalid = eris.New("invalid configuration")

type Config struct {
	// DataDir is the root of the authoring files.
	DataDir string `env:"MUD_DATA_DIR" envDefault:"data"`
	// SaveFile is where the world is saved.
	SaveFile string `env:"MUD_SAVE_FILE" envDefault:"save.json"`
	LogLevel string `env:"MUD_LOG_LEVEL" envDefault:"info"`
	// ParseWorkers bounds the number of sources parsed at once.
	ParseWorkers int    `env:"MUD_PARSE_WORKERS" envDefault:"4"`
	ConfigFile   string `env:"MUD_CONFIG_FILE"`
}

// fileConfig is the YAML overlay. Absent keys keep their current value.
type fileConfig struct {
	DataDir      *string `yaml:"data_dir"`
	SaveFile     *string `yaml:"save_file"`
	LogLevel     *string `yaml:"log_level"`
	ParseWorkers *int    `yaml:"parse_workers"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom reads configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, eris.Wrap(err, "parse env")
	}
	if cfg.ConfigFile != "" {
		if err := cfg.overlay(cfg.ConfigFile, environ); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlay(path string, environ map[string]string) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read config file %s", path)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(bz, &fc); err != nil {
		return eris.Wrapf(err, "parse config file %s", path)
	}

	set := func(key string) bool {
		_, ok := environ[key]
		return ok
	}
	if fc.DataDir != nil && !set(EnvDataDir) {
		c.DataDir = *fc.DataDir
	}
	if fc.SaveFile != nil && !set(EnvSaveFile) {
		c.SaveFile = *fc.SaveFile
	}
	if fc.LogLevel != nil && !set(EnvLogLevel) {
		c.LogLevel = *fc.LogLevel
	}
	if fc.ParseWorkers != nil && !set(EnvParseWorkers) {
		c.ParseWorkers = *fc.ParseWorkers
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return eris.Wrap(ErrInvalid, "data dir is empty")
	}
	if c.SaveFile == "" {
		return eris.Wrap(ErrInvalid, "save file is empty")
	}
	if c.ParseWorkers < 1 {
		return eris.Wrapf(ErrInvalid, "parse workers must be positive, got %d", c.ParseWorkers)
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return eris.Wrapf(ErrInvalid, "unknown log level %q", c.LogLevel)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}
