// Package config loads the TOML configuration file, merging it over
// coded defaults so a missing or partial file still yields a runnable
// setup.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full application configuration.
type Config struct {
	Game     GameConfig     `toml:"game"`
	Saves    SavesConfig    `toml:"saves"`
	Gameplay GameplayConfig `toml:"gameplay"`
	Logging  LoggingConfig  `toml:"logging"`
}

// GameConfig points at the content to load.
type GameConfig struct {
	DataDir string `toml:"data_dir"`
}

// SavesConfig selects and configures the save backend.
type SavesConfig struct {
	Backend     string `toml:"backend"` // "file" or "redis"
	Dir         string `toml:"dir"`
	RedisAddr   string `toml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix"`
}

// GameplayConfig tunes the simulation.
type GameplayConfig struct {
	Seed          int64    `toml:"seed"` // 0 means time-based
	AutosaveEvery int      `toml:"autosave_every"`
	EssenceDecay  duration `toml:"essence_decay"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
	File   string `toml:"file"`   // empty logs to stderr
}

// duration lets TOML carry values like "45m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// EssenceDecay returns the configured decay window.
func (g GameplayConfig) EssenceDecayWindow() time.Duration {
	return g.EssenceDecay.Duration
}

func defaults() Config {
	return Config{
		Game: GameConfig{DataDir: "games/ardenvale"},
		Saves: SavesConfig{
			Backend:     "file",
			Dir:         "saves",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "ardenvale:save:",
		},
		Gameplay: GameplayConfig{
			AutosaveEvery: 10,
			EssenceDecay:  duration{time.Hour},
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// ARDENVALE_* environment overrides. A missing file is not an error:
// defaults apply.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		cfg.applyEnv()
		return cfg, cfg.validate()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, cfg.validate()
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets the environment win over both defaults and file values.
func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Game.DataDir, "ARDENVALE_DATA_DIR")
	set(&c.Saves.Backend, "ARDENVALE_SAVE_BACKEND")
	set(&c.Saves.Dir, "ARDENVALE_SAVE_DIR")
	set(&c.Saves.RedisAddr, "ARDENVALE_REDIS_ADDR")
	set(&c.Saves.RedisPrefix, "ARDENVALE_REDIS_PREFIX")
	set(&c.Logging.Level, "ARDENVALE_LOG_LEVEL")
	set(&c.Logging.Format, "ARDENVALE_LOG_FORMAT")
	set(&c.Logging.File, "ARDENVALE_LOG_FILE")
}

func (c Config) validate() error {
	switch c.Saves.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("config: unknown save backend %q", c.Saves.Backend)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Logging.Format)
	}
	return nil
}
