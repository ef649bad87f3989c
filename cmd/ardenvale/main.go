// Ardenvale is a single-player, turn-based adventure in a fading realm.
// Usage: ardenvale [--version] [--plain] [--config <file>] [--script <file>] [data_directory]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/ardenvale/cli"
	"github.com/nathoo/ardenvale/config"
	"github.com/nathoo/ardenvale/engine"
	"github.com/nathoo/ardenvale/engine/rng"
	"github.com/nathoo/ardenvale/entity"
	"github.com/nathoo/ardenvale/loader"
	"github.com/nathoo/ardenvale/storage"
	"github.com/nathoo/ardenvale/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	configPath := "ardenvale.toml"
	var dataDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("ardenvale %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--config":
			if i+1 >= len(args) {
				fatal("--config requires a file path")
			}
			i++
			configPath = args[i]
		case "--script":
			if i+1 >= len(args) {
				fatal("--script requires a file path")
			}
			i++
			scriptFile = args[i]
		default:
			if dataDir == "" {
				dataDir = args[i]
			}
		}
	}

	// A .env file feeds the ARDENVALE_* overrides; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("Error loading config: %v", err)
	}
	if dataDir != "" {
		cfg.Game.DataDir = dataDir
	}

	log, err := buildLogger(cfg.Logging)
	if err != nil {
		fatal("Error building logger: %v", err)
	}
	defer log.Sync()

	w, err := loader.Load(cfg.Game.DataDir, log)
	if err != nil {
		fatal("Error loading world: %v", err)
	}

	store, err := openStore(cfg.Saves, log)
	if err != nil {
		fatal("Error opening save store: %v", err)
	}

	seed := cfg.Gameplay.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	p := entity.NewPlayer("Ashen One")
	p.Location = w.Start
	w.OutfitPlayer(p)

	eng := engine.New(w, p, rng.New(seed), log)
	eng.AutosaveEvery = cfg.Gameplay.AutosaveEvery
	eng.EssenceDecay = cfg.Gameplay.EssenceDecayWindow()

	log.Info("session starting",
		zap.String("world", w.Title),
		zap.Int64("seed", seed),
		zap.String("save_backend", cfg.Saves.Backend))

	// Script mode: read commands from a file, force plain, echo input.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fatal("Error opening script: %v", err)
		}
		defer f.Close()
		c := cli.New(eng, store, log)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		cli.New(eng, store, log).Run()
		return
	}

	if err := tui.Run(eng, store, log); err != nil {
		fatal("Error: %v", err)
	}
}

// openStore builds the configured save backend.
func openStore(cfg config.SavesConfig, log *zap.Logger) (storage.Store, error) {
	switch cfg.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return storage.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPrefix, log)
	default:
		return storage.NewFileStore(cfg.Dir)
	}
}

// buildLogger constructs the zap logger from the logging section.
func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Format
	if cfg.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	// The terminal belongs to the game; logs go to a file or stderr.
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	} else {
		zc.OutputPaths = []string{"stderr"}
		zc.ErrorOutputPaths = []string{"stderr"}
	}
	return zc.Build()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
