package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/persist"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig reads the configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatalf("loading config: %v", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flags.Changed("profile") {
		cfg.Profile = flagProfile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}

	cfg.Profile = persist.CleanProfile(cfg.Profile)
	if cfg.Profile == "" {
		fatalf("profile name must contain letters, digits, '-', '_' or '.'")
	}
	return cfg
}

// newServerLogger logs to stderr for long-running servers.
func newServerLogger(cfg config.Config, prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           cfg.LogLevel(),
		Prefix:          prefix,
	})
}

// newFileLogger logs to the configured file so the terminal UI stays clean.
// The returned function closes the file.
func newFileLogger(cfg config.Config) (*log.Logger, func()) {
	var w io.Writer = io.Discard
	closeFn := func() {}

	if path, err := config.ExpandPath(cfg.Log.File); err == nil && path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				w = f
				closeFn = func() { _ = f.Close() }
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           cfg.LogLevel(),
		Prefix:          "t2048",
	})
	return logger, closeFn
}

// openStore opens the database. Failure is not fatal: the game runs
// without persistence.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("running without persistence", "path", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

// newPlayer builds the local player. Store and Scores stay nil interfaces
// when there is no database.
func newPlayer(profile string, store *storage.Store, logger *log.Logger) game.Player {
	p := game.Player{Profile: profile, Logger: logger}
	if store != nil {
		p.Store = store
		p.Scores = store
	}
	return p
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.Seed = flagSeed
	return rc
}

// currentPreset names the preset the menu opens on: the configured one, or
// the preset whose rules match the board section.
func currentPreset(cfg config.Config) string {
	if cfg.Board.Preset != "" {
		return cfg.Board.Preset
	}
	rules := cfg.Board.Rules()
	for _, p := range cfg.Presets {
		if p.Rules() == rules {
			return p.Name
		}
	}
	return ""
}
