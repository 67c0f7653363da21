// Package config provides YAML-based configuration loading and board presets
// for the 2048 game.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/input"
)

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config contains all runtime configuration.
type Config struct {
	Profile string        `yaml:"profile"` // Persistence namespace for local play
	Board   BoardConfig   `yaml:"board"`
	Input   InputConfig   `yaml:"input"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
	Presets []Preset      `yaml:"presets"`
}

// BoardConfig defines the rules of a game.
type BoardConfig struct {
	Preset     string  `yaml:"preset"` // Applied on top of the fields below when set
	Size       int     `yaml:"size"`
	WinTile    int     `yaml:"win_tile"`
	Spawn4Prob float64 `yaml:"spawn4_prob"`
}

// InputConfig defines pointer input parameters.
type InputConfig struct {
	SwipeThreshold int `yaml:"swipe_threshold"` // Browser swipe distance in pixels
	DragThreshold  int `yaml:"drag_threshold"`  // Terminal mouse drag distance in cells
}

// StorageConfig defines where records are kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig defines logging behavior.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
	File  string `yaml:"file"`  // Log file used by local play
}

// SSHConfig defines the SSH front end.
type SSHConfig struct {
	Addr    string `yaml:"addr"`
	HostKey string `yaml:"host_key"`
}

// WebConfig defines the HTTP/WebSocket front end.
type WebConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"` // Empty allows same-origin only
}

// Rules converts the board section to session rules.
func (b BoardConfig) Rules() game.Rules {
	return game.Rules{
		Size:       b.Size,
		WinTile:    b.WinTile,
		Spawn4Prob: b.Spawn4Prob,
	}
}

// Validate checks the configuration for values the game cannot run with.
func (c Config) Validate() error {
	var problems []string

	if err := c.Board.Rules().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Board.Size > 8 {
		problems = append(problems, fmt.Sprintf("board size %d exceeds 8", c.Board.Size))
	}
	if c.Input.SwipeThreshold <= 0 || c.Input.DragThreshold <= 0 {
		problems = append(problems, "swipe and drag thresholds must be positive")
	}
	if c.Storage.DBPath == "" {
		problems = append(problems, "storage.db_path is empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	for _, p := range c.Presets {
		if err := p.Rules().Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("preset %q: %v", p.Name, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Profile: "local",
		Board: BoardConfig{
			Size:       engine.DefaultSize,
			WinTile:    engine.DefaultWinTile,
			Spawn4Prob: engine.DefaultSpawn4Prob,
		},
		Input: InputConfig{
			SwipeThreshold: input.DefaultSwipeThreshold,
			DragThreshold:  3,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/t2048.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.t2048/t2048.log",
		},
		SSH: SSHConfig{
			Addr:    ":2048",
			HostKey: "~/.t2048/host_key",
		},
		Web: WebConfig{
			Addr: ":8048",
		},
		Presets: DefaultPresets(),
	}
}
