package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-2048/internal/game"
)

// ErrUnknownPreset is returned when a preset name matches nothing.
var ErrUnknownPreset = errors.New("config: unknown preset")

// Preset is a named board configuration.
type Preset struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Size        int     `yaml:"size" json:"size"`
	WinTile     int     `yaml:"win_tile" json:"winTile"`
	Spawn4Prob  float64 `yaml:"spawn4_prob" json:"spawn4Prob"`
}

// Rules converts the preset to session rules.
func (p Preset) Rules() game.Rules {
	return game.Rules{Size: p.Size, WinTile: p.WinTile, Spawn4Prob: p.Spawn4Prob}
}

// DefaultPresets returns the built-in presets, easiest first.
// Smaller boards fill up faster, so their targets are lower.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "mini", Description: "3x3 board, reach 256", Size: 3, WinTile: 256, Spawn4Prob: 0.10},
		{Name: "quick", Description: "4x4 board, reach 512", Size: 4, WinTile: 512, Spawn4Prob: 0.10},
		{Name: "classic", Description: "The original: 4x4, reach 2048", Size: 4, WinTile: 2048, Spawn4Prob: 0.10},
		{Name: "hard", Description: "4x4, reach 2048, more 4s", Size: 4, WinTile: 2048, Spawn4Prob: 0.25},
		{Name: "big", Description: "5x5 board, reach 4096", Size: 5, WinTile: 4096, Spawn4Prob: 0.10},
		{Name: "huge", Description: "6x6 board, reach 8192", Size: 6, WinTile: 8192, Spawn4Prob: 0.12},
	}
}

// FindPreset looks up a preset by case-insensitive name.
func (c Config) FindPreset(name string) (Preset, error) {
	for _, p := range c.Presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// ApplyPreset replaces the board rules with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p, err := c.FindPreset(name)
	if err != nil {
		return err
	}
	c.Board = BoardConfig{
		Preset:     p.Name,
		Size:       p.Size,
		WinTile:    p.WinTile,
		Spawn4Prob: p.Spawn4Prob,
	}
	return nil
}

// PresetNames returns the names of all configured presets.
func (c Config) PresetNames() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}
