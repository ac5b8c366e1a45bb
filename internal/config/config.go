// Package config provides YAML-based game configuration loading and
// difficulty management for gridquest games.
package config

import (
	"errors"
	"fmt"
)

// GameConfig contains the runtime settings of one game.
type GameConfig struct {
	TickRate            int              `yaml:"tick_rate"`             // Ticks per second
	ScorePerCollectible int              `yaml:"score_per_collectible"` // Points for a collectible without its own value
	MoverEvery          int              `yaml:"mover_every"`           // Movers step once every N ticks
	View                ViewConfig       `yaml:"view"`
	TilePixels          int              `yaml:"tile_pixels"` // Desktop tile size; 0 uses the level's
	Align               string           `yaml:"align"`       // "center", "start" or "end"
	Audio               AudioConfig      `yaml:"audio"`
	Difficulty          DifficultyConfig `yaml:"difficulty"`
}

// ViewConfig is the viewport size in tiles. Zero fits the window.
type ViewConfig struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// AudioConfig controls sound cues.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 = silent, 1.0 = full
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level", "score", or "none"
	MaxAt int    `yaml:"max_at"` // Level index/score at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	MoverSpeedup float64 `yaml:"mover_speedup"` // Fraction of mover_every removed at max difficulty
}

// Validate reports the first setting that cannot be used.
func (c GameConfig) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	case c.ScorePerCollectible < 0:
		return fmt.Errorf("score_per_collectible must not be negative, got %d", c.ScorePerCollectible)
	case c.MoverEvery < 1:
		return fmt.Errorf("mover_every must be at least 1, got %d", c.MoverEvery)
	case c.View.W < 0 || c.View.H < 0:
		return errors.New("view size must not be negative")
	case c.TilePixels < 0:
		return fmt.Errorf("tile_pixels must not be negative, got %d", c.TilePixels)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("audio volume must be within 0..1, got %g", c.Audio.Volume)
	}
	switch c.Align {
	case "", "center", "start", "end":
	default:
		return fmt.Errorf("unknown align %q", c.Align)
	}
	switch c.Difficulty.Progression.Type {
	case "", "level", "score", "none":
	default:
		return fmt.Errorf("unknown difficulty progression %q", c.Difficulty.Progression.Type)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (easy, normal, hard, fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Easy also slows the movers down outright.
	if preset == DifficultyEasy {
		cfg.MoverEvery += (cfg.MoverEvery + 1) / 2
	}
}
