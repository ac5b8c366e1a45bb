package config

import (
	_ "embed"
)

//go:embed defaults/default.yaml
var defaultYAML []byte

//go:embed defaults/diamonds.yaml
var defaultDiamondsYAML []byte

// Default returns the built-in configuration used when no YAML is found.
func Default() GameConfig {
	return GameConfig{
		TickRate:            8,
		ScorePerCollectible: 10,
		MoverEvery:          2,
		View:                ViewConfig{W: 0, H: 0},
		TilePixels:          0,
		Align:               "center",
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 5,
			},
			Scaling: ScalingConfig{
				MoverSpeedup: 0.5,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "diamonds":
		return defaultDiamondsYAML
	default:
		return defaultYAML
	}
}
