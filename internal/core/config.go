package core

// RuntimeConfig contains configuration passed to games at initialization.
// Platforms fill it from terminal/window size and command-line flags.
type RuntimeConfig struct {
	ScreenW    int    // Screen width in characters
	ScreenH    int    // Screen height in characters
	TickRate   int    // Simulation ticks per second
	StartLevel int    // 1-indexed level to start on, 0 means the first
	ConfigPath string // Optional path to a game config YAML
	Difficulty string // Difficulty preset name
	LevelsPath string // Optional directory or Zip archive of levels
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 8,
	}
}
