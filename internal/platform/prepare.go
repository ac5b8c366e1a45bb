// Package platform holds what the terminal and desktop front ends share:
// resolving a game's levels and configuration into runner options.
package platform

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridquest/internal/config"
	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/engine"
	"github.com/vovakirdan/gridquest/internal/registry"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/tilemap"
	"github.com/vovakirdan/gridquest/internal/viewport"
)

// Prepared is a game ready to run: its level source and its settings.
type Prepared struct {
	Game   registry.Game
	Levels *tilemap.Loader
	Config config.GameConfig
	Align  viewport.Align
}

// Prepare resolves levels and configuration for g. Levels come from
// rc.LevelsPath when set, otherwise from the game's built-in set. The
// caller must Close the result.
func Prepare(g registry.Game, rc core.RuntimeConfig) (*Prepared, error) {
	cfg, err := config.Load(g.ID(), rc.ConfigPath)
	if err != nil {
		return nil, err
	}
	if rc.Difficulty != "" {
		preset, err := config.ParsePreset(rc.Difficulty)
		if err != nil {
			return nil, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	if rc.TickRate > 0 {
		cfg.TickRate = rc.TickRate
	}
	align, err := viewport.ParseAlign(cfg.Align)
	if err != nil {
		return nil, err
	}

	var levels *tilemap.Loader
	if rc.LevelsPath != "" {
		levels, err = tilemap.OpenDir(rc.LevelsPath)
		if err != nil {
			return nil, err
		}
	} else {
		levels = tilemap.NewLoader(g.Levels())
	}

	return &Prepared{Game: g, Levels: levels, Config: cfg, Align: align}, nil
}

// Close releases the level source.
func (p *Prepared) Close() error {
	return p.Levels.Close()
}

// RunnerOptions returns runner options for one run. Platforms add their
// collaborators and view size.
func (p *Prepared) RunnerOptions(checkpoints runner.Checkpointer, logger *log.Logger) runner.Options {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts := runner.Options{
		Game:   p.Game.ID(),
		Levels: p.Levels,
		Engine: engine.Engine{
			MoverEvery: p.Config.MoverEvery,
			ScorePer:   p.Config.ScorePerCollectible,
		},
		Hooks:       p.Game.Hooks(),
		Checkpoints: checkpoints,
		Align:       p.Align,
		Logger:      logger.WithPrefix(p.Game.ID()),
	}

	if p.Config.Difficulty.Enabled {
		dm := config.NewDifficultyManager(p.Config.Difficulty)
		base := p.Config.MoverEvery
		opts.Cadence = func(pr runner.Progress) int {
			return dm.MoverEvery(base, pr.Score, pr.Level)
		}
	}
	return opts
}

// LevelTitles returns the title of every level in play order. Levels that
// fail to load are listed by id with an error note.
func (p *Prepared) LevelTitles() ([]string, error) {
	ids, err := p.Levels.Discover()
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(ids))
	for i, id := range ids {
		lv, err := p.Levels.Load(id)
		if err != nil {
			titles[i] = id + " (broken)"
			continue
		}
		titles[i] = lv.Title
	}
	return titles, nil
}

// StartIndex converts a 1-based start level (0 meaning the first) to a
// runner level index.
func StartIndex(level, count int) (int, error) {
	if level == 0 {
		return 0, nil
	}
	if level < 1 || level > count {
		return 0, fmt.Errorf("level %d out of range 1..%d", level, count)
	}
	return level - 1, nil
}
