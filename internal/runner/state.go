package runner

import (
	"fmt"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/viewport"
	"github.com/vovakirdan/gridquest/internal/world"
)

// State is the run state of the driver.
type State int

const (
	StateLoading State = iota
	StatePlaying
	StateLevelComplete
	StateHeroDied
	StateAllLevelsComplete
	StateQuitRequested
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StateLevelComplete:
		return "level-complete"
	case StateHeroDied:
		return "hero-died"
	case StateAllLevelsComplete:
		return "all-levels-complete"
	case StateQuitRequested:
		return "quit"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the run is over.
func (s State) Terminal() bool {
	return s == StateAllLevelsComplete || s == StateQuitRequested || s == StateFailed
}

// Progress is the run state that survives level transitions.
type Progress struct {
	Score      int
	LevelScore int // Score when the current level started
	Remaining  int // Goal tiles left on the current level
	Level      int // 0-based index of the current level
	Levels     int
	Deaths     int
	Title      string
}

// Input is what the player asked for during one tick.
type Input struct {
	Dir     core.Dir
	Quit    bool
	Restart bool
	Save    bool
	Load    bool
}

// InputFrom converts collected key actions into tick input.
func InputFrom(f core.InputFrame) Input {
	return Input{
		Dir:     f.Direction(),
		Quit:    f.Has(core.ActionQuit),
		Restart: f.Has(core.ActionRestart),
		Save:    f.Has(core.ActionSave),
		Load:    f.Has(core.ActionLoad),
	}
}

// Cue names a sound to play. Tiles may name their own cues.
type Cue string

const (
	CueBlocked       Cue = "blocked"
	CueCollected     Cue = "collected"
	CueDied          Cue = "died"
	CueLevelComplete Cue = "level-complete"
)

// Status is the HUD summary of a tick.
type Status struct {
	Level     int // 1-based for display
	Levels    int
	Title     string
	Score     int
	Remaining int
	Deaths    int
	State     State
	Message   string
}

// Frame is everything a renderer needs for one tick.
type Frame struct {
	Tick     int
	View     viewport.View
	TileSize int
	Visible  core.Rect // Visible tile range
	Grid     *world.Grid
	Entities []world.Entity // Live entities, copied
	Events   []world.Event
	Status   Status
}

// TileAt returns the tile at p, or the empty tile outside the grid.
func (f Frame) TileAt(p core.Point) world.TileDef {
	if f.Grid == nil {
		return world.TileDef{}
	}
	d, err := f.Grid.OccupantAt(p)
	if err != nil {
		return world.TileDef{}
	}
	return d
}

// EntityAt returns the live entity drawn at p.
func (f Frame) EntityAt(p core.Point) (world.Entity, bool) {
	for _, e := range f.Entities {
		if e.Pos == p {
			return e, true
		}
	}
	return world.Entity{}, false
}
