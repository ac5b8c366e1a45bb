package runner

import (
	"time"

	"github.com/vovakirdan/gridquest/internal/world"
)

// Hooks is the per-game customization interface. The driver calls it on the
// loop goroutine; implementations may mutate the world they are handed.
type Hooks interface {
	// OnLevelStart runs after a level is built, before its first tick.
	OnLevelStart(w *world.World, p *Progress)
	// OnTick runs before the engine step. Returned events are processed
	// like engine events.
	OnTick(w *world.World, tick int) []world.Event
	// OnCollect runs for every Collected event.
	OnCollect(w *world.World, ev world.Event) []world.Event
	// OnDeath runs when the hero dies, before the level resets.
	OnDeath(w *world.World, ev world.Event)
}

// BaseHooks implements Hooks with no-ops. Embed it and override what the
// game needs.
type BaseHooks struct{}

func (BaseHooks) OnLevelStart(*world.World, *Progress)              {}
func (BaseHooks) OnTick(*world.World, int) []world.Event            { return nil }
func (BaseHooks) OnCollect(*world.World, world.Event) []world.Event { return nil }
func (BaseHooks) OnDeath(*world.World, world.Event)                 {}

// BlockHandler is implemented by hooks that react when the hero's move is
// blocked, e.g. to push the blocking tile. Returned events are processed
// like engine events.
type BlockHandler interface {
	OnBlocked(w *world.World, ev world.Event) []world.Event
}

// Renderer draws a frame. It must not keep the frame's grid.
type Renderer interface {
	Render(f Frame)
}

// Audio plays sound cues without blocking.
type Audio interface {
	Play(c Cue)
}

// HUD shows the run status.
type HUD interface {
	Update(s Status)
}

// Checkpoint is a saved position.
type Checkpoint struct {
	Game       string         `json:"game"`
	Level      int            `json:"level"`
	Score      int            `json:"score"`
	LevelScore int            `json:"level_score"`
	Deaths     int            `json:"deaths"`
	World      world.Snapshot `json:"world"`
	SavedAt    time.Time      `json:"saved_at"`
}

// Checkpointer persists one saved position per game.
type Checkpointer interface {
	SaveCheckpoint(cp Checkpoint) error
	// LoadCheckpoint reports false when nothing was saved.
	LoadCheckpoint(game string) (Checkpoint, bool, error)
}
