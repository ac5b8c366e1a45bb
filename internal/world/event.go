package world

import (
	"fmt"

	"github.com/vovakirdan/gridquest/internal/core"
)

// EventKind is the type of a gameplay event.
// Gameplay events are normal control flow, never errors.
type EventKind int

const (
	EventMoved EventKind = iota
	EventBlocked
	EventCollected
	EventHeroDied
	EventLevelComplete
	EventCustom // Raised by game hooks; Name says what happened
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventMoved:
		return "moved"
	case EventBlocked:
		return "blocked"
	case EventCollected:
		return "collected"
	case EventHeroDied:
		return "hero-died"
	case EventLevelComplete:
		return "level-complete"
	case EventCustom:
		return "custom"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event records one thing that happened during a tick.
type Event struct {
	Kind   EventKind
	Entity EntityID
	From   core.Point
	To     core.Point
	Tile   TileDef // Tile involved (collected tile, blocking tile)
	Name   string  // Custom event name, or the sound to play
}

// String returns a compact description for logs.
func (e Event) String() string {
	switch e.Kind {
	case EventCollected:
		return fmt.Sprintf("%s %s at %v", e.Kind, e.Tile.Name, e.To)
	case EventCustom:
		return fmt.Sprintf("%s %q", e.Kind, e.Name)
	default:
		return fmt.Sprintf("%s #%d %v->%v", e.Kind, e.Entity, e.From, e.To)
	}
}
