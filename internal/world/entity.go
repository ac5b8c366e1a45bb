package world

import "github.com/vovakirdan/gridquest/internal/core"

// EntityID identifies an entity within one world. IDs follow creation order
// and start at 1; 0 means "no entity".
type EntityID int

// NoEntity is the zero EntityID.
const NoEntity EntityID = 0

// Role distinguishes the player's hero from autonomous movers.
type Role int

const (
	RoleHero Role = iota
	RoleMover
)

// String returns a human-readable name for the role.
func (r Role) String() string {
	if r == RoleHero {
		return "hero"
	}
	return "mover"
}

// Mover behaviors understood by the engine.
const (
	BehaviorPatrol = "patrol" // Walk straight, reverse when blocked
	BehaviorTurn   = "turn"   // Walk straight, turn clockwise when blocked
	BehaviorChase  = "chase"  // Greedy step toward the hero
	BehaviorStatic = "static"
)

// ValidBehavior reports whether name is a known mover behavior.
func ValidBehavior(name string) bool {
	switch name {
	case BehaviorPatrol, BehaviorTurn, BehaviorChase, BehaviorStatic:
		return true
	}
	return false
}

// Entity is a movable actor tracked by coordinate on the grid.
type Entity struct {
	ID       EntityID
	Role     Role
	Pos      core.Point
	Facing   core.Dir
	Behavior string // Mover behavior name; empty for the hero
	Alive    bool
	Frame    int // Animation frame, advanced on each committed move

	Name  string
	Glyph rune
	Color core.Color
	Image string
}

// IsHero reports whether the entity is the player's hero.
func (e *Entity) IsHero() bool {
	return e.Role == RoleHero
}
