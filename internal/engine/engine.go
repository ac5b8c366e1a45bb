// Package engine applies one tick of movement to a world.
//
// The hero moves first, then autonomous movers in creation order. Moves are
// validated against the grid before they are committed, so the grid never
// sees an illegal entry. The first death ends the tick.
package engine

import (
	"fmt"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/world"
)

// DefaultScorePer is the points value of a collectible without its own.
const DefaultScorePer = 10

// Engine holds the movement rules shared by every level of a game.
type Engine struct {
	MoverEvery int // Movers step once every N ticks; <=1 means every tick
	ScorePer   int // Points for a collectible whose tile has no value
}

// New returns an engine with default scoring and movers on every tick.
func New() Engine {
	return Engine{MoverEvery: 1, ScorePer: DefaultScorePer}
}

// Points returns the score earned for collecting the tile.
func (en Engine) Points(t world.TileDef) int {
	switch {
	case t.Value < 0:
		return 0
	case t.Value > 0:
		return t.Value
	default:
		return en.ScorePer
	}
}

// Step advances the world by one tick. dir is the hero's move for this
// tick; DirNone leaves the hero in place. Events are returned in the order
// they happened.
func (en Engine) Step(w *world.World, dir core.Dir, tick int) []world.Event {
	if w.Completed || w.Hero == nil || !w.Hero.Alive {
		return nil
	}

	var events []world.Event
	if dir != core.DirNone {
		var over bool
		events, over = en.stepHero(w, dir, events)
		if over {
			return events
		}
	}

	every := en.MoverEvery
	if every < 1 {
		every = 1
	}
	if tick%every != 0 {
		return events
	}
	for _, m := range w.Movers() {
		var died bool
		events, died = en.stepMover(w, m, events)
		if died {
			break
		}
	}
	return events
}

// stepHero reports over when the hero died or the level completed.
func (en Engine) stepHero(w *world.World, dir core.Dir, events []world.Event) ([]world.Event, bool) {
	hero := w.Hero
	hero.Facing = dir
	from := hero.Pos
	to := from.Step(dir)

	if !w.Grid.InBounds(to) {
		return append(events, world.Event{Kind: world.EventBlocked, Entity: hero.ID, From: from, To: to}), false
	}
	if m := liveOccupant(w, to); m != nil && !m.IsHero() {
		w.Kill(hero)
		return append(events, world.Event{Kind: world.EventHeroDied, Entity: hero.ID, From: from, To: to, Name: m.Name}), true
	}
	if !passable(w.Grid, to) {
		tile, _ := w.Grid.OccupantAt(to)
		return append(events, world.Event{Kind: world.EventBlocked, Entity: hero.ID, From: from, To: to, Tile: tile}), false
	}

	collected, ok := w.Grid.ApplyEntry(hero, to)
	events = append(events, world.Event{Kind: world.EventMoved, Entity: hero.ID, From: from, To: to})
	if !ok {
		return events, false
	}

	events = append(events, collected)
	if collected.Tile.Goal && w.Remaining > 0 {
		w.Remaining--
		if w.Remaining == 0 && !w.Completed {
			w.Completed = true
			events = append(events, world.Event{Kind: world.EventLevelComplete, Entity: hero.ID, From: from, To: to})
			return events, true
		}
	}
	return events, false
}

// stepMover reports whether the mover killed the hero.
func (en Engine) stepMover(w *world.World, m *world.Entity, events []world.Event) ([]world.Event, bool) {
	switch m.Behavior {
	case world.BehaviorPatrol, world.BehaviorTurn:
		if m.Facing == core.DirNone {
			return events, false
		}
		to := m.Pos.Step(m.Facing)
		if hitsHero(w, to) {
			return killHero(w, m, to, events), true
		}
		if !enterable(w.Grid, to) {
			if m.Behavior == world.BehaviorPatrol {
				m.Facing = m.Facing.Opposite()
			} else {
				m.Facing = m.Facing.Clockwise()
			}
			return events, false
		}
		return moveMover(w, m, to, events), false

	case world.BehaviorChase:
		for _, d := range chaseDirs(m.Pos, w.Hero.Pos) {
			to := m.Pos.Step(d)
			if hitsHero(w, to) {
				m.Facing = d
				return killHero(w, m, to, events), true
			}
			if enterable(w.Grid, to) {
				m.Facing = d
				return moveMover(w, m, to, events), false
			}
		}
		return events, false

	default:
		return events, false
	}
}

// chaseDirs returns the greedy steps toward target, x axis first.
func chaseDirs(from, target core.Point) []core.Dir {
	var dirs []core.Dir
	switch {
	case target.X < from.X:
		dirs = append(dirs, core.DirLeft)
	case target.X > from.X:
		dirs = append(dirs, core.DirRight)
	}
	switch {
	case target.Y < from.Y:
		dirs = append(dirs, core.DirUp)
	case target.Y > from.Y:
		dirs = append(dirs, core.DirDown)
	}
	return dirs
}

func moveMover(w *world.World, m *world.Entity, to core.Point, events []world.Event) []world.Event {
	from := m.Pos
	w.Grid.ApplyEntry(m, to)
	return append(events, world.Event{Kind: world.EventMoved, Entity: m.ID, From: from, To: to})
}

func killHero(w *world.World, m *world.Entity, to core.Point, events []world.Event) []world.Event {
	w.Kill(w.Hero)
	return append(events, world.Event{Kind: world.EventHeroDied, Entity: w.Hero.ID, From: m.Pos, To: to, Name: m.Name})
}

func hitsHero(w *world.World, p core.Point) bool {
	e := liveOccupant(w, p)
	return e != nil && e.IsHero()
}

func liveOccupant(w *world.World, p core.Point) *world.Entity {
	if !w.Grid.InBounds(p) {
		return nil
	}
	id, err := w.Grid.EntityAt(p)
	if err != nil {
		panic(fmt.Sprintf("engine: %v", err))
	}
	if id == world.NoEntity {
		return nil
	}
	e := w.Entity(id)
	if e == nil || !e.Alive {
		return nil
	}
	return e
}

func enterable(g *world.Grid, p core.Point) bool {
	return g.InBounds(p) && passable(g, p)
}

// passable queries a cell already known to be in bounds.
func passable(g *world.Grid, p core.Point) bool {
	ok, err := g.IsPassable(p)
	if err != nil {
		panic(fmt.Sprintf("engine: %v", err))
	}
	return ok
}
