package world

import (
	"fmt"

	"github.com/vovakirdan/gridquest/internal/core"
)

// World is one loaded level: the grid plus the entities on it, in creation
// order. The loop driver owns it; the grid only references entities by id.
type World struct {
	Grid      *Grid
	Entities  []*Entity
	Hero      *Entity
	Remaining int  // Goal tiles still on the grid
	Completed bool // LevelComplete has been emitted

	Title    string
	TileSize int // Pixel size of one square tile
}

// New assembles a world and places every live entity on the grid.
// The first hero in the list becomes World.Hero.
func New(g *Grid, entities []*Entity) (*World, error) {
	w := &World{Grid: g, Entities: entities}
	for _, e := range entities {
		if !e.Alive {
			continue
		}
		if err := g.Place(e); err != nil {
			return nil, err
		}
		if e.IsHero() && w.Hero == nil {
			w.Hero = e
		}
	}
	if w.Hero == nil {
		return nil, fmt.Errorf("world has no hero")
	}
	w.Remaining = g.CountGoals()
	return w, nil
}

// Entity returns the entity with the given id, or nil.
func (w *World) Entity(id EntityID) *Entity {
	for _, e := range w.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Movers returns the live autonomous entities in creation order.
func (w *World) Movers() []*Entity {
	var out []*Entity
	for _, e := range w.Entities {
		if e.Alive && !e.IsHero() {
			out = append(out, e)
		}
	}
	return out
}

// Kill marks an entity dead and frees its cell.
func (w *World) Kill(e *Entity) {
	if !e.Alive {
		return
	}
	e.Alive = false
	w.Grid.Remove(e)
}

// EntitySnapshot is the saved state of one entity.
type EntitySnapshot struct {
	ID     EntityID   `json:"id"`
	Pos    core.Point `json:"pos"`
	Facing core.Dir   `json:"facing"`
	Alive  bool       `json:"alive"`
}

// Snapshot is a saved position: the mutable part of a world.
type Snapshot struct {
	Tiles     []int            `json:"tiles"`
	Entities  []EntitySnapshot `json:"entities"`
	Remaining int              `json:"remaining"`
}

// Snapshot captures the mutable state of the world.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tiles:     w.Grid.Tiles(),
		Entities:  make([]EntitySnapshot, len(w.Entities)),
		Remaining: w.Remaining,
	}
	for i, e := range w.Entities {
		s.Entities[i] = EntitySnapshot{ID: e.ID, Pos: e.Pos, Facing: e.Facing, Alive: e.Alive}
	}
	return s
}

// Restore rewinds the world to a snapshot taken from the same level.
// The world is left untouched when the snapshot does not fit.
func (w *World) Restore(s Snapshot) error {
	if len(s.Tiles) != w.Grid.w*w.Grid.h {
		return fmt.Errorf("world: snapshot has %d cells, grid has %d", len(s.Tiles), w.Grid.w*w.Grid.h)
	}
	if len(s.Entities) != len(w.Entities) {
		return fmt.Errorf("world: snapshot has %d entities, world has %d", len(s.Entities), len(w.Entities))
	}
	for _, id := range s.Tiles {
		if _, ok := w.Grid.tileset.Lookup(id); !ok {
			return fmt.Errorf("world: snapshot references unknown tile id %d", id)
		}
	}
	for i, es := range s.Entities {
		if es.ID != w.Entities[i].ID {
			return fmt.Errorf("world: snapshot entity %d does not match %d", es.ID, w.Entities[i].ID)
		}
		if es.Alive && !w.Grid.InBounds(es.Pos) {
			return fmt.Errorf("world: snapshot entity %d outside grid", es.ID)
		}
	}

	copy(w.Grid.tiles, s.Tiles)
	for i := range w.Grid.occ {
		w.Grid.occ[i] = NoEntity
	}
	for i, es := range s.Entities {
		e := w.Entities[i]
		e.Pos = es.Pos
		e.Facing = es.Facing
		e.Alive = es.Alive
		if e.Alive {
			if err := w.Grid.Place(e); err != nil {
				return fmt.Errorf("world: restoring snapshot: %w", err)
			}
		}
	}
	w.Remaining = s.Remaining
	w.Completed = false
	return nil
}
