// Package diamonds implements a mine game: collect every diamond, pick up
// the key to turn safes into diamonds, dig through earth and keep out from
// under falling rocks and away from patrolling blobs.
package diamonds

import (
	"embed"
	"io/fs"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/registry"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/world"
)

// ID is the registry identifier of the game.
const ID = "diamonds"

// Tile names the rules look for in a level's tileset.
const (
	TileDiamond = "diamond"
	TileSafe    = "safe"
	TileKey     = "key"
	TileRock    = "rock"
)

// Custom event names, also used as sound cues.
const (
	EventSlide = "slide"
	EventPush  = "push"
)

//go:embed levels
var levelFS embed.FS

const instructions = `Collect all the diamonds on each level.
Get a key to turn safes into diamonds.
Avoid falling rocks and the blobs!

  Arrows or Z/X  '/? - move
  S/L - save/load position
  R - restart level   Q - quit`

func init() {
	registry.Register(ID, func() registry.Game { return &Game{} })
}

// Game is the registry entry of the diamonds game.
type Game struct{}

func (g *Game) ID() string           { return ID }
func (g *Game) Title() string        { return "Diamonds" }
func (g *Game) Instructions() string { return instructions }

// Levels returns the built-in levels.
func (g *Game) Levels() fs.FS {
	sub, err := fs.Sub(levelFS, "levels")
	if err != nil {
		panic(err)
	}
	return sub
}

// Hooks returns the game rules for one run.
func (g *Game) Hooks() runner.Hooks {
	return &Hooks{}
}

// Hooks implements the diamonds rules on top of the engine's movement.
type Hooks struct {
	runner.BaseHooks
	falling bool
}

// OnLevelStart resets per-level state.
func (h *Hooks) OnLevelStart(w *world.World, p *runner.Progress) {
	h.falling = false
}

// OnCollect unlocks all safes when the key is picked up.
func (h *Hooks) OnCollect(w *world.World, ev world.Event) []world.Event {
	if ev.Tile.Name != TileKey {
		return nil
	}
	unlock(w)
	return nil
}

// unlock turns every safe into a diamond. Both count toward the remaining
// total, so the count is unchanged.
func unlock(w *world.World) {
	ts := w.Grid.Tileset()
	diamond, ok := ts.ByName(TileDiamond)
	if !ok {
		return
	}
	w.Grid.Each(func(p core.Point, d world.TileDef) {
		if d.Name == TileSafe {
			w.Grid.SetTile(p, diamond.ID)
		}
	})
	w.Remaining = w.Grid.CountGoals()
}

// OnBlocked pushes a rock one cell sideways when the cell behind it is free.
func (h *Hooks) OnBlocked(w *world.World, ev world.Event) []world.Event {
	if !w.Hero.Alive || ev.Tile.Name != TileRock || ev.From.Y != ev.To.Y {
		return nil
	}
	beyond := ev.To.Add(core.Pt(ev.To.X-ev.From.X, 0))
	if !isFree(w, beyond) {
		return nil
	}

	w.Grid.SetTile(beyond, ev.Tile.ID)
	w.Grid.SetTile(ev.To, world.EmptyTileID)
	w.Grid.ApplyEntry(w.Hero, ev.To)
	return []world.Event{
		{Kind: world.EventMoved, Entity: w.Hero.ID, From: ev.From, To: ev.To},
		{Kind: world.EventCustom, Entity: w.Hero.ID, From: ev.To, To: beyond, Name: EventPush},
	}
}

// OnTick lets rocks fall into empty cells and roll off round things.
// A rock landing on the hero's head kills it.
func (h *Hooks) OnTick(w *world.World, tick int) []world.Event {
	g := w.Grid
	rock, ok := g.Tileset().ByName(TileRock)
	if !ok {
		return nil
	}

	var events []world.Event
	fell := false
	fall := func(from, to core.Point) {
		g.SetTile(from, world.EmptyTileID)
		g.SetTile(to, rock.ID)
		fell = true
		below := to.Step(core.DirDown)
		if id, err := g.EntityAt(below); err == nil && id == w.Hero.ID && w.Hero.Alive {
			w.Kill(w.Hero)
			events = append(events, world.Event{Kind: world.EventHeroDied, Entity: w.Hero.ID, From: to, To: below, Name: TileRock})
		}
	}

	for y := g.Height() - 1; y >= 0; y-- {
		for x := 0; x < g.Width(); x++ {
			pos := core.Pt(x, y)
			if id, _ := g.TileID(pos); id != rock.ID {
				continue
			}
			below := pos.Step(core.DirDown)
			if isFree(w, below) {
				fall(pos, below)
				continue
			}
			if !isRound(w, below) {
				continue
			}
			for _, side := range []core.Dir{core.DirLeft, core.DirRight} {
				s := pos.Step(side)
				if isFree(w, s) && isFree(w, s.Step(core.DirDown)) {
					fall(pos, s.Step(core.DirDown))
					break
				}
			}
		}
	}

	if fell && !h.falling {
		events = append([]world.Event{{Kind: world.EventCustom, Name: EventSlide}}, events...)
	}
	h.falling = fell
	return events
}

// isFree reports whether p holds the empty tile and no entity.
func isFree(w *world.World, p core.Point) bool {
	if !w.Grid.InBounds(p) {
		return false
	}
	id, _ := w.Grid.TileID(p)
	occ, _ := w.Grid.EntityAt(p)
	return id == world.EmptyTileID && occ == world.NoEntity
}

// isRound reports whether a rock resting on p rolls off it.
func isRound(w *world.World, p core.Point) bool {
	d, err := w.Grid.OccupantAt(p)
	if err != nil {
		return false
	}
	switch d.Name {
	case TileRock, TileDiamond, TileKey, TileSafe:
		return true
	}
	return false
}
