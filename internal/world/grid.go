package world

import (
	"fmt"

	"github.com/vovakirdan/gridquest/internal/core"
)

// OutOfBoundsError is returned by grid queries outside [0,w)×[0,h).
// Callers that validate moves never trigger it; seeing one means a logic
// defect in the caller.
type OutOfBoundsError struct {
	X, Y int
	W, H int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("world: (%d,%d) outside %dx%d grid", e.X, e.Y, e.W, e.H)
}

// Grid is the fixed-size 2-D array of cells of one level.
// Cells are stored in row-major order: index = y*W + x. Each cell holds a
// tile id and at most one live entity id.
type Grid struct {
	w, h    int
	tiles   []int
	occ     []EntityID
	tileset *Tileset
}

// MaxSide is the largest width or height a grid may have.
const MaxSide = 1 << 12

// NewGrid creates a grid from a flattened, row-major sequence of tile ids.
func NewGrid(w, h int, tileset *Tileset, tiles []int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid dimensions %dx%d must be positive", w, h)
	}
	if w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("grid dimensions %dx%d exceed %d", w, h, MaxSide)
	}
	if len(tiles) != w*h {
		return nil, fmt.Errorf("grid has %d cells, expected %d", len(tiles), w*h)
	}
	for i, id := range tiles {
		if _, ok := tileset.Lookup(id); !ok {
			return nil, fmt.Errorf("cell (%d,%d) references unknown tile id %d", i%w, i/w, id)
		}
	}

	g := &Grid{
		w:       w,
		h:       h,
		tiles:   make([]int, len(tiles)),
		occ:     make([]EntityID, len(tiles)),
		tileset: tileset,
	}
	copy(g.tiles, tiles)
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Tileset returns the table the grid's tile ids refer to.
func (g *Grid) Tileset() *Tileset { return g.tileset }

// InBounds returns true if the point is within the grid.
func (g *Grid) InBounds(p core.Point) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

func (g *Grid) index(p core.Point) int {
	return p.Y*g.w + p.X
}

func (g *Grid) bounds(p core.Point) error {
	if !g.InBounds(p) {
		return &OutOfBoundsError{X: p.X, Y: p.Y, W: g.w, H: g.h}
	}
	return nil
}

// OccupantAt returns the tile definition at p.
func (g *Grid) OccupantAt(p core.Point) (TileDef, error) {
	if err := g.bounds(p); err != nil {
		return TileDef{}, err
	}
	d, _ := g.tileset.Lookup(g.tiles[g.index(p)])
	return d, nil
}

// TileID returns the raw tile id at p.
func (g *Grid) TileID(p core.Point) (int, error) {
	if err := g.bounds(p); err != nil {
		return 0, err
	}
	return g.tiles[g.index(p)], nil
}

// EntityAt returns the id of the live entity at p, or NoEntity.
func (g *Grid) EntityAt(p core.Point) (EntityID, error) {
	if err := g.bounds(p); err != nil {
		return NoEntity, err
	}
	return g.occ[g.index(p)], nil
}

// IsPassable reports whether an entity may enter p: the tile is not solid
// and no live entity currently occupies the cell. The query has no side
// effects, so repeated calls agree until the next ApplyEntry.
func (g *Grid) IsPassable(p core.Point) (bool, error) {
	if err := g.bounds(p); err != nil {
		return false, err
	}
	i := g.index(p)
	d, _ := g.tileset.Lookup(g.tiles[i])
	return !d.Solid && g.occ[i] == NoEntity, nil
}

// ApplyEntry commits a validated move of e to p: the occupancy moves with
// the entity and its coordinate is updated. When the hero enters a scoring
// tile, the tile becomes empty and a Collected event is returned.
//
// The caller must have checked IsPassable(p). Entering an impassable or
// out-of-bounds cell is a programming error and panics.
func (g *Grid) ApplyEntry(e *Entity, p core.Point) (Event, bool) {
	ok, err := g.IsPassable(p)
	if err != nil {
		panic(fmt.Sprintf("world: ApplyEntry of entity %d: %v", e.ID, err))
	}
	if !ok {
		panic(fmt.Sprintf("world: ApplyEntry of entity %d into impassable cell %v", e.ID, p))
	}

	from := e.Pos
	if g.InBounds(from) && g.occ[g.index(from)] == e.ID {
		g.occ[g.index(from)] = NoEntity
	}
	i := g.index(p)
	g.occ[i] = e.ID
	e.Pos = p
	e.Frame++

	if !e.IsHero() {
		return Event{}, false
	}
	d, _ := g.tileset.Lookup(g.tiles[i])
	if !d.Scoring {
		return Event{}, false
	}
	g.tiles[i] = EmptyTileID
	return Event{Kind: EventCollected, Entity: e.ID, From: from, To: p, Tile: d, Name: d.Sound}, true
}

// Place puts a live entity on its current position. The cell must be in
// bounds and unoccupied.
func (g *Grid) Place(e *Entity) error {
	if err := g.bounds(e.Pos); err != nil {
		return err
	}
	i := g.index(e.Pos)
	if other := g.occ[i]; other != NoEntity && other != e.ID {
		return fmt.Errorf("cell %v already holds entity %d", e.Pos, other)
	}
	g.occ[i] = e.ID
	return nil
}

// Remove clears the entity from the occupancy layer.
func (g *Grid) Remove(e *Entity) {
	if !g.InBounds(e.Pos) {
		return
	}
	if i := g.index(e.Pos); g.occ[i] == e.ID {
		g.occ[i] = NoEntity
	}
}

// SetTile replaces the tile at p. Used when collectibles are consumed and
// by game hooks that rewrite terrain.
func (g *Grid) SetTile(p core.Point, id int) error {
	if err := g.bounds(p); err != nil {
		return err
	}
	if _, ok := g.tileset.Lookup(id); !ok {
		return fmt.Errorf("world: unknown tile id %d", id)
	}
	g.tiles[g.index(p)] = id
	return nil
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(p core.Point, d TileDef)) {
	for i, id := range g.tiles {
		d, _ := g.tileset.Lookup(id)
		fn(core.Pt(i%g.w, i/g.w), d)
	}
}

// CountGoals returns the number of goal tiles left on the grid.
func (g *Grid) CountGoals() int {
	n := 0
	for _, id := range g.tiles {
		if d, _ := g.tileset.Lookup(id); d.Goal {
			n++
		}
	}
	return n
}

// Tiles returns a copy of the tile ids in row-major order.
func (g *Grid) Tiles() []int {
	out := make([]int, len(g.tiles))
	copy(out, g.tiles)
	return out
}
