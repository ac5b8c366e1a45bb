// Package world holds the authoritative model of one loaded level: the tile
// grid, the tileset it is drawn from, and the entities moving over it.
//
// The grid enforces bounds and single occupancy. It does not decide game
// rules; the engine package validates moves and then commits them here.
package world

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/gridquest/internal/core"
)

// EmptyTileID is the reserved id of the empty tile. It is present in every
// tileset; Tiled maps use gid 0 for "no tile" as well.
const EmptyTileID = 0

// Kind is the enumerated type of a tile.
type Kind int

const (
	KindEmpty Kind = iota
	KindSolid
	KindCollectible
	KindHeroStart
	KindCustom
)

// String returns the level-file name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindSolid:
		return "solid"
	case KindCollectible:
		return "collectible"
	case KindHeroStart:
		return "hero-start"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a level-file type name to a Kind.
// A few common aliases are accepted.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "empty", "gap":
		return KindEmpty, true
	case "solid", "wall", "brick":
		return KindSolid, true
	case "collectible":
		return KindCollectible, true
	case "hero-start", "hero":
		return KindHeroStart, true
	case "custom":
		return KindCustom, true
	default:
		return 0, false
	}
}

// TileDef is one row of the tileset table.
type TileDef struct {
	ID      int
	Name    string
	Kind    Kind
	Solid   bool // Blocks entry
	Scoring bool // Removed (becomes empty) when the hero enters it
	Goal    bool // Counts toward the remaining total that completes the level
	Value   int  // Points on collection; 0 = configured default, <0 = none

	Glyph rune       // Terminal visual
	Color core.Color // Terminal color
	Image string     // Desktop visual, relative to the level filesystem
	Sound string     // Cue played on collection

	// Spawn names the behavior of an autonomous entity created on this
	// tile at load time. Empty for plain terrain.
	Spawn  string
	Facing core.Dir
}

// IsMarker reports whether the tile only marks an entity's starting cell.
// Marker cells are replaced by the empty tile once the entity is placed.
func (t TileDef) IsMarker() bool {
	return t.Kind == KindHeroStart || t.Spawn != ""
}

// HasVisual reports whether the tile has something to draw.
func (t TileDef) HasVisual() bool {
	return t.Glyph != 0 || t.Image != ""
}

// Tileset is the statically validated tile table of a level, keyed by id.
type Tileset struct {
	defs   map[int]TileDef
	byName map[string]int
}

// NewTileset builds a tileset from definitions. The empty tile is added when
// not defined explicitly; redefining it with another kind is an error.
func NewTileset(defs []TileDef) (*Tileset, error) {
	ts := &Tileset{
		defs:   make(map[int]TileDef, len(defs)+1),
		byName: make(map[string]int, len(defs)+1),
	}
	ts.defs[EmptyTileID] = TileDef{ID: EmptyTileID, Name: "empty", Kind: KindEmpty, Glyph: ' '}

	seen := make(map[int]bool, len(defs))
	for _, d := range defs {
		if d.ID < 0 {
			return nil, fmt.Errorf("tile id %d is negative", d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("tile id %d defined twice", d.ID)
		}
		if d.ID == EmptyTileID && d.Kind != KindEmpty {
			return nil, fmt.Errorf("tile id 0 is reserved for the empty tile")
		}
		seen[d.ID] = true
		ts.defs[d.ID] = d
	}

	for id, d := range ts.defs {
		if d.Name == "" {
			continue
		}
		if other, dup := ts.byName[d.Name]; dup && other < id {
			continue
		}
		ts.byName[d.Name] = id
	}
	return ts, nil
}

// Lookup returns the definition for a tile id.
func (ts *Tileset) Lookup(id int) (TileDef, bool) {
	d, ok := ts.defs[id]
	return d, ok
}

// ByName returns the lowest-id definition with the given name.
func (ts *Tileset) ByName(name string) (TileDef, bool) {
	id, ok := ts.byName[name]
	if !ok {
		return TileDef{}, false
	}
	return ts.defs[id], true
}

// IDs returns all tile ids in ascending order.
func (ts *Tileset) IDs() []int {
	ids := make([]int, 0, len(ts.defs))
	for id := range ts.defs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of tile definitions, including the empty tile.
func (ts *Tileset) Len() int {
	return len(ts.defs)
}
