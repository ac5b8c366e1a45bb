package tilemap

import (
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/tilemap/formats"
	"github.com/vovakirdan/gridquest/internal/world"
)

// Default glyphs for explicit entities without a visual of their own.
const (
	defaultHeroGlyph  = '@'
	defaultMoverGlyph = '&'
)

// Placement is the starting position of one entity.
type Placement struct {
	Role     world.Role
	Behavior string
	Pos      core.Point
	Facing   core.Dir
	Name     string
	Glyph    rune
	Color    core.Color
	Image    string
}

// Level is a validated level definition. Building it never fails on level
// content; all checks have already run in Load.
type Level struct {
	ID       string
	Title    string
	Width    int
	Height   int
	TileSize int
	Tileset  *world.Tileset
	Cells    []int // Row-major tile ids, as in the file
	Entities []Placement
	Metadata map[string]string
}

// Build creates a fresh world for the level. Hero-start and mover marker
// cells become empty; the hero gets id 1 and movers follow in order.
func (lv *Level) Build() (*world.World, error) {
	cells := make([]int, len(lv.Cells))
	for i, id := range lv.Cells {
		d, _ := lv.Tileset.Lookup(id)
		if d.IsMarker() {
			id = world.EmptyTileID
		}
		cells[i] = id
	}

	g, err := world.NewGrid(lv.Width, lv.Height, lv.Tileset, cells)
	if err != nil {
		return nil, &LevelFormatError{Level: lv.ID, Reason: "building grid", Err: err}
	}

	entities := make([]*world.Entity, 0, len(lv.Entities))
	next := world.EntityID(2)
	for _, p := range lv.Entities {
		e := &world.Entity{
			Role:     p.Role,
			Pos:      p.Pos,
			Facing:   p.Facing,
			Behavior: p.Behavior,
			Alive:    true,
			Name:     p.Name,
			Glyph:    p.Glyph,
			Color:    p.Color,
			Image:    p.Image,
		}
		if e.IsHero() {
			e.ID = 1
			entities = append([]*world.Entity{e}, entities...)
			continue
		}
		e.ID = next
		next++
		entities = append(entities, e)
	}

	w, err := world.New(g, entities)
	if err != nil {
		return nil, &LevelFormatError{Level: lv.ID, Reason: "placing entities", Err: err}
	}
	w.Title = lv.Title
	w.TileSize = lv.TileSize
	return w, nil
}

func validate(fsys fs.FS, id string, pl formats.Level) (*Level, error) {
	if pl.Width <= 0 || pl.Height <= 0 {
		return nil, formatErr(id, "dimensions %dx%d missing or not positive", pl.Width, pl.Height)
	}
	if pl.Width > world.MaxSide || pl.Height > world.MaxSide {
		return nil, formatErr(id, "dimensions %dx%d exceed %d", pl.Width, pl.Height, world.MaxSide)
	}
	if len(pl.Data) != pl.Width*pl.Height {
		return nil, formatErr(id, "has %d cells, expected %dx%d=%d", len(pl.Data), pl.Width, pl.Height, pl.Width*pl.Height)
	}

	dir := path.Dir(id)
	defs := make([]world.TileDef, 0, len(pl.Tiles))
	for _, spec := range pl.Tiles {
		d, err := tileDef(fsys, id, dir, spec)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	tileset, err := world.NewTileset(defs)
	if err != nil {
		return nil, &LevelFormatError{Level: id, Reason: "invalid tileset", Err: err}
	}

	lv := &Level{
		ID:       id,
		Title:    pl.Title,
		Width:    pl.Width,
		Height:   pl.Height,
		TileSize: pl.TileSize,
		Tileset:  tileset,
		Cells:    append([]int(nil), pl.Data...),
		Metadata: pl.Metadata,
	}
	if lv.Title == "" {
		lv.Title = strings.TrimSuffix(path.Base(id), path.Ext(id))
	}

	taken := make(map[core.Point]bool)
	heroes := 0
	add := func(p Placement) error {
		if taken[p.Pos] {
			return formatErr(id, "two entities start at %v", p.Pos)
		}
		taken[p.Pos] = true
		if p.Role == world.RoleHero {
			heroes++
		}
		lv.Entities = append(lv.Entities, p)
		return nil
	}

	for i, cell := range pl.Data {
		d, ok := tileset.Lookup(cell)
		if !ok {
			return nil, formatErr(id, "cell (%d,%d) references unknown tile id %d", i%pl.Width, i/pl.Width, cell)
		}
		if !d.IsMarker() {
			continue
		}
		p := Placement{
			Pos:    core.Pt(i%pl.Width, i/pl.Width),
			Facing: d.Facing,
			Name:   d.Name,
			Glyph:  d.Glyph,
			Color:  d.Color,
			Image:  d.Image,
		}
		if d.Kind == world.KindHeroStart {
			p.Role = world.RoleHero
		} else {
			p.Role = world.RoleMover
			p.Behavior = d.Spawn
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}

	for _, es := range pl.Entities {
		p, err := placement(fsys, id, dir, es)
		if err != nil {
			return nil, err
		}
		if p.Pos.X < 0 || p.Pos.X >= pl.Width || p.Pos.Y < 0 || p.Pos.Y >= pl.Height {
			return nil, formatErr(id, "entity at %v is outside the grid", p.Pos)
		}
		if d, _ := tileset.Lookup(pl.Data[p.Pos.Y*pl.Width+p.Pos.X]); d.Solid {
			return nil, formatErr(id, "entity at %v is placed on solid tile %q", p.Pos, d.Name)
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}

	if heroes != 1 {
		return nil, formatErr(id, "has %d hero starts, expected exactly 1", heroes)
	}
	return lv, nil
}

func tileDef(fsys fs.FS, id, dir string, spec formats.TileSpec) (world.TileDef, error) {
	kind, ok := world.ParseKind(spec.Type)
	if !ok {
		return world.TileDef{}, formatErr(id, "tile %d has unknown type %q", spec.ID, spec.Type)
	}

	d := world.TileDef{
		ID:      spec.ID,
		Name:    spec.Name,
		Kind:    kind,
		Solid:   kind == world.KindSolid,
		Scoring: kind == world.KindCollectible,
		Value:   spec.Value,
		Spawn:   spec.Spawn,
	}
	if spec.Solid != nil {
		d.Solid = *spec.Solid
	}
	if spec.Scoring != nil {
		d.Scoring = *spec.Scoring
	}
	d.Goal = d.Scoring
	if spec.Goal != nil {
		d.Goal = *spec.Goal
	}
	if d.Name == "" {
		d.Name = kind.String()
	}

	var err error
	if d.Sound, err = sound(fsys, id, dir, spec.Sound); err != nil {
		return world.TileDef{}, err
	}
	if d.Spawn != "" && !world.ValidBehavior(d.Spawn) {
		return world.TileDef{}, formatErr(id, "tile %d spawns unknown behavior %q", spec.ID, d.Spawn)
	}
	if d.Facing, err = parseFacing(id, spec.Facing); err != nil {
		return world.TileDef{}, err
	}
	if d.Glyph, d.Color, d.Image, err = visual(fsys, id, dir, spec.Glyph, spec.Color, spec.Image); err != nil {
		return world.TileDef{}, err
	}
	if !d.HasVisual() {
		return world.TileDef{}, formatErr(id, "tile %d has no glyph or image", spec.ID)
	}
	return d, nil
}

func placement(fsys fs.FS, id, dir string, es formats.EntitySpec) (Placement, error) {
	p := Placement{Pos: core.Pt(es.X, es.Y), Name: es.Name}
	switch es.Type {
	case "hero":
		p.Role = world.RoleHero
	case "mover":
		p.Role = world.RoleMover
		p.Behavior = es.Behavior
		if p.Behavior == "" {
			p.Behavior = world.BehaviorStatic
		}
		if !world.ValidBehavior(p.Behavior) {
			return Placement{}, formatErr(id, "entity at %v has unknown behavior %q", p.Pos, p.Behavior)
		}
	default:
		return Placement{}, formatErr(id, "entity at %v has unknown type %q", p.Pos, es.Type)
	}

	var err error
	if p.Facing, err = parseFacing(id, es.Facing); err != nil {
		return Placement{}, err
	}
	if p.Glyph, p.Color, p.Image, err = visual(fsys, id, dir, es.Glyph, es.Color, es.Image); err != nil {
		return Placement{}, err
	}
	if p.Glyph == 0 && p.Image == "" {
		p.Glyph = defaultMoverGlyph
		if p.Role == world.RoleHero {
			p.Glyph = defaultHeroGlyph
		}
	}
	if p.Name == "" {
		p.Name = p.Role.String()
	}
	return p, nil
}

func parseFacing(id, s string) (core.Dir, error) {
	d, ok := core.ParseDir(s)
	if !ok {
		return core.DirNone, formatErr(id, "unknown facing %q", s)
	}
	return d, nil
}

// visual resolves glyph, color and image. Images are given relative to the
// level file and returned relative to the source root.
func visual(fsys fs.FS, id, dir, glyph, color, image string) (rune, core.Color, string, error) {
	var r rune
	if glyph != "" {
		r, _ = utf8.DecodeRuneInString(glyph)
	}
	c, ok := core.ParseColor(color)
	if !ok {
		return 0, 0, "", formatErr(id, "unknown color %q", color)
	}
	if image == "" {
		return r, c, "", nil
	}
	resolved := path.Join(dir, image)
	if _, err := fs.Stat(fsys, resolved); err != nil {
		return 0, 0, "", &LevelFormatError{Level: id, Reason: "image " + image + " does not resolve", Err: err}
	}
	return r, c, resolved, nil
}

// sound resolves a WAV file like an image. Other names are cue names and
// pass through.
func sound(fsys fs.FS, id, dir, name string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(name), ".wav") {
		return name, nil
	}
	resolved := path.Join(dir, name)
	if _, err := fs.Stat(fsys, resolved); err != nil {
		return "", &LevelFormatError{Level: id, Reason: "sound " + name + " does not resolve", Err: err}
	}
	return resolved, nil
}
