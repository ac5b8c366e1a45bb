package formats

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Tiled stores flip flags in the top bits of a gid.
const tmxGIDMask = 0x1FFFFFFF

// TMXMap is the subset of the Tiled map format used by levels.
type TMXMap struct {
	XMLName    xml.Name      `xml:"map"`
	Width      int           `xml:"width,attr"`
	Height     int           `xml:"height,attr"`
	TileWidth  int           `xml:"tilewidth,attr"`
	TileHeight int           `xml:"tileheight,attr"`
	Properties []TMXProperty `xml:"properties>property"`
	Tilesets   []TMXTileset  `xml:"tileset"`
	Layers     []TMXLayer    `xml:"layer"`
}

// TMXProperty is a custom name/value property.
type TMXProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// TMXTileset is an embedded tileset or a reference to a .tsx file.
type TMXTileset struct {
	FirstGID int       `xml:"firstgid,attr"`
	Source   string    `xml:"source,attr"`
	Name     string    `xml:"name,attr"`
	Tiles    []TMXTile `xml:"tile"`
}

// TMXTile carries the per-tile properties of a tileset.
type TMXTile struct {
	ID         int           `xml:"id,attr"`
	Type       string        `xml:"type,attr"`
	Class      string        `xml:"class,attr"`
	Properties []TMXProperty `xml:"properties>property"`
	Image      *TMXImage     `xml:"image"`
}

// TMXImage is a tile image reference.
type TMXImage struct {
	Source string `xml:"source,attr"`
}

// TMXLayer is a tile layer.
type TMXLayer struct {
	Name string  `xml:"name,attr"`
	Data TMXData `xml:"data"`
}

// TMXData holds layer cells, CSV encoded or as <tile> elements.
type TMXData struct {
	Encoding string       `xml:"encoding,attr"`
	Inner    string       `xml:",chardata"`
	Tiles    []TMXDataGID `xml:"tile"`
}

// TMXDataGID is one cell of an unencoded layer.
type TMXDataGID struct {
	GID uint32 `xml:"gid,attr"`
}

// ParseTMX parses a Tiled map. External tilesets and images are resolved
// relative to the map file; read loads a file by such a relative name.
func ParseTMX(data []byte, read func(name string) ([]byte, error)) (Level, error) {
	var m TMXMap
	if err := xml.Unmarshal(data, &m); err != nil {
		return Level{}, fmt.Errorf("tmx unmarshal: %w", err)
	}
	if len(m.Layers) == 0 {
		return Level{}, fmt.Errorf("tmx: map has no tile layer")
	}

	level := Level{
		Width:    m.Width,
		Height:   m.Height,
		TileSize: m.TileWidth,
		Metadata: make(map[string]string),
	}
	for _, p := range m.Properties {
		if strings.EqualFold(p.Name, "title") {
			level.Title = p.Value
			continue
		}
		level.Metadata[p.Name] = p.Value
	}

	for _, ts := range m.Tilesets {
		base := ""
		if ts.Source != "" {
			raw, err := read(ts.Source)
			if err != nil {
				return Level{}, fmt.Errorf("tmx: reading tileset %s: %w", ts.Source, err)
			}
			var ext TMXTileset
			if err := xml.Unmarshal(raw, &ext); err != nil {
				return Level{}, fmt.Errorf("tmx: parsing tileset %s: %w", ts.Source, err)
			}
			ext.FirstGID = ts.FirstGID
			base = path.Dir(ts.Source)
			ts = ext
		}
		for _, t := range ts.Tiles {
			spec, err := tmxTileSpec(ts, t, base)
			if err != nil {
				return Level{}, err
			}
			level.Tiles = append(level.Tiles, spec)
		}
	}

	cells, err := tmxCells(m.Layers[0].Data)
	if err != nil {
		return Level{}, fmt.Errorf("tmx: layer %q: %w", m.Layers[0].Name, err)
	}
	level.Data = cells
	return level, nil
}

func tmxTileSpec(ts TMXTileset, t TMXTile, base string) (TileSpec, error) {
	spec := TileSpec{
		ID:   ts.FirstGID + t.ID,
		Name: fmt.Sprintf("%s-%d", ts.Name, t.ID),
		Type: t.Class,
	}
	if spec.Type == "" {
		spec.Type = t.Type
	}
	if t.Image != nil && t.Image.Source != "" {
		spec.Image = path.Join(base, t.Image.Source)
	}

	for _, p := range t.Properties {
		var err error
		switch p.Name {
		case "type":
			spec.Type = p.Value
		case "name":
			spec.Name = p.Value
		case "solid":
			spec.Solid, err = tmxBool(p.Value)
		case "scoring":
			spec.Scoring, err = tmxBool(p.Value)
		case "goal":
			spec.Goal, err = tmxBool(p.Value)
		case "value":
			spec.Value, err = strconv.Atoi(p.Value)
		case "glyph":
			spec.Glyph = p.Value
		case "color":
			spec.Color = p.Value
		case "sound":
			spec.Sound = p.Value
		case "spawn":
			spec.Spawn = p.Value
		case "facing":
			spec.Facing = p.Value
		}
		if err != nil {
			return TileSpec{}, fmt.Errorf("tmx: tile %d property %s: %w", spec.ID, p.Name, err)
		}
	}
	// Tiled type names are capitalized by convention.
	spec.Type = strings.ToLower(spec.Type)
	return spec, nil
}

func tmxBool(s string) (*bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func tmxCells(d TMXData) ([]int, error) {
	switch d.Encoding {
	case "csv":
		var cells []int
		for _, f := range strings.Split(d.Inner, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			gid, err := strconv.ParseUint(f, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("bad cell %q: %w", f, err)
			}
			cells = append(cells, int(gid&tmxGIDMask))
		}
		return cells, nil
	case "":
		cells := make([]int, len(d.Tiles))
		for i, t := range d.Tiles {
			cells[i] = int(t.GID & tmxGIDMask)
		}
		return cells, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", d.Encoding)
	}
}
