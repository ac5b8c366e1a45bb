// Package formats provides pluggable level file format parsers.
// Parsers only decode; validation of the decoded level happens in tilemap.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TileSpec is one tileset entry as written in a level file.
// Flags left nil take their default from the tile type.
type TileSpec struct {
	ID      int
	Name    string
	Type    string
	Solid   *bool
	Scoring *bool
	Goal    *bool
	Value   int
	Glyph   string
	Color   string
	Image   string // Relative to the level filesystem root
	Sound   string
	Spawn   string
	Facing  string
}

// EntitySpec is an explicit entity placement.
type EntitySpec struct {
	Type     string // "hero" or "mover"
	Behavior string
	X, Y     int
	Facing   string
	Name     string
	Glyph    string
	Color    string
	Image    string
}

// Level represents a parsed level ready for validation.
type Level struct {
	Title    string
	Width    int
	Height   int
	TileSize int
	Tiles    []TileSpec
	Data     []int
	Entities []EntitySpec
	Metadata map[string]string
}

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	Title    string            `yaml:"title"`
	Size     YAMLSize          `yaml:"size"`
	TileSize int               `yaml:"tile_size,omitempty"`
	Tileset  []YAMLTile        `yaml:"tileset"`
	Data     []int             `yaml:"data"`
	Entities []YAMLEntity      `yaml:"entities,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLTile represents a tileset row.
type YAMLTile struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Solid   *bool  `yaml:"solid,omitempty"`
	Scoring *bool  `yaml:"scoring,omitempty"`
	Goal    *bool  `yaml:"goal,omitempty"`
	Value   int    `yaml:"value,omitempty"`
	Glyph   string `yaml:"glyph,omitempty"`
	Color   string `yaml:"color,omitempty"`
	Image   string `yaml:"image,omitempty"`
	Sound   string `yaml:"sound,omitempty"`
	Spawn   string `yaml:"spawn,omitempty"`
	Facing  string `yaml:"facing,omitempty"`
}

// YAMLEntity represents an explicit entity placement.
type YAMLEntity struct {
	Type     string `yaml:"type"`
	Behavior string `yaml:"behavior,omitempty"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Facing   string `yaml:"facing,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Glyph    string `yaml:"glyph,omitempty"`
	Color    string `yaml:"color,omitempty"`
	Image    string `yaml:"image,omitempty"`
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	level := Level{
		Title:    yl.Title,
		Width:    yl.Size.W,
		Height:   yl.Size.H,
		TileSize: yl.TileSize,
		Data:     yl.Data,
		Metadata: yl.Metadata,
	}

	for _, t := range yl.Tileset {
		level.Tiles = append(level.Tiles, TileSpec{
			ID:      t.ID,
			Name:    t.Name,
			Type:    t.Type,
			Solid:   t.Solid,
			Scoring: t.Scoring,
			Goal:    t.Goal,
			Value:   t.Value,
			Glyph:   t.Glyph,
			Color:   t.Color,
			Image:   t.Image,
			Sound:   t.Sound,
			Spawn:   t.Spawn,
			Facing:  t.Facing,
		})
	}
	for _, e := range yl.Entities {
		level.Entities = append(level.Entities, EntitySpec{
			Type:     e.Type,
			Behavior: e.Behavior,
			X:        e.X,
			Y:        e.Y,
			Facing:   e.Facing,
			Name:     e.Name,
			Glyph:    e.Glyph,
			Color:    e.Color,
			Image:    e.Image,
		})
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".tmx"}
}
