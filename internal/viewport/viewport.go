// Package viewport computes the scrolled window into a level.
// All functions are pure: the view depends only on the grid size, the view
// size, the hero position and the alignment.
package viewport

import (
	"fmt"

	"github.com/vovakirdan/gridquest/internal/core"
)

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

// Align anchors a grid that is smaller than the view.
type Align int

const (
	AlignCenter Align = iota
	AlignStart
	AlignEnd
)

// ParseAlign converts a config value to an Align.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "center":
		return AlignCenter, nil
	case "start":
		return AlignStart, nil
	case "end":
		return AlignEnd, nil
	default:
		return AlignCenter, fmt.Errorf("unknown alignment %q", s)
	}
}

// View is the window into grid pixel space for one tick.
type View struct {
	Origin core.Point // Top-left of the view in grid pixels
	Offset core.Point // Where the grid starts inside the view when not scrolled
	Size   Size       // View size
	Grid   Size       // Grid size
}

// Compute returns the view with the hero centered, clamped so it never
// extends past the grid. A dimension where the grid fits inside the view is
// not scrolled; the grid is placed according to align instead.
func Compute(grid, view Size, hero core.Point, align Align) View {
	ox, dx := axis(grid.W, view.W, hero.X, align)
	oy, dy := axis(grid.H, view.H, hero.Y, align)
	return View{
		Origin: core.Pt(ox, oy),
		Offset: core.Pt(dx, dy),
		Size:   view,
		Grid:   grid,
	}
}

func axis(grid, view, hero int, align Align) (origin, offset int) {
	if grid <= view {
		switch align {
		case AlignStart:
			return 0, 0
		case AlignEnd:
			return 0, view - grid
		default:
			return 0, (view - grid) / 2
		}
	}
	return core.Clamp(hero-view/2, 0, grid-view), 0
}

// HeroCenter returns the pixel center of a tile.
func HeroCenter(tile core.Point, tileSize int) core.Point {
	return core.Pt(tile.X*tileSize+tileSize/2, tile.Y*tileSize+tileSize/2)
}

// Visible returns the range of tiles at least partly inside the view.
func (v View) Visible(tileSize int) core.Rect {
	if tileSize <= 0 {
		return core.Rect{}
	}
	gw, gh := v.Grid.W/tileSize, v.Grid.H/tileSize
	x0, y0 := v.Origin.X/tileSize, v.Origin.Y/tileSize
	x1 := min(ceilDiv(v.Origin.X+v.Size.W, tileSize), gw)
	y1 := min(ceilDiv(v.Origin.Y+v.Size.H, tileSize), gh)
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// TileToScreen converts a tile coordinate to view pixels.
func (v View) TileToScreen(tile core.Point, tileSize int) core.Point {
	return core.Pt(
		tile.X*tileSize-v.Origin.X+v.Offset.X,
		tile.Y*tileSize-v.Origin.Y+v.Offset.Y,
	)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
