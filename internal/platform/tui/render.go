package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/viewport"
	"github.com/vovakirdan/gridquest/internal/world"
)

// Screen layout: two HUD rows on top, the map, one help row at the bottom.
const (
	hudRows  = 2
	helpRows = 1
)

// helpLines are tried longest first; the first that fits is drawn.
var helpLines = []string{
	"arrows/z x ' / move  s save  l load  r restart  q quit",
	"s save  l load  r restart  q quit",
	"s save l load q quit",
	"q quit",
}

func helpFor(width int) string {
	for _, l := range helpLines {
		if len(l) <= width {
			return l
		}
	}
	return helpLines[len(helpLines)-1]
}

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = func() map[core.Color]lipgloss.Style {
	styles := make(map[core.Color]lipgloss.Style)
	for c := core.ColorDefault; c <= core.ColorGray; c++ {
		style := lipgloss.NewStyle()
		if code := c.ANSI(); code != "" {
			style = style.Foreground(lipgloss.Color(code))
		}
		styles[c] = style
	}
	return styles
}()

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// mapSize returns the map area in cells for a screen, capped by the
// configured view size when one is set.
func mapSize(screenW, screenH int, limit viewport.Size) viewport.Size {
	w, h := screenW, screenH-hudRows-helpRows
	if limit.W > 0 && limit.W < w {
		w = limit.W
	}
	if limit.H > 0 && limit.H < h {
		h = limit.H
	}
	return viewport.Size{W: max(w, 1), H: max(h, 1)}
}

// screenRenderer draws runner frames into a Screen. It is the runner's
// Renderer and HUD for the terminal.
type screenRenderer struct {
	screen *core.Screen
	status runner.Status
}

var (
	_ runner.Renderer = (*screenRenderer)(nil)
	_ runner.HUD      = (*screenRenderer)(nil)
)

func (r *screenRenderer) Update(s runner.Status) {
	r.status = s
}

// Render redraws the whole screen for f. Tiles are one cell each.
func (r *screenRenderer) Render(f runner.Frame) {
	s := r.screen
	s.Clear()
	r.drawHUD(f.Status)

	vis := f.Visible
	for y := vis.Y; y < vis.Bottom(); y++ {
		for x := vis.X; x < vis.Right(); x++ {
			p := core.Pt(x, y)
			d := f.TileAt(p)
			glyph := d.Glyph
			if glyph == 0 {
				glyph = ' '
			}
			r.put(f, p, glyph, d.Color)
		}
	}
	var hero *world.Entity
	for i, e := range f.Entities {
		if e.IsHero() {
			hero = &f.Entities[i]
			continue
		}
		r.put(f, e.Pos, e.Glyph, e.Color)
	}
	if hero != nil {
		r.put(f, hero.Pos, hero.Glyph, hero.Color)
	}

	r.drawBanner(f.Status)
	s.DrawTextColored(0, s.Height()-1, helpFor(s.Width()), core.ColorGray)
}

// put draws one tile if it falls inside the view. A view smaller than the
// map area is centered in it.
func (r *screenRenderer) put(f runner.Frame, tile core.Point, glyph rune, c core.Color) {
	sp := f.View.TileToScreen(tile, 1)
	if sp.X < 0 || sp.Y < 0 || sp.X >= f.View.Size.W || sp.Y >= f.View.Size.H {
		return
	}
	o := r.origin(f.View.Size)
	r.screen.SetColored(o.X+sp.X, o.Y+sp.Y, glyph, c)
}

// origin is the screen cell of the view's top-left corner.
func (r *screenRenderer) origin(view viewport.Size) core.Point {
	areaW := r.screen.Width()
	areaH := r.screen.Height() - hudRows - helpRows
	return core.Pt(max((areaW-view.W)/2, 0), hudRows+max((areaH-view.H)/2, 0))
}

func (r *screenRenderer) drawHUD(st runner.Status) {
	s := r.screen
	title := fmt.Sprintf("Level %d/%d", st.Level, st.Levels)
	if st.Title != "" {
		title += ": " + st.Title
	}
	s.DrawTextColored(0, 0, title, core.ColorBrightYellow)

	line := fmt.Sprintf("Score %d  Left %d  Deaths %d", st.Score, st.Remaining, st.Deaths)
	s.DrawTextColored(0, 1, line, core.ColorBrightWhite)
	if st.Message != "" {
		s.DrawTextColored(len(line)+3, 1, st.Message, core.ColorCyan)
	}
}

// drawBanner overlays the state message in the middle of the map.
func (r *screenRenderer) drawBanner(st runner.Status) {
	var lines []string
	color := core.ColorBrightWhite
	switch st.State {
	case runner.StateLevelComplete:
		lines = []string{"Level complete!"}
		color = core.ColorBrightGreen
	case runner.StateHeroDied:
		lines = []string{"Ouch! Try again"}
		color = core.ColorBrightRed
	case runner.StateAllLevelsComplete:
		lines = []string{"All levels complete!", fmt.Sprintf("Final score: %d", st.Score), "Press Enter"}
		color = core.ColorBrightGreen
	case runner.StateFailed:
		lines = []string{"This level cannot be played", "Press Enter"}
		color = core.ColorRed
	default:
		return
	}

	mid := hudRows + (r.screen.Height()-hudRows-helpRows)/2 - len(lines)/2
	for i, l := range lines {
		r.screen.DrawTextCentered(mid+i, " "+l+" ", color)
	}
}
