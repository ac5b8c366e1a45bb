// Package desktop runs games in a window through Ebiten. The window build
// needs the ebiten tag; without it Run reports that desktop play is
// unavailable.
package desktop

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/storage"
)

// Ebiten updates this many times per second; the runner ticks on a subset.
const updatesPerSecond = 60

// hudHeight is the pixel height of the status bar above the map.
const hudHeight = 36

// Options holds what a desktop run may use. Every field is optional.
type Options struct {
	Store      *storage.Store
	Audio      runner.Audio
	Logger     *log.Logger
	StartLevel int // 1-based, 0 means the first level
}

// tickEvery returns how many updates pass between runner ticks.
func tickEvery(tickRate int) int {
	if tickRate <= 0 || tickRate >= updatesPerSecond {
		return 1
	}
	return (updatesPerSecond + tickRate/2) / tickRate
}

var palette = map[core.Color]color.RGBA{
	core.ColorDefault:       {R: 200, G: 200, B: 200, A: 255},
	core.ColorRed:           {R: 170, G: 0, B: 0, A: 255},
	core.ColorGreen:         {R: 0, G: 170, B: 0, A: 255},
	core.ColorYellow:        {R: 170, G: 140, B: 0, A: 255},
	core.ColorBlue:          {R: 0, G: 0, B: 170, A: 255},
	core.ColorMagenta:       {R: 170, G: 0, B: 170, A: 255},
	core.ColorCyan:          {R: 0, G: 170, B: 170, A: 255},
	core.ColorWhite:         {R: 200, G: 200, B: 200, A: 255},
	core.ColorBrightRed:     {R: 255, G: 85, B: 85, A: 255},
	core.ColorBrightGreen:   {R: 85, G: 255, B: 85, A: 255},
	core.ColorBrightYellow:  {R: 255, G: 255, B: 85, A: 255},
	core.ColorBrightBlue:    {R: 85, G: 85, B: 255, A: 255},
	core.ColorBrightMagenta: {R: 255, G: 85, B: 255, A: 255},
	core.ColorBrightCyan:    {R: 85, G: 255, B: 255, A: 255},
	core.ColorBrightWhite:   {R: 255, G: 255, B: 255, A: 255},
	core.ColorOrange:        {R: 255, G: 135, B: 0, A: 255},
	core.ColorGray:          {R: 138, G: 138, B: 138, A: 255},
}

// rgba returns the window color for a terminal color.
func rgba(c core.Color) color.RGBA {
	if v, ok := palette[c]; ok {
		return v
	}
	return palette[core.ColorDefault]
}

// banner returns the overlay text for a run state, if any.
func banner(s runner.Status) []string {
	switch s.State {
	case runner.StateLevelComplete:
		return []string{"Level complete!"}
	case runner.StateHeroDied:
		return []string{"Ouch! Try again"}
	case runner.StateAllLevelsComplete:
		return []string{"All levels complete!", fmt.Sprintf("Final score: %d", s.Score), "Press Enter"}
	case runner.StateFailed:
		return []string{"This level cannot be played", "Press Enter"}
	}
	return nil
}
