//go:build ebiten

package desktop

import (
	"fmt"
	"image/color"
	_ "image/png"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/storage"
	"github.com/vovakirdan/gridquest/internal/world"
)

var background = color.RGBA{R: 16, G: 16, B: 24, A: 255}

var moveKeys = []struct {
	keys   []ebiten.Key
	action core.Action
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyQuote}, core.ActionUp},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeySlash}, core.ActionDown},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyZ}, core.ActionLeft},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyX}, core.ActionRight},
}

var commandKeys = map[ebiten.Key]core.Action{
	ebiten.KeyR:      core.ActionRestart,
	ebiten.KeyS:      core.ActionSave,
	ebiten.KeyL:      core.ActionLoad,
	ebiten.KeyQ:      core.ActionQuit,
	ebiten.KeyEscape: core.ActionQuit,
}

// Game adapts a runner to the ebiten.Game interface.
type Game struct {
	run    *runner.Runner
	id     string
	fsys   fs.FS
	images map[string]*ebiten.Image
	store  *storage.Store
	log    *log.Logger

	every      int
	updates    int
	input      core.InputFrame
	scoreSaved bool
}

// New creates a window game for a prepared game and starts the run.
func New(p *platform.Prepared, opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	var checkpoints runner.Checkpointer
	if opts.Store != nil {
		checkpoints = opts.Store
	}
	ro := p.RunnerOptions(checkpoints, opts.Logger)
	ro.Audio = opts.Audio
	ro.TileSize = p.Config.TilePixels
	ro.ViewTiles.W = p.Config.View.W
	ro.ViewTiles.H = p.Config.View.H

	run, err := runner.New(ro)
	if err != nil {
		return nil, err
	}
	start, err := platform.StartIndex(opts.StartLevel, len(run.Levels()))
	if err != nil {
		return nil, err
	}
	if err := run.Start(start); err != nil {
		return nil, err
	}

	return &Game{
		run:    run,
		id:     p.Game.ID(),
		fsys:   p.Levels.FS,
		images: make(map[string]*ebiten.Image),
		store:  opts.Store,
		log:    opts.Logger,
		every:  tickEvery(p.Config.TickRate),
		input:  core.NewInputFrame(),
	}, nil
}

// Update collects input every frame and ticks the runner at its rate.
func (g *Game) Update() error {
	state := g.run.State()
	if state.Terminal() {
		g.saveScore()
		if state == runner.StateQuitRequested ||
			inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		return nil
	}

	for _, mk := range moveKeys {
		for _, k := range mk.keys {
			if ebiten.IsKeyPressed(k) {
				g.input.Set(mk.action)
			}
		}
	}
	for k, a := range commandKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.input.Set(a)
		}
	}

	g.updates++
	if g.updates < g.every {
		return nil
	}
	g.updates = 0

	_, err := g.run.Tick(runner.InputFrom(g.input))
	g.input.Clear()
	if err != nil {
		g.log.Error("tick failed", "err", err)
	}
	return nil
}

// Draw renders the last frame: tiles, entities, then the status bar.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	f := g.run.Frame()

	vis := f.Visible
	for y := vis.Y; y < vis.Bottom(); y++ {
		for x := vis.X; x < vis.Right(); x++ {
			p := core.Pt(x, y)
			d := f.TileAt(p)
			if d.Kind == world.KindEmpty {
				continue
			}
			g.drawTile(screen, f, p, d.Image, d.Glyph, d.Color)
		}
	}
	for _, e := range f.Entities {
		g.drawTile(screen, f, e.Pos, e.Image, e.Glyph, e.Color)
	}

	st := f.Status
	st.State = g.run.State()
	face := basicfont.Face7x13
	title := fmt.Sprintf("Level %d/%d: %s", st.Level, st.Levels, st.Title)
	text.Draw(screen, title, face, 6, 14, rgba(core.ColorBrightYellow))
	line := fmt.Sprintf("Score %d  Left %d  Deaths %d  %s", st.Score, st.Remaining, st.Deaths, st.Message)
	text.Draw(screen, line, face, 6, 30, rgba(core.ColorBrightWhite))

	lines := banner(st)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	y := hudHeight + (h-hudHeight)/2 - len(lines)*8
	for _, l := range lines {
		x := (w - len(l)*7) / 2
		vector.DrawFilledRect(screen, float32(x-4), float32(y-12), float32(len(l)*7+8), 16, background, false)
		text.Draw(screen, l, face, x, y, rgba(core.ColorBrightGreen))
		y += 16
	}
}

// drawTile draws an image when the tile has one, a colored block with its
// glyph otherwise.
func (g *Game) drawTile(screen *ebiten.Image, f runner.Frame, tile core.Point, image string, glyph rune, c core.Color) {
	ts := f.TileSize
	sp := f.View.TileToScreen(tile, ts)
	if sp.X+ts <= 0 || sp.Y+ts <= 0 || sp.X >= f.View.Size.W || sp.Y >= f.View.Size.H {
		return
	}
	x, y := float64(sp.X), float64(sp.Y+hudHeight)

	if img := g.image(image); img != nil {
		op := &ebiten.DrawImageOptions{}
		b := img.Bounds()
		op.GeoM.Scale(float64(ts)/float64(b.Dx()), float64(ts)/float64(b.Dy()))
		op.GeoM.Translate(x, y)
		screen.DrawImage(img, op)
		return
	}

	fill := rgba(c)
	fill.A = 90
	vector.DrawFilledRect(screen, float32(x)+1, float32(y)+1, float32(ts-2), float32(ts-2), fill, false)
	if glyph != 0 && glyph != ' ' {
		text.Draw(screen, string(glyph), basicfont.Face7x13, int(x)+(ts-7)/2, int(y)+(ts+10)/2, rgba(c))
	}
}

// image loads and caches a tile image. Missing images fall back to glyphs.
func (g *Game) image(name string) *ebiten.Image {
	if name == "" || g.fsys == nil {
		return nil
	}
	if img, ok := g.images[name]; ok {
		return img
	}
	img, _, err := ebitenutil.NewImageFromFileSystem(g.fsys, name)
	if err != nil {
		g.log.Warn("cannot load tile image", "image", name, "err", err)
		img = nil
	}
	g.images[name] = img
	return img
}

// Layout returns the logical screen size: the view plus the status bar.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	v := g.run.Frame().View.Size
	return max(v.W, 240), v.H + hudHeight
}

func (g *Game) saveScore() {
	if g.scoreSaved {
		return
	}
	g.scoreSaved = true

	pr := g.run.Progress()
	if g.store == nil || pr.Score <= 0 {
		return
	}
	_, err := g.store.SaveScore(storage.ScoreEntry{
		GameID:    g.id,
		Score:     pr.Score,
		Level:     pr.Level + 1,
		Deaths:    pr.Deaths,
		Completed: g.run.State() == runner.StateAllLevelsComplete,
	})
	if err != nil {
		g.log.Warn("saving score failed", "err", err)
	}
}

// Status returns the run status.
func (g *Game) Status() runner.Status {
	s := g.run.Frame().Status
	s.State = g.run.State()
	return s
}

// Run opens a window and plays until the run ends or the window closes.
func Run(p *platform.Prepared, opts Options) (runner.Status, error) {
	g, err := New(p, opts)
	if err != nil {
		return runner.Status{}, err
	}

	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("gridquest - " + p.Game.Title())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(updatesPerSecond)

	if err := ebiten.RunGame(g); err != nil {
		return g.Status(), err
	}
	g.saveScore()
	return g.Status(), nil
}
