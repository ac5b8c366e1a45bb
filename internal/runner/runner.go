// Package runner drives a game: it sequences levels, feeds input to the
// movement engine, keeps score and hands each tick's result to the render,
// audio and HUD collaborators.
//
// The driver is single-threaded. Platforms call Tick once per timestep,
// either from their own scheduler (Bubble Tea, Ebiten) or through Loop.
package runner

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/engine"
	"github.com/vovakirdan/gridquest/internal/tilemap"
	"github.com/vovakirdan/gridquest/internal/viewport"
	"github.com/vovakirdan/gridquest/internal/world"
)

// LevelSource discovers and loads levels. *tilemap.Loader implements it.
type LevelSource interface {
	Discover() ([]string, error)
	Load(id string) (*tilemap.Level, error)
}

// Options configures a Runner. Only Levels is required.
type Options struct {
	Game   string
	Levels LevelSource
	Engine engine.Engine
	Hooks  Hooks

	// Cadence, when set, picks Engine.MoverEvery each time a level loads.
	Cadence func(Progress) int

	Renderer    Renderer
	Audio       Audio
	HUD         HUD
	Checkpoints Checkpointer

	ViewTiles viewport.Size // View size in tiles; zero means the whole grid
	Align     viewport.Align
	TileSize  int // Pixels per tile; zero uses the level's tile size

	Logger *log.Logger
	Now    func() time.Time
}

// Runner owns the world, the progress and the view of one run.
type Runner struct {
	opts  Options
	log   *log.Logger
	ids   []string
	cache map[int]*tilemap.Level

	world    *world.World
	state    State
	progress Progress
	tick     int
	message  string
	frame    Frame
	err      error
}

// New creates a runner and discovers the level sequence.
func New(opts Options) (*Runner, error) {
	if opts.Levels == nil {
		return nil, errors.New("runner: no level source")
	}
	if opts.Hooks == nil {
		opts.Hooks = BaseHooks{}
	}
	if opts.Engine == (engine.Engine{}) {
		opts.Engine = engine.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ids, err := opts.Levels.Discover()
	if err != nil {
		return nil, fmt.Errorf("discovering levels: %w", err)
	}

	return &Runner{
		opts:  opts,
		log:   opts.Logger,
		ids:   ids,
		cache: make(map[int]*tilemap.Level),
		state: StateLoading,
	}, nil
}

// Levels returns the level identifiers in play order.
func (r *Runner) Levels() []string {
	return r.ids
}

// State returns the current run state.
func (r *Runner) State() State {
	return r.state
}

// Progress returns a copy of the run progress.
func (r *Runner) Progress() Progress {
	return r.progress
}

// Frame returns the most recent frame.
func (r *Runner) Frame() Frame {
	return r.frame
}

// World returns the current level's world. Callers must not mutate it.
func (r *Runner) World() *world.World {
	return r.world
}

// SetView changes the view size in tiles, e.g. after a terminal resize,
// and redraws the current frame.
func (r *Runner) SetView(tiles viewport.Size) {
	r.opts.ViewTiles = tiles
	if r.world == nil {
		return
	}
	r.frame = r.buildFrame(nil)
	if r.opts.Renderer != nil {
		r.opts.Renderer.Render(r.frame)
	}
}

// Start begins a new run at the given 0-based level index.
func (r *Runner) Start(level int) error {
	if level < 0 || level >= len(r.ids) {
		return fmt.Errorf("runner: level %d out of range 1..%d", level+1, len(r.ids))
	}
	r.progress = Progress{Levels: len(r.ids)}
	r.tick = 0
	r.err = nil
	if err := r.loadLevel(level); err != nil {
		return err
	}
	r.publish(nil)
	return nil
}

// Tick advances the run by one timestep.
func (r *Runner) Tick(in Input) (Frame, error) {
	if r.state.Terminal() {
		return r.frame, r.err
	}
	if in.Quit {
		r.log.Info("quit requested", "level", r.progress.Level+1, "score", r.progress.Score)
		r.state = StateQuitRequested
		r.publish(nil)
		return r.frame, nil
	}

	var events []world.Event
	switch r.state {
	case StateLevelComplete:
		next := r.progress.Level + 1
		if next >= len(r.ids) {
			r.log.Info("all levels complete", "score", r.progress.Score)
			r.state = StateAllLevelsComplete
			break
		}
		if err := r.loadLevel(next); err != nil {
			return r.frame, err
		}

	case StateHeroDied:
		if err := r.loadLevel(r.progress.Level); err != nil {
			return r.frame, err
		}

	case StatePlaying:
		var err error
		events, err = r.play(in)
		if err != nil {
			return r.frame, err
		}

	case StateLoading:
		return r.frame, errors.New("runner: Tick before Start")
	}

	r.tick++
	r.publish(events)
	return r.frame, nil
}

func (r *Runner) play(in Input) ([]world.Event, error) {
	switch {
	case in.Restart:
		r.log.Debug("restart level", "level", r.progress.Level+1)
		r.progress.Score = r.progress.LevelScore
		if err := r.loadLevel(r.progress.Level); err != nil {
			return nil, err
		}
		r.message = "Level restarted"
		return nil, nil
	case in.Save:
		r.save()
		return nil, nil
	case in.Load:
		return nil, r.restore()
	}
	if in.Dir != core.DirNone {
		r.message = ""
	}

	w := r.world
	events := r.opts.Hooks.OnTick(w, r.tick)
	events = append(events, r.opts.Engine.Step(w, in.Dir, r.tick)...)

	for i := 0; i < len(events); i++ {
		ev := events[i]
		switch ev.Kind {
		case world.EventBlocked:
			if bh, ok := r.opts.Hooks.(BlockHandler); ok && ev.Entity == w.Hero.ID {
				events = append(events, bh.OnBlocked(w, ev)...)
			}
		case world.EventCollected:
			r.progress.Score += r.opts.Engine.Points(ev.Tile)
			events = append(events, r.opts.Hooks.OnCollect(w, ev)...)
		case world.EventHeroDied:
			r.opts.Hooks.OnDeath(w, ev)
			r.progress.Deaths++
			r.progress.Score = r.progress.LevelScore
			r.state = StateHeroDied
			r.log.Debug("hero died", "level", r.progress.Level+1, "at", ev.To, "by", ev.Name)
		case world.EventLevelComplete:
			r.state = StateLevelComplete
		}
	}

	// Hooks may clear the last goal without a collection.
	if r.state == StatePlaying && w.Remaining == 0 && !w.Completed && w.Hero.Alive {
		w.Completed = true
		r.state = StateLevelComplete
		events = append(events, world.Event{Kind: world.EventLevelComplete, Entity: w.Hero.ID, From: w.Hero.Pos, To: w.Hero.Pos})
	}
	if r.state == StateLevelComplete {
		r.log.Info("level complete", "level", r.progress.Level+1, "score", r.progress.Score)
	}
	r.progress.Remaining = w.Remaining
	return events, nil
}

// loadLevel builds a fresh world for level i and enters Playing.
func (r *Runner) loadLevel(i int) error {
	r.state = StateLoading
	lv, ok := r.cache[i]
	if !ok {
		var err error
		lv, err = r.opts.Levels.Load(r.ids[i])
		if err != nil {
			return r.fail(fmt.Errorf("loading level %d: %w", i+1, err))
		}
		r.cache[i] = lv
	}

	w, err := lv.Build()
	if err != nil {
		return r.fail(fmt.Errorf("building level %d: %w", i+1, err))
	}

	r.world = w
	r.progress.Level = i
	r.progress.LevelScore = r.progress.Score
	r.progress.Remaining = w.Remaining
	r.progress.Title = w.Title
	r.message = ""
	if r.opts.Cadence != nil {
		r.opts.Engine.MoverEvery = r.opts.Cadence(r.progress)
	}
	r.opts.Hooks.OnLevelStart(w, &r.progress)
	r.progress.Remaining = w.Remaining
	r.state = StatePlaying
	r.log.Debug("level loaded", "level", i+1, "id", r.ids[i], "title", w.Title, "remaining", w.Remaining)
	return nil
}

func (r *Runner) fail(err error) error {
	r.state = StateFailed
	r.err = err
	r.log.Error("level failed", "err", err)
	return err
}

func (r *Runner) save() {
	if r.opts.Checkpoints == nil {
		r.message = "Saving is not available"
		return
	}
	cp := Checkpoint{
		Game:       r.opts.Game,
		Level:      r.progress.Level,
		Score:      r.progress.Score,
		LevelScore: r.progress.LevelScore,
		Deaths:     r.progress.Deaths,
		World:      r.world.Snapshot(),
		SavedAt:    r.opts.Now(),
	}
	if err := r.opts.Checkpoints.SaveCheckpoint(cp); err != nil {
		r.log.Warn("save position failed", "err", err)
		r.message = "Could not save position"
		return
	}
	r.message = "Position saved"
}

// restore loads the saved position. A missing or unusable checkpoint only
// sets a message; failing to load the saved level fails the run.
func (r *Runner) restore() error {
	if r.opts.Checkpoints == nil {
		r.message = "Loading is not available"
		return nil
	}
	cp, ok, err := r.opts.Checkpoints.LoadCheckpoint(r.opts.Game)
	if err != nil {
		r.log.Warn("load position failed", "err", err)
		r.message = "Could not load position"
		return nil
	}
	if !ok {
		r.message = "No saved position"
		return nil
	}
	if cp.Level < 0 || cp.Level >= len(r.ids) {
		r.message = "Saved position is for a missing level"
		return nil
	}

	if cp.Level != r.progress.Level || r.world == nil {
		if err := r.loadLevel(cp.Level); err != nil {
			return err
		}
	}
	if err := r.world.Restore(cp.World); err != nil {
		r.log.Warn("saved position does not fit level", "err", err)
		if err := r.loadLevel(cp.Level); err != nil {
			return err
		}
		r.message = "Saved position does not match level"
		return nil
	}
	r.progress.Score = cp.Score
	r.progress.LevelScore = cp.LevelScore
	r.progress.Deaths = cp.Deaths
	r.progress.Remaining = r.world.Remaining
	r.message = "Position loaded"
	return nil
}

// publish builds the frame and hands it to the collaborators.
func (r *Runner) publish(events []world.Event) {
	r.frame = r.buildFrame(events)
	if r.opts.Audio != nil {
		for _, ev := range events {
			if c, ok := cueFor(ev); ok {
				r.opts.Audio.Play(c)
			}
		}
	}
	if r.opts.HUD != nil {
		r.opts.HUD.Update(r.frame.Status)
	}
	if r.opts.Renderer != nil {
		r.opts.Renderer.Render(r.frame)
	}
}

func (r *Runner) buildFrame(events []world.Event) Frame {
	f := Frame{
		Tick:   r.tick,
		Events: events,
		Status: r.status(),
	}
	w := r.world
	if w == nil {
		return f
	}

	ts := r.opts.TileSize
	if ts <= 0 {
		ts = w.TileSize
	}
	if ts <= 0 {
		ts = 1
	}
	grid := viewport.Size{W: w.Grid.Width() * ts, H: w.Grid.Height() * ts}
	view := grid
	if r.opts.ViewTiles.W > 0 && r.opts.ViewTiles.H > 0 {
		view = viewport.Size{W: r.opts.ViewTiles.W * ts, H: r.opts.ViewTiles.H * ts}
	}

	f.TileSize = ts
	f.View = viewport.Compute(grid, view, viewport.HeroCenter(w.Hero.Pos, ts), r.opts.Align)
	f.Visible = f.View.Visible(ts)
	f.Grid = w.Grid
	for _, e := range w.Entities {
		if e.Alive {
			f.Entities = append(f.Entities, *e)
		}
	}
	return f
}

func (r *Runner) status() Status {
	return Status{
		Level:     r.progress.Level + 1,
		Levels:    r.progress.Levels,
		Title:     r.progress.Title,
		Score:     r.progress.Score,
		Remaining: r.progress.Remaining,
		Deaths:    r.progress.Deaths,
		State:     r.state,
		Message:   r.message,
	}
}

func cueFor(ev world.Event) (Cue, bool) {
	switch ev.Kind {
	case world.EventBlocked:
		return CueBlocked, true
	case world.EventCollected:
		if ev.Tile.Sound != "" {
			return Cue(ev.Tile.Sound), true
		}
		return CueCollected, true
	case world.EventHeroDied:
		return CueDied, true
	case world.EventLevelComplete:
		return CueLevelComplete, true
	case world.EventCustom:
		if ev.Name != "" {
			return Cue(ev.Name), true
		}
	}
	return "", false
}
