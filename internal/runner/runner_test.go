package runner

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/engine"
	"github.com/vovakirdan/gridquest/internal/tilemap"
	"github.com/vovakirdan/gridquest/internal/viewport"
	"github.com/vovakirdan/gridquest/internal/world"
)

const testTileset = `
tileset:
  - {id: 1, name: wall, type: solid, glyph: "#"}
  - {id: 2, name: gem, type: collectible, glyph: "*", sound: chime}
  - {id: 3, name: hero, type: hero-start, glyph: "@"}
  - {id: 4, name: chaser, type: empty, glyph: "M", spawn: chase}
`

func level(size, data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("size: " + size + "\n" + testTileset + "data: " + data + "\n")}
}

var (
	right = Input{Dir: core.DirRight}
	left  = Input{Dir: core.DirLeft}
	idle  = Input{}
)

type recorder struct {
	cues     []Cue
	statuses []Status
	frames   int
}

func (r *recorder) Play(c Cue)      { r.cues = append(r.cues, c) }
func (r *recorder) Update(s Status) { r.statuses = append(r.statuses, s) }
func (r *recorder) Render(f Frame)  { r.frames++ }

type memCheckpoints struct {
	saved map[string]Checkpoint
}

func (m *memCheckpoints) SaveCheckpoint(cp Checkpoint) error {
	if m.saved == nil {
		m.saved = make(map[string]Checkpoint)
	}
	m.saved[cp.Game] = cp
	return nil
}

func (m *memCheckpoints) LoadCheckpoint(game string) (Checkpoint, bool, error) {
	cp, ok := m.saved[game]
	return cp, ok, nil
}

func newRunner(t *testing.T, fsys fstest.MapFS, opts Options) *Runner {
	t.Helper()
	opts.Levels = tilemap.NewLoader(fsys)
	if opts.Engine == (engine.Engine{}) {
		opts.Engine = engine.Engine{MoverEvery: 1, ScorePer: 10}
	}
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := r.Start(0); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return r
}

func mustTick(t *testing.T, r *Runner, in Input) Frame {
	t.Helper()
	f, err := r.Tick(in)
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	return f
}

func twoLevels() fstest.MapFS {
	return fstest.MapFS{
		"a.yaml": level("{w: 3, h: 1}", "[3, 2, 2]"),
		"b.yaml": level("{w: 2, h: 1}", "[3, 2]"),
	}
}

func TestRunThroughLevels(t *testing.T) {
	r := newRunner(t, twoLevels(), Options{})

	if r.State() != StatePlaying || r.Progress().Levels != 2 {
		t.Fatalf("after Start: state %v progress %+v", r.State(), r.Progress())
	}

	mustTick(t, r, right)
	f := mustTick(t, r, right)
	if r.State() != StateLevelComplete {
		t.Fatalf("state %v, expected level-complete", r.State())
	}
	if f.Status.Score != 20 || f.Status.Remaining != 0 {
		t.Errorf("status %+v", f.Status)
	}

	mustTick(t, r, idle)
	p := r.Progress()
	if r.State() != StatePlaying || p.Level != 1 || p.LevelScore != 20 {
		t.Fatalf("after transition: state %v progress %+v", r.State(), p)
	}

	mustTick(t, r, right)
	mustTick(t, r, idle)
	if r.State() != StateAllLevelsComplete || !r.State().Terminal() {
		t.Fatalf("state %v, expected all-levels-complete", r.State())
	}
	if r.Progress().Score != 30 {
		t.Errorf("final score %d, expected 30", r.Progress().Score)
	}

	if _, err := r.Tick(right); err != nil {
		t.Errorf("Tick() after the end failed: %v", err)
	}
	if r.State() != StateAllLevelsComplete {
		t.Error("terminal state changed")
	}
}

func TestDeathResetsLevel(t *testing.T) {
	// Hero, gem, gap, chaser, gem.
	r := newRunner(t, fstest.MapFS{
		"d.yaml": level("{w: 5, h: 1}", "[3, 2, 0, 4, 2]"),
	}, Options{})

	mustTick(t, r, right)
	if r.Progress().Score != 10 {
		t.Fatalf("score %d after collecting", r.Progress().Score)
	}

	mustTick(t, r, right) // chaser now stands on (2,0)
	if r.State() != StateHeroDied {
		t.Fatalf("state %v, expected hero-died", r.State())
	}
	p := r.Progress()
	if p.Score != 0 || p.Deaths != 1 {
		t.Errorf("after death: progress %+v", p)
	}

	mustTick(t, r, idle)
	if r.State() != StatePlaying {
		t.Fatalf("state %v, expected playing", r.State())
	}
	w := r.World()
	if w.Hero.Pos != core.Pt(0, 0) || !w.Hero.Alive {
		t.Errorf("hero %+v after reload", w.Hero)
	}
	if d, _ := w.Grid.OccupantAt(core.Pt(1, 0)); d.Name != "gem" {
		t.Errorf("gem not restored, found %q", d.Name)
	}
	if r.Progress().Remaining != 2 {
		t.Errorf("Remaining = %d, expected 2", r.Progress().Remaining)
	}
}

func TestQuit(t *testing.T) {
	r := newRunner(t, twoLevels(), Options{})

	mustTick(t, r, Input{Dir: core.DirRight, Quit: true})
	if r.State() != StateQuitRequested {
		t.Fatalf("state %v, expected quit", r.State())
	}
	if r.Progress().Score != 0 {
		t.Error("quit tick should not move the hero")
	}
}

func TestRestart(t *testing.T) {
	r := newRunner(t, twoLevels(), Options{})

	mustTick(t, r, right)
	f := mustTick(t, r, Input{Restart: true})
	if r.Progress().Score != 0 {
		t.Errorf("score %d after restart", r.Progress().Score)
	}
	if r.World().Hero.Pos != core.Pt(0, 0) {
		t.Errorf("hero at %v after restart", r.World().Hero.Pos)
	}
	if f.Status.Message == "" {
		t.Error("restart should set a status message")
	}
	if r.Progress().Deaths != 0 {
		t.Error("restart counted as a death")
	}
}

func TestSaveAndLoadPosition(t *testing.T) {
	store := &memCheckpoints{}
	r := newRunner(t, twoLevels(), Options{Game: "test", Checkpoints: store})

	mustTick(t, r, right)
	f := mustTick(t, r, Input{Save: true})
	if f.Status.Message != "Position saved" {
		t.Errorf("message %q", f.Status.Message)
	}
	cp, ok, _ := store.LoadCheckpoint("test")
	if !ok || cp.Level != 0 || cp.Score != 10 {
		t.Fatalf("checkpoint %+v, %v", cp, ok)
	}

	mustTick(t, r, right)
	if r.State() != StateLevelComplete {
		t.Fatalf("state %v", r.State())
	}
	mustTick(t, r, idle) // now on level 2
	mustTick(t, r, Input{Load: true})

	p := r.Progress()
	if p.Level != 0 || p.Score != 10 || p.Remaining != 1 {
		t.Errorf("after load: progress %+v", p)
	}
	if r.World().Hero.Pos != core.Pt(1, 0) {
		t.Errorf("hero at %v after load", r.World().Hero.Pos)
	}
	if r.State() != StatePlaying {
		t.Errorf("state %v after load", r.State())
	}
}

func TestLoadWithoutCheckpoint(t *testing.T) {
	r := newRunner(t, twoLevels(), Options{Game: "test", Checkpoints: &memCheckpoints{}})

	f := mustTick(t, r, Input{Load: true})
	if f.Status.Message != "No saved position" {
		t.Errorf("message %q", f.Status.Message)
	}

	r2 := newRunner(t, twoLevels(), Options{})
	f = mustTick(t, r2, Input{Save: true})
	if f.Status.Message == "" || r2.State() != StatePlaying {
		t.Errorf("save without store: message %q state %v", f.Status.Message, r2.State())
	}
}

func TestStartLevelSelection(t *testing.T) {
	r, err := New(Options{Levels: tilemap.NewLoader(twoLevels())})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Start(1); err != nil {
		t.Fatalf("Start(1) failed: %v", err)
	}
	if r.Progress().Level != 1 || r.Progress().Title != "b" {
		t.Errorf("progress %+v", r.Progress())
	}
	if err := r.Start(5); err == nil {
		t.Error("expected error for out-of-range level")
	}
	if _, err := r.Tick(idle); err != nil {
		t.Errorf("runner unusable after rejected Start: %v", err)
	}
}

func TestTickBeforeStart(t *testing.T) {
	r, err := New(Options{Levels: tilemap.NewLoader(twoLevels())})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Tick(idle); err == nil {
		t.Error("expected error for Tick before Start")
	}
}

func TestBrokenLevelFails(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": level("{w: 2, h: 1}", "[3, 2]"),
		"b.yaml": level("{w: 2, h: 1}", "[2, 2]"), // no hero
	}
	r := newRunner(t, fsys, Options{})

	mustTick(t, r, right)
	_, err := r.Tick(idle)
	var lfe *tilemap.LevelFormatError
	if !errors.As(err, &lfe) {
		t.Fatalf("expected LevelFormatError, got %v", err)
	}
	if r.State() != StateFailed {
		t.Errorf("state %v, expected failed", r.State())
	}
	if _, err := r.Tick(idle); err == nil {
		t.Error("failed runner should keep returning its error")
	}
}

func TestCollaborators(t *testing.T) {
	rec := &recorder{}
	r := newRunner(t, twoLevels(), Options{Renderer: rec, Audio: rec, HUD: rec})

	mustTick(t, r, left)
	mustTick(t, r, right)
	mustTick(t, r, right)

	expected := []Cue{CueBlocked, "chime", "chime", CueLevelComplete}
	if len(rec.cues) != len(expected) {
		t.Fatalf("cues %v, expected %v", rec.cues, expected)
	}
	for i := range expected {
		if rec.cues[i] != expected[i] {
			t.Errorf("cue %d = %q, expected %q", i, rec.cues[i], expected[i])
		}
	}

	// Start plus three ticks.
	if rec.frames != 4 || len(rec.statuses) != 4 {
		t.Errorf("frames %d statuses %d, expected 4", rec.frames, len(rec.statuses))
	}
	last := rec.statuses[len(rec.statuses)-1]
	if last.State != StateLevelComplete || last.Level != 1 || last.Levels != 2 {
		t.Errorf("last status %+v", last)
	}
}

func TestFrameView(t *testing.T) {
	fsys := fstest.MapFS{
		"wide.yaml": level("{w: 10, h: 1}", "[3, 0, 0, 0, 0, 0, 0, 0, 0, 2]"),
	}
	r := newRunner(t, fsys, Options{ViewTiles: viewport.Size{W: 4, H: 1}, TileSize: 1})

	f := r.Frame()
	if f.Visible != core.NewRect(0, 0, 4, 1) {
		t.Errorf("visible %+v", f.Visible)
	}
	for i := 0; i < 8; i++ {
		f = mustTick(t, r, right)
	}
	if f.View.Origin != core.Pt(6, 0) {
		t.Errorf("origin %v, expected clamped (6,0)", f.View.Origin)
	}
	if e, ok := f.EntityAt(core.Pt(8, 0)); !ok || !e.IsHero() {
		t.Error("hero missing from frame")
	}
	if d := f.TileAt(core.Pt(9, 0)); d.Name != "gem" {
		t.Errorf("TileAt() = %q", d.Name)
	}
}

type testHooks struct {
	BaseHooks
	started   int
	collected int
	deaths    int
}

func (h *testHooks) OnLevelStart(w *world.World, p *Progress) { h.started++ }

func (h *testHooks) OnTick(w *world.World, tick int) []world.Event {
	if tick == 0 {
		return []world.Event{{Kind: world.EventCustom, Name: "rumble"}}
	}
	return nil
}

func (h *testHooks) OnCollect(w *world.World, ev world.Event) []world.Event {
	h.collected++
	return nil
}

func (h *testHooks) OnDeath(w *world.World, ev world.Event) { h.deaths++ }

func TestHooks(t *testing.T) {
	hooks := &testHooks{}
	rec := &recorder{}
	r := newRunner(t, fstest.MapFS{
		"d.yaml": level("{w: 5, h: 1}", "[3, 2, 0, 4, 2]"),
	}, Options{Hooks: hooks, Audio: rec})

	mustTick(t, r, right)
	mustTick(t, r, right)
	mustTick(t, r, idle)

	if hooks.started != 2 || hooks.collected != 1 || hooks.deaths != 1 {
		t.Errorf("hooks called: %+v", hooks)
	}
	if len(rec.cues) == 0 || rec.cues[0] != "rumble" {
		t.Errorf("custom event cue missing: %v", rec.cues)
	}
}

// clearHooks removes every goal on the first tick.
type clearHooks struct{ BaseHooks }

func (clearHooks) OnTick(w *world.World, tick int) []world.Event {
	w.Grid.Each(func(p core.Point, d world.TileDef) {
		if d.Goal {
			w.Grid.SetTile(p, world.EmptyTileID)
		}
	})
	w.Remaining = w.Grid.CountGoals()
	return nil
}

func TestHooksCanCompleteLevel(t *testing.T) {
	r := newRunner(t, twoLevels(), Options{Hooks: clearHooks{}})

	f := mustTick(t, r, idle)
	if r.State() != StateLevelComplete {
		t.Fatalf("state %v, expected level-complete", r.State())
	}
	n := 0
	for _, ev := range f.Events {
		if ev.Kind == world.EventLevelComplete {
			n++
		}
	}
	if n != 1 {
		t.Errorf("%d LevelComplete events, expected 1", n)
	}
}

func TestInputFrom(t *testing.T) {
	f := core.NewInputFrame()
	f.Set(core.ActionUp)
	f.Set(core.ActionLeft)
	f.Set(core.ActionSave)

	in := InputFrom(f)
	if in.Dir != core.DirLeft || !in.Save || in.Quit || in.Load || in.Restart {
		t.Errorf("InputFrom() = %+v", in)
	}
}

func TestCadencePerLevel(t *testing.T) {
	var levels []int
	r := newRunner(t, twoLevels(), Options{Cadence: func(p Progress) int {
		levels = append(levels, p.Level)
		return p.Level + 1
	}})

	mustTick(t, r, right)
	mustTick(t, r, right)
	mustTick(t, r, idle)
	if len(levels) != 2 || levels[0] != 0 || levels[1] != 1 {
		t.Errorf("cadence consulted for levels %v, expected [0 1]", levels)
	}
	if r.opts.Engine.MoverEvery != 2 {
		t.Errorf("MoverEvery = %d, expected 2 on the second level", r.opts.Engine.MoverEvery)
	}
}

func TestSetViewRedraws(t *testing.T) {
	fsys := fstest.MapFS{
		"wide.yaml": level("{w: 10, h: 1}", "[3, 0, 0, 0, 0, 0, 0, 0, 0, 2]"),
	}
	rec := &recorder{}
	r := newRunner(t, fsys, Options{Renderer: rec, TileSize: 1})
	before := rec.frames

	r.SetView(viewport.Size{W: 3, H: 1})
	if rec.frames != before+1 {
		t.Errorf("renderer called %d times, expected one redraw", rec.frames-before)
	}
	if r.Frame().Visible != core.NewRect(0, 0, 3, 1) {
		t.Errorf("visible %+v after resize", r.Frame().Visible)
	}
}
