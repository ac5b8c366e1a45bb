package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/games/diamonds"
	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/storage"
)

// isolate points HOME and the working directory at temp dirs so config
// lookups never see the developer's files.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func tinyConfig(t *testing.T) core.RuntimeConfig {
	t.Helper()
	dir := isolate(t)
	levels := filepath.Join(dir, "levels")
	if err := os.MkdirAll(levels, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(levels, "a.yaml"), []byte(tinyLevel), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return core.RuntimeConfig{ScreenW: 20, ScreenH: 8, LevelsPath: levels, Difficulty: "fixed"}
}

func newGame(t *testing.T, cfg core.RuntimeConfig, store *storage.Store, embedded bool) GameModel {
	t.Helper()
	p, err := platform.Prepare(&diamonds.Game{}, cfg)
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	m, err := NewGameModel(p, Env{Store: store}, cfg, embedded)
	if err != nil {
		t.Fatalf("NewGameModel() failed: %v", err)
	}
	return m
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return gm, cmd
}

func TestGameModelPlaysToCompletion(t *testing.T) {
	cfg := tinyConfig(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m := newGame(t, cfg, store, false)
	if m.Init() == nil {
		t.Fatal("Init() should start ticking")
	}
	if !strings.Contains(m.View(), "Tiny") {
		t.Error("first frame should be drawn before the first tick")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Fatal("ticking should continue after level complete")
	}
	if st := m.Status(); st.State != runner.StateLevelComplete || st.Score != 10 {
		t.Fatalf("status after move = %+v", st)
	}

	m, cmd = update(t, m, TickMsg{})
	if cmd != nil {
		t.Error("ticking should stop once the run is over")
	}
	if m.Status().State != runner.StateAllLevelsComplete {
		t.Fatalf("state = %v, expected all levels complete", m.Status().State)
	}

	scores, err := store.TopScores(diamonds.ID, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 10 || !scores[0].Completed || scores[0].Level != 1 {
		t.Fatalf("saved scores = %+v", scores)
	}

	// A stray tick does not save twice.
	m, _ = update(t, m, TickMsg{})
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.IsQuitting() {
		t.Error("Enter on a finished run should quit")
	}
	if scores, _ := store.AllScores(diamonds.ID); len(scores) != 1 {
		t.Errorf("expected one saved score, got %d", len(scores))
	}
}

func TestGameModelQuitReturnsToMenu(t *testing.T) {
	cfg := tinyConfig(t)
	m := newGame(t, cfg, nil, true)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m, cmd := update(t, m, TickMsg{})
	if cmd != nil {
		t.Error("embedded model should not send commands when leaving")
	}
	if !m.BackToMenu() || m.IsQuitting() {
		t.Errorf("BackToMenu() = %v, IsQuitting() = %v", m.BackToMenu(), m.IsQuitting())
	}
	if m.Status().State != runner.StateQuitRequested {
		t.Errorf("state = %v, expected quit", m.Status().State)
	}
}

func TestGameModelSaveWithoutStore(t *testing.T) {
	cfg := tinyConfig(t)
	m := newGame(t, cfg, nil, false)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m, _ = update(t, m, TickMsg{})
	if got := m.Status().Message; got != "Saving is not available" {
		t.Errorf("message = %q", got)
	}
}

func TestGameModelCheckpoints(t *testing.T) {
	cfg := tinyConfig(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m := newGame(t, cfg, store, false)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m, _ = update(t, m, TickMsg{})
	if got := m.Status().Message; got != "Position saved" {
		t.Fatalf("message = %q", got)
	}
	if _, ok, err := store.LoadCheckpoint(diamonds.ID); err != nil || !ok {
		t.Fatalf("LoadCheckpoint() = %v, %v", ok, err)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m, _ = update(t, m, TickMsg{})
	if got := m.Status().Message; got != "Position loaded" {
		t.Errorf("message = %q", got)
	}
}

func TestGameModelResize(t *testing.T) {
	cfg := tinyConfig(t)
	m := newGame(t, cfg, nil, false)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	if m.screen.Width() != 40 || m.screen.Height() != 12 {
		t.Fatalf("screen = %dx%d, expected 40x12", m.screen.Width(), m.screen.Height())
	}
	// Map area is 40x9; the 2x1 grid is centered in it.
	if got := m.screen.Get(19, 6); got != '@' {
		t.Errorf("hero cell after resize = %q", got)
	}
}

func TestGameModelStartLevelOutOfRange(t *testing.T) {
	cfg := tinyConfig(t)
	cfg.StartLevel = 3
	p, err := platform.Prepare(&diamonds.Game{}, cfg)
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	defer p.Close()

	if _, err := NewGameModel(p, Env{}, cfg, false); err == nil {
		t.Error("expected error for a start level past the last level")
	}
}
