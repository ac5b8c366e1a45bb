package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/games/diamonds"
	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/storage"
)

func TestParseScript(t *testing.T) {
	inputs, err := parseScript("UDLR. r s l")
	if err != nil {
		t.Fatalf("parseScript() failed: %v", err)
	}
	want := []runner.Input{
		{Dir: core.DirUp},
		{Dir: core.DirDown},
		{Dir: core.DirLeft},
		{Dir: core.DirRight},
		{},
		{Restart: true},
		{Save: true},
		{Load: true},
	}
	if len(inputs) != len(want) {
		t.Fatalf("parseScript() returned %d inputs, expected %d", len(inputs), len(want))
	}
	for i := range want {
		if inputs[i] != want[i] {
			t.Errorf("input %d = %+v, expected %+v", i, inputs[i], want[i])
		}
	}

	if _, err := parseScript("RRX"); err == nil {
		t.Error("expected error for unknown move")
	}
}

func TestRunHeadless(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	level := `title: Tiny
size: {w: 3, h: 1}
tileset:
  - {id: 1, name: hero, type: hero-start, glyph: "@"}
  - {id: 2, name: diamond, type: collectible, glyph: "*"}
data: [1, 2, 2]
`
	levels := filepath.Join(dir, "levels")
	if err := os.MkdirAll(levels, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(levels, "a.yaml"), []byte(level), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	p, err := platform.Prepare(&diamonds.Game{}, core.RuntimeConfig{LevelsPath: levels, Difficulty: "fixed"})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	defer p.Close()

	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	inputs, _ := parseScript("RR.")
	status, err := runHeadless(p, store, 0, inputs, runner.NewLoop(1000))
	if err != nil {
		t.Fatalf("runHeadless() failed: %v", err)
	}
	if status.State != runner.StateAllLevelsComplete || status.Score != 20 {
		t.Errorf("status = %+v", status)
	}

	high, err := store.HighScore(diamonds.ID)
	if err != nil || high != 20 {
		t.Errorf("HighScore() = %d, %v; expected 20", high, err)
	}
}

func TestRunHeadlessScriptRunsOut(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	p, err := platform.Prepare(&diamonds.Game{}, core.RuntimeConfig{})
	if err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	defer p.Close()

	status, err := runHeadless(p, nil, 2, nil, runner.NewLoop(1000))
	if err != nil {
		t.Fatalf("runHeadless() failed: %v", err)
	}
	if status.State != runner.StateQuitRequested || status.Level != 2 {
		t.Errorf("status = %+v", status)
	}
}
