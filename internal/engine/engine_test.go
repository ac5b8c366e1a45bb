package engine

import (
	"testing"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/world"
)

const (
	tWall = 1
	tGem  = 2
)

// buildWorld makes a world from rows of characters:
// '#' wall, '*' gem, '@' hero, 'p' patrol mover facing left,
// 't' turning mover facing right, 'c' chaser, 's' static mover.
func buildWorld(t *testing.T, rows ...string) *world.World {
	t.Helper()
	ts, err := world.NewTileset([]world.TileDef{
		{ID: tWall, Name: "wall", Kind: world.KindSolid, Solid: true, Glyph: '#'},
		{ID: tGem, Name: "gem", Kind: world.KindCollectible, Scoring: true, Goal: true, Glyph: '*'},
	})
	if err != nil {
		t.Fatal(err)
	}

	w, h := len(rows[0]), len(rows)
	cells := make([]int, 0, w*h)
	var hero *world.Entity
	var movers []*world.Entity
	for y, row := range rows {
		for x, ch := range row {
			cell := world.EmptyTileID
			pos := core.Pt(x, y)
			mover := func(behavior string, facing core.Dir) {
				movers = append(movers, &world.Entity{
					Role: world.RoleMover, Pos: pos, Behavior: behavior, Facing: facing,
					Alive: true, Name: behavior,
				})
			}
			switch ch {
			case '#':
				cell = tWall
			case '*':
				cell = tGem
			case '@':
				hero = &world.Entity{ID: 1, Role: world.RoleHero, Pos: pos, Alive: true}
			case 'p':
				mover(world.BehaviorPatrol, core.DirLeft)
			case 't':
				mover(world.BehaviorTurn, core.DirRight)
			case 'c':
				mover(world.BehaviorChase, core.DirNone)
			case 's':
				mover(world.BehaviorStatic, core.DirNone)
			}
			cells = append(cells, cell)
		}
	}

	g, err := world.NewGrid(w, h, ts, cells)
	if err != nil {
		t.Fatal(err)
	}
	entities := []*world.Entity{hero}
	for i, m := range movers {
		m.ID = world.EntityID(i + 2)
		entities = append(entities, m)
	}
	wld, err := world.New(g, entities)
	if err != nil {
		t.Fatal(err)
	}
	return wld
}

func kinds(events []world.Event) []world.EventKind {
	out := make([]world.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func countKind(events []world.Event, k world.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func TestHeroMovesAroundSolid(t *testing.T) {
	w := buildWorld(t,
		"@..",
		".#.",
		"...",
	)
	en := New()

	steps := []struct {
		dir      core.Dir
		expected core.Point
		kind     world.EventKind
	}{
		{core.DirRight, core.Pt(1, 0), world.EventMoved},
		{core.DirDown, core.Pt(1, 0), world.EventBlocked},
		{core.DirRight, core.Pt(2, 0), world.EventMoved},
		{core.DirDown, core.Pt(2, 1), world.EventMoved},
		{core.DirRight, core.Pt(2, 1), world.EventBlocked},
	}

	for i, s := range steps {
		events := en.Step(w, s.dir, i)
		if len(events) != 1 || events[0].Kind != s.kind {
			t.Fatalf("step %d (%v): events %v, expected one %v", i, s.dir, kinds(events), s.kind)
		}
		if w.Hero.Pos != s.expected {
			t.Errorf("step %d: hero at %v, expected %v", i, w.Hero.Pos, s.expected)
		}
	}
}

func TestBlockedLeavesGridUntouched(t *testing.T) {
	w := buildWorld(t, "@#")
	before := w.Grid.Tiles()

	events := New().Step(w, core.DirRight, 0)
	if len(events) != 1 || events[0].Kind != world.EventBlocked {
		t.Fatalf("expected Blocked, got %v", kinds(events))
	}
	if events[0].Tile.ID != tWall {
		t.Errorf("Blocked event should carry the wall tile, got %+v", events[0].Tile)
	}
	after := w.Grid.Tiles()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("blocked move changed the grid")
		}
	}
	if id, _ := w.Grid.EntityAt(core.Pt(0, 0)); id != w.Hero.ID {
		t.Error("hero occupancy lost after blocked move")
	}
}

func TestBlockedAtEdgeNeverQueriesOutside(t *testing.T) {
	w := buildWorld(t, "@")
	en := New()
	for _, d := range []core.Dir{core.DirUp, core.DirDown, core.DirLeft, core.DirRight} {
		events := en.Step(w, d, 0)
		if len(events) != 1 || events[0].Kind != world.EventBlocked {
			t.Errorf("%v: expected Blocked, got %v", d, kinds(events))
		}
	}
}

func TestCollectTwoThenComplete(t *testing.T) {
	for _, order := range [][]core.Dir{
		{core.DirRight, core.DirLeft, core.DirLeft},
		{core.DirLeft, core.DirRight, core.DirRight},
	} {
		w := buildWorld(t, "*@*")
		en := Engine{ScorePer: 25}

		var all []world.Event
		score := 0
		for i, d := range order {
			events := en.Step(w, d, i)
			for _, ev := range events {
				if ev.Kind == world.EventCollected {
					score += en.Points(ev.Tile)
				}
			}
			all = append(all, events...)
		}

		if n := countKind(all, world.EventCollected); n != 2 {
			t.Errorf("order %v: %d Collected events, expected 2", order, n)
		}
		if n := countKind(all, world.EventLevelComplete); n != 1 {
			t.Errorf("order %v: %d LevelComplete events, expected 1", order, n)
		}
		if last := all[len(all)-1]; last.Kind != world.EventLevelComplete {
			t.Errorf("order %v: last event %v, expected LevelComplete", order, last.Kind)
		}
		if score != 50 {
			t.Errorf("order %v: score %d, expected 50", order, score)
		}
		if !w.Completed || w.Remaining != 0 {
			t.Errorf("order %v: Completed=%v Remaining=%d", order, w.Completed, w.Remaining)
		}
	}
}

func TestNoEventsAfterComplete(t *testing.T) {
	w := buildWorld(t, "@*.")
	en := New()
	en.Step(w, core.DirRight, 0)
	if !w.Completed {
		t.Fatal("expected level complete")
	}
	if events := en.Step(w, core.DirRight, 1); len(events) != 0 {
		t.Errorf("expected no events after completion, got %v", kinds(events))
	}
}

func TestSimultaneousCollisionKillsHero(t *testing.T) {
	// Hero and patroller both target (1,0).
	w := buildWorld(t, "@.p")

	events := New().Step(w, core.DirRight, 0)
	if n := countKind(events, world.EventHeroDied); n != 1 {
		t.Fatalf("expected 1 HeroDied, got %v", kinds(events))
	}
	if events[len(events)-1].Kind != world.EventHeroDied {
		t.Error("HeroDied should end the tick")
	}
	if w.Hero.Alive {
		t.Error("hero should be dead")
	}
}

func TestHeroWalksIntoMover(t *testing.T) {
	w := buildWorld(t, "@s")

	events := New().Step(w, core.DirRight, 0)
	if len(events) != 1 || events[0].Kind != world.EventHeroDied {
		t.Fatalf("expected HeroDied, got %v", kinds(events))
	}
	if events[0].Name != world.BehaviorStatic {
		t.Errorf("event should name the mover, got %q", events[0].Name)
	}
}

func TestPatrolReverses(t *testing.T) {
	w := buildWorld(t,
		"@...",
		"#p.#",
	)
	en := New()
	m := w.Movers()[0]

	en.Step(w, core.DirNone, 0) // blocked by wall, turns around
	if m.Pos != core.Pt(1, 1) || m.Facing != core.DirRight {
		t.Fatalf("after block: pos %v facing %v", m.Pos, m.Facing)
	}
	en.Step(w, core.DirNone, 1)
	if m.Pos != core.Pt(2, 1) {
		t.Errorf("patroller at %v, expected (2,1)", m.Pos)
	}
}

func TestTurnRotatesClockwise(t *testing.T) {
	w := buildWorld(t,
		"@..",
		".t#",
		"...",
	)
	m := w.Movers()[0]

	New().Step(w, core.DirNone, 0)
	if m.Facing != core.DirDown || m.Pos != core.Pt(1, 1) {
		t.Errorf("turner: pos %v facing %v, expected (1,1) down", m.Pos, m.Facing)
	}
}

func TestChaseXAxisFirst(t *testing.T) {
	w := buildWorld(t,
		"@...",
		"....",
		"...c",
	)
	m := w.Movers()[0]
	en := New()

	en.Step(w, core.DirNone, 0)
	if m.Pos != core.Pt(2, 2) {
		t.Errorf("chaser at %v, expected (2,2)", m.Pos)
	}

	w2 := buildWorld(t,
		"@..",
		"...",
		"#c.",
	)
	m2 := w2.Movers()[0]
	en.Step(w2, core.DirNone, 0)
	if m2.Pos != core.Pt(1, 1) {
		t.Errorf("chaser should fall back to the y axis, at %v", m2.Pos)
	}
}

func TestMoverEvery(t *testing.T) {
	w := buildWorld(t, "@...c")
	m := w.Movers()[0]
	en := Engine{MoverEvery: 3}

	en.Step(w, core.DirNone, 1)
	en.Step(w, core.DirNone, 2)
	if m.Pos != core.Pt(4, 0) {
		t.Fatalf("mover moved off-cadence to %v", m.Pos)
	}
	en.Step(w, core.DirNone, 3)
	if m.Pos != core.Pt(3, 0) {
		t.Errorf("mover at %v, expected (3,0)", m.Pos)
	}
}

func TestMoversNeverCollect(t *testing.T) {
	w := buildWorld(t, "@.*c")
	m := w.Movers()[0]

	events := New().Step(w, core.DirNone, 0)
	if m.Pos != core.Pt(2, 0) {
		t.Fatalf("chaser at %v", m.Pos)
	}
	if countKind(events, world.EventCollected) != 0 {
		t.Error("mover collected a gem")
	}
	if w.Remaining != 1 {
		t.Errorf("Remaining = %d, expected 1", w.Remaining)
	}
}

func TestFirstDeathEndsTick(t *testing.T) {
	// The first chaser kills the hero; the second never moves.
	w := buildWorld(t, "c@.c")
	second := w.Movers()[1]

	events := New().Step(w, core.DirNone, 0)
	if countKind(events, world.EventHeroDied) != 1 {
		t.Fatalf("expected one death, got %v", kinds(events))
	}
	if second.Pos != core.Pt(3, 0) {
		t.Errorf("second chaser moved to %v after the death", second.Pos)
	}
}

func TestPoints(t *testing.T) {
	en := Engine{ScorePer: 10}
	tests := []struct {
		value, expected int
	}{
		{0, 10},
		{5, 5},
		{-1, 0},
	}
	for _, tc := range tests {
		if got := en.Points(world.TileDef{Value: tc.value}); got != tc.expected {
			t.Errorf("Points(value %d) = %d, expected %d", tc.value, got, tc.expected)
		}
	}
}
