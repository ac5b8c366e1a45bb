package viewport

import (
	"testing"

	"github.com/vovakirdan/gridquest/internal/core"
)

func TestComputeClampsAtEdges(t *testing.T) {
	tests := []struct {
		name     string
		tileSize int
	}{
		{"terminal cells", 1},
		{"16px tiles", 16},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := tc.tileSize
			grid := Size{40 * ts, 30 * ts}
			view := Size{20 * ts, 15 * ts}

			v := Compute(grid, view, HeroCenter(core.Pt(35, 25), ts), AlignCenter)
			if v.Origin != core.Pt(20*ts, 15*ts) {
				t.Errorf("origin %v, expected tile (20,15)", v.Origin)
			}
			if v.Offset != (core.Point{}) {
				t.Errorf("offset %v, expected none", v.Offset)
			}
		})
	}
}

func TestComputeCenters(t *testing.T) {
	grid := Size{40, 30}
	view := Size{20, 15}

	tests := []struct {
		name     string
		hero     core.Point
		expected core.Point
	}{
		{"middle", core.Pt(20, 15), core.Pt(10, 8)},
		{"top-left corner", core.Pt(0, 0), core.Pt(0, 0)},
		{"bottom-right corner", core.Pt(39, 29), core.Pt(20, 15)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Compute(grid, view, tc.hero, AlignCenter)
			if v.Origin != tc.expected {
				t.Errorf("Compute() origin = %v, expected %v", v.Origin, tc.expected)
			}
		})
	}
}

func TestComputeSmallGridAlignment(t *testing.T) {
	grid := Size{10, 4}
	view := Size{20, 4}

	tests := []struct {
		align    Align
		expected core.Point
	}{
		{AlignStart, core.Pt(0, 0)},
		{AlignCenter, core.Pt(5, 0)},
		{AlignEnd, core.Pt(10, 0)},
	}
	for _, tc := range tests {
		v := Compute(grid, view, core.Pt(9, 3), tc.align)
		if v.Origin != (core.Point{}) {
			t.Errorf("align %d: small grid scrolled to %v", tc.align, v.Origin)
		}
		if v.Offset != tc.expected {
			t.Errorf("align %d: offset %v, expected %v", tc.align, v.Offset, tc.expected)
		}
	}
}

func TestComputeIsPure(t *testing.T) {
	grid, view := Size{100, 50}, Size{30, 20}
	a := Compute(grid, view, core.Pt(70, 12), AlignCenter)
	Compute(grid, view, core.Pt(5, 45), AlignEnd)
	b := Compute(grid, view, core.Pt(70, 12), AlignCenter)
	if a != b {
		t.Errorf("same inputs gave %+v and %+v", a, b)
	}
}

func TestVisible(t *testing.T) {
	v := Compute(Size{40 * 16, 30 * 16}, Size{20*16 + 8, 15 * 16}, HeroCenter(core.Pt(35, 25), 16), AlignCenter)
	r := v.Visible(16)
	if r.Right() != 40 || r.Bottom() != 30 {
		t.Errorf("visible %+v should reach the grid edge", r)
	}

	v = Compute(Size{40, 30}, Size{20, 15}, core.Pt(0, 0), AlignCenter)
	r = v.Visible(1)
	if r != core.NewRect(0, 0, 20, 15) {
		t.Errorf("Visible() = %+v", r)
	}
}

func TestTileToScreen(t *testing.T) {
	v := Compute(Size{40, 30}, Size{20, 15}, core.Pt(35, 25), AlignCenter)
	if p := v.TileToScreen(core.Pt(20, 15), 1); p != core.Pt(0, 0) {
		t.Errorf("TileToScreen() = %v, expected (0,0)", p)
	}

	small := Compute(Size{10, 15}, Size{20, 15}, core.Pt(0, 0), AlignCenter)
	if p := small.TileToScreen(core.Pt(0, 0), 1); p != core.Pt(5, 0) {
		t.Errorf("TileToScreen() with offset = %v, expected (5,0)", p)
	}
}

func TestParseAlign(t *testing.T) {
	for s, expected := range map[string]Align{"": AlignCenter, "start": AlignStart, "end": AlignEnd} {
		got, err := ParseAlign(s)
		if err != nil || got != expected {
			t.Errorf("ParseAlign(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseAlign("diagonal"); err == nil {
		t.Error("expected error for unknown alignment")
	}
}
