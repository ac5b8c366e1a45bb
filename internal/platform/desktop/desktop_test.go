package desktop

import (
	"strings"
	"testing"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/runner"
)

func TestTickEvery(t *testing.T) {
	tests := []struct {
		rate, want int
	}{
		{0, 1},
		{8, 8},
		{10, 6},
		{60, 1},
		{120, 1},
		{7, 9},
	}
	for _, tt := range tests {
		if got := tickEvery(tt.rate); got != tt.want {
			t.Errorf("tickEvery(%d) = %d, expected %d", tt.rate, got, tt.want)
		}
	}
}

func TestPaletteCoversColors(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorGray; c++ {
		if _, ok := palette[c]; !ok {
			t.Errorf("palette is missing color %d", c)
		}
	}
	if rgba(core.Color(200)) != palette[core.ColorDefault] {
		t.Error("unknown colors should use the default")
	}
}

func TestBanner(t *testing.T) {
	if lines := banner(runner.Status{State: runner.StatePlaying}); lines != nil {
		t.Errorf("playing should have no banner, got %v", lines)
	}
	lines := banner(runner.Status{State: runner.StateAllLevelsComplete, Score: 42})
	if len(lines) != 3 || !strings.Contains(lines[1], "42") {
		t.Errorf("banner = %v", lines)
	}
}
