package runner

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/vovakirdan/gridquest/internal/core"
)

// fakeClock advances only when the loop waits. stalls add extra time to
// successive waits, as if rendering had been slow.
type fakeClock struct {
	now    time.Time
	stalls []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	if len(c.stalls) > 0 {
		d += c.stalls[0]
		c.stalls = c.stalls[1:]
	}
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func TestLoopRunsUntilTerminal(t *testing.T) {
	r := newRunner(t, twoLevels(), Options{})
	clock := &fakeClock{now: time.Unix(0, 0)}
	loop := &Loop{Step: 100 * time.Millisecond, Clock: clock}

	script := []core.Dir{core.DirRight, core.DirRight, core.DirNone, core.DirRight, core.DirNone}
	polls := 0
	err := loop.Run(context.Background(), r, func() Input {
		in := Input{}
		if polls < len(script) {
			in.Dir = script[polls]
		}
		polls++
		return in
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if r.State() != StateAllLevelsComplete {
		t.Errorf("state %v", r.State())
	}
	if polls != len(script) {
		t.Errorf("%d ticks, expected %d", polls, len(script))
	}
	if elapsed := clock.now.Sub(time.Unix(0, 0)); elapsed != 500*time.Millisecond {
		t.Errorf("elapsed %v, expected one step per tick", elapsed)
	}
}

func TestLoopCatchUpIsBounded(t *testing.T) {
	r := newRunner(t, twoLevels(), Options{})
	start := time.Unix(0, 0)
	clock := &fakeClock{now: start, stalls: []time.Duration{900 * time.Millisecond}}
	loop := &Loop{Step: 100 * time.Millisecond, Clock: clock, MaxCatchUp: 5}

	var at []time.Duration
	err := loop.Run(context.Background(), r, func() Input {
		at = append(at, clock.now.Sub(start))
		return Input{Quit: len(at) == 7}
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// Five ticks after the one-second stall, then the backlog is dropped.
	for i := 0; i < 5; i++ {
		if at[i] != time.Second {
			t.Errorf("tick %d at %v, expected 1s", i, at[i])
		}
	}
	if at[5] != 1100*time.Millisecond || at[6] != 1200*time.Millisecond {
		t.Errorf("ticks after catch-up at %v, %v", at[5], at[6])
	}
	if r.State() != StateQuitRequested {
		t.Errorf("state %v", r.State())
	}
}

func TestLoopHonorsContext(t *testing.T) {
	fsys := fstest.MapFS{"a.yaml": level("{w: 3, h: 1}", "[3, 0, 2]")}
	r := newRunner(t, fsys, Options{})
	loop := &Loop{Step: 100 * time.Millisecond, Clock: &fakeClock{now: time.Unix(0, 0)}}

	ctx, cancel := context.WithCancel(context.Background())
	polls := 0
	err := loop.Run(ctx, r, func() Input {
		polls++
		if polls == 3 {
			cancel()
		}
		return Input{}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, expected context.Canceled", err)
	}
	if r.State() != StatePlaying {
		t.Errorf("state %v, expected playing", r.State())
	}
}

func TestNewLoop(t *testing.T) {
	l := NewLoop(8)
	if l.Step != 125*time.Millisecond {
		t.Errorf("Step = %v", l.Step)
	}
	if NewLoop(0).Step != time.Second {
		t.Error("non-positive rate should fall back to 1 tick per second")
	}
}

func TestLoopZeroStepUsesDefault(t *testing.T) {
	fsys := fstest.MapFS{"a.yaml": level("{w: 3, h: 1}", "[3, 0, 2]")}
	r := newRunner(t, fsys, Options{})
	start := time.Unix(0, 0)
	clock := &fakeClock{now: start}
	loop := &Loop{Clock: clock}

	polls := 0
	err := loop.Run(context.Background(), r, func() Input {
		polls++
		return Input{Quit: polls == 3}
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if polls != 3 {
		t.Errorf("%d ticks, expected 3", polls)
	}
	if elapsed := clock.now.Sub(start); elapsed != 3*DefaultStep {
		t.Errorf("elapsed %v, expected %v", elapsed, 3*DefaultStep)
	}
}
