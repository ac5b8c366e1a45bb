package runner

import (
	"context"
	"time"
)

const (
	// DefaultMaxCatchUp bounds the ticks run after a stall.
	DefaultMaxCatchUp = 5
	// DefaultStep is used when Step is not positive.
	DefaultStep = time.Second
)

// Clock abstracts time for the loop.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Loop runs a Runner at a fixed timestep. Slow rendering never changes the
// number of ticks: elapsed time is accumulated and exactly one Tick runs per
// whole step, up to MaxCatchUp ticks per wake-up. A larger backlog is dropped.
type Loop struct {
	Step       time.Duration
	Clock      Clock
	MaxCatchUp int
}

// NewLoop creates a loop ticking rate times per second.
func NewLoop(rate int) *Loop {
	step := DefaultStep
	if rate > 0 {
		step = time.Second / time.Duration(rate)
	}
	return &Loop{Step: step, Clock: realClock{}, MaxCatchUp: DefaultMaxCatchUp}
}

// Run ticks r until its state is terminal, the context ends or Tick fails.
// poll is called once per tick and must not block.
func (l *Loop) Run(ctx context.Context, r *Runner, poll func() Input) error {
	clock := l.Clock
	if clock == nil {
		clock = realClock{}
	}
	step := l.Step
	if step <= 0 {
		step = DefaultStep
	}
	maxCatchUp := l.MaxCatchUp
	if maxCatchUp <= 0 {
		maxCatchUp = DefaultMaxCatchUp
	}

	last := clock.Now()
	var acc time.Duration
	for {
		now := clock.Now()
		acc += now.Sub(last)
		last = now

		n := 0
		for acc >= step && n < maxCatchUp {
			if _, err := r.Tick(poll()); err != nil {
				return err
			}
			acc -= step
			n++
			if r.State().Terminal() {
				return nil
			}
		}
		if acc >= step {
			acc = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.After(step - acc):
		}
	}
}
