package main

import (
	"context"
	"fmt"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/storage"
)

// parseScript turns a move script into one input per tick.
func parseScript(s string) ([]runner.Input, error) {
	inputs := make([]runner.Input, 0, len(s))
	for i, c := range s {
		var in runner.Input
		switch c {
		case 'U', 'u':
			in.Dir = core.DirUp
		case 'D', 'd':
			in.Dir = core.DirDown
		case 'L':
			in.Dir = core.DirLeft
		case 'R':
			in.Dir = core.DirRight
		case '.':
		case 'r':
			in.Restart = true
		case 's':
			in.Save = true
		case 'l':
			in.Load = true
		case ' ', '\n', '\t':
			continue
		default:
			return nil, fmt.Errorf("script position %d: unknown move %q", i+1, c)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// runHeadless plays a script through the fixed-step loop and quits when the
// script runs out. The score is recorded like an interactive run.
func runHeadless(p *platform.Prepared, store *storage.Store, startLevel int, inputs []runner.Input, loop *runner.Loop) (runner.Status, error) {
	var checkpoints runner.Checkpointer
	if store != nil {
		checkpoints = store
	}
	r, err := runner.New(p.RunnerOptions(checkpoints, logger))
	if err != nil {
		return runner.Status{}, err
	}
	start, err := platform.StartIndex(startLevel, len(r.Levels()))
	if err != nil {
		return runner.Status{}, err
	}
	if err := r.Start(start); err != nil {
		return runner.Status{}, err
	}

	next := 0
	poll := func() runner.Input {
		if next >= len(inputs) {
			return runner.Input{Quit: true}
		}
		in := inputs[next]
		next++
		return in
	}
	runErr := loop.Run(context.Background(), r, poll)

	status := r.Frame().Status
	status.State = r.State()
	pr := r.Progress()
	if store != nil && pr.Score > 0 {
		_, err := store.SaveScore(storage.ScoreEntry{
			GameID:    p.Game.ID(),
			Score:     pr.Score,
			Level:     pr.Level + 1,
			Deaths:    pr.Deaths,
			Completed: r.State() == runner.StateAllLevelsComplete,
		})
		if err != nil {
			logger.Warn("saving score failed", "err", err)
		}
	}
	return status, runErr
}
