package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/gridquest/internal/runner"
)

// Store keeps one saved position per game.
var _ runner.Checkpointer = (*Store)(nil)

// SaveCheckpoint stores cp as the game's saved position, replacing any
// earlier one.
func (s *Store) SaveCheckpoint(cp runner.Checkpoint) error {
	if cp.Game == "" {
		return errors.New("storage: checkpoint without game id")
	}
	world, err := json.Marshal(cp.World)
	if err != nil {
		return fmt.Errorf("storage: cannot encode checkpoint: %w", err)
	}
	if cp.SavedAt.IsZero() {
		cp.SavedAt = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT INTO checkpoints (game_id, level, score, level_score, deaths, world, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET
		   level = excluded.level,
		   score = excluded.score,
		   level_score = excluded.level_score,
		   deaths = excluded.deaths,
		   world = excluded.world,
		   saved_at = excluded.saved_at`,
		cp.Game, cp.Level, cp.Score, cp.LevelScore, cp.Deaths, string(world), cp.SavedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint returns the game's saved position. ok is false when
// nothing has been saved.
func (s *Store) LoadCheckpoint(game string) (runner.Checkpoint, bool, error) {
	cp := runner.Checkpoint{Game: game}
	var world string
	var savedAt int64

	err := s.db.QueryRow(
		`SELECT level, score, level_score, deaths, world, saved_at
		 FROM checkpoints WHERE game_id = ?`,
		game,
	).Scan(&cp.Level, &cp.Score, &cp.LevelScore, &cp.Deaths, &world, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return runner.Checkpoint{}, false, nil
	}
	if err != nil {
		return runner.Checkpoint{}, false, fmt.Errorf("storage: cannot query checkpoint: %w", err)
	}

	if err := json.Unmarshal([]byte(world), &cp.World); err != nil {
		return runner.Checkpoint{}, false, fmt.Errorf("storage: cannot decode checkpoint: %w", err)
	}
	cp.SavedAt = time.Unix(savedAt, 0)
	return cp, true, nil
}

// ClearCheckpoint removes the game's saved position.
func (s *Store) ClearCheckpoint(game string) error {
	if _, err := s.db.Exec("DELETE FROM checkpoints WHERE game_id = ?", game); err != nil {
		return fmt.Errorf("storage: cannot clear checkpoint: %w", err)
	}
	return nil
}
