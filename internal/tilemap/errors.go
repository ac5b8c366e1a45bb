package tilemap

import (
	"errors"
	"fmt"
)

// ErrNoLevels is returned by Discover when the source holds no level files.
var ErrNoLevels = errors.New("tilemap: no levels found")

// LevelFormatError reports a level file that cannot be played.
// No partial level is ever returned alongside it.
type LevelFormatError struct {
	Level  string // Level identifier (file path within the source)
	Reason string
	Err    error // Underlying decode error, if any
}

func (e *LevelFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("level %s: %s: %v", e.Level, e.Reason, e.Err)
	}
	return fmt.Sprintf("level %s: %s", e.Level, e.Reason)
}

func (e *LevelFormatError) Unwrap() error {
	return e.Err
}

func formatErr(level, format string, args ...any) *LevelFormatError {
	return &LevelFormatError{Level: level, Reason: fmt.Sprintf(format, args...)}
}
