//go:build !ebiten

package desktop

import (
	"errors"

	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/runner"
)

// ErrUnavailable reports a build without the ebiten tag.
var ErrUnavailable = errors.New("desktop play requires building with the 'ebiten' tag")

// Run always fails in builds without the ebiten tag.
func Run(*platform.Prepared, Options) (runner.Status, error) {
	return runner.Status{}, ErrUnavailable
}
