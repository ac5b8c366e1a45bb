//go:build !ebiten

package desktop

import (
	"errors"
	"testing"
)

func TestRunWithoutEbiten(t *testing.T) {
	if _, err := Run(nil, Options{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Run() error = %v, expected ErrUnavailable", err)
	}
}
