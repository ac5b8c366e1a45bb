// Package registry provides a global registry for game definitions.
// Games register themselves in init() functions, allowing the platform
// to discover and start games without hardcoded dependencies.
package registry

import (
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/vovakirdan/gridquest/internal/runner"
)

// Game describes a grid game: its built-in levels and its rule hooks.
// The platform owns input mapping, timing and rendering; the runner owns
// the loop.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "diamonds").
	// Used for CLI commands, config files and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Instructions returns the help text shown before play.
	Instructions() string

	// Levels returns the built-in level files.
	Levels() fs.FS

	// Hooks returns fresh rule hooks for one run.
	Hooks() runner.Hooks
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
