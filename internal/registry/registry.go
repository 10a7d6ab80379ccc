// Package registry provides a global registry of built-in maze factories.
// Maze sets register themselves in init() functions, allowing the CLI and the
// trial runner to discover mazes by ID without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/mazebot/internal/maze"
)

// Factory builds a maze. Generated mazes derive their layout from seed; fixed
// layouts ignore it.
type Factory func(seed int64) (*maze.Maze, error)

// MazeInfo contains metadata about a registered maze.
type MazeInfo struct {
	ID        string
	Title     string
	Dim       int
	Generated bool // layout depends on the seed
}

type entry struct {
	info    MazeInfo
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a maze factory to the registry.
// Typically called from an init() function.
// Panics if a maze with the same ID is already registered.
func Register(info MazeInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: maze %q already registered", info.ID))
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered mazes, sorted by ID.
func List() []MazeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]MazeInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds the maze registered under id.
// Returns an error if the ID is not registered or the factory fails.
func Create(id string, seed int64) (*maze.Maze, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown maze %q", id)
	}

	m, err := e.factory(seed)
	if err != nil {
		return nil, fmt.Errorf("registry: cannot build maze %q: %w", id, err)
	}
	if m.Name == "" {
		m.Name = id
	}
	return m, nil
}

// Exists checks if a maze with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
