// Package builtin registers the stock maze set. Import it for side effects:
//
//	import _ "github.com/vovakirdan/mazebot/internal/maze/builtin"
package builtin

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/mazebot/internal/maze"
	"github.com/vovakirdan/mazebot/internal/registry"
)

func init() {
	for _, dim := range []int{8, 12} {
		dim := dim
		registry.Register(registry.MazeInfo{
			ID:    fmt.Sprintf("open-%d", dim),
			Title: fmt.Sprintf("Open %dx%d arena", dim, dim),
			Dim:   dim,
		}, func(int64) (*maze.Maze, error) {
			return maze.OpenGrid(dim)
		})
	}

	for _, dim := range []int{12, 14, 16} {
		registry.Register(registry.MazeInfo{
			ID:        fmt.Sprintf("wilson-%d", dim),
			Title:     fmt.Sprintf("Wilson %dx%d, perfect", dim, dim),
			Dim:       dim,
			Generated: true,
		}, generated(dim, 0))

		registry.Register(registry.MazeInfo{
			ID:        fmt.Sprintf("loops-%d", dim),
			Title:     fmt.Sprintf("Wilson %dx%d with loops", dim, dim),
			Dim:       dim,
			Generated: true,
		}, generated(dim, dim))
	}
}

func generated(dim, loops int) registry.Factory {
	return func(seed int64) (*maze.Maze, error) {
		return maze.Generate(dim, rand.New(rand.NewSource(seed)), maze.GenerateOptions{Loops: loops})
	}
}
