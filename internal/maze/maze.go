// Package maze models the ground-truth maze the robot drives through: wall
// masks, sensor distances, movement checks, file formats and generation.
package maze

import (
	"fmt"

	"github.com/vovakirdan/mazebot/internal/core"
)

// MinDim and MaxDim bound the supported maze sizes. Dimensions must be even so
// that the centre goal is a 2x2 block.
const (
	MinDim = 4
	MaxDim = 32
)

// Maze is a dim x dim grid. Each cell holds a 4-bit mask where a set bit means
// the edge in that direction is open (N=1, E=2, S=4, W=8).
type Maze struct {
	Name  string
	dim   int
	walls []uint8
}

// New creates a fully walled maze. It returns an error for unsupported sizes.
func New(dim int) (*Maze, error) {
	if dim < MinDim || dim > MaxDim || dim%2 != 0 {
		return nil, &ValidationError{
			Code:    CodeDimension,
			Message: fmt.Sprintf("dimension %d must be even and within [%d, %d]", dim, MinDim, MaxDim),
		}
	}
	return &Maze{dim: dim, walls: make([]uint8, dim*dim)}, nil
}

// Dim returns the side length.
func (m *Maze) Dim() int {
	return m.dim
}

// Walls returns the raw mask of c.
func (m *Maze) Walls(c core.Cell) uint8 {
	return m.walls[m.index(c)]
}

// SetWalls replaces the mask of c without touching its neighbours.
func (m *Maze) SetWalls(c core.Cell, mask uint8) {
	m.walls[m.index(c)] = mask & 0x0f
}

// Open removes the wall between c and its neighbour in direction d on both
// sides.
func (m *Maze) Open(c core.Cell, d core.Direction) {
	n := c.Next(d)
	if !n.InBounds(m.dim) {
		panic(fmt.Sprintf("maze: cannot open %v edge of boundary cell %v", d, c))
	}
	m.walls[m.index(c)] |= d.Bit()
	m.walls[m.index(n)] |= d.Reverse().Bit()
}

// IsPermissible reports whether the robot may move one cell from c in
// direction d.
func (m *Maze) IsPermissible(c core.Cell, d core.Direction) bool {
	return m.walls[m.index(c)]&d.Bit() != 0
}

// DistToWall returns the number of open cells between c and the nearest wall
// in direction d. This is what a sensor pointed in d reads.
func (m *Maze) DistToWall(c core.Cell, d core.Direction) int {
	dist := 0
	for m.IsPermissible(c, d) {
		dist++
		c = c.Next(d)
	}
	return dist
}

// Goals returns the four centre cells.
func (m *Maze) Goals() []core.Cell {
	lo, hi := m.dim/2-1, m.dim/2
	return []core.Cell{core.C(lo, lo), core.C(lo, hi), core.C(hi, lo), core.C(hi, hi)}
}

// InGoal reports whether c is one of the centre cells.
func (m *Maze) InGoal(c core.Cell) bool {
	lo, hi := m.dim/2-1, m.dim/2
	return (c.X == lo || c.X == hi) && (c.Y == lo || c.Y == hi)
}

// Clone returns a deep copy.
func (m *Maze) Clone() *Maze {
	c := *m
	c.walls = append([]uint8(nil), m.walls...)
	return &c
}

func (m *Maze) index(c core.Cell) int {
	if !c.InBounds(m.dim) {
		panic(fmt.Sprintf("maze: cell %v outside %dx%d maze", c, m.dim, m.dim))
	}
	return c.Index(m.dim)
}
