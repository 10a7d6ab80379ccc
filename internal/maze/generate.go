package maze

import (
	"math/rand"

	"github.com/vovakirdan/mazebot/internal/core"
)

// GenerateOptions tunes the maze generator.
type GenerateOptions struct {
	// Loops is the number of extra interior walls knocked down after the
	// spanning tree is built. Zero gives a perfect maze apart from the goal.
	Loops int
}

// Generate builds a random dim x dim maze with Wilson's algorithm (uniform
// spanning tree via loop-erased random walks). The start cell only opens to
// the north and the four goal cells are joined into an open 2x2 room.
func Generate(dim int, rng *rand.Rand, opts GenerateOptions) (*Maze, error) {
	m, err := New(dim)
	if err != nil {
		return nil, err
	}

	start := core.C(0, 0)
	inTree := make([]bool, dim*dim)
	inTree[start.Index(dim)] = true
	inTree[core.C(0, 1).Index(dim)] = true
	m.Open(start, core.North)
	remaining := dim*dim - 2

	for remaining > 0 {
		walk := m.randomWalk(rng, inTree)
		for c := walk.from; !inTree[c.Index(dim)]; {
			d := walk.exits[c]
			m.Open(c, d)
			inTree[c.Index(dim)] = true
			remaining--
			c = c.Next(d)
		}
	}

	for _, g := range m.Goals() {
		for _, d := range []core.Direction{core.North, core.East} {
			if n := g.Next(d); m.InGoal(n) {
				m.Open(g, d)
			}
		}
	}

	m.knockDown(rng, opts.Loops)
	return m, nil
}

type walk struct {
	from  core.Cell
	exits map[core.Cell]core.Direction
}

// randomWalk wanders from a random cell outside the tree until it hits the
// tree. Only the last exit taken from each cell is kept, which erases loops.
func (m *Maze) randomWalk(rng *rand.Rand, inTree []bool) walk {
	var from core.Cell
	for {
		from = core.CellAt(rng.Intn(m.dim*m.dim), m.dim)
		if !inTree[from.Index(m.dim)] {
			break
		}
	}

	w := walk{from: from, exits: make(map[core.Cell]core.Direction)}
	c := from
	for !inTree[c.Index(m.dim)] {
		dirs := m.walkable(c)
		d := dirs[rng.Intn(len(dirs))]
		w.exits[c] = d
		c = c.Next(d)
	}
	return w
}

// walkable lists the directions a generator walk may take from c. The start
// cell is never entered so it keeps its single northern exit.
func (m *Maze) walkable(c core.Cell) []core.Direction {
	dirs := make([]core.Direction, 0, 4)
	for _, d := range core.Directions {
		n := c.Next(d)
		if !n.InBounds(m.dim) || n == core.C(0, 0) {
			continue
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// knockDown opens up to n random interior walls, leaving the start cell alone.
func (m *Maze) knockDown(rng *rand.Rand, n int) {
	budget := n * 20
	for tries := 0; n > 0 && tries < budget; tries++ {
		c := core.CellAt(rng.Intn(m.dim*m.dim), m.dim)
		d := core.Directions[rng.Intn(4)]
		next := c.Next(d)
		if c == core.C(0, 0) || next == core.C(0, 0) || !next.InBounds(m.dim) || m.IsPermissible(c, d) {
			continue
		}
		m.Open(c, d)
		n--
	}
}

// OpenGrid returns a maze with every interior wall removed except around the
// start cell, which only opens to the north.
func OpenGrid(dim int) (*Maze, error) {
	m, err := New(dim)
	if err != nil {
		return nil, err
	}
	for x := 0; x < dim; x++ {
		for y := 0; y < dim; y++ {
			c := core.C(x, y)
			if x+1 < dim && c != core.C(0, 0) {
				m.Open(c, core.East)
			}
			if y+1 < dim {
				m.Open(c, core.North)
			}
		}
	}
	return m, nil
}
