// Package nav implements the robot's navigation engine: the learned maze map,
// the frontier-driven exploration policy and the route-forking path search
// that turns grid paths into batched rotate/move commands.
//
// The package is UI-agnostic and deterministic once its random source is
// seeded. One Engine drives exactly one robot run and is not safe for
// concurrent use.
package nav

import (
	"fmt"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Status is the lifecycle of a cell inside one cost table.
type Status uint8

const (
	Unseen Status = iota // not discovered yet
	Open                 // discovered, not visited/expanded
	Closed               // visited (exploration) or expanded (search)
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// CostRecord holds the cost bookkeeping for one cell.
type CostRecord struct {
	G      int // accumulated cost from the origin
	H      int // heuristic estimate to the nearest target
	F      int // G + H
	Status Status
}

// costTable is a dim x dim table of cost records.
type costTable struct {
	dim     int
	records []CostRecord
}

func newCostTable(dim int) costTable {
	return costTable{dim: dim, records: make([]CostRecord, dim*dim)}
}

// At returns the record for c.
func (t *costTable) At(c core.Cell) CostRecord {
	return t.records[mustIndex(c, t.dim)]
}

// Set replaces the record for c.
func (t *costTable) Set(c core.Cell, rec CostRecord) {
	t.records[mustIndex(c, t.dim)] = rec
}

// Close marks c as Closed, keeping its costs.
func (t *costTable) Close(c core.Cell) {
	t.records[mustIndex(c, t.dim)].Status = Closed
}

// Count returns how many cells have the given status.
func (t *costTable) Count(s Status) int {
	n := 0
	for _, rec := range t.records {
		if rec.Status == s {
			n++
		}
	}
	return n
}

// Reset clears every record back to the zero value.
func (t *costTable) Reset() {
	clear(t.records)
}

// ExploreTable is the exploration-phase cost table. It lives as long as the
// robot and is never reset.
type ExploreTable struct{ costTable }

// SearchTable is the pathfinding-phase cost table, reset by every search.
// It is a distinct type from ExploreTable so the two can never be mixed up.
type SearchTable struct{ costTable }

// NewSearchTable allocates a search table for a dim x dim maze.
func NewSearchTable(dim int) *SearchTable {
	return &SearchTable{newCostTable(dim)}
}

// GridMap is the robot's learned knowledge of the maze: one wall mask per
// cell (bit set = passable, see core.Direction.Bit), the exploration cost
// table and a per-cell visit counter.
type GridMap struct {
	dim     int
	walls   []uint8
	explore ExploreTable
	visits  []int
}

// NewGridMap creates an empty map where every edge is considered closed.
func NewGridMap(dim int) *GridMap {
	if dim <= 0 {
		panic(fmt.Sprintf("nav: invalid maze dimension %d", dim))
	}
	return &GridMap{
		dim:     dim,
		walls:   make([]uint8, dim*dim),
		explore: ExploreTable{newCostTable(dim)},
		visits:  make([]int, dim*dim),
	}
}

// Dim returns the side length of the maze.
func (m *GridMap) Dim() int {
	return m.dim
}

// MarkOpen records that the edge of c facing d is passable. Marking is
// idempotent. Opening an edge that leads off the grid is an invariant
// violation and panics.
func (m *GridMap) MarkOpen(c core.Cell, d core.Direction) {
	i := mustIndex(c, m.dim)
	if !c.Next(d).InBounds(m.dim) {
		panic(fmt.Sprintf("nav: cannot open %v edge of %v, it is on the maze boundary", d, c))
	}
	m.walls[i] |= d.Bit()
}

// Link opens the edge between c and its neighbour in direction d on both
// sides, keeping the reciprocal wall bits in sync.
func (m *GridMap) Link(c core.Cell, d core.Direction) {
	m.MarkOpen(c, d)
	m.MarkOpen(c.Next(d), d.Reverse())
}

// IsOpen reports whether the edge of c facing d is known to be passable.
func (m *GridMap) IsOpen(c core.Cell, d core.Direction) bool {
	return m.walls[mustIndex(c, m.dim)]&d.Bit() != 0
}

// Walls returns the raw wall mask of c.
func (m *GridMap) Walls(c core.Cell) uint8 {
	return m.walls[mustIndex(c, m.dim)]
}

// DistToWall counts the passable cells from c in direction d before a closed
// edge. It mirrors the environment's sensor but reads the learned map.
func (m *GridMap) DistToWall(c core.Cell, d core.Direction) int {
	dist := 0
	for m.IsOpen(c, d) {
		dist++
		c = c.Next(d)
	}
	return dist
}

// Explore returns the exploration cost table.
func (m *GridMap) Explore() *ExploreTable {
	return &m.explore
}

// Visit increments the visit counter of c.
func (m *GridMap) Visit(c core.Cell) {
	m.visits[mustIndex(c, m.dim)]++
}

// Visits returns how many times the robot stopped on c.
func (m *GridMap) Visits(c core.Cell) int {
	return m.visits[mustIndex(c, m.dim)]
}

func mustIndex(c core.Cell, dim int) int {
	if !c.InBounds(dim) {
		panic(fmt.Sprintf("nav: cell %v outside %dx%d maze", c, dim, dim))
	}
	return c.Index(dim)
}
