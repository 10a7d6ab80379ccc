package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mazebot/internal/core"
)

// openGrid returns a fully known map with every interior edge passable.
func openGrid(dim int) *GridMap {
	m := NewGridMap(dim)
	for x := 0; x < dim; x++ {
		for y := 0; y < dim; y++ {
			c := core.C(x, y)
			if x+1 < dim {
				m.Link(c, core.East)
			}
			if y+1 < dim {
				m.Link(c, core.North)
			}
		}
	}
	return m
}

func TestGridMapStartsClosed(t *testing.T) {
	m := NewGridMap(4)
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			assert.Zero(t, m.Walls(core.C(x, y)))
			assert.Equal(t, Unseen, m.Explore().At(core.C(x, y)).Status)
		}
	}
}

func TestMarkOpenIsIdempotent(t *testing.T) {
	m := NewGridMap(4)
	c := core.C(1, 1)

	m.MarkOpen(c, core.North)
	once := m.Walls(c)
	m.MarkOpen(c, core.North)

	assert.Equal(t, once, m.Walls(c))
	assert.Equal(t, core.North.Bit(), m.Walls(c))
}

func TestLinkKeepsBothSidesInSync(t *testing.T) {
	m := NewGridMap(4)
	m.Link(core.C(1, 1), core.East)

	assert.True(t, m.IsOpen(core.C(1, 1), core.East))
	assert.True(t, m.IsOpen(core.C(2, 1), core.West))
	assert.False(t, m.IsOpen(core.C(1, 1), core.West))
}

func TestMarkOpenOffGridPanics(t *testing.T) {
	m := NewGridMap(4)
	assert.Panics(t, func() { m.MarkOpen(core.C(0, 0), core.West) })
	assert.Panics(t, func() { m.MarkOpen(core.C(3, 3), core.North) })
	assert.Panics(t, func() { m.Walls(core.C(4, 0)) })
	assert.Panics(t, func() { NewGridMap(0) })
}

func TestDistToWall(t *testing.T) {
	m := openGrid(5)
	assert.Equal(t, 4, m.DistToWall(core.C(0, 0), core.North))
	assert.Equal(t, 2, m.DistToWall(core.C(2, 0), core.East))
	assert.Equal(t, 0, m.DistToWall(core.C(0, 0), core.South))
}

func TestCostTables(t *testing.T) {
	m := NewGridMap(3)
	m.Explore().Set(core.C(1, 1), CostRecord{G: 2, H: 1, F: 3, Status: Open})
	m.Explore().Close(core.C(1, 1))

	rec := m.Explore().At(core.C(1, 1))
	assert.Equal(t, Closed, rec.Status)
	assert.Equal(t, 3, rec.F)
	assert.Equal(t, 1, m.Explore().Count(Closed))

	st := NewSearchTable(3)
	st.Set(core.C(0, 0), CostRecord{Status: Open})
	st.Reset()
	assert.Equal(t, 9, st.Count(Unseen))
}

func TestVisits(t *testing.T) {
	m := NewGridMap(3)
	m.Visit(core.C(2, 2))
	m.Visit(core.C(2, 2))
	require.Equal(t, 2, m.Visits(core.C(2, 2)))
	assert.Zero(t, m.Visits(core.C(0, 0)))
}

func TestFrontierKeepsDiscoveryOrder(t *testing.T) {
	f := NewFrontier()
	f.Add(core.C(2, 0))
	f.Add(core.C(0, 1))
	f.Add(core.C(2, 0))
	f.Add(core.C(1, 1))

	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []core.Cell{core.C(2, 0), core.C(0, 1), core.C(1, 1)}, f.All())

	f.Remove(core.C(0, 1))
	f.Remove(core.C(3, 3))
	assert.False(t, f.Has(core.C(0, 1)))
	assert.Equal(t, []core.Cell{core.C(2, 0), core.C(1, 1)}, f.All())
}
