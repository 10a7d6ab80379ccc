package nav

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Frontier tracks discovered-but-unvisited cells. Membership is kept in a set;
// a parallel slice preserves discovery order so that seeded tie-breaking is
// reproducible.
type Frontier struct {
	members mapset.Set[core.Cell]
	order   []core.Cell
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{members: mapset.New[core.Cell]()}
}

// Add inserts c if it is not already present.
func (f *Frontier) Add(c core.Cell) {
	if f.members.Has(c) {
		return
	}
	f.members.Put(c)
	f.order = append(f.order, c)
}

// Remove drops c from the frontier. Removing an absent cell is a no-op.
func (f *Frontier) Remove(c core.Cell) {
	if !f.members.Has(c) {
		return
	}
	f.members.Remove(c)
	f.order = slices.DeleteFunc(f.order, func(o core.Cell) bool { return o == c })
}

// Has reports whether c is on the frontier.
func (f *Frontier) Has(c core.Cell) bool {
	return f.members.Has(c)
}

// Len returns the number of frontier cells.
func (f *Frontier) Len() int {
	return f.members.Size()
}

// All returns the frontier cells in discovery order.
func (f *Frontier) All() []core.Cell {
	return slices.Clone(f.order)
}
