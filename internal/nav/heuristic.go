package nav

import (
	"github.com/vovakirdan/mazebot/internal/core"
)

// MaxMove is the largest number of cells a single command may cover.
const MaxMove = 3

// Heuristic is a per-cell lower bound on the number of commands needed to
// reach the nearest of a set of targets.
type Heuristic struct {
	dim  int
	cost []int
}

// GenerateHeuristic computes ceil(|dx|/maxMove) + ceil(|dy|/maxMove) for every
// cell, minimised over targets. No command covers more than maxMove cells on
// one axis, so the estimate never exceeds the true command count.
// An empty target set yields an all-zero table.
func GenerateHeuristic(dim int, targets []core.Cell, maxMove int) Heuristic {
	h := Heuristic{dim: dim, cost: make([]int, dim*dim)}
	if len(targets) == 0 {
		return h
	}
	for x := 0; x < dim; x++ {
		for y := 0; y < dim; y++ {
			best := -1
			for _, t := range targets {
				d := core.CeilDiv(core.Abs(t.X-x), maxMove) + core.CeilDiv(core.Abs(t.Y-y), maxMove)
				if best < 0 || d < best {
					best = d
				}
			}
			h.cost[core.C(x, y).Index(dim)] = best
		}
	}
	return h
}

// At returns the estimate for c.
func (h Heuristic) At(c core.Cell) int {
	return h.cost[mustIndex(c, h.dim)]
}
