package nav

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Decision is the policy's choice of the next frontier cell.
type Decision struct {
	Found  bool
	Target core.Cell
	Plan   Plan
	Cost   int
	Tied   []core.Cell // every candidate that shared the winning cost
}

// Policy decides when exploration is done and which frontier cell to visit
// next.
type Policy struct {
	alg      Algorithm
	rng      *rand.Rand
	searcher *Searcher
	goals    mapset.Set[core.Cell]
	toGoal   Heuristic
}

// NewPolicy creates a policy for alg. toGoal is the heuristic towards the goal
// region used by the goal-biased variants.
func NewPolicy(alg Algorithm, searcher *Searcher, goals []core.Cell, toGoal Heuristic, rng *rand.Rand) *Policy {
	set := mapset.New[core.Cell]()
	for _, g := range goals {
		set.Put(g)
	}
	return &Policy{
		alg:      alg,
		rng:      rng,
		searcher: searcher,
		goals:    set,
		toGoal:   toGoal,
	}
}

// Algorithm returns the active variant.
func (p *Policy) Algorithm() Algorithm {
	return p.alg
}

// ShouldStop reports whether exploration is complete: the coverage threshold
// is met and the goal has been visited at least once.
func (p *Policy) ShouldStop(coverage float64, goalFound bool) bool {
	return goalFound && coverage >= p.alg.Coverage
}

// Choose picks the next frontier cell to travel to from pose.
//
// A reachable goal cell on the frontier is taken directly, whether or not the
// goal was visited before. Otherwise every frontier cell is costed with a
// search from pose
// (plus its heuristic to the goal for goal-biased variants) and the cheapest
// wins; equal costs are broken uniformly at random. Unreachable candidates are
// skipped. Found is false when nothing is reachable.
func (p *Policy) Choose(pose core.Pose, frontier []core.Cell) Decision {
	for _, c := range frontier {
		if !p.goals.Has(c) {
			continue
		}
		if plan := p.searcher.Search(pose, []core.Cell{c}); plan.Found {
			return Decision{Found: true, Target: c, Plan: plan, Cost: plan.Len(), Tied: []core.Cell{c}}
		}
	}

	type candidate struct {
		cell core.Cell
		plan Plan
	}
	var best []candidate
	bestCost := -1
	for _, c := range frontier {
		plan := p.searcher.Search(pose, []core.Cell{c})
		if !plan.Found {
			continue
		}
		cost := plan.Len()
		if p.alg.Scoring == ScoreHeuristic {
			cost += p.toGoal.At(c)
		}
		switch {
		case bestCost < 0 || cost < bestCost:
			best = append(best[:0], candidate{cell: c, plan: plan})
			bestCost = cost
		case cost == bestCost:
			best = append(best, candidate{cell: c, plan: plan})
		}
	}
	if len(best) == 0 {
		return Decision{}
	}

	pick := best[0]
	if len(best) > 1 {
		pick = best[p.rng.Intn(len(best))]
	}
	tied := make([]core.Cell, len(best))
	for i, b := range best {
		tied[i] = b.cell
	}
	return Decision{Found: true, Target: pick.cell, Plan: pick.plan, Cost: bestCost, Tied: tied}
}
