package nav

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mazebot/internal/core"
)

func newTestPolicy(id string, m *GridMap, seed int64) *Policy {
	goals := GoalCells(m.Dim())
	return NewPolicy(
		AlgorithmOrDefault(id),
		NewSearcher(m),
		goals,
		GenerateHeuristic(m.Dim(), goals, MaxMove),
		rand.New(rand.NewSource(seed)),
	)
}

func TestLookupAlgorithm(t *testing.T) {
	alg, ok := LookupAlgorithm("heuristic_90")
	require.True(t, ok)
	assert.Equal(t, "HEURISTIC_90", alg.ID)
	assert.Equal(t, ScoreHeuristic, alg.Scoring)
	assert.InDelta(t, 90.0, alg.Coverage, 1e-9)

	_, ok = LookupAlgorithm("DFS")
	assert.False(t, ok)

	assert.Equal(t, DefaultAlgorithmID, AlgorithmOrDefault("DFS").ID)
	assert.True(t, AlgorithmOrDefault("SHORT_GOALS").GoalsOnly())
	assert.Len(t, Algorithms(), 10)
}

func TestShouldStop(t *testing.T) {
	tests := []struct {
		alg       string
		coverage  float64
		goalFound bool
		expected  bool
	}{
		{"SHORT_80", 80, true, true},
		{"SHORT_80", 79.9, true, false},
		{"SHORT_80", 100, false, false},
		{"SHORT_GOALS", 0.4, true, true},
		{"SHORT_GOALS", 0.4, false, false},
		{"HEURISTIC_100", 100, true, true},
	}
	m := NewGridMap(4)
	for _, tc := range tests {
		p := newTestPolicy(tc.alg, m, 1)
		assert.Equal(t, tc.expected, p.ShouldStop(tc.coverage, tc.goalFound), "%s at %.1f%%", tc.alg, tc.coverage)
	}
}

func TestChooseCheapest(t *testing.T) {
	m := openGrid(6)
	p := newTestPolicy("SHORT_100", m, 1)
	pose := core.Pose{Cell: core.C(0, 0), Heading: core.North}

	// (0,3) is one command away, (4,1) needs two.
	d := p.Choose(pose, []core.Cell{core.C(4, 1), core.C(0, 3)})

	require.True(t, d.Found)
	assert.Equal(t, core.C(0, 3), d.Target)
	assert.Equal(t, 1, d.Cost)
	assert.Equal(t, []core.Cell{core.C(0, 3)}, d.Tied)
}

func TestChooseHeuristicBias(t *testing.T) {
	m := openGrid(10)
	pose := core.Pose{Cell: core.C(0, 4), Heading: core.North}
	frontier := []core.Cell{core.C(0, 3), core.C(3, 5)}

	short := newTestPolicy("SHORT_100", m, 1).Choose(pose, frontier)
	require.True(t, short.Found)
	assert.Equal(t, core.C(0, 3), short.Target)
	assert.Equal(t, 1, short.Cost)

	// (0,3) is 1 + h 3, (3,5) is 2 + h 1.
	biased := newTestPolicy("HEURISTIC_100", m, 1).Choose(pose, frontier)
	require.True(t, biased.Found)
	assert.Equal(t, core.C(3, 5), biased.Target)
	assert.Equal(t, 3, biased.Cost)
}

func TestChooseGoalFirst(t *testing.T) {
	m := openGrid(6)
	p := newTestPolicy("SHORT_100", m, 1)
	pose := core.Pose{Cell: core.C(0, 0), Heading: core.North}
	frontier := []core.Cell{core.C(0, 1), core.C(3, 3)}

	d := p.Choose(pose, frontier)
	require.True(t, d.Found)
	assert.Equal(t, core.C(3, 3), d.Target)
	assert.Equal(t, []core.Cell{core.C(3, 3)}, d.Tied)

	// A goal cell that cannot be reached yet falls back to scoring.
	walled := NewGridMap(6)
	walled.Link(core.C(0, 0), core.North)
	d = newTestPolicy("SHORT_100", walled, 1).Choose(pose, frontier)
	require.True(t, d.Found)
	assert.Equal(t, core.C(0, 1), d.Target)
}

func TestChooseSkipsUnreachable(t *testing.T) {
	m := NewGridMap(4)
	m.Link(core.C(0, 0), core.North)
	p := newTestPolicy("SHORT_100", m, 1)
	pose := core.Pose{Cell: core.C(0, 0), Heading: core.North}

	d := p.Choose(pose, []core.Cell{core.C(3, 3), core.C(0, 1)})
	require.True(t, d.Found)
	assert.Equal(t, core.C(0, 1), d.Target)

	d = p.Choose(pose, []core.Cell{core.C(3, 3)})
	assert.False(t, d.Found)

	d = p.Choose(pose, nil)
	assert.False(t, d.Found)
}

func TestChooseTieBreakIsSeeded(t *testing.T) {
	m := openGrid(6)
	pose := core.Pose{Cell: core.C(0, 0), Heading: core.North}
	frontier := []core.Cell{core.C(0, 1), core.C(1, 0), core.C(0, 2)}

	picks := map[core.Cell]bool{}
	for seed := int64(1); seed <= 32; seed++ {
		a := newTestPolicy("SHORT_100", m, seed).Choose(pose, frontier)
		b := newTestPolicy("SHORT_100", m, seed).Choose(pose, frontier)

		require.True(t, a.Found)
		assert.Equal(t, a.Target, b.Target, "seed %d", seed)
		assert.Equal(t, 1, a.Cost)
		assert.ElementsMatch(t, frontier, a.Tied)
		assert.Contains(t, a.Tied, a.Target)
		picks[a.Target] = true
	}
	assert.Greater(t, len(picks), 1, "ties should not always resolve the same way")
}
