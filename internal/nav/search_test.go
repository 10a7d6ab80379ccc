package nav

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mazebot/internal/core"
	"github.com/vovakirdan/mazebot/internal/maze"
)

// replay drives plan through m from start and fails if a command crosses a
// closed edge or breaks the movement limits. It returns the final pose.
func replay(t *testing.T, m *GridMap, start core.Pose, plan Plan) core.Pose {
	t.Helper()
	pose := start
	for i, st := range plan.Steps {
		require.True(t, st.Rotation.Valid(), "step %d: rotation %d", i, st.Rotation)
		require.NotZero(t, st.Movement, "step %d: empty move", i)
		require.LessOrEqual(t, core.Abs(st.Movement), MaxMove, "step %d", i)

		pose.Heading = pose.Heading.Rotate(st.Rotation)
		d := pose.Heading
		if st.Movement < 0 {
			d = d.Reverse()
		}
		for k := 0; k < core.Abs(st.Movement); k++ {
			require.True(t, m.IsOpen(pose.Cell, d), "step %d crosses a wall at %v", i, pose.Cell)
			pose.Cell = pose.Cell.Next(d)
		}
		require.Equal(t, st.Pose, pose, "step %d recorded pose", i)
	}
	return pose
}

func TestHeuristic(t *testing.T) {
	h := GenerateHeuristic(16, GoalCells(16), MaxMove)

	tests := []struct {
		cell     core.Cell
		expected int
	}{
		{core.C(0, 0), 6},
		{core.C(15, 15), 6},
		{core.C(7, 7), 0},
		{core.C(8, 8), 0},
		{core.C(4, 7), 1},
		{core.C(7, 3), 2},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, h.At(tc.cell), "h%v", tc.cell)
	}

	empty := GenerateHeuristic(4, nil, MaxMove)
	assert.Zero(t, empty.At(core.C(3, 3)))
}

func TestHeuristicNeverOverestimates(t *testing.T) {
	m := openGrid(8)
	targets := []core.Cell{core.C(5, 6)}
	h := GenerateHeuristic(8, targets, MaxMove)

	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			for _, d := range core.Directions {
				start := core.Pose{Cell: core.C(x, y), Heading: d}
				plan := Search(m, start, targets)
				require.True(t, plan.Found)
				assert.LessOrEqual(t, h.At(start.Cell), plan.Len(), "from %v", start)
			}
		}
	}
}

func TestSearchStartInTargets(t *testing.T) {
	m := openGrid(4)
	plan := Search(m, core.Pose{Cell: core.C(1, 1), Heading: core.East}, []core.Cell{core.C(1, 1)})

	assert.True(t, plan.Found)
	assert.Empty(t, plan.Steps)
}

func TestSearchOpenGrid(t *testing.T) {
	m := openGrid(4)
	start := core.Pose{Cell: core.C(0, 0), Heading: core.North}
	plan := Search(m, start, []core.Cell{core.C(3, 3)})

	// East-first and north-first both take two commands.
	require.True(t, plan.Found)
	require.Equal(t, 2, plan.Len())
	assert.Equal(t, core.C(3, 3), replay(t, m, start, plan).Cell)
	assert.Equal(t, core.C(3, 3), plan.Destination(start).Cell)

	heading := start.Heading
	for i, st := range plan.Steps {
		assert.Equal(t, 3, st.Movement, "step %d", i)
		assert.Equal(t, heading.Rotate(st.Rotation), st.Pose.Heading, "step %d", i)
		heading = st.Pose.Heading
	}
	assert.NotEqual(t, plan.Steps[0].Pose.Heading, plan.Steps[1].Pose.Heading)
}

func TestSearchSplitsLongRuns(t *testing.T) {
	m := openGrid(8)
	start := core.Pose{Cell: core.C(0, 0), Heading: core.North}
	plan := Search(m, start, []core.Cell{core.C(0, 7)})

	require.True(t, plan.Found)
	assert.Equal(t, 3, plan.Len())
	assert.Equal(t, core.C(0, 7), replay(t, m, start, plan).Cell)
}

func TestSearchReversesWithoutTurning(t *testing.T) {
	m := NewGridMap(4)
	m.Link(core.C(0, 0), core.North)
	m.Link(core.C(0, 1), core.North)

	start := core.Pose{Cell: core.C(0, 2), Heading: core.North}
	plan := Search(m, start, []core.Cell{core.C(0, 0)})

	require.True(t, plan.Found)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, Command{Rotation: core.RotateNone, Movement: -2}, plan.Steps[0].Command)
	assert.Equal(t, core.Pose{Cell: core.C(0, 0), Heading: core.North}, plan.Steps[0].Pose)
}

func TestSearchUnreachable(t *testing.T) {
	m := NewGridMap(4)
	m.Link(core.C(0, 0), core.North)
	m.Link(core.C(0, 1), core.North)

	plan := Search(m, core.Pose{Cell: core.C(0, 0), Heading: core.North}, []core.Cell{core.C(3, 3)})
	assert.False(t, plan.Found)
	assert.Empty(t, plan.Steps)
	assert.Positive(t, plan.Expanded)
}

func TestSearchAroundWalls(t *testing.T) {
	// S-shaped corridor through a 3x3 maze.
	m := NewGridMap(3)
	m.Link(core.C(0, 0), core.East)
	m.Link(core.C(1, 0), core.East)
	m.Link(core.C(2, 0), core.North)
	m.Link(core.C(2, 1), core.West)
	m.Link(core.C(1, 1), core.West)
	m.Link(core.C(0, 1), core.North)
	m.Link(core.C(0, 2), core.East)
	m.Link(core.C(1, 2), core.East)

	start := core.Pose{Cell: core.C(0, 0), Heading: core.North}
	plan := Search(m, start, []core.Cell{core.C(2, 2)})

	require.True(t, plan.Found)
	assert.Equal(t, 5, plan.Len())
	assert.Equal(t, core.C(2, 2), replay(t, m, start, plan).Cell)
	assert.Equal(t, plan.Steps[len(plan.Steps)-1].Pose, plan.Destination(start))
}

func TestSearcherReusesTable(t *testing.T) {
	m := openGrid(4)
	s := NewSearcher(m, WithMaxMove(1))
	start := core.Pose{Cell: core.C(0, 0), Heading: core.North}

	first := s.Search(start, []core.Cell{core.C(0, 3)})
	second := s.Search(start, []core.Cell{core.C(0, 3)})

	assert.Equal(t, first.Steps, second.Steps)
	assert.Equal(t, 3, first.Len())
	assert.Equal(t, Closed, s.Table().At(core.C(0, 0)).Status)
}

// knownMap copies every opening of truth into a learned map.
func knownMap(truth *maze.Maze) *GridMap {
	m := NewGridMap(truth.Dim())
	for x := 0; x < truth.Dim(); x++ {
		for y := 0; y < truth.Dim(); y++ {
			c := core.C(x, y)
			for _, d := range core.Directions {
				if truth.IsPermissible(c, d) {
					m.Link(c, d)
				}
			}
		}
	}
	return m
}

// fewestCommands is a breadth-first search over cells where one command moves
// up to MaxMove cells in a straight line. Turning and reversing are part of a
// command, so the heading never changes the count.
func fewestCommands(m *GridMap, from core.Cell, targets []core.Cell) int {
	dim := m.Dim()
	dist := make([]int, dim*dim)
	for i := range dist {
		dist[i] = -1
	}
	dist[from.Index(dim)] = 0
	queue := []core.Cell{from}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, t := range targets {
			if c == t {
				return dist[c.Index(dim)]
			}
		}
		for _, d := range core.Directions {
			next := c
			for k := 0; k < MaxMove && m.IsOpen(next, d); k++ {
				next = next.Next(d)
				if dist[next.Index(dim)] < 0 {
					dist[next.Index(dim)] = dist[c.Index(dim)] + 1
					queue = append(queue, next)
				}
			}
		}
	}
	return -1
}

func TestSearchIsOptimalWithLoops(t *testing.T) {
	type mazeCase struct {
		seed  int64
		loops int
	}
	tests := []mazeCase{{5, 20}, {40, 10}}
	for seed := int64(1); seed <= 15; seed++ {
		for _, loops := range []int{0, 10, 20} {
			tests = append(tests, mazeCase{seed, loops})
		}
	}

	start := core.Pose{Cell: core.C(0, 0), Heading: core.North}
	for _, tc := range tests {
		truth, err := maze.Generate(12, rand.New(rand.NewSource(tc.seed)), maze.GenerateOptions{Loops: tc.loops})
		require.NoError(t, err)
		m := knownMap(truth)
		goals := GoalCells(12)

		want := fewestCommands(m, start.Cell, goals)
		require.Positive(t, want, "seed %d loops %d", tc.seed, tc.loops)

		plan := Search(m, start, goals)
		require.True(t, plan.Found, "seed %d loops %d", tc.seed, tc.loops)
		assert.Equal(t, want, plan.Len(), "seed %d loops %d", tc.seed, tc.loops)
		assert.Contains(t, goals, replay(t, m, start, plan).Cell, "seed %d loops %d", tc.seed, tc.loops)

		// Every reachable cell, not just the goal room.
		for x := 0; x < 12; x += 3 {
			for y := 0; y < 12; y += 4 {
				target := []core.Cell{core.C(x, y)}
				want := fewestCommands(m, start.Cell, target)
				got := Search(m, start, target)
				require.Equal(t, want >= 0, got.Found, "seed %d loops %d to %v", tc.seed, tc.loops, target[0])
				if got.Found {
					assert.Equal(t, want, got.Len(), "seed %d loops %d to %v", tc.seed, tc.loops, target[0])
				}
			}
		}
	}
}
