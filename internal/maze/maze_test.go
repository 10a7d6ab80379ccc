package maze

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mazebot/internal/core"
)

// A 4x4 maze: the start opens north, then a short corridor east into the goal.
const smallMaze = `4
1,6,0,0
0,8,0,0
0,0,0,0
0,0,0,0
`

func TestParseText(t *testing.T) {
	small, err := Parse(strings.NewReader(smallMaze))
	require.NoError(t, err)
	assert.True(t, small.IsPermissible(core.C(0, 1), core.East))
	assert.True(t, small.IsPermissible(core.C(1, 1), core.West))
	assert.Len(t, small.Reachable(), 3)

	m := mustOpenGrid(t, 4)
	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, parsed.Dim())
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			assert.Equal(t, m.Walls(core.C(x, y)), parsed.Walls(core.C(x, y)), "cell (%d,%d)", x, y)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"empty", "", CodeFormat},
		{"bad dimension", "x\n", CodeFormat},
		{"odd dimension", "5\n", CodeDimension},
		{"missing columns", "4\n1,0,0,0\n", CodeFormat},
		{"short column", "4\n1,0,0\n0,0,0,0\n0,0,0,0\n0,0,0,0\n", CodeFormat},
		{"mask out of range", "4\n1,0,0,0\n0,0,0,99\n0,0,0,0\n0,0,0,0\n", CodeFormat},
		{"boundary open", "4\n9,4,0,0\n0,0,0,0\n0,0,0,0\n0,0,0,0\n", CodeBoundary},
		{"start sealed", "4\n0,0,0,0\n0,0,0,0\n0,0,0,0\n0,0,0,0\n", CodeStartClosed},
		{"asymmetric", "4\n1,6,0,0\n0,0,0,0\n0,0,0,0\n0,0,0,0\n", CodeAsymmetric},
		{"goal unreachable", "4\n1,4,0,0\n0,0,0,0\n0,0,0,0\n0,0,0,0\n", CodeUnreachable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.src))
			require.Error(t, err)
			assert.True(t, IsValidationError(err, tc.code), "got %v", err)
		})
	}
}

func TestSensorsAndMovement(t *testing.T) {
	m := mustOpenGrid(t, 6)

	assert.Equal(t, 5, m.DistToWall(core.C(0, 0), core.North))
	assert.Equal(t, 0, m.DistToWall(core.C(0, 0), core.East))
	assert.Equal(t, 4, m.DistToWall(core.C(1, 0), core.East))
	assert.False(t, m.IsPermissible(core.C(0, 0), core.West))
	assert.True(t, m.IsPermissible(core.C(0, 1), core.East))
	assert.Panics(t, func() { m.IsPermissible(core.C(6, 0), core.North) })
}

func TestGoals(t *testing.T) {
	m := mustOpenGrid(t, 12)
	assert.ElementsMatch(t, []core.Cell{core.C(5, 5), core.C(5, 6), core.C(6, 5), core.C(6, 6)}, m.Goals())
	assert.True(t, m.InGoal(core.C(6, 5)))
	assert.False(t, m.InGoal(core.C(4, 5)))
}

func TestGenerateIsValidAndSeeded(t *testing.T) {
	for _, dim := range []int{4, 12, 16} {
		a, err := Generate(dim, rand.New(rand.NewSource(11)), GenerateOptions{Loops: dim})
		require.NoError(t, err)
		require.NoError(t, a.Validate(), "dim %d", dim)
		assert.Len(t, a.Reachable(), dim*dim, "every cell is connected")

		b, err := Generate(dim, rand.New(rand.NewSource(11)), GenerateOptions{Loops: dim})
		require.NoError(t, err)
		assert.Equal(t, a.walls, b.walls)

		for _, g := range a.Goals() {
			for _, d := range core.Directions {
				if a.InGoal(g.Next(d)) {
					assert.True(t, a.IsPermissible(g, d), "goal room should be open at %v %v", g, d)
				}
			}
		}
	}
}

func TestGenerateRejectsBadDimension(t *testing.T) {
	_, err := Generate(7, rand.New(rand.NewSource(1)), GenerateOptions{})
	assert.True(t, IsValidationError(err, CodeDimension))
}

func TestYAMLFiles(t *testing.T) {
	m, err := Generate(8, rand.New(rand.NewSource(5)), GenerateOptions{})
	require.NoError(t, err)
	m.Name = "eight"

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "eight.yaml")
	textPath := filepath.Join(dir, "other.txt")
	require.NoError(t, Save(m, yamlPath))
	require.NoError(t, Save(m, textPath))

	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "eight", fromYAML.Name)
	assert.Equal(t, m.walls, fromYAML.walls)

	fromText, err := Load(textPath)
	require.NoError(t, err)
	assert.Equal(t, "other", fromText.Name)
	assert.Equal(t, m.walls, fromText.walls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("dim: 4\ncolumns: [[1]]\n"), 0o644))
	_, err = Load(filepath.Join(dir, "bad.yml"))
	assert.True(t, IsValidationError(err, CodeFormat))

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func mustOpenGrid(t *testing.T, dim int) *Maze {
	t.Helper()
	m, err := OpenGrid(dim)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	return m
}
