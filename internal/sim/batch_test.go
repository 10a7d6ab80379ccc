package sim

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mazebot/internal/maze"
)

func testSource(id string, seed int64) (*maze.Maze, error) {
	var (
		m   *maze.Maze
		err error
	)
	switch id {
	case "open":
		m, err = maze.OpenGrid(8)
	case "wilson":
		m, err = maze.Generate(12, newRand(seed), maze.GenerateOptions{Loops: 4})
	default:
		return nil, fmt.Errorf("no maze %q", id)
	}
	if err != nil {
		return nil, err
	}
	m.Name = id
	return m, nil
}

func TestBatchRun(t *testing.T) {
	plan := Plan{
		Mazes:      []string{"open", "wilson"},
		Algorithms: []string{"SHORT_GOALS", "HEURISTIC_90"},
		Attempts:   3,
		Seed:       99,
	}
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})

	first, err := NewRunner(testSource, WithWorkers(4), WithLogger(logger)).Run(context.Background(), plan)
	require.NoError(t, err)
	second, err := NewRunner(testSource, WithWorkers(1)).Run(context.Background(), plan)
	require.NoError(t, err)

	require.Len(t, first.Records, 12)
	assert.NotEqual(t, first.ID, second.ID)

	ids := map[string]bool{}
	for i, rec := range first.Records {
		assert.False(t, ids[rec.ID.String()], "duplicate record id")
		ids[rec.ID.String()] = true

		other := second.Records[i]
		assert.Equal(t, other.Maze, rec.Maze)
		assert.Equal(t, other.Algorithm, rec.Algorithm)
		assert.Equal(t, other.Seed, rec.Seed)
		assert.Equal(t, other.Score, rec.Score, "record %d should not depend on scheduling", i)
		assert.Equal(t, OutcomeCompleted, rec.Outcome, rec.Message)
	}

	assert.Equal(t, "open", first.Records[0].Maze)
	assert.Equal(t, "SHORT_GOALS", first.Records[0].Algorithm)
	assert.Equal(t, 1, first.Records[0].Attempt)
	assert.Equal(t, 3, first.Records[2].Attempt)

	require.Len(t, first.Summary, 4)
	for _, s := range first.Summary {
		assert.Equal(t, 3, s.Trials)
		assert.Equal(t, 3, s.Completed)
		assert.LessOrEqual(t, s.BestScore, s.MeanScore)
	}
}

func TestBatchRejectsBadPlans(t *testing.T) {
	r := NewRunner(testSource)

	_, err := r.Run(context.Background(), Plan{Mazes: []string{"open"}, Algorithms: []string{"DFS"}})
	assert.ErrorContains(t, err, "unknown algorithm")

	_, err = r.Run(context.Background(), Plan{Mazes: []string{"nowhere"}, Algorithms: []string{"SHORT_80"}})
	assert.Error(t, err)

	_, err = r.Run(context.Background(), Plan{Algorithms: []string{"SHORT_80"}})
	assert.Error(t, err)
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(testSource, WithWorkers(2)).Run(ctx, Plan{
		Mazes:      []string{"wilson"},
		Algorithms: []string{"SHORT_100"},
		Attempts:   50,
		Seed:       1,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarizeAndRanking(t *testing.T) {
	records := []Record{
		{Result: Result{Maze: "m", Algorithm: "A", Outcome: OutcomeCompleted, Score: 20, Run1: 300, Run2: 10, Coverage: 50}},
		{Result: Result{Maze: "m", Algorithm: "A", Outcome: OutcomeCompleted, Score: 30, Run1: 600, Run2: 10, Coverage: 70}},
		{Result: Result{Maze: "m", Algorithm: "B", Outcome: OutcomeTimeout, Coverage: 90}},
		{Result: Result{Maze: "m", Algorithm: "B", Outcome: OutcomeCompleted, Score: 12, Run1: 60, Run2: 10, Coverage: 20}},
	}

	sum := Summarize(records)
	require.Len(t, sum, 2)
	assert.Equal(t, Summary{
		Maze: "m", Algorithm: "A", Trials: 2, Completed: 2,
		MeanScore: 25, BestScore: 20, MeanRun1: 450, MeanRun2: 10, MeanCoverage: 60,
	}, sum[0])
	assert.Equal(t, 1, sum[1].Completed)
	assert.InDelta(t, 55.0, sum[1].MeanCoverage, 1e-9)

	ranked := Ranking(sum)
	assert.Equal(t, "A", ranked[0].Algorithm)
}

func TestReportYAML(t *testing.T) {
	report, err := NewRunner(testSource, WithWorkers(2)).Run(context.Background(), Plan{
		Mazes:      []string{"open"},
		Algorithms: []string{"SHORT_GOALS"},
		Seed:       5,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteYAML(&buf))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.ID.String(), decoded["id"])
	assert.Len(t, decoded["records"], 1)
	assert.Contains(t, buf.String(), "outcome: completed")
}
