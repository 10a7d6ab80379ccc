package sim

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mazebot/internal/maze"
	"github.com/vovakirdan/mazebot/internal/nav"
)

// MazeSource builds the maze named id. Generated layouts derive from seed.
type MazeSource func(id string, seed int64) (*maze.Maze, error)

// Plan lists what a batch runs: every algorithm on every maze, Attempts times.
type Plan struct {
	Mazes      []string
	Algorithms []string
	Attempts   int
	Seed       int64 // drives maze layouts and robot tie-breaking
}

// Record is one trial inside a batch.
type Record struct {
	ID       uuid.UUID     `yaml:"id"`
	Attempt  int           `yaml:"attempt"`
	Started  time.Time     `yaml:"started"`
	Duration time.Duration `yaml:"duration"`
	Result   `yaml:",inline"`
}

// Summary aggregates the records of one maze/algorithm pair.
type Summary struct {
	Maze         string  `yaml:"maze"`
	Algorithm    string  `yaml:"algorithm"`
	Trials       int     `yaml:"trials"`
	Completed    int     `yaml:"completed"`
	MeanScore    float64 `yaml:"mean_score"`
	BestScore    float64 `yaml:"best_score"`
	MeanRun1     float64 `yaml:"mean_run1"`
	MeanRun2     float64 `yaml:"mean_run2"`
	MeanCoverage float64 `yaml:"mean_coverage"`
}

// Report is the outcome of a batch.
type Report struct {
	ID       uuid.UUID `yaml:"id"`
	Started  time.Time `yaml:"started"`
	Finished time.Time `yaml:"finished"`
	Seed     int64     `yaml:"seed"`
	Records  []Record  `yaml:"records"`
	Summary  []Summary `yaml:"summary"`
}

// WriteYAML encodes the report.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("sim: cannot encode report: %w", err)
	}
	return enc.Close()
}

// Runner executes batches on a pool of worker goroutines.
type Runner struct {
	source   MazeSource
	settings Settings
	workers  int
	logger   *log.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets how many trials run concurrently.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSettings overrides the harness settings.
func WithSettings(s Settings) RunnerOption {
	return func(r *Runner) { r.settings = s }
}

// WithLogger sets the logger used for progress output.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a batch runner reading mazes from source.
func NewRunner(source MazeSource, opts ...RunnerOption) *Runner {
	r := &Runner{
		source:   source,
		settings: DefaultSettings(),
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type job struct {
	index     int
	mazeID    string
	algorithm nav.Algorithm
	attempt   int
	robotSeed int64
}

type outcome struct {
	index  int
	record Record
	err    error
}

// Run executes every trial in plan and returns the report. Records are in
// plan order regardless of scheduling.
func (r *Runner) Run(ctx context.Context, plan Plan) (*Report, error) {
	if plan.Attempts <= 0 {
		plan.Attempts = 1
	}
	if plan.Seed == 0 {
		plan.Seed = time.Now().UnixNano()
	}

	algs := make([]nav.Algorithm, 0, len(plan.Algorithms))
	for _, id := range plan.Algorithms {
		alg, ok := nav.LookupAlgorithm(id)
		if !ok {
			return nil, fmt.Errorf("sim: unknown algorithm %q", id)
		}
		algs = append(algs, alg)
	}
	if len(algs) == 0 || len(plan.Mazes) == 0 {
		return nil, fmt.Errorf("sim: batch needs at least one maze and one algorithm")
	}

	mazes := make(map[string]*maze.Maze, len(plan.Mazes))
	for _, id := range plan.Mazes {
		m, err := r.source(id, plan.Seed)
		if err != nil {
			return nil, err
		}
		mazes[id] = m
	}

	seeds := rand.New(rand.NewSource(plan.Seed))
	var jobs []job
	for _, id := range plan.Mazes {
		for _, alg := range algs {
			for a := 1; a <= plan.Attempts; a++ {
				jobs = append(jobs, job{
					index:     len(jobs),
					mazeID:    id,
					algorithm: alg,
					attempt:   a,
					robotSeed: seeds.Int63(),
				})
			}
		}
	}

	report := &Report{ID: uuid.New(), Started: time.Now(), Seed: plan.Seed}
	r.info("batch started", "id", report.ID, "trials", len(jobs), "workers", r.workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCh := make(chan job)
	outCh := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < min(r.workers, len(jobs)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobCh:
					if !ok {
						return
					}
					rec := r.runJob(mazes[j.mazeID], j)
					select {
					case outCh <- outcome{index: j.index, record: rec}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for _, j := range jobs {
			select {
			case jobCh <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	records := make([]Record, len(jobs))
	done := 0
	for o := range outCh {
		records[o.index] = o.record
		done++
		r.debug("trial finished",
			"maze", o.record.Maze,
			"alg", o.record.Algorithm,
			"attempt", o.record.Attempt,
			"outcome", o.record.Outcome,
			"score", o.record.Score,
			"progress", fmt.Sprintf("%d/%d", done, len(jobs)))
	}

	if err := ctx.Err(); err != nil && done < len(jobs) {
		return nil, fmt.Errorf("sim: batch interrupted after %d of %d trials: %w", done, len(jobs), err)
	}

	report.Records = records
	report.Summary = Summarize(records)
	report.Finished = time.Now()
	r.info("batch finished", "id", report.ID, "elapsed", report.Finished.Sub(report.Started).Round(time.Millisecond))
	return report, nil
}

func (r *Runner) runJob(m *maze.Maze, j job) Record {
	started := time.Now()
	robot := nav.New(m.Dim(), nav.WithAlgorithm(j.algorithm), nav.WithSeed(j.robotSeed))
	res := NewTrial(m, robot, r.settings, j.algorithm.ID, j.robotSeed).Run()
	return Record{
		ID:       uuid.New(),
		Attempt:  j.attempt,
		Started:  started,
		Duration: time.Since(started),
		Result:   res,
	}
}

// Summarize groups records by maze and algorithm, in first-seen order.
func Summarize(records []Record) []Summary {
	type key struct{ maze, alg string }
	index := make(map[key]int)
	var out []Summary
	var scoreSum, run1Sum, run2Sum, covSum []float64

	for _, rec := range records {
		k := key{rec.Maze, rec.Algorithm}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Summary{Maze: rec.Maze, Algorithm: rec.Algorithm})
			scoreSum = append(scoreSum, 0)
			run1Sum = append(run1Sum, 0)
			run2Sum = append(run2Sum, 0)
			covSum = append(covSum, 0)
		}
		s := &out[i]
		s.Trials++
		covSum[i] += rec.Coverage
		if !rec.Completed() {
			continue
		}
		s.Completed++
		scoreSum[i] += rec.Score
		run1Sum[i] += float64(rec.Run1)
		run2Sum[i] += float64(rec.Run2)
		if s.Completed == 1 || rec.Score < s.BestScore {
			s.BestScore = rec.Score
		}
	}

	for i := range out {
		s := &out[i]
		s.MeanCoverage = round2(covSum[i] / float64(s.Trials))
		if s.Completed > 0 {
			n := float64(s.Completed)
			s.MeanScore = round2(scoreSum[i] / n)
			s.MeanRun1 = round2(run1Sum[i] / n)
			s.MeanRun2 = round2(run2Sum[i] / n)
		}
	}
	return out
}

// Ranking orders summaries best first: more completions, then lower mean
// score.
func Ranking(summaries []Summary) []Summary {
	out := append([]Summary(nil), summaries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return out[i].Completed > out[j].Completed
		}
		return out[i].MeanScore < out[j].MeanScore
	})
	return out
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func (r *Runner) info(msg string, keyvals ...any) {
	if r.logger != nil {
		r.logger.Info(msg, keyvals...)
	}
}

func (r *Runner) debug(msg string, keyvals ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, keyvals...)
	}
}
