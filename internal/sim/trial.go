// Package sim runs robots against ground-truth mazes the way the competition
// harness does: two timed runs sharing one step budget, the first of which
// ends with a reset once the goal has been reached.
package sim

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mazebot/internal/core"
	"github.com/vovakirdan/mazebot/internal/maze"
	"github.com/vovakirdan/mazebot/internal/nav"
)

// Defaults for the harness budget and scoring.
const (
	DefaultMaxSteps       = 1000
	DefaultTrainScoreMult = 1.0 / 30
)

// Robot is anything that answers sensor readings with moves.
type Robot interface {
	NextMove(s nav.Sensors) nav.Move
}

// Outcome is how a trial ended.
type Outcome string

const (
	OutcomeRunning      Outcome = "running"
	OutcomeCompleted    Outcome = "completed"
	OutcomeTimeout      Outcome = "timeout"
	OutcomeCrashed      Outcome = "crashed"
	OutcomeInvalidMove  Outcome = "invalid_move"
	OutcomeIllegalReset Outcome = "illegal_reset"
)

// Settings control the step budget and score weighting.
type Settings struct {
	MaxSteps       int
	TrainScoreMult float64
}

// DefaultSettings returns the standard competition settings.
func DefaultSettings() Settings {
	return Settings{MaxSteps: DefaultMaxSteps, TrainScoreMult: DefaultTrainScoreMult}
}

// Result summarises a finished trial.
type Result struct {
	Maze      string  `yaml:"maze"`
	Algorithm string  `yaml:"algorithm"`
	Seed      int64   `yaml:"seed"`
	Outcome   Outcome `yaml:"outcome"`
	Message   string  `yaml:"message,omitempty"`
	Run1      int     `yaml:"run1"`
	Run2      int     `yaml:"run2"`
	Score     float64 `yaml:"score"`
	Coverage  float64 `yaml:"coverage"`
	Steps     int     `yaml:"steps"`
}

// Completed reports whether both runs finished.
func (r Result) Completed() bool {
	return r.Outcome == OutcomeCompleted
}

// Event describes one harness step.
type Event struct {
	Time    int
	Run     int
	Sensors nav.Sensors
	Move    nav.Move
	Pose    core.Pose // pose after the move
	Goal    bool      // the move ended inside the goal
}

// Trial is one robot's two-run attempt on a maze. Use Step to drive it one
// harness tick at a time (the viewer does) or Run to play it to the end.
type Trial struct {
	maze     *maze.Maze
	robot    Robot
	settings Settings

	pose     core.Pose
	run      int
	time     int
	run1     int
	hitGoal  bool
	visits   []int
	route    []core.Cell
	outcome  Outcome
	message  string
	metadata Result
	logger   *log.Logger
}

// NewTrial prepares a trial. alg and seed are only recorded in the result.
func NewTrial(m *maze.Maze, robot Robot, settings Settings, alg string, seed int64) *Trial {
	if settings.MaxSteps <= 0 {
		settings.MaxSteps = DefaultMaxSteps
	}
	if settings.TrainScoreMult <= 0 {
		settings.TrainScoreMult = DefaultTrainScoreMult
	}
	return &Trial{
		maze:     m,
		robot:    robot,
		settings: settings,
		pose:     startPose(),
		visits:   make([]int, m.Dim()*m.Dim()),
		outcome:  OutcomeRunning,
		metadata: Result{Maze: m.Name, Algorithm: alg, Seed: seed},
	}
}

// SetLogger enables logging of run boundaries (Info) and protocol
// violations (Warn). A nil logger disables it.
func (t *Trial) SetLogger(l *log.Logger) {
	t.logger = l
}

func startPose() core.Pose {
	return core.Pose{Cell: core.C(0, 0), Heading: core.North}
}

// Done reports whether the trial has ended.
func (t *Trial) Done() bool {
	return t.outcome != OutcomeRunning
}

// Pose returns the robot's true pose.
func (t *Trial) Pose() core.Pose { return t.pose }

// RunIndex returns 0 during exploration and 1 during the timed run.
func (t *Trial) RunIndex() int { return t.run }

// Time returns the steps consumed so far.
func (t *Trial) Time() int { return t.time }

// Maze returns the ground-truth maze.
func (t *Trial) Maze() *maze.Maze { return t.maze }

// Visits returns how often the harness sensed at c.
func (t *Trial) Visits(c core.Cell) int { return t.visits[c.Index(t.maze.Dim())] }

// Route returns the cells crossed during the timed run, in order.
func (t *Trial) Route() []core.Cell { return t.route }

// Step performs one harness tick: sense, ask the robot, apply the move.
// It returns false once the trial is over.
func (t *Trial) Step() (Event, bool) {
	if t.Done() {
		return Event{}, false
	}

	t.time++
	if t.time > t.settings.MaxSteps {
		t.finish(OutcomeTimeout, "allotted time exceeded")
		return Event{}, false
	}

	ev := Event{Time: t.time, Run: t.run, Sensors: t.sense()}
	t.visits[t.pose.Cell.Index(t.maze.Dim())]++

	mv := t.robot.NextMove(ev.Sensors)
	ev.Move = mv

	if mv.Reset {
		if t.run != 0 {
			t.finish(OutcomeIllegalReset, "cannot reset on runs after the first")
			return ev, false
		}
		if !t.hitGoal {
			t.finish(OutcomeIllegalReset, "cannot reset, robot has not hit the goal yet")
			return ev, false
		}
		t.run1 = t.time
		t.run = 1
		t.pose = startPose()
		if t.logger != nil {
			t.logger.Info("run 1 finished", "maze", t.maze.Name, "steps", t.run1, "coverage", t.coverage())
		}
		ev.Pose = t.pose
		return ev, true
	}

	if !mv.Rotation.Valid() {
		t.finish(OutcomeInvalidMove, fmt.Sprintf("invalid rotation %d", mv.Rotation))
		return ev, false
	}
	if core.Abs(mv.Movement) > nav.MaxMove {
		t.finish(OutcomeInvalidMove, fmt.Sprintf("movement %d exceeds %d cells", mv.Movement, nav.MaxMove))
		return ev, false
	}

	t.pose.Heading = t.pose.Heading.Rotate(mv.Rotation)
	d := t.pose.Heading
	if mv.Movement < 0 {
		d = d.Reverse()
	}
	for k := 0; k < core.Abs(mv.Movement); k++ {
		if !t.maze.IsPermissible(t.pose.Cell, d) {
			ev.Pose = t.pose
			t.finish(OutcomeCrashed, fmt.Sprintf("movement stopped by wall at %v heading %v", t.pose.Cell, d))
			return ev, false
		}
		t.pose.Cell = t.pose.Cell.Next(d)
		if t.run == 1 {
			t.route = append(t.route, t.pose.Cell)
		}
	}
	ev.Pose = t.pose

	if t.maze.InGoal(t.pose.Cell) {
		ev.Goal = true
		t.hitGoal = true
		if t.run != 0 {
			t.finish(OutcomeCompleted, "")
			return ev, false
		}
	}
	return ev, true
}

// Run plays the trial to the end.
func (t *Trial) Run() Result {
	for {
		if _, ok := t.Step(); !ok {
			return t.Result()
		}
	}
}

// Result reports the trial's state. Run2 and Score are only meaningful once
// the outcome is completed.
func (t *Trial) Result() Result {
	r := t.metadata
	r.Outcome = t.outcome
	r.Message = t.message
	r.Steps = min(t.time, t.settings.MaxSteps)
	r.Coverage = t.coverage()
	if t.run == 0 {
		r.Run1 = r.Steps
		return r
	}
	r.Run1 = t.run1
	r.Run2 = r.Steps - t.run1
	if r.Completed() {
		r.Score = math.Round((float64(r.Run2)+t.settings.TrainScoreMult*float64(r.Run1))*1000) / 1000
	}
	return r
}

func (t *Trial) sense() nav.Sensors {
	var s nav.Sensors
	for i, d := range t.pose.Heading.Sensors() {
		s[i] = t.maze.DistToWall(t.pose.Cell, d)
	}
	return s
}

// coverage is the share of cells sensed from at least once, in percent with
// two decimals.
func (t *Trial) coverage() float64 {
	n := 0
	for _, v := range t.visits {
		if v > 0 {
			n++
		}
	}
	return math.Round(float64(n)/float64(len(t.visits))*10000) / 100
}

func (t *Trial) finish(o Outcome, msg string) {
	t.outcome = o
	t.message = msg
	if t.logger == nil {
		return
	}
	if o == OutcomeCompleted {
		t.logger.Info("run 2 finished", "maze", t.maze.Name, "steps", t.time-t.run1)
		return
	}
	t.logger.Warn("trial aborted", "maze", t.maze.Name, "outcome", o, "reason", msg, "time", t.time)
}
