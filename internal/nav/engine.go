package nav

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Phase is the engine's run state.
type Phase uint8

const (
	Exploring Phase = iota // run 1: sense, pick frontier cells, move
	Executing              // run 2: replay the precomputed optimal plan
	Finished               // run 2 plan exhausted
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Exploring:
		return "exploring"
	case Executing:
		return "executing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Sensors are the left, front and right distances to the nearest wall,
// relative to the robot's heading.
type Sensors [3]int

// Move is the engine's answer to one call of NextMove. A Move with Reset set
// asks the caller to put the robot back on the start pose; it is not a
// command and its Rotation and Movement are meaningless.
type Move struct {
	Rotation core.Rotation
	Movement int
	Reset    bool
}

// ResetMove is the explore to execute hand-off sentinel.
var ResetMove = Move{Reset: true}

// Hold is the zero command: no rotation, no movement.
var Hold = Move{}

// String renders the move the way the harness logs it.
func (m Move) String() string {
	if m.Reset {
		return "(Reset, Reset)"
	}
	return fmt.Sprintf("(%d, %d)", m.Rotation, m.Movement)
}

// Option configures an Engine.
type Option func(*Engine)

// WithAlgorithm selects the exploration variant.
func WithAlgorithm(alg Algorithm) Option {
	return func(e *Engine) { e.alg = alg }
}

// WithRand injects the random source used for tie-breaking.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed seeds the tie-breaking random source. Zero means time-based.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger enables debug logging of the engine's decisions.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithStart overrides the start pose (default: (0,0) facing north).
func WithStart(start core.Pose) Option {
	return func(e *Engine) { e.start = start }
}

// Engine is the robot's navigation engine. It learns the maze during the
// exploration phase and then drives the best known route to the goal.
type Engine struct {
	dim      int
	start    core.Pose
	goals    []core.Cell
	goalSet  mapset.Set[core.Cell]
	alg      Algorithm
	rng      *rand.Rand
	logger   *log.Logger
	m        *GridMap
	toGoal   Heuristic
	frontier *Frontier
	searcher *Searcher
	policy   *Policy

	phase     Phase
	pose      core.Pose
	plan      []Step
	next      int
	target    core.Cell
	coverage  float64
	goalFound bool
	exhausted bool
}

// New creates an engine for a dim x dim maze whose goal is the 2x2 centre.
func New(dim int, opts ...Option) *Engine {
	e := &Engine{
		dim:   dim,
		start: core.Pose{Cell: core.C(0, 0), Heading: core.North},
		alg:   AlgorithmOrDefault(DefaultAlgorithmID),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e.goals = GoalCells(dim)
	e.goalSet = mapset.New[core.Cell]()
	for _, g := range e.goals {
		e.goalSet.Put(g)
	}
	e.m = NewGridMap(dim)
	e.toGoal = GenerateHeuristic(dim, e.goals, MaxMove)
	e.frontier = NewFrontier()
	e.searcher = NewSearcher(e.m)
	e.policy = NewPolicy(e.alg, e.searcher, e.goals, e.toGoal, e.rng)

	e.pose = e.start
	h := e.toGoal.At(e.start.Cell)
	e.m.Explore().Set(e.start.Cell, CostRecord{G: 0, H: h, F: h, Status: Closed})
	e.m.Visit(e.start.Cell)
	e.frontier.Add(e.start.Cell)
	return e
}

// GoalCells returns the centre goal region {dim/2-1, dim/2}².
func GoalCells(dim int) []core.Cell {
	lo, hi := dim/2-1, dim/2
	return []core.Cell{core.C(lo, lo), core.C(lo, hi), core.C(hi, lo), core.C(hi, hi)}
}

// NextMove consumes the sensor readings taken at the current pose and
// returns the next command, ResetMove at the explore to execute hand-off, or
// Hold when there is nothing left to do.
func (e *Engine) NextMove(s Sensors) Move {
	switch e.phase {
	case Exploring:
		e.sense(s)
		e.debug("coverage check", "alg", e.alg.ID, "coverage", e.coverage, "goal_found", e.goalFound)
		if e.policy.ShouldStop(e.coverage, e.goalFound) {
			return e.handOff()
		}
		if e.next >= len(e.plan) {
			d := e.policy.Choose(e.pose, e.frontier.All())
			if !d.Found {
				if !e.exhausted {
					e.warn("no further exploration possible, holding position",
						"coverage", e.coverage, "goal_found", e.goalFound)
				}
				e.exhausted = true
				return Hold
			}
			e.debug("new exploration target", "target", d.Target, "cost", d.Cost, "ties", len(d.Tied))
			e.target = d.Target
			e.plan = d.Plan.Steps
			e.next = 0
		}
		return e.emit()

	case Executing:
		if e.next >= len(e.plan) {
			e.phase = Finished
			return Hold
		}
		mv := e.emit()
		if e.next >= len(e.plan) {
			e.phase = Finished
		}
		return mv

	default:
		return Hold
	}
}

// sense folds one set of sensor readings into the learned map.
func (e *Engine) sense(s Sensors) {
	cur := e.pose.Cell
	explore := e.m.Explore()
	explore.Close(cur)
	e.frontier.Remove(cur)
	if e.goalSet.Has(cur) && !e.goalFound {
		e.goalFound = true
		e.debug("goal reached", "cell", cur)
	}

	visited := explore.Count(Closed)
	e.coverage = math.Round(float64(visited)/float64(e.dim*e.dim)*1000) / 10

	for i, d := range e.pose.Heading.Sensors() {
		dist := core.Clamp(s[i], 0, e.roomAhead(cur, d))
		for k := 0; k < dist; k++ {
			c := cur.Step(d, k)
			next := c.Next(d)
			e.m.Link(c, d)
			if explore.At(next).Status != Unseen {
				continue
			}
			g := explore.At(c).G + 1
			h := e.toGoal.At(next)
			explore.Set(next, CostRecord{G: g, H: h, F: g + h, Status: Open})
			e.frontier.Add(next)
		}
		if edge := cur.Step(d, dist); e.m.IsOpen(edge, d) {
			panic(fmt.Sprintf("nav: sensor reports a wall %v of %v, but that edge is known to be open", d, edge))
		}
	}
}

// roomAhead is the number of cells between c and the boundary in direction d.
func (e *Engine) roomAhead(c core.Cell, d core.Direction) int {
	switch d {
	case core.North:
		return e.dim - 1 - c.Y
	case core.East:
		return e.dim - 1 - c.X
	case core.South:
		return c.Y
	default:
		return c.X
	}
}

// handOff ends exploration: back to the start pose, plan the run to the goal
// on the learned map and ask the caller for a reset.
func (e *Engine) handOff() Move {
	e.phase = Executing
	e.pose = e.start
	plan := e.searcher.Search(e.start, e.goals)
	if !plan.Found {
		e.warn("no route to the goal on the learned map")
	}
	e.plan = plan.Steps
	e.next = 0
	e.debug("exploration complete", "coverage", e.coverage, "commands", len(e.plan))
	return ResetMove
}

// emit returns the next planned command and advances the tracked pose.
func (e *Engine) emit() Move {
	st := e.plan[e.next]
	e.next++
	e.debug("move", "from", e.pose, "to", st.Pose, "rot", st.Rotation, "mov", st.Movement)
	e.pose = st.Pose
	e.m.Visit(st.Pose.Cell)
	return Move{Rotation: st.Rotation, Movement: core.Clamp(st.Movement, -MaxMove, MaxMove)}
}

// Phase returns the current run state.
func (e *Engine) Phase() Phase { return e.phase }

// Pose returns the pose the engine believes the robot is in.
func (e *Engine) Pose() core.Pose { return e.pose }

// Coverage returns the share of visited cells in percent, one decimal.
func (e *Engine) Coverage() float64 { return e.coverage }

// GoalFound reports whether the goal region has been visited.
func (e *Engine) GoalFound() bool { return e.goalFound }

// Exhausted reports whether exploration ran out of reachable frontier cells.
func (e *Engine) Exhausted() bool { return e.exhausted }

// Algorithm returns the exploration variant in use.
func (e *Engine) Algorithm() Algorithm { return e.alg }

// Map returns the learned map.
func (e *Engine) Map() *GridMap { return e.m }

// Frontier returns the current frontier cells.
func (e *Engine) Frontier() []core.Cell { return e.frontier.All() }

// Goals returns the goal cells.
func (e *Engine) Goals() []core.Cell { return e.goals }

// Target returns the frontier cell the current exploration plan heads to.
func (e *Engine) Target() core.Cell { return e.target }

// Remaining returns the commands of the active plan not yet emitted.
func (e *Engine) Remaining() []Step {
	if e.next >= len(e.plan) {
		return nil
	}
	return e.plan[e.next:]
}

func (e *Engine) debug(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, keyvals...)
	}
}

func (e *Engine) warn(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, keyvals...)
	}
}
