package nav

import (
	"slices"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Command is one rotate-then-move instruction. Movement is relative to the
// heading after rotation; a negative value drives backwards without turning.
type Command struct {
	Rotation core.Rotation
	Movement int
}

// Step is a command together with the pose the robot ends up in.
type Step struct {
	Command
	Pose core.Pose
}

// RouteStatus tags a route as still expandable or finished at a target.
type RouteStatus uint8

const (
	RouteOpen RouteStatus = iota
	RouteGoal
)

// run is the command currently being accumulated: travel direction, cells
// covered so far and the rotation that starts it.
type run struct {
	dir      core.Direction
	length   int
	rotation core.Rotation
	backward bool
}

// Route is a candidate path tracked by the search. Routes are cloned when a
// junction forks them and extended one cell at a time.
type Route struct {
	Path    []core.Cell
	Heading core.Direction // robot heading after all completed steps
	G       int            // commands used, counting the pending run
	F       int
	Steps   []Step
	Status  RouteStatus

	pending run
	active  bool
}

func newRoute(start core.Pose) *Route {
	return &Route{
		Path:    []core.Cell{start.Cell},
		Heading: start.Heading,
	}
}

// routeKey is what the rest of a route's cost depends on: where it ends and
// how far the pending run could still stretch. Rotations are free within a
// command, so the heading does not matter.
type routeKey struct {
	cell   core.Cell
	dir    core.Direction
	length int
	active bool
}

func (r *Route) key() routeKey {
	if !r.active {
		return routeKey{cell: r.Cell()}
	}
	return routeKey{cell: r.Cell(), dir: r.pending.dir, length: r.pending.length, active: true}
}

// keyAfter is the key the route would have after extend(d, maxMove).
func (r *Route) keyAfter(d core.Direction, maxMove int) routeKey {
	next := r.Cell().Next(d)
	if r.active && r.pending.dir == d && r.pending.length < maxMove {
		return routeKey{cell: next, dir: d, length: r.pending.length + 1, active: true}
	}
	return routeKey{cell: next, dir: d, length: 1, active: true}
}

// Cell returns the cell the route currently ends in.
func (r *Route) Cell() core.Cell {
	return r.Path[len(r.Path)-1]
}

func (r *Route) clone() *Route {
	c := *r
	c.Path = slices.Clone(r.Path)
	c.Steps = slices.Clone(r.Steps)
	return &c
}

// extend moves the route one cell in direction d. The step merges into the
// pending run when it keeps the travel direction and the run stays within
// maxMove cells; otherwise the pending run is flushed and a new one starts.
func (r *Route) extend(d core.Direction, maxMove int) {
	if r.active && r.pending.dir == d && r.pending.length < maxMove {
		r.pending.length++
		r.Path = append(r.Path, r.Cell().Next(d))
		return
	}

	r.flush()
	r.pending = r.startRun(d)
	r.active = true
	r.G++
	r.Path = append(r.Path, r.Cell().Next(d))
}

// startRun works out how the robot, facing r.Heading, begins travelling in d.
// Reversing is a backwards move on the current heading, not a rotation.
func (r *Route) startRun(d core.Direction) run {
	switch d {
	case r.Heading:
		return run{dir: d, length: 1, rotation: core.RotateNone}
	case r.Heading.Left():
		return run{dir: d, length: 1, rotation: core.RotateLeft}
	case r.Heading.Right():
		return run{dir: d, length: 1, rotation: core.RotateRight}
	default:
		return run{dir: d, length: 1, rotation: core.RotateNone, backward: true}
	}
}

// flush turns the pending run into a completed step.
func (r *Route) flush() {
	if !r.active {
		return
	}
	heading := r.pending.dir
	movement := r.pending.length
	if r.pending.backward {
		heading = r.Heading
		movement = -movement
	}
	r.Steps = append(r.Steps, Step{
		Command: Command{Rotation: r.pending.rotation, Movement: movement},
		Pose:    core.Pose{Cell: r.Cell(), Heading: heading},
	})
	r.Heading = heading
	r.active = false
}
