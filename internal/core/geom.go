// Package core provides fundamental types and utilities shared by the robot,
// the maze environment and the terminal viewer.
// It contains no external dependencies to keep navigation logic pure and testable.
package core

import "fmt"

// Cell is a grid coordinate. X grows to the east, Y grows to the north,
// and (0, 0) is the south-west corner where the robot starts.
type Cell struct {
	X, Y int
}

// C is a convenience constructor for Cell.
func C(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the cell n steps away in direction d.
func (c Cell) Step(d Direction, n int) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx*n, Y: c.Y + dy*n}
}

// Next returns the adjacent cell in direction d.
func (c Cell) Next(d Direction) Cell {
	return c.Step(d, 1)
}

// InBounds reports whether the cell lies on a dim x dim grid.
func (c Cell) InBounds(dim int) bool {
	return c.X >= 0 && c.X < dim && c.Y >= 0 && c.Y < dim
}

// Index converts the cell to a flat column-major index on a dim x dim grid.
func (c Cell) Index(dim int) int {
	return c.X*dim + c.Y
}

// CellAt is the inverse of Cell.Index.
func CellAt(index, dim int) Cell {
	return Cell{X: index / dim, Y: index % dim}
}

// Direction is an absolute heading on the grid.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists all headings in clockwise order starting at North.
var Directions = [4]Direction{North, East, South, West}

// String returns the single-letter name of the direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d <= West
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		panic(fmt.Sprintf("core: invalid direction %d", uint8(d)))
	}
}

// Bit returns the wall-mask bit for this direction (N=1, E=2, S=4, W=8).
func (d Direction) Bit() uint8 {
	if !d.Valid() {
		panic(fmt.Sprintf("core: invalid direction %d", uint8(d)))
	}
	return 1 << d
}

// Left returns the heading after a -90 degree turn.
func (d Direction) Left() Direction {
	return (d + 3) % 4
}

// Right returns the heading after a +90 degree turn.
func (d Direction) Right() Direction {
	return (d + 1) % 4
}

// Reverse returns the opposite heading.
func (d Direction) Reverse() Direction {
	return (d + 2) % 4
}

// Rotate applies a rotation to the heading.
func (d Direction) Rotate(r Rotation) Direction {
	switch r {
	case RotateLeft:
		return d.Left()
	case RotateRight:
		return d.Right()
	default:
		return d
	}
}

// Sensors returns the absolute directions of the left, front and right
// sensors for a robot facing d.
func (d Direction) Sensors() [3]Direction {
	return [3]Direction{d.Left(), d, d.Right()}
}

// ParseDirection accepts the short and long direction names used by maze
// files and the original harness ("u", "up", "N", "north", ...).
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "u", "up", "N", "n", "north":
		return North, true
	case "r", "right", "E", "e", "east":
		return East, true
	case "d", "down", "S", "s", "south":
		return South, true
	case "l", "left", "W", "w", "west":
		return West, true
	default:
		return North, false
	}
}

// Rotation is a robot turn in degrees. Only -90, 0 and +90 are legal.
type Rotation int

const (
	RotateLeft  Rotation = -90
	RotateNone  Rotation = 0
	RotateRight Rotation = 90
)

// Valid reports whether r is one of the legal rotations.
func (r Rotation) Valid() bool {
	return r == RotateLeft || r == RotateNone || r == RotateRight
}

// Pose is the robot's location together with its heading.
type Pose struct {
	Cell    Cell
	Heading Direction
}

// String returns a string representation of the pose.
func (p Pose) String() string {
	return fmt.Sprintf("%v %v", p.Cell, p.Heading)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// CeilDiv returns ceil(a / b) for non-negative a and positive b.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}
