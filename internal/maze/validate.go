package maze

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Validation error codes.
const (
	CodeDimension   = "dimension"
	CodeFormat      = "format"
	CodeBoundary    = "boundary"
	CodeAsymmetric  = "asymmetric"
	CodeStartClosed = "start_closed"
	CodeUnreachable = "unreachable"
)

// ValidationError describes why a maze cannot be used.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("maze: %s: %s", e.Code, e.Message)
}

// IsValidationError reports whether err carries a ValidationError with code.
// An empty code matches any validation error.
func IsValidationError(err error, code string) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return code == "" || ve.Code == code
}

// Validate checks the structural rules every playable maze obeys: the outer
// boundary is closed, wall bits agree between neighbours, the start cell only
// opens to the north, and the goal is reachable from the start.
func (m *Maze) Validate() error {
	for x := 0; x < m.dim; x++ {
		for y := 0; y < m.dim; y++ {
			c := core.C(x, y)
			for _, d := range core.Directions {
				if !m.IsPermissible(c, d) {
					continue
				}
				n := c.Next(d)
				if !n.InBounds(m.dim) {
					return &ValidationError{
						Code:    CodeBoundary,
						Message: fmt.Sprintf("cell %v is open to the %v boundary", c, d),
					}
				}
				if !m.IsPermissible(n, d.Reverse()) {
					return &ValidationError{
						Code:    CodeAsymmetric,
						Message: fmt.Sprintf("cell %v opens %v but %v does not open back", c, d, n),
					}
				}
			}
		}
	}

	if w := m.Walls(core.C(0, 0)); w != core.North.Bit() {
		return &ValidationError{
			Code:    CodeStartClosed,
			Message: fmt.Sprintf("start cell must open to the north only, mask is %d", w),
		}
	}

	reach := m.Reachable()
	if !slices.ContainsFunc(m.Goals(), func(g core.Cell) bool { return slices.Contains(reach, g) }) {
		return &ValidationError{Code: CodeUnreachable, Message: "goal cannot be reached from the start"}
	}
	return nil
}

// Reachable returns the set of cells reachable from the start cell.
func (m *Maze) Reachable() []core.Cell {
	seen := make([]bool, m.dim*m.dim)
	start := core.C(0, 0)
	seen[start.Index(m.dim)] = true
	queue := []core.Cell{start}
	var out []core.Cell
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		for _, d := range core.Directions {
			if !m.IsPermissible(c, d) {
				continue
			}
			n := c.Next(d)
			if !n.InBounds(m.dim) || seen[n.Index(m.dim)] {
				continue
			}
			seen[n.Index(m.dim)] = true
			queue = append(queue, n)
		}
	}
	return out
}
