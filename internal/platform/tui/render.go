package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mazebot/internal/core"
	"github.com/vovakirdan/mazebot/internal/maze"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// Maze drawing geometry: every cell is cellW runes wide plus one wall column,
// and one row tall plus one wall row.
const (
	cellW = 3
	pitch = cellW + 1
)

// GridSize returns the screen size needed to draw a dim x dim maze.
func GridSize(dim int) (width, height int) {
	return dim*pitch + 1, dim*2 + 1
}

// Frame is everything drawn for one moment of a trial.
type Frame struct {
	Maze     *maze.Maze
	Pose     core.Pose
	Visits   func(core.Cell) int // nil draws no heat
	Trail    []core.Cell // cells crossed on the timed run
	Frontier []core.Cell
	Path     []core.Cell // cells the robot still plans to cross
}

// cellOrigin returns the screen column and row of the first rune inside c.
// North is drawn at the top.
func cellOrigin(c core.Cell, dim int) (sx, sy int) {
	return c.X*pitch + 1, (dim-1-c.Y)*2 + 1
}

var headingRunes = map[core.Direction]rune{
	core.North: '^',
	core.East:  '>',
	core.South: 'v',
	core.West:  '<',
}

// DrawMaze draws f onto s starting at the top-left corner.
func DrawMaze(s *core.Screen, f Frame) {
	m := f.Maze
	dim := m.Dim()

	// Corners and walls.
	for x := 0; x < dim; x++ {
		for y := 0; y < dim; y++ {
			c := core.C(x, y)
			sx, sy := cellOrigin(c, dim)
			s.SetColored(sx-1, sy-1, '+', core.ColorGray)
			s.SetColored(sx+cellW, sy-1, '+', core.ColorGray)
			s.SetColored(sx-1, sy+1, '+', core.ColorGray)
			s.SetColored(sx+cellW, sy+1, '+', core.ColorGray)

			if !m.IsPermissible(c, core.North) {
				s.DrawTextColored(sx, sy-1, "---", core.ColorWhite)
			}
			if !m.IsPermissible(c, core.South) {
				s.DrawTextColored(sx, sy+1, "---", core.ColorWhite)
			}
			if !m.IsPermissible(c, core.West) {
				s.SetColored(sx-1, sy, '|', core.ColorWhite)
			}
			if !m.IsPermissible(c, core.East) {
				s.SetColored(sx+cellW, sy, '|', core.ColorWhite)
			}
		}
	}

	// Cell contents, lowest priority first.
	mid := cellW / 2
	for x := 0; x < dim; x++ {
		for y := 0; y < dim; y++ {
			c := core.C(x, y)
			sx, sy := cellOrigin(c, dim)
			if m.InGoal(c) {
				s.DrawTextColored(sx, sy, "[ ]", core.ColorMagenta)
			}
			if f.Visits != nil {
				if n := f.Visits(c); n > 0 {
					s.SetColored(sx+mid, sy, '.', core.Heat(n))
				}
			}
		}
	}
	for _, c := range f.Trail {
		sx, sy := cellOrigin(c, dim)
		s.SetColored(sx+mid, sy, 'o', core.ColorGreen)
	}
	for _, c := range f.Frontier {
		sx, sy := cellOrigin(c, dim)
		s.SetColored(sx+mid, sy, '?', core.ColorBlue)
	}
	for _, c := range f.Path {
		sx, sy := cellOrigin(c, dim)
		s.SetColored(sx+mid, sy, '*', core.ColorYellow)
	}

	sx, sy := cellOrigin(f.Pose.Cell, dim)
	s.SetColored(sx+mid, sy, headingRunes[f.Pose.Heading], core.ColorCyan)
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
