package core

// Color represents a foreground color for a screen cell.
// The viewer maps each value to an ANSI 256-color code.
type Color uint8

// Predefined colors for maze elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// Heat returns a color for a visit count: unvisited cells stay gray and
// repeated visits move from green towards red.
func Heat(visits int) Color {
	switch {
	case visits <= 0:
		return ColorGray
	case visits == 1:
		return ColorGreen
	case visits == 2:
		return ColorYellow
	case visits == 3:
		return ColorOrange
	default:
		return ColorRed
	}
}
