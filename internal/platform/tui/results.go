package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mazebot/internal/storage"
)

// Results layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show maze list sidebar
	sidebarWidth       = 20 // Width of maze list sidebar
)

// ResultsKeyMap defines the key bindings for the results browser.
type ResultsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMaze key.Binding
	PrevMaze key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMaze, k.PrevMaze, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMaze, k.PrevMaze},
		{k.Quit},
	}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMaze: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next maze"),
		),
		PrevMaze: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev maze"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ResultsModel is the Bubble Tea model for browsing stored algorithm statistics.
type ResultsModel struct {
	mazes       []string
	mazeCursor  int
	stats       map[string][]storage.AlgorithmStats
	table       table.Model
	help        help.Model
	keys        ResultsKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewResultsModel loads statistics from store and groups them by maze.
func NewResultsModel(store *storage.Store, width, height int) (ResultsModel, error) {
	m := ResultsModel{
		stats:       make(map[string][]storage.AlgorithmStats),
		keys:        DefaultResultsKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	if store != nil {
		all, err := store.GetAlgorithmStats("")
		if err != nil {
			return m, err
		}
		for _, s := range all {
			if _, ok := m.stats[s.Maze]; !ok {
				m.mazes = append(m.mazes, s.Maze)
			}
			m.stats[s.Maze] = append(m.stats[s.Maze], s)
		}
	}

	m.table = m.createTable()
	m.updateTableRows()
	return m, nil
}

// createTable creates a new table sized to the current window.
func (m *ResultsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Algorithm", Width: 16},
		{Title: "Trials", Width: 7},
		{Title: "Done", Width: 6},
		{Title: "Best", Width: 8},
		{Title: "Avg", Width: 8},
		{Title: "Cov %", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Rows returns the table rows for the selected maze.
func (m ResultsModel) Rows() []table.Row {
	if len(m.mazes) == 0 {
		return nil
	}
	stats := m.stats[m.mazes[m.mazeCursor]]
	rows := make([]table.Row, len(stats))
	for i, s := range stats {
		best, avg := "-", "-"
		if s.Completed > 0 {
			best = fmt.Sprintf("%.3f", s.BestScore)
			avg = fmt.Sprintf("%.3f", s.AvgScore)
		}
		rows[i] = table.Row{
			s.Algorithm,
			fmt.Sprintf("%d", s.Trials),
			fmt.Sprintf("%.0f%%", s.SuccessRate()*100),
			best,
			avg,
			fmt.Sprintf("%.1f", s.AvgCoverage),
		}
	}
	return rows
}

func (m *ResultsModel) updateTableRows() {
	m.table.SetRows(m.Rows())
	m.table.GotoTop()
}

// Maze returns the selected maze, or "" when nothing is stored.
func (m ResultsModel) Maze() string {
	if len(m.mazes) == 0 {
		return ""
	}
	return m.mazes[m.mazeCursor]
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results browser.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMaze):
			if len(m.mazes) > 0 {
				m.mazeCursor = (m.mazeCursor + 1) % len(m.mazes)
				m.updateTableRows()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevMaze):
			if len(m.mazes) > 0 {
				m.mazeCursor = (m.mazeCursor - 1 + len(m.mazes)) % len(m.mazes)
				m.updateTableRows()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results browser.
func (m ResultsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "RESULTS"
	if maze := m.Maze(); maze != "" {
		title = fmt.Sprintf("RESULTS - %s", maze)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the table with a maze list sidebar.
func (m ResultsModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Mazes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, name := range m.mazes {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.mazeCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the selected maze name above the table.
func (m ResultsModel) renderNarrowLayout() string {
	var b strings.Builder
	if maze := m.Maze(); maze != "" {
		b.WriteString(centerText(fmt.Sprintf("< %s >", maze), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ResultsModel) renderTableContent() string {
	if len(m.mazes) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No trials recorded yet.\nRun `mazebot batch --save` to collect some!")
	}
	return m.table.View()
}

// centerText pads text on the left to center it within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunResults runs the results browser.
func RunResults(store *storage.Store, width, height int) error {
	model, err := NewResultsModel(store, width, height)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
