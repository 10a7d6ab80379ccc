package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mazebot/internal/config"
	"github.com/vovakirdan/mazebot/internal/core"
	"github.com/vovakirdan/mazebot/internal/maze"
	"github.com/vovakirdan/mazebot/internal/nav"
	"github.com/vovakirdan/mazebot/internal/sim"
	"github.com/vovakirdan/mazebot/internal/storage"
)

// Status area drawn under the maze.
const (
	statusLines = 3
	statusWidth = 64
)

// WatchConfig configures the trial viewer.
type WatchConfig struct {
	Maze      *maze.Maze
	Algorithm nav.Algorithm
	Seed      int64 // 0 = time-based
	Settings  sim.Settings
	Speed     config.SpeedPreset
	TickRate  int // overrides Speed when > 0
	Logger    *log.Logger
}

// Model is the Bubble Tea model that plays a trial step by step.
type Model struct {
	cfg      WatchConfig
	store    *storage.Store
	engine   *nav.Engine
	trial    *sim.Trial
	screen   *core.Screen
	keys     WatchKeyMap
	help     help.Model
	speed    config.SpeedPreset
	tickRate int
	seed     int64
	last     sim.Event
	paused   bool
	quitting bool
	saved    bool // result of the current trial stored
}

// NewModel creates a viewer for one maze and algorithm. store may be nil.
func NewModel(cfg WatchConfig, store *storage.Store) Model {
	if cfg.Speed == "" {
		cfg.Speed = config.SpeedNormal
	}
	w, h := GridSize(cfg.Maze.Dim())
	m := Model{
		cfg:      cfg,
		store:    store,
		screen:   core.NewScreen(max(w, statusWidth), h+statusLines),
		keys:     DefaultWatchKeyMap(),
		help:     help.New(),
		speed:    cfg.Speed,
		tickRate: cfg.TickRate,
	}
	if m.tickRate <= 0 {
		m.tickRate = config.TickRateForPreset(m.speed)
	}
	m.restart(cfg.Seed)
	return m
}

// restart builds a fresh engine and trial. A zero seed is replaced by the clock.
func (m *Model) restart(seed int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m.seed = seed
	m.engine = nav.New(m.cfg.Maze.Dim(),
		nav.WithAlgorithm(m.cfg.Algorithm),
		nav.WithSeed(seed),
		nav.WithLogger(m.cfg.Logger),
	)
	m.trial = sim.NewTrial(m.cfg.Maze, m.engine, m.cfg.Settings, m.cfg.Algorithm.ID, seed)
	m.last = sim.Event{}
	m.saved = false
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		m.paused = true
		m.advance()

	case key.Matches(msg, m.keys.Faster):
		m.setSpeed(m.speed.Faster())

	case key.Matches(msg, m.keys.Slower):
		m.setSpeed(m.speed.Slower())

	case key.Matches(msg, m.keys.Restart):
		m.restart(0)
	}
	return m, nil
}

func (m *Model) setSpeed(p config.SpeedPreset) {
	m.speed = p
	m.tickRate = config.TickRateForPreset(p)
}

// handleTick advances the trial unless paused and keeps the loop running.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		m.advance()
	}
	return m, tickCmd(m.tickRate)
}

// advance performs one harness step and stores the result once the trial ends.
func (m *Model) advance() {
	if m.trial.Done() {
		return
	}
	if ev, _ := m.trial.Step(); ev.Time > 0 {
		m.last = ev
	}
	if m.trial.Done() && !m.saved {
		m.saveResult()
		m.saved = true
	}
}

func (m *Model) saveResult() {
	res := m.trial.Result()
	if m.cfg.Logger != nil {
		m.cfg.Logger.Info("trial finished", "maze", res.Maze, "alg", res.Algorithm, "outcome", res.Outcome, "score", res.Score)
	}
	if m.store == nil {
		return
	}
	if _, err := m.store.SaveTrial(storage.EntryFromResult(res)); err != nil && m.cfg.Logger != nil {
		m.cfg.Logger.Warn("could not save trial", "error", err)
	}
}

// Trial returns the trial being played.
func (m Model) Trial() *sim.Trial {
	return m.trial
}

// Paused reports whether playback is paused.
func (m Model) Paused() bool {
	return m.paused
}

// Speed returns the current playback preset.
func (m Model) Speed() config.SpeedPreset {
	return m.speed
}

// draw renders the maze and status lines into the screen buffer.
func (m *Model) draw() {
	m.screen.Clear()

	var path []core.Cell
	for _, st := range m.engine.Remaining() {
		path = append(path, st.Pose.Cell)
	}
	var frontier []core.Cell
	if m.engine.Phase() == nav.Exploring {
		frontier = m.engine.Frontier()
	}
	DrawMaze(m.screen, Frame{
		Maze:     m.cfg.Maze,
		Pose:     m.trial.Pose(),
		Visits:   m.trial.Visits,
		Trail:    m.trial.Route(),
		Frontier: frontier,
		Path:     path,
	})

	_, gridH := GridSize(m.cfg.Maze.Dim())
	for i, line := range m.statusText() {
		m.screen.DrawTextColored(0, gridH+i, line, core.ColorWhite)
	}
}

func (m *Model) statusText() []string {
	res := m.trial.Result()
	state := string(res.Outcome)
	if m.paused && !m.trial.Done() {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("%s  %s  seed %d", m.cfg.Maze.Name, m.cfg.Algorithm.ID, m.seed),
		fmt.Sprintf("run %d  t=%d/%d  cov %.1f%%  %s  last %s",
			m.trial.RunIndex()+1, m.trial.Time(), m.trialBudget(), m.engine.Coverage(), m.engine.Phase(), m.last.Move),
	}
	switch {
	case res.Completed():
		lines = append(lines, fmt.Sprintf("%s  run1 %d  run2 %d  score %.3f", state, res.Run1, res.Run2, res.Score))
	case m.trial.Done():
		lines = append(lines, fmt.Sprintf("%s: %s", state, res.Message))
	default:
		lines = append(lines, fmt.Sprintf("%s  speed %s", state, m.speed))
	}
	return lines
}

func (m *Model) trialBudget() int {
	if m.cfg.Settings.MaxSteps > 0 {
		return m.cfg.Settings.MaxSteps
	}
	return sim.DefaultMaxSteps
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.draw()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".mazebot", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s_%s.txt", m.cfg.Maze.Name, m.cfg.Algorithm.ID, timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, playback continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw()

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Run starts the viewer and returns the result of the last trial shown.
func Run(cfg WatchConfig, store *storage.Store) (sim.Result, error) {
	p := tea.NewProgram(
		NewModel(cfg, store),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return sim.Result{}, err
	}
	m, ok := final.(Model)
	if !ok {
		return sim.Result{}, nil
	}
	return m.trial.Result(), nil
}
