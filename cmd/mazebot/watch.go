package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mazebot/internal/config"
	"github.com/vovakirdan/mazebot/internal/platform/tui"
)

var (
	flagWatchSpeed   string
	flagWatchTPS     int
	flagWatchLogFile string
)

var watchCmd = &cobra.Command{
	Use:   "watch [maze]",
	Short: "Animate a trial in the terminal",
	Long: `Play a trial step by step. The robot is drawn as an arrow, sensed cells
are shaded by how often the robot stood on them, '?' marks frontier cells,
'*' the ends of the commands the robot still plans to send and 'o' the cells
crossed on the timed run.

Controls:
  Space/P    - Pause or resume
  N          - Single step
  +/-        - Faster / slower
  R          - Restart with a new seed
  Ctrl+S     - Save a screenshot to ~/.mazebot/screenshots
  Q/Esc      - Quit

Examples:
  mazebot watch wilson-12
  mazebot watch loops-16 --speed fast --alg HEURISTIC_70
  mazebot watch open-8 --log-file robot.log --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchSpeed, "speed", "", "Playback speed: slow, normal, fast, instant")
	watchCmd.Flags().IntVar(&flagWatchTPS, "tps", 0, "Steps per second (overrides --speed)")
	watchCmd.Flags().StringVar(&flagWatchLogFile, "log-file", "", "Write robot and harness logs to this file")
}

func runWatch(_ *cobra.Command, args []string) {
	seed := robotSeed()
	m, err := resolveMaze(mazeRef(args), seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	speed := cfg.Viewer.Speed
	if flagWatchSpeed != "" {
		p, ok := config.ParseSpeedPreset(flagWatchSpeed)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown speed %q\n", flagWatchSpeed)
			os.Exit(1)
		}
		speed = p
	}
	tps := cfg.Viewer.TPS
	if flagWatchTPS > 0 {
		tps = flagWatchTPS
	}

	// Warn early when the maze will not fit.
	gridW, gridH := tui.GridSize(m.Dim())
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil && (w < gridW || h < gridH+5) {
		logger.Warn("terminal is smaller than the maze view", "have", fmt.Sprintf("%dx%d", w, h), "need", fmt.Sprintf("%dx%d", gridW, gridH+5))
	}

	// Logging to stderr would tear the alternate screen.
	var viewLogger *log.Logger
	if flagWatchLogFile != "" {
		f, err := os.OpenFile(flagWatchLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		viewLogger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "mazebot"})
		viewLogger.SetLevel(logger.GetLevel())
	}

	store := openStore()

	res, runErr := tui.Run(tui.WatchConfig{
		Maze:      m,
		Algorithm: algorithm(),
		Seed:      seed,
		Settings:  settings(),
		Speed:     speed,
		TickRate:  tps,
		Logger:    viewLogger,
	}, store)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running viewer: %v\n", runErr)
		os.Exit(1)
	}
	if res.Maze != "" {
		printResult(res)
	}
}
