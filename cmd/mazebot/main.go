// mazebot simulates a micromouse-style robot that learns an unknown maze
// from wall-distance sensors and then races the best route it found.
//
// Usage:
//
//	mazebot list                 - List built-in mazes
//	mazebot algs                 - List exploration algorithms
//	mazebot run <maze>           - Run one trial and print the score
//	mazebot batch <maze>...      - Run many trials concurrently
//	mazebot watch <maze>         - Animate a trial in the terminal
//	mazebot results              - Show stored results
//	mazebot gen                  - Generate a maze file
//	mazebot serve                - Serve the viewer over SSH
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.mazebot/configs, ./configs)
//	--seed <value>      - RNG seed for reproducible runs (0 = time-based)
//	--db <path>         - Results database (default: ~/.mazebot/results.db)
//	--alg <id>          - Exploration algorithm (default: SHORT_80)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebot/internal/config"
	"github.com/vovakirdan/mazebot/internal/maze"
	_ "github.com/vovakirdan/mazebot/internal/maze/builtin" // register built-in mazes
	"github.com/vovakirdan/mazebot/internal/nav"
	"github.com/vovakirdan/mazebot/internal/registry"
	"github.com/vovakirdan/mazebot/internal/sim"
	"github.com/vovakirdan/mazebot/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagAlg      string
	flagLogLevel string

	// Resolved in PersistentPreRunE
	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mazebot",
	Short: "mazebot - a maze-exploring robot and its test harness",
	Long: `mazebot drives a simulated robot through a square maze. In the first run
the robot explores with only three wall-distance sensors; after a reset it
races the fastest route it knows to the 2x2 goal room in the centre.

Available commands:
  list     - Show built-in mazes
  algs     - Show exploration algorithms
  run      - Run one trial
  batch    - Run many trials and summarise them
  watch    - Animate a trial
  results  - Show stored results
  gen      - Generate a maze file
  serve    - Start SSH server for remote viewing

Examples:
  mazebot run wilson-12
  mazebot run ./mazes/test_maze_01.txt --alg HEURISTIC_90
  mazebot batch wilson-12 loops-16 --algs SHORT_80,SHORT_GOALS --attempts 20
  mazebot watch loops-14 --speed fast`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagAlg, "alg", "", "Exploration algorithm ID")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(algsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads configuration with the precedence file < .env/environment < flags
// and builds the shared logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&c); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		c.Robot.Seed = flagSeed
	}
	if flags.Changed("db") {
		c.Storage.DB = flagDBPath
	}
	if flags.Changed("alg") {
		c.Robot.Algorithm = flagAlg
	}
	if flags.Changed("log-level") {
		c.Log.Level = flagLogLevel
	}
	cfg = c

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mazebot",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return nil
}

// algorithm returns the configured exploration algorithm, falling back to
// the default variant for unknown IDs.
func algorithm() nav.Algorithm {
	if a, ok := nav.LookupAlgorithm(cfg.Robot.Algorithm); ok {
		return a
	}
	a := nav.AlgorithmOrDefault(nav.DefaultAlgorithmID)
	logger.Warn("unknown algorithm, using default", "alg", cfg.Robot.Algorithm, "default", a.ID)
	return a
}

// robotSeed returns the configured seed or a time-based one.
func robotSeed() int64 {
	if cfg.Robot.Seed != 0 {
		return cfg.Robot.Seed
	}
	return time.Now().UnixNano()
}

// settings returns the harness settings from the config.
func settings() sim.Settings {
	return sim.Settings{
		MaxSteps:       cfg.Trial.MaxSteps,
		TrainScoreMult: cfg.Trial.TrainScoreMult,
	}
}

// mazeRef returns the first argument or the configured default maze.
func mazeRef(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Maze.Default
}

// resolveMaze finds a maze by registry ID, file path, or file name inside
// the configured maze directory.
func resolveMaze(ref string, seed int64) (*maze.Maze, error) {
	if registry.Exists(ref) {
		return registry.Create(ref, seed)
	}

	candidates := []string{ref}
	if cfg.Maze.Dir != "" && !filepath.IsAbs(ref) {
		for _, ext := range []string{"", ".txt", ".yaml", ".yml"} {
			candidates = append(candidates, filepath.Join(cfg.Maze.Dir, ref+ext))
		}
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return maze.Load(path)
		}
	}
	return nil, fmt.Errorf("unknown maze %q (run 'mazebot list' or pass a maze file)", ref)
}

// openStore opens the results database, or returns nil with a warning so
// commands can continue without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(cfg.Storage.DB)
	if err != nil {
		logger.Warn("could not open results database", "path", cfg.Storage.DB, "error", err)
		return nil
	}
	return store
}
