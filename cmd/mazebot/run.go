package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebot/internal/nav"
	"github.com/vovakirdan/mazebot/internal/sim"
	"github.com/vovakirdan/mazebot/internal/storage"
)

var flagNoSave bool

var runCmd = &cobra.Command{
	Use:   "run [maze]",
	Short: "Run one trial",
	Long: `Run the robot through a maze: explore, reset, then race to the goal.
The maze is a built-in ID or a maze file (text or YAML). Without an argument
the configured default maze is used.

The score is run2 + run1/30 steps; lower is better.

Examples:
  mazebot run wilson-12
  mazebot run loops-16 --alg HEURISTIC_GOALS --seed 42
  mazebot run ./mazes/test_maze_02.txt --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the result")
}

func runRun(_ *cobra.Command, args []string) {
	seed := robotSeed()
	m, err := resolveMaze(mazeRef(args), seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	alg := algorithm()
	robot := nav.New(m.Dim(),
		nav.WithAlgorithm(alg),
		nav.WithSeed(seed),
		nav.WithLogger(logger),
	)
	trial := sim.NewTrial(m, robot, settings(), alg.ID, seed)
	trial.SetLogger(logger)
	res := trial.Run()

	printResult(res)
	if robot.Exhausted() {
		fmt.Println("Note: exploration ran out of reachable frontier cells.")
	}

	if flagNoSave {
		return
	}
	store := openStore()
	if store == nil {
		return
	}
	defer store.Close()

	entry := storage.EntryFromResult(res)
	if _, err := store.SaveTrial(entry); err != nil {
		logger.Warn("could not save trial", "error", err)
		return
	}
	logger.Debug("trial saved", "id", entry.TrialID)
}

func printResult(res sim.Result) {
	fmt.Printf("Maze:      %s\n", res.Maze)
	fmt.Printf("Algorithm: %s\n", res.Algorithm)
	fmt.Printf("Seed:      %d\n", res.Seed)
	fmt.Println()
	fmt.Printf("Run 1:     %d steps, %.2f%% of the maze sensed\n", res.Run1, res.Coverage)
	if !res.Completed() {
		fmt.Printf("Outcome:   %s (%s)\n", res.Outcome, res.Message)
		return
	}
	fmt.Printf("Run 2:     %d steps\n", res.Run2)
	fmt.Printf("Score:     %.3f\n", res.Score)
}
