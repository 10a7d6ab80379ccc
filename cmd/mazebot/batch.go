package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebot/internal/nav"
	"github.com/vovakirdan/mazebot/internal/sim"
)

var (
	flagBatchAlgs     []string
	flagBatchAttempts int
	flagBatchWorkers  int
	flagBatchOut      string
	flagBatchNoSave   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [maze...]",
	Short: "Run many trials and summarise them",
	Long: `Run every algorithm on every maze, --attempts times each, on a pool of
workers. Generated mazes get a fresh layout per attempt, all derived from
--seed, so a batch with a fixed seed is reproducible.

Each trial is stored in the results database under its own ID. --out writes
the full report as YAML.

Examples:
  mazebot batch wilson-12 loops-12 --attempts 50
  mazebot batch loops-16 --algs SHORT_80,HEURISTIC_80,SHORT_GOALS --seed 7
  mazebot batch ./mazes/*.txt --out report.yaml --no-save`,
	Run: runBatch,
}

func init() {
	batchCmd.Flags().StringSliceVar(&flagBatchAlgs, "algs", nil, "Algorithms to compare (default: --alg); 'all' runs every variant")
	batchCmd.Flags().IntVar(&flagBatchAttempts, "attempts", 0, "Trials per maze and algorithm (default from config)")
	batchCmd.Flags().IntVar(&flagBatchWorkers, "workers", 0, "Concurrent trials (default from config, 0 = NumCPU)")
	batchCmd.Flags().StringVar(&flagBatchOut, "out", "", "Write the report as YAML to this file")
	batchCmd.Flags().BoolVar(&flagBatchNoSave, "no-save", false, "Do not store the trials")
}

func batchAlgorithms() []string {
	if len(flagBatchAlgs) == 0 {
		return []string{algorithm().ID}
	}
	if len(flagBatchAlgs) == 1 && flagBatchAlgs[0] == "all" {
		var ids []string
		for _, a := range nav.Algorithms() {
			ids = append(ids, a.ID)
		}
		return ids
	}
	return flagBatchAlgs
}

func runBatch(_ *cobra.Command, args []string) {
	mazes := args
	if len(mazes) == 0 {
		mazes = []string{cfg.Maze.Default}
	}
	attempts := cfg.Trial.Attempts
	if flagBatchAttempts > 0 {
		attempts = flagBatchAttempts
	}
	workers := cfg.Trial.Workers
	if flagBatchWorkers > 0 {
		workers = flagBatchWorkers
	}

	plan := sim.Plan{
		Mazes:      mazes,
		Algorithms: batchAlgorithms(),
		Attempts:   attempts,
		Seed:       robotSeed(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := sim.NewRunner(resolveMaze,
		sim.WithWorkers(workers),
		sim.WithSettings(settings()),
		sim.WithLogger(logger),
	)
	report, err := runner.Run(ctx, plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(report)

	if flagBatchOut != "" {
		if err := writeReport(report, flagBatchOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nReport written to %s\n", flagBatchOut)
	}

	if flagBatchNoSave {
		return
	}
	if store := openStore(); store != nil {
		defer store.Close()
		if err := store.SaveBatch(report); err != nil {
			logger.Warn("could not save batch", "error", err)
			return
		}
		fmt.Printf("Batch %s saved (%d trials)\n", report.ID, len(report.Records))
	}
}

func writeReport(report *sim.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := report.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(report *sim.Report) {
	fmt.Printf("Batch %s  seed %d  %d trials in %s\n\n",
		report.ID, report.Seed, len(report.Records), report.Finished.Sub(report.Started).Round(time.Millisecond))

	fmt.Printf("  %-4s  %-12s  %-16s  %-6s  %-6s  %-8s  %-8s  %-7s  %-7s  %s\n",
		"Rank", "Maze", "Algorithm", "Trials", "Done", "Mean", "Best", "Run1", "Run2", "Cov %")
	fmt.Printf("  %-4s  %-12s  %-16s  %-6s  %-6s  %-8s  %-8s  %-7s  %-7s  %s\n",
		"----", "----", "---------", "------", "----", "----", "----", "----", "----", "-----")

	for i, s := range sim.Ranking(report.Summary) {
		fmt.Printf("  %-4d  %-12s  %-16s  %-6d  %-6d  %-8.3f  %-8.3f  %-7.1f  %-7.1f  %.1f\n",
			i+1, s.Maze, s.Algorithm, s.Trials, s.Completed, s.MeanScore, s.BestScore, s.MeanRun1, s.MeanRun2, s.MeanCoverage)
	}
}
