package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mazebot/internal/platform/tui"
	"github.com/vovakirdan/mazebot/internal/storage"
)

var (
	flagResultsInteractive bool
	flagResultsTop         int
	flagResultsRecent      int
	flagResultsBatch       string
	flagResultsTrial       string
	flagResultsClear       bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [maze]",
	Short: "Show stored results",
	Long: `Show per-algorithm statistics from the results database, optionally for a
single maze.

Examples:
  mazebot results                         # statistics for every maze
  mazebot results wilson-12 --top 10      # best completed trials with --alg
  mazebot results --recent 20             # latest trials
  mazebot results --batch <id>            # trials of one batch
  mazebot results --trial <id>            # a single trial
  mazebot results -i                      # interactive browser
  mazebot results wilson-12 --clear       # delete stored trials for a maze`,
	Args: cobra.MaximumNArgs(1),
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().BoolVarP(&flagResultsInteractive, "interactive", "i", false, "Browse results in the terminal UI")
	resultsCmd.Flags().IntVar(&flagResultsTop, "top", 0, "Show the N best completed trials for the maze and --alg")
	resultsCmd.Flags().IntVar(&flagResultsRecent, "recent", 0, "Show the N most recent trials")
	resultsCmd.Flags().StringVar(&flagResultsBatch, "batch", "", "Show the trials of a batch")
	resultsCmd.Flags().StringVar(&flagResultsTrial, "trial", "", "Show a single trial")
	resultsCmd.Flags().BoolVar(&flagResultsClear, "clear", false, "Delete the stored trials of the given maze")
}

func runResults(_ *cobra.Command, args []string) {
	store, err := storage.Open(cfg.Storage.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	mazeID := ""
	if len(args) > 0 {
		mazeID = args[0]
	}

	switch {
	case flagResultsClear:
		if mazeID == "" {
			err = errors.New("--clear needs a maze")
			break
		}
		err = store.ClearTrials(mazeID)
		if err == nil {
			fmt.Printf("Trials on %s deleted.\n", mazeID)
		}
	case flagResultsTrial != "":
		var entry *storage.TrialEntry
		entry, err = store.TrialByID(flagResultsTrial)
		if err == nil && entry == nil {
			err = fmt.Errorf("no trial %q", flagResultsTrial)
		}
		if err == nil {
			printEntries([]storage.TrialEntry{*entry})
			if entry.Message != "" {
				fmt.Printf("\n  %s\n", entry.Message)
			}
		}
	case flagResultsInteractive:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		err = tui.RunResults(store, width, height)
	case flagResultsBatch != "":
		err = showBatch(store, flagResultsBatch)
	case flagResultsTop > 0:
		if mazeID == "" {
			mazeID = cfg.Maze.Default
		}
		alg := algorithm().ID
		var entries []storage.TrialEntry
		entries, err = store.TopTrials(mazeID, alg, flagResultsTop)
		if err == nil {
			fmt.Printf("Best trials - %s, %s\n\n", mazeID, alg)
			printEntries(entries)
		}
	case flagResultsRecent > 0:
		var entries []storage.TrialEntry
		entries, err = store.RecentTrials(flagResultsRecent)
		if err == nil {
			printEntries(entries)
		}
	default:
		err = showStats(store, mazeID)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showStats(store *storage.Store, mazeID string) error {
	stats, err := store.GetAlgorithmStats(mazeID)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No trials recorded yet.")
		fmt.Println()
		fmt.Println("Run 'mazebot run' or 'mazebot batch' to collect some.")
		return nil
	}

	fmt.Printf("  %-12s  %-16s  %-6s  %-6s  %-8s  %-8s  %-6s  %s\n",
		"Maze", "Algorithm", "Trials", "Done", "Best", "Avg", "Cov %", "Last")
	fmt.Printf("  %-12s  %-16s  %-6s  %-6s  %-8s  %-8s  %-6s  %s\n",
		"----", "---------", "------", "----", "----", "---", "-----", "----")
	for _, s := range stats {
		fmt.Printf("  %-12s  %-16s  %-6d  %-6s  %-8.3f  %-8.3f  %-6.1f  %s\n",
			s.Maze, s.Algorithm, s.Trials, fmt.Sprintf("%.0f%%", s.SuccessRate()*100),
			s.BestScore, s.AvgScore, s.AvgCoverage, s.LastFinished.Format("2006-01-02 15:04"))
	}
	return nil
}

func showBatch(store *storage.Store, id string) error {
	batch, err := store.Batch(id)
	if err != nil {
		return err
	}
	if batch == nil {
		return fmt.Errorf("no batch %q", id)
	}
	entries, err := store.BatchTrials(id)
	if err != nil {
		return err
	}

	fmt.Printf("Batch %s  seed %d  %d trials  %s\n\n",
		batch.ID, batch.Seed, batch.Trials, batch.FinishedAt.Format("2006-01-02 15:04"))
	printEntries(entries)
	return nil
}

func printEntries(entries []storage.TrialEntry) {
	if len(entries) == 0 {
		fmt.Println("No trials found.")
		return
	}

	fmt.Printf("  %-4s  %-12s  %-16s  %-13s  %-5s  %-5s  %-8s  %-6s  %s\n",
		"#", "Maze", "Algorithm", "Outcome", "Run1", "Run2", "Score", "Cov %", "Date")
	fmt.Printf("  %-4s  %-12s  %-16s  %-13s  %-5s  %-5s  %-8s  %-6s  %s\n",
		"-", "----", "---------", "-------", "----", "----", "-----", "-----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-12s  %-16s  %-13s  %-5d  %-5d  %-8.3f  %-6.2f  %s\n",
			i+1, e.Maze, e.Algorithm, e.Outcome, e.Run1, e.Run2, e.Score, e.Coverage, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}
