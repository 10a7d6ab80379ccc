package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mazebot/internal/nav"
	"github.com/vovakirdan/mazebot/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in mazes",
	Long:  `Shows every maze registered with mazebot. Generated mazes change layout with --seed.`,
	Run:   runList,
}

var algsCmd = &cobra.Command{
	Use:   "algs",
	Short: "List exploration algorithms",
	Long: `Shows the exploration variants. SHORT_* rank frontier cells by the
commands needed to reach them, HEURISTIC_* also add the distance to the goal.
The number is the coverage at which exploration stops; GOALS variants stop
as soon as the goal room has been reached.`,
	Run: runAlgs,
}

func runList(_ *cobra.Command, _ []string) {
	mazes := registry.List()

	if len(mazes) == 0 {
		fmt.Println("No mazes available.")
		return
	}

	fmt.Println("Built-in mazes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range mazes {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Printf("  %-*s  %-5s  %-9s  %s\n", maxIDLen, "ID", "Dim", "Layout", "Title")
	fmt.Printf("  %-*s  %-5s  %-9s  %s\n", maxIDLen, "--", "---", "------", "-----")

	for _, m := range mazes {
		layout := "fixed"
		if m.Generated {
			layout = "generated"
		}
		fmt.Printf("  %-*s  %-5d  %-9s  %s\n", maxIDLen, m.ID, m.Dim, layout, m.Title)
	}

	fmt.Println()
	fmt.Println("Run 'mazebot run <id>' to send the robot in.")
}

func runAlgs(_ *cobra.Command, _ []string) {
	fmt.Printf("  %-16s  %-9s  %-9s  %s\n", "ID", "Coverage", "Scoring", "Title")
	fmt.Printf("  %-16s  %-9s  %-9s  %s\n", "--", "--------", "-------", "-----")
	for _, a := range nav.Algorithms() {
		coverage := "goal"
		if !a.GoalsOnly() {
			coverage = fmt.Sprintf("%.0f%%", a.Coverage)
		}
		marker := ""
		if a.ID == nav.DefaultAlgorithmID {
			marker = " (default)"
		}
		fmt.Printf("  %-16s  %-9s  %-9s  %s%s\n", a.ID, coverage, a.Scoring, a.Title, marker)
	}
}
