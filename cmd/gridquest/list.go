package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows a list of all registered games.`,
	Run:   runList,
}

var levelsCmd = &cobra.Command{
	Use:   "levels <game>",
	Short: "List the levels of a game",
	Long: `Shows the levels of a game in play order. Use the number with
'play --level' to start further in.

Examples:
  gridquest levels diamonds
  gridquest levels diamonds --levels ./my-levels`,
	Args: cobra.ExactArgs(1),
	Run:  runLevels,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	maxIDLen := 2
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'gridquest play <id>' to play a game.")
}

func runLevels(_ *cobra.Command, args []string) {
	game := mustGame(args[0])

	p, err := platform.Prepare(game, runtimeConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	titles, err := p.LevelTitles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s levels:\n\n", game.Title())
	for i, t := range titles {
		fmt.Printf("  %2d. %s\n", i+1, t)
	}
}

// mustGame returns the registered game or exits with a hint.
func mustGame(id string) registry.Game {
	game, err := registry.Create(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'gridquest list' to see available games.")
		os.Exit(1)
	}
	return game
}
