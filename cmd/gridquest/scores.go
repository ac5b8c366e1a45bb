package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridquest/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a game",
	Long: `Display the top 10 runs for the specified game.

Examples:
  gridquest scores diamonds
  gridquest scores diamonds --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete all scores and the saved position for the game")
}

func runScores(_ *cobra.Command, args []string) {
	game := mustGame(args[0])
	gameID := game.ID()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearScores {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.ClearCheckpoint(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared scores for %s.\n", game.Title())
		return
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'gridquest play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-4s  %s\n", "Rank", "Score", "Level", "Deaths", "Done", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-4s  %s\n", "----", "-----", "-----", "------", "----", "----")
	for i, e := range scores {
		done := ""
		if e.Completed {
			done = "yes"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-6d  %-4s  %s\n", i+1, e.Score, e.Level, e.Deaths, done, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Average: %.0f  Cleared: %d\n", stats.HighScore, stats.GamesCount, stats.AvgScore, stats.Completed)
	}
}
