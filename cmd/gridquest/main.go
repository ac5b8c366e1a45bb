// gridquest plays tile-based grid games in the terminal, in a window or
// over SSH.
//
// Usage:
//
//	gridquest list             - List available games
//	gridquest levels <game>    - List a game's levels
//	gridquest play <game>      - Play a game
//	gridquest menu             - Pick games interactively
//	gridquest serve            - Start SSH server for remote play
//	gridquest scores <game>    - Show high scores for a game
//
// Global flags:
//
//	--fps <rate>         - Tick rate (default: from the game config)
//	--db <path>          - Database path (default: ~/.gridquest/scores.db)
//	--config <path>      - Game config YAML
//	--difficulty <name>  - easy, normal, hard or fixed
//	--levels <path>      - Level directory or Zip archive
//	--log-file <path>    - Write logs to a file
//	--debug              - Log debug messages
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridquest/internal/core"
	_ "github.com/vovakirdan/gridquest/internal/games/diamonds"
)

var (
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevels     string
	flagLogFile    string
	flagDebug      bool
)

// logger is discarded unless --log-file is given, since the TUI owns the
// terminal. serve logs to stderr instead.
var (
	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridquest",
	Short: "gridquest - tile puzzles for the terminal",
	Long: `gridquest plays grid games made of tile-map levels: move the hero,
collect every diamond, dodge what moves and falls.

Available commands:
  list     - Show all available games
  levels   - Show the levels of a game
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  gridquest list
  gridquest play diamonds
  gridquest play diamonds --level 3 --difficulty hard
  gridquest play diamonds --levels ./my-levels.zip
  gridquest serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogger(cmd.Name() == "serve")
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from the game config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gridquest/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Level directory or Zip archive (default: built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug messages")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setupLogger points the logger at --log-file, or at stderr when the
// command does not draw to the terminal.
func setupLogger(toStderr bool) error {
	var w io.Writer = io.Discard
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logFile = f
		w = f
	case toStderr:
		w = os.Stderr
	}

	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridquest",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return nil
}

// runtimeConfig builds the runtime config from flags and the terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.ConfigPath = flagConfig
	cfg.Difficulty = flagDifficulty
	cfg.LevelsPath = flagLevels
	return cfg
}
