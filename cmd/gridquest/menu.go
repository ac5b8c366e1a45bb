package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/platform/tui"
	"github.com/vovakirdan/gridquest/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick games and levels from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game and then a
starting level. After a run ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Esc          - Back
  Q            - Quit

Examples:
  gridquest menu
  gridquest menu --difficulty easy
  gridquest menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = result.Config

		if result.Quit {
			return
		}

		if result.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		if err := playFromMenu(result, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		cfg.StartLevel = 0
	}
}

func playFromMenu(result tui.MenuResult, store *storage.Store) error {
	game := mustGame(result.GameID)
	cfg := result.Config
	cfg.StartLevel = result.StartLevel

	p, err := platform.Prepare(game, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	player := openAudio(p)
	defer closeAudio(player)

	_, err = tui.Run(p, tui.Env{Store: store, Audio: audioOrNil(player), Logger: logger}, cfg)
	return err
}
