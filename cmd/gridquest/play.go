package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridquest/internal/audio"
	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/platform/desktop"
	"github.com/vovakirdan/gridquest/internal/platform/tui"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/storage"
)

var (
	flagLevel    int
	flagDesktop  bool
	flagHeadless bool
	flagScript   string
	flagNoSound  bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Arrows, ' / z x  - Move up, down, left, right
  S / L            - Save / load position
  R                - Restart level
  Q                - Quit
  Ctrl+S           - Screenshot (terminal)

Difficulty options:
  easy   - Slower movers
  normal - Movers speed up as levels progress
  hard   - Start with faster movers
  fixed  - No progression

Headless scripts are one move per tick: U D L R to move, . to wait,
r to restart, s and l to save and load.

Examples:
  gridquest play diamonds
  gridquest play diamonds --level 2
  gridquest play diamonds --difficulty hard
  gridquest play diamonds --desktop
  gridquest play diamonds --headless --script RRDD..L`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Level to start on (1-based)")
	playCmd.Flags().BoolVar(&flagDesktop, "desktop", false, "Play in a window (needs the ebiten build tag)")
	playCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a display, driven by --script")
	playCmd.Flags().StringVar(&flagScript, "script", "", "Moves for --headless")
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable sound")
}

func runPlay(_ *cobra.Command, args []string) {
	game := mustGame(args[0])

	cfg := runtimeConfig()
	cfg.StartLevel = flagLevel

	p, err := platform.Prepare(game, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var status runner.Status
	switch {
	case flagHeadless:
		inputs, perr := parseScript(flagScript)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
			os.Exit(1)
		}
		status, err = runHeadless(p, store, cfg.StartLevel, inputs, runner.NewLoop(p.Config.TickRate))
		fmt.Println(describe(status))

	case flagDesktop:
		player := openAudio(p)
		defer closeAudio(player)
		status, err = desktop.Run(p, desktop.Options{
			Store:      store,
			Audio:      audioOrNil(player),
			Logger:     logger,
			StartLevel: cfg.StartLevel,
		})
		if errors.Is(err, desktop.ErrUnavailable) {
			fmt.Fprintln(os.Stderr, "Rebuild with `go build -tags ebiten ./cmd/gridquest` for desktop play.")
		}

	default:
		player := openAudio(p)
		defer closeAudio(player)
		status, err = tui.Run(p, tui.Env{Store: store, Audio: audioOrNil(player), Logger: logger}, cfg)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
	if status.State == runner.StateAllLevelsComplete {
		fmt.Printf("All levels complete! Final score: %d\n", status.Score)
	}
}

// openAudio starts the sound player when the config enables it. Failures
// leave the game silent.
func openAudio(p *platform.Prepared) *audio.Player {
	if flagNoSound || !p.Config.Audio.Enabled {
		return nil
	}
	player := audio.New(audio.Options{
		Volume: p.Config.Audio.Volume,
		Sounds: p.Levels.FS,
		Logger: logger.WithPrefix("audio"),
	})
	if err := player.Init(); err != nil {
		logger.Warn("sound disabled", "err", err)
		return nil
	}
	return player
}

func closeAudio(player *audio.Player) {
	if player != nil {
		player.Close()
	}
}

// audioOrNil avoids handing the runner a typed nil.
func audioOrNil(player *audio.Player) runner.Audio {
	if player == nil {
		return nil
	}
	return player
}

func describe(s runner.Status) string {
	return fmt.Sprintf("level %d/%d %q: score %d, deaths %d, %s", s.Level, s.Levels, s.Title, s.Score, s.Deaths, s.State)
}
