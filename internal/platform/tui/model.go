package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gridquest/internal/core"
	"github.com/vovakirdan/gridquest/internal/platform"
	"github.com/vovakirdan/gridquest/internal/runner"
	"github.com/vovakirdan/gridquest/internal/storage"
	"github.com/vovakirdan/gridquest/internal/viewport"
)

// Env holds the services a game run may use. Every field is optional.
type Env struct {
	Store  *storage.Store
	Audio  runner.Audio
	Logger *log.Logger
}

// GameModel is the Bubble Tea model for one run of a game.
type GameModel struct {
	game      *platform.Prepared
	run       *runner.Runner
	rend      *screenRenderer
	screen    *core.Screen
	store     *storage.Store
	log       *log.Logger
	config    core.RuntimeConfig
	limit     viewport.Size
	tickRate  int
	input     core.InputFrame
	keyMapper *KeyMapper

	embedded   bool // Hosted by SessionModel; never sends tea.Quit
	quitting   bool
	backToMenu bool
	scoreSaved bool
	err        error
}

// NewGameModel creates a model and starts the run at cfg.StartLevel.
func NewGameModel(p *platform.Prepared, env Env, cfg core.RuntimeConfig, embedded bool) (GameModel, error) {
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}

	screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
	rend := &screenRenderer{screen: screen}
	limit := viewport.Size{W: p.Config.View.W, H: p.Config.View.H}

	var checkpoints runner.Checkpointer
	if env.Store != nil {
		checkpoints = env.Store
	}
	opts := p.RunnerOptions(checkpoints, env.Logger)
	opts.Renderer = rend
	opts.HUD = rend
	opts.Audio = env.Audio
	opts.TileSize = 1
	opts.ViewTiles = mapSize(cfg.ScreenW, cfg.ScreenH, limit)

	run, err := runner.New(opts)
	if err != nil {
		return GameModel{}, err
	}
	start, err := platform.StartIndex(cfg.StartLevel, len(run.Levels()))
	if err != nil {
		return GameModel{}, err
	}
	if err := run.Start(start); err != nil {
		return GameModel{}, err
	}

	return GameModel{
		game:      p,
		run:       run,
		rend:      rend,
		screen:    screen,
		store:     env.Store,
		log:       env.Logger,
		config:    cfg,
		limit:     limit,
		tickRate:  p.Config.TickRate,
		input:     core.NewInputFrame(),
		keyMapper: NewKeyMapper(),
		embedded:  embedded,
	}, nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.run.SetView(mapSize(msg.Width, msg.Height, m.limit))
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.saveScore()
		m.quitting = true
		return m, m.quit()
	case "ctrl+s":
		if err := m.saveScreenshot(); err != nil {
			m.log.Warn("screenshot failed", "err", err)
		}
		return m, nil
	}

	// A finished run waits for the player to leave.
	if m.run.State().Terminal() {
		switch msg.String() {
		case "enter", " ", "esc", "b", "q":
			return m, m.leave()
		}
		return m, nil
	}

	m.keyMapper.MapKeyToFrame(msg, &m.input)
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.run.State().Terminal() {
		return m, nil
	}

	_, err := m.run.Tick(runner.InputFrom(m.input))
	m.input.Clear()
	if err != nil {
		m.err = err
		// Failed runs do not publish a frame of their own.
		f := m.run.Frame()
		f.Status.State = m.run.State()
		m.rend.Render(f)
	}

	state := m.run.State()
	if !state.Terminal() {
		return m, tickCmd(m.tickRate)
	}

	m.saveScore()
	if state == runner.StateQuitRequested {
		return m, m.leave()
	}
	return m, nil
}

// saveScore records the run once. Empty runs are not recorded.
func (m *GameModel) saveScore() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true

	pr := m.run.Progress()
	if m.store == nil || pr.Score <= 0 {
		return
	}
	entry := storage.ScoreEntry{
		GameID:    m.game.Game.ID(),
		Score:     pr.Score,
		Level:     pr.Level + 1,
		Deaths:    pr.Deaths,
		Completed: m.run.State() == runner.StateAllLevelsComplete,
	}
	if _, err := m.store.SaveScore(entry); err != nil {
		m.log.Warn("saving score failed", "err", err)
	}
}

// leave ends the model: back to the session menu when embedded, out of the
// program otherwise.
func (m *GameModel) leave() tea.Cmd {
	if m.embedded {
		m.backToMenu = true
		return nil
	}
	m.quitting = true
	return tea.Quit
}

func (m *GameModel) quit() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// saveScreenshot writes the current screen as text.
func (m GameModel) saveScreenshot() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".gridquest", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.Game.ID(), time.Now().Format("20060102_150405"))
	return os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the screen the runner last drew.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	return RenderScreen(m.screen)
}

// Status returns the last published run status.
func (m GameModel) Status() runner.Status {
	s := m.run.Frame().Status
	s.State = m.run.State()
	return s
}

// Err returns the error that failed the run, if any.
func (m GameModel) Err() error {
	return m.err
}

// IsQuitting returns true if the user asked to leave the program.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to return to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one game in the terminal and returns the final status.
func Run(p *platform.Prepared, env Env, cfg core.RuntimeConfig) (runner.Status, error) {
	model, err := NewGameModel(p, env, cfg, false)
	if err != nil {
		return runner.Status{}, err
	}

	prog := tea.NewProgram(model, tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return runner.Status{}, err
	}

	m, ok := final.(GameModel)
	if !ok {
		return runner.Status{}, nil
	}
	return m.Status(), m.Err()
}
