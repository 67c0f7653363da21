package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
)

// Options configure an interactive session.
type Options struct {
	Player        game.Player
	Presets       []config.Preset
	Preset        string      // Preset the menu cursor starts on
	Scoreboard    ScoreSource // nil shows the scoreboard as unavailable
	DragThreshold int         // Mouse drag distance, in cells, for a swipe
	Runtime       core.RuntimeConfig
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenGame
	screenScores
)

// AppModel manages the full session flow: menu -> game or scoreboard -> menu.
// It is the top-level model for both local play and SSH sessions.
type AppModel struct {
	opts     Options
	logger   *log.Logger
	current  appScreen
	menu     MenuModel
	game     *GameModel
	scores   ScoreboardModel
	quitting bool
}

// NewAppModel creates a session that opens on the preset menu.
func NewAppModel(opts Options) AppModel {
	if len(opts.Presets) == 0 {
		opts.Presets = config.DefaultPresets()
	}
	logger := opts.Player.Logger
	if logger == nil {
		logger = log.Default()
		opts.Player.Logger = logger
	}

	return AppModel{
		opts:   opts,
		logger: logger,
		menu:   NewMenuModel(opts.Player, opts.Presets, opts.Preset, opts.Runtime),
	}
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.current {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.opts.Scoreboard, BoardSizes(m.opts.Presets),
			m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		m.current = screenScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		preset := m.menu.Selected().Preset
		m.opts.Preset = preset.Name
		m.logger.Info("game started", "profile", m.opts.Player.Profile, "preset", preset.Name)

		ctrl := game.NewPlayerController(m.opts.Player, preset.Rules(), core.NewRand(m.opts.Runtime.Seed))
		gameModel := NewGameModel(ctrl, m.opts.Runtime, m.opts.DragThreshold)
		m.game = &gameModel
		m.current = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		m.game = nil
		return m.backToMenu()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is open.
func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if scores, ok := newModel.(ScoreboardModel); ok {
		m.scores = scores
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

// backToMenu rebuilds the menu so best scores reflect the last game.
func (m AppModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.opts.Player, m.opts.Presets, m.opts.Preset, m.opts.Runtime)
	m.current = screenMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// RunApp starts an interactive session on the local terminal.
func RunApp(opts Options) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
