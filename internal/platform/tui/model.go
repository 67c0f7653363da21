package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/input"
)

// cellAspect is the height-to-width ratio of a terminal cell. Mouse rows are
// scaled by it so vertical and horizontal drags need the same distance.
const cellAspect = 2

// GameModel is the Bubble Tea model for one 2048 game.
type GameModel struct {
	ctrl       *game.Controller
	screen     *core.Screen
	config     core.RuntimeConfig
	view       game.View
	keyMapper  *KeyMapper
	swipe      *input.SwipeTracker
	standalone bool // Back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model driving the given controller.
// dragThreshold is the mouse drag distance, in cells, that counts as a swipe.
func NewGameModel(ctrl *game.Controller, cfg core.RuntimeConfig, dragThreshold int) GameModel {
	return GameModel{
		ctrl:      ctrl,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		view:      ctrl.View(),
		keyMapper: NewKeyMapper(),
		swipe:     input.NewSwipeTracker(dragThreshold * cellAspect),
	}
}

// Init has nothing to start: the board only changes on input.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	ev := m.keyMapper.MapKey(msg)
	switch ev.Command {
	case input.CommandQuit:
		m.quitting = true
		return m, tea.Quit
	case input.CommandBack:
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil
	}

	m.apply(ev)
	return m, nil
}

// handleMouse turns a left-button drag into a move.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := msg.X, msg.Y*cellAspect

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.swipe.Press(x, y)
		} else {
			m.swipe.Cancel()
		}
	case tea.MouseActionRelease:
		if dir, ok := m.swipe.Release(x, y); ok {
			m.apply(input.Move(dir))
		}
	}
	return m, nil
}

// apply hands an event to the controller and refreshes the frame if it changed.
func (m *GameModel) apply(ev input.Event) {
	if m.ctrl.HandleEvent(ev) {
		m.view = m.ctrl.View()
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	game.Render(m.screen, m.view)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".t2048", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.ctrl.Profile(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	game.Render(m.screen, m.view)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// GameView returns the frame currently on screen.
func (m GameModel) GameView() game.View {
	return m.view
}

// Run plays a single game without the preset picker. Back quits.
func Run(ctrl *game.Controller, cfg core.RuntimeConfig, dragThreshold int) error {
	model := NewGameModel(ctrl, cfg, dragThreshold)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse drags are swipes
	)

	_, err := p.Run()
	return err
}
