package tui

import (
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/persist"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func quiet() *log.Logger {
	return log.New(io.Discard)
}

// newTestModel returns a game model whose board starts as a single row [2 2 0 0].
func newTestModel(t *testing.T) (GameModel, *persist.Records) {
	t.Helper()
	records := persist.NewRecords(persist.NewMemoryStore(), "tester", quiet())
	records.SaveSnapshot(persist.Snapshot{Grid: engine.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}})
	ctrl := game.NewController(game.DefaultRules(), rand.New(rand.NewPCG(1, 2)), records, nil, quiet())
	return NewGameModel(ctrl, core.DefaultConfig(), 3), records
}

func update(t *testing.T, m tea.Model, msgs ...tea.Msg) tea.Model {
	t.Helper()
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawText(0, 0, "Score")
	s.DrawTextColored(6, 0, "2048", core.ColorOrange, true)
	s.DrawText(0, 1, "Best")

	out := RenderScreen(s)
	for _, want := range []string{"Score", "2048", "Best"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q: %q", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("rendered %d line breaks, want 1", got)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runes("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runes("q"), MenuActionQuit},
		{runes("x"), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestGameModelKeyMoves(t *testing.T) {
	m, records := newTestModel(t)

	gm := update(t, m, tea.KeyMsg{Type: tea.KeyLeft}).(GameModel)
	v := gm.GameView()
	if v.Score != 4 || v.Grid[0][0] != 4 {
		t.Fatalf("after left: score=%d row=%v", v.Score, v.Grid[0])
	}
	if records.BestScore() != 4 {
		t.Errorf("best score not persisted: %d", records.BestScore())
	}
	if !strings.Contains(gm.View(), "Score: 4") {
		t.Error("view does not show the new score")
	}
}

func TestGameModelMouseSwipe(t *testing.T) {
	press := tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	t.Run("long drag moves", func(t *testing.T) {
		m, _ := newTestModel(t)
		gm := update(t, m, press, tea.MouseMsg{X: 20, Y: 5, Action: tea.MouseActionRelease}).(GameModel)
		if row := gm.GameView().Grid[0]; row[3] != 4 {
			t.Errorf("drag right left row %v", row)
		}
	})

	t.Run("short drag ignored", func(t *testing.T) {
		m, _ := newTestModel(t)
		gm := update(t, m, press, tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionRelease}).(GameModel)
		if gm.GameView().Score != 0 || gm.GameView().Grid[0][0] != 2 {
			t.Errorf("short drag changed the board: %v", gm.GameView().Grid[0])
		}
	})

	t.Run("rows count double", func(t *testing.T) {
		m, _ := newTestModel(t)
		// 3 rows down is 6 units, more than the 2 columns across
		gm := update(t, m, press, tea.MouseMsg{X: 12, Y: 8, Action: tea.MouseActionRelease}).(GameModel)
		if gm.GameView().Grid[3][0] != 2 {
			t.Errorf("drag down left column %v", gm.GameView().Grid)
		}
	})

	t.Run("other buttons cancel", func(t *testing.T) {
		m, _ := newTestModel(t)
		right := tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}
		gm := update(t, m, press, right, tea.MouseMsg{X: 30, Y: 5, Action: tea.MouseActionRelease}).(GameModel)
		if gm.GameView().Score != 0 {
			t.Error("cancelled drag still moved")
		}
	})
}

func TestGameModelBackAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	gm := update(t, m, tea.KeyMsg{Type: tea.KeyEsc}).(GameModel)
	if !gm.BackToMenu() || gm.IsQuitting() {
		t.Error("esc should return to the menu")
	}

	m.standalone = true
	gm = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}).(GameModel)
	if !gm.IsQuitting() {
		t.Error("esc in a standalone game should quit")
	}

	gm = update(t, m, runes("q")).(GameModel)
	if !gm.IsQuitting() || gm.View() != "" {
		t.Error("q should quit and blank the view")
	}
}

func TestMenuShowsBestPerPreset(t *testing.T) {
	store := persist.NewMemoryStore()
	player := game.Player{Profile: "alice", Store: store, Logger: quiet()}
	cfg := config.Default()
	presets := cfg.Presets

	big, err := cfg.FindPreset("big")
	if err != nil {
		t.Fatal(err)
	}
	persist.NewRecords(store, "alice", quiet()).ForVariant(big.Rules().Variant()).SaveBestScore(777)

	m := NewMenuModel(player, presets, "big", core.DefaultConfig())
	if !strings.Contains(m.View(), "777") {
		t.Errorf("menu does not show the big board best score:\n%s", m.View())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter}).(MenuModel)
	if m.Selected() == nil || m.Selected().Preset.Name != "big" || m.Selected().Best != 777 {
		t.Errorf("selected = %+v", m.Selected())
	}
}

type fakeScores struct {
	sizes []int
}

func (f *fakeScores) TopScores(boardSize, limit int) ([]storage.ScoreEntry, error) {
	f.sizes = append(f.sizes, boardSize)
	return []storage.ScoreEntry{{Profile: "bob", BoardSize: 4, Score: 1000, MaxTile: 128}}, nil
}

func TestScoreboardTabs(t *testing.T) {
	src := &fakeScores{}
	sizes := BoardSizes(config.DefaultPresets())
	if want := []int{0, 3, 4, 5, 6}; len(sizes) != len(want) {
		t.Fatalf("BoardSizes = %v, want %v", sizes, want)
	}

	m := NewScoreboardModel(src, sizes, 100, 30)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab}).(ScoreboardModel)

	want := []int{0, 3, 0, 6}
	if len(src.sizes) != len(want) {
		t.Fatalf("loaded sizes %v, want %v", src.sizes, want)
	}
	for i := range want {
		if src.sizes[i] != want[i] {
			t.Errorf("load %d for size %d, want %d", i, src.sizes[i], want[i])
		}
	}
	if !strings.Contains(m.View(), "bob") {
		t.Errorf("scoreboard missing entry:\n%s", m.View())
	}
}

func TestScoreboardWithoutSource(t *testing.T) {
	m := NewScoreboardModel(nil, nil, 80, 24)
	if !strings.Contains(m.View(), "unavailable") {
		t.Errorf("expected unavailable message:\n%s", m.View())
	}
	m = update(t, m, runes("b")).(ScoreboardModel)
	if !m.IsGoingBack() {
		t.Error("b should go back")
	}
}

func TestAppFlow(t *testing.T) {
	opts := Options{
		Player:        game.Player{Profile: "alice", Store: persist.NewMemoryStore(), Logger: quiet()},
		Preset:        "mini",
		Scoreboard:    &fakeScores{},
		DragThreshold: 3,
		Runtime:       core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7},
	}
	var m tea.Model = NewAppModel(opts)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	app := m.(AppModel)
	if app.current != screenGame || app.game.GameView().Size != 3 {
		t.Fatalf("enter should start the mini board, screen=%v", app.current)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.(AppModel).current != screenMenu {
		t.Fatal("esc should return to the menu")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.(AppModel).current != screenScores || !strings.Contains(m.View(), "HIGH SCORES") {
		t.Fatal("tab should open the scoreboard")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.(AppModel).current != screenMenu {
		t.Fatal("esc should leave the scoreboard")
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		user, want string
	}{
		{"alice", "alice"},
		{"", "guest"},
		{"bob smith", "bobsmith"},
		{"💥", "guest"},
	}
	for _, tt := range tests {
		if got := ProfileFor(tt.user); got != tt.want {
			t.Errorf("ProfileFor(%q) = %q, want %q", tt.user, got, tt.want)
		}
	}
}

func TestSSHSessionOptions(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "host_key")

	template := Options{
		Player:  game.Player{Profile: "local", Store: persist.NewMemoryStore()},
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42},
	}
	srv, err := NewSSHServer(cfg, template, quiet())
	if err != nil {
		t.Fatalf("NewSSHServer: %v", err)
	}

	opts := srv.SessionOptions("alice", 120, 40)
	if opts.Player.Profile != "alice" {
		t.Errorf("profile = %q, want alice", opts.Player.Profile)
	}
	if opts.Player.Store == nil {
		t.Error("session lost the shared store")
	}
	if opts.Runtime.ScreenW != 120 || opts.Runtime.ScreenH != 40 || opts.Runtime.Seed != 0 {
		t.Errorf("runtime = %+v, want 120x40 with a clock seed", opts.Runtime)
	}
	if template.Player.Profile != "local" {
		t.Error("session options modified the template")
	}
}
