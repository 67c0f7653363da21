package game

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

func testView(status Status) View {
	return View{
		Grid: engine.Grid{
			{2, 0, 0, 0},
			{0, 128, 0, 0},
			{0, 0, 2048, 0},
			{0, 0, 0, 16384},
		},
		NewTiles: []engine.Position{{Row: 0, Col: 0}},
		Score:    3172,
		Best:     9000,
		Status:   status,
		WinTile:  2048,
		Size:     4,
	}
}

func TestRenderBoard(t *testing.T) {
	screen := core.NewScreen(80, 24)
	v := testView(StatusActive)
	Render(screen, v)
	out := screen.String()

	for _, want := range []string{"2048", "Score: 3172", "Best: 9000", "get to 2048", "128", "16384", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered screen missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"You win!", "Game over!"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("active game shows %q", unwanted)
		}
	}
}

func TestRenderTileColors(t *testing.T) {
	screen := core.NewScreen(80, 24)
	Render(screen, testView(StatusActive))

	found := false
	for y := range screen.Height() {
		row := screen.Row(y)
		x := strings.Index(row, "128")
		if x < 0 {
			continue
		}
		// Index is a byte offset into a row of box-drawing runes
		x = len([]rune(row[:x]))
		cell := screen.GetCell(x, y)
		if cell.Color != core.TileColor(128) {
			t.Errorf("tile 128 color = %v, want %v", cell.Color, core.TileColor(128))
		}
		found = true
	}
	if !found {
		t.Fatal("tile 128 not rendered")
	}
}

func TestRenderOverlays(t *testing.T) {
	tests := []struct {
		status Status
		want   []string
	}{
		{StatusWon, []string{"You win!", "Keep going"}},
		{StatusOver, []string{"Game over!", "Try again"}},
		{StatusWonContinuing, []string{"Max tile: 16384"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			screen := core.NewScreen(80, 24)
			Render(screen, testView(tt.status))
			out := screen.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("screen missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRenderNoOverlayWhilePlaying(t *testing.T) {
	for _, status := range []Status{StatusActive, StatusWonContinuing} {
		t.Run(string(status), func(t *testing.T) {
			screen := core.NewScreen(80, 24)
			Render(screen, testView(status))
			out := screen.String()
			for _, banner := range []string{"You win!", "Game over!"} {
				if strings.Contains(out, banner) {
					t.Errorf("playing screen shows %q:\n%s", banner, out)
				}
			}
		})
	}
}

func TestRenderTooSmall(t *testing.T) {
	screen := core.NewScreen(20, 8)
	Render(screen, testView(StatusActive))
	if !strings.Contains(screen.String(), "Window too small") {
		t.Errorf("expected resize hint:\n%s", screen.String())
	}
}

func TestRenderLargeBoardFits(t *testing.T) {
	n := 6
	w, h := MinScreenSize(n)
	screen := core.NewScreen(w, h)

	v := View{Grid: engine.NewGrid(n), WinTile: 8192, Size: n, Status: StatusActive}
	v.Grid[n-1][n-1] = 4
	Render(screen, v)

	out := screen.String()
	if strings.Contains(out, "too small") {
		t.Fatalf("%dx%d board does not fit its minimum screen %dx%d", n, n, w, h)
	}
	if !strings.Contains(out, "4") {
		t.Error("tile not rendered")
	}
}

func TestRenderDoesNotMutateView(t *testing.T) {
	v := testView(StatusOver)
	before := v.Grid.Clone()
	Render(core.NewScreen(80, 24), v)
	if !v.Grid.Equal(before) {
		t.Error("Render mutated the grid")
	}
}
