package game

import (
	"math/rand/v2"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/persist"
)

// firstCell always picks the first empty cell and spawns a 2.
type firstCell struct{}

func (firstCell) IntN(int) int     { return 0 }
func (firstCell) Float64() float64 { return 0.99 }

func rulesFor(size, winTile int) Rules {
	return Rules{Size: size, WinTile: winTile, Spawn4Prob: engine.DefaultSpawn4Prob}
}

func restored(t *testing.T, rules Rules, grid engine.Grid, won, keepPlaying bool) *Session {
	t.Helper()
	return RestoreSession(rules, firstCell{}, persist.Snapshot{Grid: grid, Won: won, KeepPlaying: keepPlaying})
}

func TestSessionStart(t *testing.T) {
	s := NewSession(DefaultRules(), rand.New(rand.NewPCG(1, 2)))
	s.Start()

	g := s.Grid()
	if g.Occupied() != 2 {
		t.Errorf("fresh game has %d tiles, want 2", g.Occupied())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("fresh grid invalid: %v", err)
	}
	if s.Score() != 0 || s.Status() != StatusActive {
		t.Errorf("score=%d status=%s", s.Score(), s.Status())
	}
	if len(s.NewTiles()) != 2 {
		t.Errorf("NewTiles() = %v, want both opening tiles", s.NewTiles())
	}
}

func TestSessionMoveWithoutChange(t *testing.T) {
	grid := engine.Grid{
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	s := restored(t, DefaultRules(), grid, false, false)
	s.TakeNewTiles()

	result := s.Move(engine.DirLeft)
	if result.Moved || result.Spawned != nil || result.ScoreGained != 0 {
		t.Errorf("no-op move result = %+v", result)
	}
	if !s.Grid().Equal(grid) {
		t.Errorf("grid changed on no-op move: %v", s.Grid())
	}
	if len(s.NewTiles()) != 0 {
		t.Error("no-op move must not spawn")
	}
}

func TestSessionMoveMergesAndSpawns(t *testing.T) {
	grid := engine.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 4},
	}
	s := restored(t, DefaultRules(), grid, false, false)

	result := s.Move(engine.DirLeft)
	if !result.Moved || result.ScoreGained != 4 {
		t.Fatalf("result = %+v", result)
	}
	if s.Score() != 4 {
		t.Errorf("score = %d, want 4", s.Score())
	}

	want := engine.Grid{
		{4, 2, 0, 0}, // spawned into the first empty cell
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{4, 0, 0, 0},
	}
	if !s.Grid().Equal(want) {
		t.Errorf("grid = %v, want %v", s.Grid(), want)
	}
	if result.Spawned == nil || *result.Spawned != (engine.Position{Row: 0, Col: 1}) {
		t.Errorf("Spawned = %v, want (0,1)", result.Spawned)
	}
	if tiles := s.TakeNewTiles(); len(tiles) != 1 || tiles[0] != *result.Spawned {
		t.Errorf("TakeNewTiles() = %v", tiles)
	}
	if len(s.TakeNewTiles()) != 0 {
		t.Error("TakeNewTiles should clear the set")
	}
}

func TestSessionNewTilesTrackLatestMove(t *testing.T) {
	grid := engine.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	s := restored(t, DefaultRules(), grid, false, false)

	// Nobody drains the new tiles between the two moves
	if !s.Move(engine.DirLeft).Moved {
		t.Fatal("left did not move")
	}
	second := s.Move(engine.DirRight)
	if !second.Moved || second.Spawned == nil {
		t.Fatalf("right result = %+v", second)
	}

	tiles := s.NewTiles()
	if len(tiles) != 1 || tiles[0] != *second.Spawned {
		t.Errorf("NewTiles() = %v, want only %v", tiles, *second.Spawned)
	}
	if got := s.Grid()[tiles[0].Row][tiles[0].Col]; got == 0 {
		t.Errorf("new tile %v points at an empty cell", tiles[0])
	}
}

func TestSessionWinLatch(t *testing.T) {
	grid := engine.Grid{
		{4, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 4, 4},
	}
	s := restored(t, rulesFor(4, 8), grid, false, false)

	result := s.Move(engine.DirLeft)
	if !result.NewlyWon || result.Status != StatusWon {
		t.Fatalf("result = %+v, want newly won", result)
	}

	// Moves are rejected while the win message is up
	before := s.Grid()
	if r := s.Move(engine.DirRight); r.Moved {
		t.Error("move accepted while paused on win")
	}
	if !s.Grid().Equal(before) {
		t.Error("grid changed while paused on win")
	}

	if !s.Continue() {
		t.Fatal("Continue() refused after a win")
	}
	if s.Status() != StatusWonContinuing {
		t.Errorf("status = %s, want won_continuing", s.Status())
	}
	if s.Continue() {
		t.Error("second Continue() should report nothing to continue")
	}

	// Reaching the win tile again does not re-trigger the win
	result = s.Move(engine.DirRight)
	if !result.Moved || result.NewlyWon || result.Status != StatusWonContinuing {
		t.Errorf("result after continuing = %+v", result)
	}
	if !s.Won() {
		t.Error("won latch must never clear")
	}
}

func TestSessionContinueWithoutWin(t *testing.T) {
	s := NewSession(DefaultRules(), firstCell{})
	s.Start()
	if s.Continue() {
		t.Error("Continue() without a win should do nothing")
	}
	if s.Status() != StatusActive {
		t.Errorf("status = %s", s.Status())
	}
}

func TestSessionGameOver(t *testing.T) {
	grid := engine.Grid{
		{2, 2},
		{8, 4},
	}
	s := restored(t, rulesFor(2, 2048), grid, false, false)

	result := s.Move(engine.DirLeft)
	if !result.Moved || result.Status != StatusOver {
		t.Fatalf("result = %+v, want game over", result)
	}
	want := engine.Grid{{4, 2}, {8, 4}}
	if !s.Grid().Equal(want) {
		t.Errorf("grid = %v, want %v", s.Grid(), want)
	}

	score := s.Score()
	for _, dir := range engine.Directions {
		if r := s.Move(dir); r.Moved || r.Status != StatusOver {
			t.Errorf("Move(%s) after game over = %+v", dir, r)
		}
	}
	if s.Score() != score {
		t.Error("score changed after game over")
	}
}

func TestSessionWinBeatsGameOver(t *testing.T) {
	grid := engine.Grid{
		{8, 8},
		{2, 4},
	}
	s := restored(t, rulesFor(2, 16), grid, false, false)

	result := s.Move(engine.DirLeft)
	// [[16,2],[2,4]] is locked, but the win is reported first
	if result.Status != StatusWon || !result.NewlyWon {
		t.Fatalf("result = %+v, want won", result)
	}

	s.Continue()
	if s.Status() != StatusOver {
		t.Errorf("continuing on a locked board = %s, want over", s.Status())
	}
}

func TestRestoreSession(t *testing.T) {
	t.Run("fields", func(t *testing.T) {
		grid := engine.Grid{{2, 0}, {0, 8}}
		s := RestoreSession(rulesFor(2, 16), firstCell{}, persist.Snapshot{Grid: grid, Score: 12, Won: true, KeepPlaying: true})
		if !s.Grid().Equal(grid) || s.Score() != 12 || s.Status() != StatusWonContinuing {
			t.Errorf("restored %v score=%d status=%s", s.Grid(), s.Score(), s.Status())
		}
		if len(s.NewTiles()) != 0 {
			t.Error("restored sessions have no new tiles")
		}
	})

	t.Run("keepPlaying without win is dropped", func(t *testing.T) {
		s := RestoreSession(rulesFor(2, 16), firstCell{}, persist.Snapshot{Grid: engine.Grid{{2, 0}, {0, 0}}, KeepPlaying: true})
		if s.Status() != StatusActive {
			t.Errorf("status = %s, want active", s.Status())
		}
	})

	t.Run("empty grid starts fresh", func(t *testing.T) {
		s := RestoreSession(DefaultRules(), firstCell{}, persist.Snapshot{Grid: engine.NewGrid(4), Score: 500})
		if s.Grid().Occupied() != 2 || s.Score() != 0 {
			t.Errorf("grid=%v score=%d, want fresh game", s.Grid(), s.Score())
		}
	})

	t.Run("wrong size starts fresh", func(t *testing.T) {
		s := RestoreSession(DefaultRules(), firstCell{}, persist.Snapshot{Grid: engine.Grid{{2, 2}, {2, 2}}, Score: 8})
		if s.Grid().Size() != 4 || s.Score() != 0 {
			t.Errorf("grid=%v score=%d, want fresh 4x4", s.Grid(), s.Score())
		}
	})

	t.Run("locked board restores as over", func(t *testing.T) {
		s := RestoreSession(rulesFor(2, 2048), firstCell{}, persist.Snapshot{Grid: engine.Grid{{2, 4}, {4, 2}}})
		if s.Status() != StatusOver {
			t.Errorf("status = %s, want over", s.Status())
		}
	})
}

func TestSessionRestart(t *testing.T) {
	s := restored(t, rulesFor(2, 16), engine.Grid{{8, 8}, {2, 4}}, false, false)
	s.Move(engine.DirLeft)

	s.Restart()
	if s.Score() != 0 || s.Won() || s.Status() != StatusActive || s.Grid().Occupied() != 2 {
		t.Errorf("after restart: score=%d won=%v status=%s grid=%v", s.Score(), s.Won(), s.Status(), s.Grid())
	}
}

func TestSessionSnapshot(t *testing.T) {
	s := restored(t, rulesFor(4, 8), engine.Grid{
		{4, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, false, false)
	s.Move(engine.DirLeft)
	s.Continue()

	snap := s.Snapshot()
	if snap.Score != 8 || !snap.Won || !snap.KeepPlaying || !snap.Grid.Equal(s.Grid()) {
		t.Errorf("Snapshot() = %+v", snap)
	}

	snap.Grid[0][0] = 1024
	if s.Grid()[0][0] == 1024 {
		t.Error("snapshot grid aliases the session grid")
	}
}

func TestSessionScoreNeverDecreases(t *testing.T) {
	s := NewSession(DefaultRules(), rand.New(rand.NewPCG(7, 11)))
	s.Start()

	last := 0
	for i := range 2000 {
		s.Move(engine.Directions[i%len(engine.Directions)])
		if s.Score() < last {
			t.Fatalf("score decreased from %d to %d", last, s.Score())
		}
		last = s.Score()
		if err := s.Grid().Validate(); err != nil {
			t.Fatalf("invalid grid after %d moves: %v", i, err)
		}
		if s.Status() == StatusOver {
			break
		}
		if s.Status() == StatusWon {
			s.Continue()
		}
	}
}

func TestRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Errorf("DefaultRules() invalid: %v", err)
	}

	bad := []Rules{
		{Size: 1, WinTile: 2048, Spawn4Prob: 0.1},
		{Size: 4, WinTile: 2047, Spawn4Prob: 0.1},
		{Size: 4, WinTile: 4, Spawn4Prob: 0.1},
		{Size: 4, WinTile: 2048, Spawn4Prob: -0.1},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Errorf("Validate(%+v) should fail", r)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := map[Status]bool{
		StatusActive:        false,
		StatusWon:           true,
		StatusWonContinuing: false,
		StatusOver:          true,
	}
	for status, want := range tests {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
