// Package game runs 2048 sessions on top of the grid engine: the turn state
// machine, the controller that persists progress after every turn, and the
// terminal renderer.
package game

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/persist"
)

// Status is the session state in the turn protocol.
type Status string

const (
	StatusActive        Status = "active"
	StatusWon           Status = "won"            // Win reached, waiting for the player to continue
	StatusWonContinuing Status = "won_continuing" // Player chose to keep playing after a win
	StatusOver          Status = "over"
)

// Terminal reports whether the status requires player action to proceed.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusOver
}

// Rules configures a session.
type Rules struct {
	Size       int     // Board dimension N
	WinTile    int     // Tile value that wins the game
	Spawn4Prob float64 // Probability of spawning a 4 instead of a 2
}

// DefaultRules returns the classic 4x4 / 2048 rules.
func DefaultRules() Rules {
	return Rules{
		Size:       engine.DefaultSize,
		WinTile:    engine.DefaultWinTile,
		Spawn4Prob: engine.DefaultSpawn4Prob,
	}
}

// Validate checks that rules describe a playable board.
func (r Rules) Validate() error {
	if r.Size < 2 {
		return fmt.Errorf("game: board size %d is too small", r.Size)
	}
	if !engine.IsTileValue(r.WinTile) || r.WinTile < 8 {
		return fmt.Errorf("game: win tile %d must be a power of two >= 8", r.WinTile)
	}
	if r.Spawn4Prob < 0 || r.Spawn4Prob > 1 {
		return fmt.Errorf("game: spawn-4 probability %v out of [0,1]", r.Spawn4Prob)
	}
	return nil
}

// Variant names the records namespace for these rules. The classic rules
// use the empty variant.
func (r Rules) Variant() string {
	if r == DefaultRules() {
		return ""
	}
	v := fmt.Sprintf("%dx%d-%d", r.Size, r.Size, r.WinTile)
	if r.Spawn4Prob != engine.DefaultSpawn4Prob {
		v += fmt.Sprintf("-s%d", int(math.Round(r.Spawn4Prob*100)))
	}
	return v
}

// TurnResult describes what a single Move did.
type TurnResult struct {
	Moved       bool
	ScoreGained int
	Spawned     *engine.Position // Cell that received the new tile, if any
	NewlyWon    bool             // This move reached the win tile for the first time
	Status      Status
}

// Session holds one game in progress. It is not safe for concurrent use;
// front ends serialize input per session.
type Session struct {
	rules Rules
	rng   engine.RandomSource

	grid        engine.Grid
	score       int
	won         bool
	keepPlaying bool
	over        bool
	newTiles    []engine.Position
}

// NewSession creates a session with an empty board. Call Start to deal the
// opening tiles, or use RestoreSession.
func NewSession(rules Rules, rng engine.RandomSource) *Session {
	return &Session{
		rules: rules,
		rng:   rng,
		grid:  engine.NewGrid(rules.Size),
	}
}

// RestoreSession rebuilds a session from a validated snapshot.
// An all-empty grid restores nothing and starts fresh instead.
func RestoreSession(rules Rules, rng engine.RandomSource, snap persist.Snapshot) *Session {
	s := NewSession(rules, rng)
	if snap.Grid.Size() != rules.Size || snap.Grid.Occupied() == 0 {
		s.Start()
		return s
	}

	s.grid = snap.Grid.Clone()
	s.score = snap.Score
	s.won = snap.Won
	s.keepPlaying = snap.Won && snap.KeepPlaying
	s.over = s.canPlay() && !engine.CanMove(s.grid)
	return s
}

// Start resets the session and spawns two tiles.
func (s *Session) Start() {
	s.grid = engine.NewGrid(s.rules.Size)
	s.score = 0
	s.won = false
	s.keepPlaying = false
	s.over = false
	s.newTiles = nil

	s.spawn()
	s.spawn()
}

// Restart is an alias for Start used by the "new game" and "try again" actions.
func (s *Session) Restart() {
	s.Start()
}

func (s *Session) spawn() *engine.Position {
	pos, ok := engine.SpawnRandomTile(s.grid, s.rng, s.rules.Spawn4Prob)
	if !ok {
		return nil
	}
	s.newTiles = append(s.newTiles, pos)
	return &pos
}

// canPlay reports whether moves are accepted, ignoring the Over check.
func (s *Session) canPlay() bool {
	return !s.won || s.keepPlaying
}

// Move applies one player move.
// Moves are ignored when the game is over or paused on a win, and a move that
// changes nothing never spawns a tile or touches the score.
func (s *Session) Move(dir engine.Direction) TurnResult {
	if s.over || !s.canPlay() {
		return TurnResult{Status: s.Status()}
	}

	next, moved, gained := engine.ApplyMove(s.grid, dir)
	if !moved {
		return TurnResult{Status: s.Status()}
	}

	s.grid = next
	s.score += gained
	s.newTiles = nil
	result := TurnResult{
		Moved:       true,
		ScoreGained: gained,
		Spawned:     s.spawn(),
	}

	switch {
	case !s.won && engine.HasWon(s.grid, s.rules.WinTile):
		s.won = true
		result.NewlyWon = true
	case !engine.CanMove(s.grid):
		s.over = true
	}

	result.Status = s.Status()
	return result
}

// Continue lets the player keep playing after a win.
// It returns false when there is no pending win to continue from.
func (s *Session) Continue() bool {
	if !s.won || s.keepPlaying {
		return false
	}
	s.keepPlaying = true
	if !engine.CanMove(s.grid) {
		s.over = true
	}
	return true
}

// Status derives the turn-protocol state.
func (s *Session) Status() Status {
	switch {
	case s.over:
		return StatusOver
	case s.won && !s.keepPlaying:
		return StatusWon
	case s.won:
		return StatusWonContinuing
	default:
		return StatusActive
	}
}

// Grid returns a copy of the board.
func (s *Session) Grid() engine.Grid {
	return s.grid.Clone()
}

// Score returns the current score.
func (s *Session) Score() int {
	return s.score
}

// Won reports whether the win tile has been reached this session.
func (s *Session) Won() bool {
	return s.won
}

// Rules returns the session rules.
func (s *Session) Rules() Rules {
	return s.rules
}

// NewTiles returns the cells that received a tile in the latest mutation
// without clearing them.
func (s *Session) NewTiles() []engine.Position {
	return append([]engine.Position(nil), s.newTiles...)
}

// TakeNewTiles returns and clears the new-tile set. Renderers call this once per frame.
func (s *Session) TakeNewTiles() []engine.Position {
	tiles := s.newTiles
	s.newTiles = nil
	return tiles
}

// Snapshot captures the persisted part of the session.
func (s *Session) Snapshot() persist.Snapshot {
	return persist.Snapshot{
		Grid:        s.grid.Clone(),
		Score:       s.score,
		Won:         s.won,
		KeepPlaying: s.keepPlaying,
	}
}
