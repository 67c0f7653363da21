package game

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/input"
	"github.com/vovakirdan/tui-2048/internal/persist"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// ScoreRecorder stores finished games. *storage.Store satisfies it.
type ScoreRecorder interface {
	SaveScore(entry storage.ScoreEntry) (int64, error)
}

// View is everything a renderer needs for one frame.
type View struct {
	Grid     engine.Grid       `json:"grid"`
	NewTiles []engine.Position `json:"newTiles"`
	Score    int               `json:"score"`
	Best     int               `json:"best"`
	Status   Status            `json:"status"`
	WinTile  int               `json:"winTile"`
	Size     int               `json:"size"`
}

// Player describes who is playing and where their records live.
type Player struct {
	Profile string
	Store   persist.Store // nil disables persistence
	Scores  ScoreRecorder // nil skips the scoreboard
	Logger  *log.Logger
}

// WithProfile returns a copy of the player under another profile.
func (p Player) WithProfile(profile string) Player {
	p.Profile = profile
	return p
}

// NewPlayerController scopes the player's records to the rules and starts
// or restores their game.
func NewPlayerController(p Player, rules Rules, rng engine.RandomSource) *Controller {
	records := persist.NewRecords(p.Store, p.Profile, p.Logger).ForVariant(rules.Variant())
	return NewController(rules, rng, records, p.Scores, p.Logger)
}

// Controller runs the full turn cycle for one player: apply the input,
// track the best score, persist both records and log the finished game.
// Like Session it expects to be driven from a single goroutine.
type Controller struct {
	session  *Session
	records  *persist.Records
	scores   ScoreRecorder
	logger   *log.Logger
	best     int
	recorded bool // finished game already written to the scoreboard
}

// NewController restores the profile's saved game or starts a fresh one.
// records and scores may be nil.
func NewController(rules Rules, rng engine.RandomSource, records *persist.Records, scores ScoreRecorder, logger *log.Logger) *Controller {
	if records == nil {
		records = persist.NewRecords(nil, "", logger)
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		records: records,
		scores:  scores,
		logger:  logger.With("profile", records.Profile()),
		best:    records.BestScore(),
	}

	if snap, ok := records.LoadSnapshot(rules.Size); ok {
		c.session = RestoreSession(rules, rng, snap)
		c.logger.Debug("restored session", "score", c.session.Score(), "status", c.session.Status())
	} else {
		c.session = NewSession(rules, rng)
		c.session.Start()
	}

	// A game restored in the over state was recorded before it was saved
	c.recorded = c.session.Status() == StatusOver
	c.sync()
	return c
}

// Session exposes the underlying session.
func (c *Controller) Session() *Session {
	return c.session
}

// Profile returns the persistence namespace of this controller.
func (c *Controller) Profile() string {
	return c.records.Profile()
}

// Best returns the best score.
func (c *Controller) Best() int {
	return c.best
}

// HandleEvent applies one input event and reports whether the game changed.
// Back and Quit are front-end concerns and are ignored here.
func (c *Controller) HandleEvent(ev input.Event) bool {
	switch ev.Command {
	case input.CommandMove:
		return c.Move(ev.Direction)
	case input.CommandContinue:
		return c.Continue()
	case input.CommandRestart:
		c.Restart()
		return true
	default:
		return false
	}
}

// Move runs one turn in the given direction.
func (c *Controller) Move(dir engine.Direction) bool {
	result := c.session.Move(dir)
	if !result.Moved {
		return false
	}

	c.logger.Debug("move", "dir", dir, "gained", result.ScoreGained, "score", c.session.Score())
	if result.NewlyWon {
		c.logger.Info("win tile reached", "tile", c.session.Rules().WinTile, "score", c.session.Score())
	}
	c.sync()
	return true
}

// Continue keeps playing after a win.
func (c *Controller) Continue() bool {
	if !c.session.Continue() {
		return false
	}
	c.logger.Debug("keep playing")
	c.sync()
	return true
}

// Restart abandons the current game and deals a new one. A game that
// reached the win tile counts as finished and goes to the scoreboard first.
func (c *Controller) Restart() {
	if c.session.Won() && !c.recorded {
		c.recordFinished()
	}
	c.session.Restart()
	c.recorded = false
	c.logger.Debug("new game")
	c.sync()
}

// sync updates the best score, persists both records and, once per
// finished game, writes the scoreboard entry.
func (c *Controller) sync() {
	if score := c.session.Score(); score > c.best {
		c.best = score
		c.records.SaveBestScore(score)
	}
	c.records.SaveSnapshot(c.session.Snapshot())

	if c.session.Status() == StatusOver && !c.recorded {
		c.recorded = true
		c.recordFinished()
	}
}

func (c *Controller) recordFinished() {
	grid := c.session.Grid()
	entry := storage.ScoreEntry{
		Profile:   c.records.Profile(),
		BoardSize: grid.Size(),
		Score:     c.session.Score(),
		MaxTile:   grid.MaxTile(),
		Won:       c.session.Won(),
	}
	c.logger.Info("game finished", "score", entry.Score, "maxTile", entry.MaxTile, "won", entry.Won, "status", c.session.Status())

	if c.scores == nil {
		return
	}
	if _, err := c.scores.SaveScore(entry); err != nil {
		c.logger.Warn("could not record finished game", "error", err)
	}
}

// View returns the current frame and clears the new-tile set.
func (c *Controller) View() View {
	return View{
		Grid:     c.session.Grid(),
		NewTiles: c.session.TakeNewTiles(),
		Score:    c.session.Score(),
		Best:     c.best,
		Status:   c.session.Status(),
		WinTile:  c.session.Rules().WinTile,
		Size:     c.session.Rules().Size,
	}
}
