// Package input translates raw key names and pointer gestures into game
// commands. It is shared by the terminal and web front ends so both accept
// the same bindings.
package input

import (
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

// DefaultSwipeThreshold is the minimum displacement, in pointer units, for a swipe.
const DefaultSwipeThreshold = 30

// Command represents a semantic action, abstracted from physical key presses.
type Command int

const (
	CommandNone     Command = iota
	CommandMove             // Arrows, WASD, hjkl
	CommandContinue         // C, Enter - keep playing after a win
	CommandRestart          // R, N - start a new game
	CommandBack             // B, Escape - return to the previous screen
	CommandQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the command.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "None"
	case CommandMove:
		return "Move"
	case CommandContinue:
		return "Continue"
	case CommandRestart:
		return "Restart"
	case CommandBack:
		return "Back"
	case CommandQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Event is a single decoded input. Direction is only meaningful for CommandMove.
type Event struct {
	Command   Command
	Direction engine.Direction
}

// Move returns a move event for the given direction.
func Move(dir engine.Direction) Event {
	return Event{Command: CommandMove, Direction: dir}
}

// KeyDirection maps a key name to a direction.
// Accepts browser names (ArrowUp), Bubble Tea names (up) and WASD/hjkl in either case.
func KeyDirection(key string) (engine.Direction, bool) {
	switch key {
	case "ArrowUp", "up", "w", "W", "k":
		return engine.DirUp, true
	case "ArrowDown", "down", "s", "S", "j":
		return engine.DirDown, true
	case "ArrowLeft", "left", "a", "A", "h":
		return engine.DirLeft, true
	case "ArrowRight", "right", "d", "D", "l":
		return engine.DirRight, true
	}
	return 0, false
}

// MapKey translates a key name to an event. Unknown keys map to CommandNone.
func MapKey(key string) Event {
	if dir, ok := KeyDirection(key); ok {
		return Move(dir)
	}

	switch key {
	case "ctrl+c", "q", "Q":
		return Event{Command: CommandQuit}
	case "c", "C", "enter", "Enter":
		return Event{Command: CommandContinue}
	case "r", "R", "n", "N":
		return Event{Command: CommandRestart}
	case "b", "esc", "Escape":
		return Event{Command: CommandBack}
	}
	return Event{Command: CommandNone}
}

// Swipe is a pointer displacement from press to release.
// Positive DY points down, as in screen coordinates.
type Swipe struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Direction returns the swipe direction along its dominant axis.
// Displacements shorter than threshold on both axes are ignored.
func (s Swipe) Direction(threshold int) (engine.Direction, bool) {
	ax, ay := core.Abs(s.DX), core.Abs(s.DY)
	if max(ax, ay) < threshold || max(ax, ay) == 0 {
		return 0, false
	}

	if ax > ay {
		if s.DX > 0 {
			return engine.DirRight, true
		}
		return engine.DirLeft, true
	}
	if s.DY > 0 {
		return engine.DirDown, true
	}
	return engine.DirUp, true
}

// SwipeTracker pairs pointer press and release positions into swipes.
type SwipeTracker struct {
	Threshold int

	startX, startY int
	active         bool
}

// NewSwipeTracker creates a tracker with the given threshold.
// A non-positive threshold falls back to DefaultSwipeThreshold.
func NewSwipeTracker(threshold int) *SwipeTracker {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &SwipeTracker{Threshold: threshold}
}

// Press records the start of a gesture.
func (t *SwipeTracker) Press(x, y int) {
	t.startX, t.startY = x, y
	t.active = true
}

// Cancel drops the gesture in progress, e.g. when a second pointer appears.
func (t *SwipeTracker) Cancel() {
	t.active = false
}

// Release ends the gesture and returns its direction, if any.
func (t *SwipeTracker) Release(x, y int) (engine.Direction, bool) {
	if !t.active {
		return 0, false
	}
	t.active = false
	return Swipe{DX: x - t.startX, DY: y - t.startY}.Direction(t.Threshold)
}
