package web

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/input"
)

// Message types exchanged over the WebSocket.
const (
	TypeKey      = "key"
	TypeMove     = "move"
	TypeSwipe    = "swipe"
	TypeContinue = "continue"
	TypeRestart  = "restart"
	TypeState    = "state"
	TypeError    = "error"
)

// ErrBadMessage marks client messages that cannot be decoded.
var ErrBadMessage = errors.New("web: bad message")

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
	Dir  string `json:"dir,omitempty"`
	DX   int    `json:"dx,omitempty"`
	DY   int    `json:"dy,omitempty"`
}

// StateMessage pushes the current frame to the browser.
type StateMessage struct {
	Type    string `json:"type"`
	Profile string `json:"profile"`
	game.View
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// DecodeClientMessage parses one client message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if msg.Type == "" {
		return ClientMessage{}, fmt.Errorf("%w: missing type", ErrBadMessage)
	}
	return msg, nil
}

// Event translates a client message to an input event. Keys only move tiles;
// restarting and continuing take their own messages. Keys and swipes that map
// to nothing yield CommandNone.
func (m ClientMessage) Event(swipeThreshold int) (input.Event, error) {
	switch m.Type {
	case TypeKey:
		if dir, ok := input.KeyDirection(m.Key); ok {
			return input.Move(dir), nil
		}
		return input.Event{Command: input.CommandNone}, nil
	case TypeMove:
		dir, err := engine.ParseDirection(m.Dir)
		if err != nil {
			return input.Event{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
		}
		return input.Move(dir), nil
	case TypeSwipe:
		if dir, ok := (input.Swipe{DX: m.DX, DY: m.DY}).Direction(swipeThreshold); ok {
			return input.Move(dir), nil
		}
		return input.Event{Command: input.CommandNone}, nil
	case TypeContinue:
		return input.Event{Command: input.CommandContinue}, nil
	case TypeRestart:
		return input.Event{Command: input.CommandRestart}, nil
	}
	return input.Event{}, fmt.Errorf("%w: unknown type %q", ErrBadMessage, m.Type)
}
