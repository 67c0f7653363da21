package web

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/input"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 16
)

// client is one browser connection playing one game. Only the read pump
// touches the controller, so turns stay sequential.
type client struct {
	conn           *websocket.Conn
	ctrl           *game.Controller
	swipeThreshold int
	send           chan []byte
	logger         *log.Logger
}

func newClient(conn *websocket.Conn, ctrl *game.Controller, swipeThreshold int, logger *log.Logger) *client {
	return &client{
		conn:           conn,
		ctrl:           ctrl,
		swipeThreshold: swipeThreshold,
		send:           make(chan []byte, sendBuffer),
		logger:         logger,
	}
}

// readPump applies client messages until the connection closes.
func (c *client) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // A failed deadline surfaces as a read error
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.pushState()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read error", "error", err)
			}
			return
		}
		c.handle(data)
	}
}

// handle applies one message and pushes the new state if the game changed.
func (c *client) handle(data []byte) {
	msg, err := DecodeClientMessage(data)
	if err != nil {
		c.pushError(err)
		return
	}
	ev, err := msg.Event(c.swipeThreshold)
	if err != nil {
		c.pushError(err)
		return
	}
	if ev.Command == input.CommandNone {
		return
	}
	if c.ctrl.HandleEvent(ev) {
		c.pushState()
	}
}

// writePump writes queued messages and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // A failed deadline surfaces as a write error
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				//nolint:errcheck // Best-effort close frame
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // A failed deadline surfaces as a write error
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) pushState() {
	c.push(StateMessage{Type: TypeState, Profile: c.ctrl.Profile(), View: c.ctrl.View()})
}

func (c *client) pushError(err error) {
	c.push(ErrorMessage{Type: TypeError, Message: err.Error()})
}

// push queues a message, dropping it if the browser is not keeping up.
func (c *client) push(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("marshal error", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message")
	}
}
