package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/dropfour/connect4/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

// ServerMessage is everything the server writes to a socket.
type ServerMessage struct {
	Type     string           `json:"type"` // snapshot, event, error
	GameID   string           `json:"gameId,omitempty"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Event    *domain.Event    `json:"event,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// ClientMessage is what a browser may send.
type ClientMessage struct {
	Type   string `json:"type"` // move, snapshot
	Column *int   `json:"column,omitempty"`
}

// Client is one socket following one game. Only the write pump writes to
// conn; everyone else goes through send.
type Client struct {
	gameID string
	conn   *websocket.Conn
	send   chan ServerMessage

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(gameID string, conn *websocket.Conn) *Client {
	return &Client{
		gameID: gameID,
		conn:   conn,
		send:   make(chan ServerMessage, sendBuffer),
		done:   make(chan struct{}),
	}
}

// enqueue hands msg to the write pump. A client that cannot keep up is
// closed rather than allowed to block the game.
func (c *Client) enqueue(msg ServerMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("game_id", c.gameID).Warn("[WS] Client too slow, closing connection")
		c.close()
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump serializes all writes to the socket and keeps it alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				logrus.WithError(err).WithField("game_id", c.gameID).Debug("[WS] Write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
